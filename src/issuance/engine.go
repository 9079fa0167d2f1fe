// Package issuance turns validated seat inventory into concrete tickets.
//
// Refunded tickets and unassigned pool placeholders of the seat type are handed
// out first. Only the remainder is minted, numbered after the highest seat
// number the seat type has ever used. The engine assumes the caller already
// took the seats from the inventory ledger in the same transaction.
package issuance

import (
	"context"
	"fmt"
	"livevibe/src/config"
	"livevibe/src/lib"
	"livevibe/src/models"
	"time"

	"github.com/google/uuid"
)

type Store interface {
	FindReusableTickets(ctx context.Context, seatTypeID uuid.UUID, limit int) ([]models.Ticket, error)
	MaxSeatNumber(ctx context.Context, seatTypeID uuid.UUID) (int, error)
}

type Engine struct {
	store     Store
	qr        lib.QRGenerator
	ticketURL func(uuid.UUID) string
	now       func() time.Time
}

type Option func(*Engine)

func WithTicketURL(fn func(uuid.UUID) string) Option {
	return func(e *Engine) { e.ticketURL = fn }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(store Store, qr lib.QRGenerator, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		qr:        qr,
		ticketURL: VerificationURL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// VerificationURL is the address a scanned ticket code resolves to.
func VerificationURL(ticketID uuid.UUID) string {
	return fmt.Sprintf("%s/api/tickets/%s", config.GetPublicBaseURL(), ticketID)
}

type Allocation struct {
	Reused []models.Ticket
	Minted []models.Ticket
	// PreviousOrderIDs are the orders reused tickets were taken from.
	PreviousOrderIDs []uuid.UUID
}

func (a *Allocation) Tickets() []models.Ticket {
	out := make([]models.Ticket, 0, len(a.Reused)+len(a.Minted))
	out = append(out, a.Reused...)
	return append(out, a.Minted...)
}

func (a *Allocation) ReusedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(a.Reused))
	for i, t := range a.Reused {
		ids[i] = t.ID
	}
	return ids
}

// Issue allocates quantity tickets of seatType to orderID. Nothing is persisted.
func (e *Engine) Issue(ctx context.Context, seatType *models.EventSeatType, orderID uuid.UUID, quantity int) (*Allocation, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("issuance: quantity must be positive, got %d", quantity)
	}
	reusable, err := e.store.FindReusableTickets(ctx, seatType.ID, quantity)
	if err != nil {
		return nil, fmt.Errorf("issuance: finding reusable tickets: %w", err)
	}

	alloc := &Allocation{}
	seenOrders := map[uuid.UUID]bool{}
	for _, t := range reusable {
		if !t.IsReusable() {
			return nil, fmt.Errorf("issuance: ticket %s is still sold", t.ID)
		}
		if t.OrderID != nil && *t.OrderID != orderID && !seenOrders[*t.OrderID] {
			seenOrders[*t.OrderID] = true
			alloc.PreviousOrderIDs = append(alloc.PreviousOrderIDs, *t.OrderID)
		}
		oid := orderID
		t.OrderID = &oid
		t.WasRefunded = false
		t.Price = seatType.Price
		alloc.Reused = append(alloc.Reused, t)
	}

	remaining := quantity - len(alloc.Reused)
	if remaining == 0 {
		return alloc, nil
	}

	last, err := e.store.MaxSeatNumber(ctx, seatType.ID)
	if err != nil {
		return nil, fmt.Errorf("issuance: reading last seat number: %w", err)
	}
	now := e.now().UTC()
	for i := 1; i <= remaining; i++ {
		oid := orderID
		t := models.Ticket{
			ID:          uuid.New(),
			EventID:     seatType.EventID,
			SeatTypeID:  seatType.ID,
			SeatNumber:  last + i,
			Seat:        seatType.SeatLabel(last + i),
			OrderID:     &oid,
			Price:       seatType.Price,
			WasRefunded: false,
			CreatedAt:   now,
		}
		code, err := e.qr.Generate(e.ticketURL(t.ID))
		if err != nil {
			return nil, fmt.Errorf("issuance: generating qr code for %s: %w", t.ID, err)
		}
		t.QRCode = &code
		alloc.Minted = append(alloc.Minted, t)
	}
	return alloc, nil
}
