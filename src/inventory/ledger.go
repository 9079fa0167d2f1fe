// Package inventory owns the available-seat counter of every seat type.
//
// Every mutation is a single conditional statement executed inside the caller's
// transaction, so the seat-type row stays locked until the surrounding order or
// refund commits or rolls back.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"livevibe/src/models"
	"livevibe/src/monitoring"
	"livevibe/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MSG_NOT_ENOUGH_SEATS = "Not enough available seats to fulfill request."

type Store interface {
	GetSeatType(ctx context.Context, id uuid.UUID) (*models.EventSeatType, error)
	// DecrementAvailableSeats subtracts n only when at least n seats are left.
	DecrementAvailableSeats(ctx context.Context, seatTypeID uuid.UUID, n int) (bool, error)
	// IncrementAvailableSeats adds n, never going above capacity.
	IncrementAvailableSeats(ctx context.Context, seatTypeID uuid.UUID, n int) (bool, error)
	CountActiveTicketsBySeatType(ctx context.Context, seatTypeID uuid.UUID) (int64, error)
}

type Ledger struct {
	store Store
}

func NewLedger(s Store) *Ledger {
	return &Ledger{store: s}
}

func (l *Ledger) Decrement(ctx context.Context, seatTypeID uuid.UUID, n int) error {
	if n <= 0 {
		return types.Validation("Quantity must be greater than zero.")
	}
	ok, err := l.store.DecrementAvailableSeats(ctx, seatTypeID, n)
	if err != nil {
		return fmt.Errorf("decrementing seats of %s: %w", seatTypeID, err)
	}
	if !ok {
		return types.InvalidState(MSG_NOT_ENOUGH_SEATS)
	}
	return nil
}

func (l *Ledger) Increment(ctx context.Context, seatTypeID uuid.UUID, n int) error {
	if n <= 0 {
		return types.Validation("Quantity must be greater than zero.")
	}
	ok, err := l.store.IncrementAvailableSeats(ctx, seatTypeID, n)
	if err != nil {
		return fmt.Errorf("incrementing seats of %s: %w", seatTypeID, err)
	}
	if !ok {
		return types.NotFound("Seat type not found.")
	}
	monitoring.SeatsRestored(n)
	return nil
}

// Audit compares the counter with the number of sold, non-refunded tickets.
func (l *Ledger) Audit(ctx context.Context, seatTypeID uuid.UUID) (*types.SeatTypeAudit, error) {
	seatType, err := l.store.GetSeatType(ctx, seatTypeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("Seat type not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("loading seat type %s: %w", seatTypeID, err)
	}
	active, err := l.store.CountActiveTicketsBySeatType(ctx, seatTypeID)
	if err != nil {
		return nil, fmt.Errorf("counting tickets of %s: %w", seatTypeID, err)
	}
	return &types.SeatTypeAudit{
		SeatTypeID:     seatType.ID,
		Capacity:       seatType.Capacity,
		AvailableSeats: seatType.AvailableSeats,
		ActiveTickets:  active,
		Consistent:     int64(seatType.Capacity-seatType.AvailableSeats) == active,
	}, nil
}
