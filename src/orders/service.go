// Package orders runs the purchase and refund workflows.
//
// Every workflow validates, mutates the ledger and writes tickets and orders
// inside one transaction. Notifications go out only after the commit and their
// failures are logged, never returned.
package orders

import (
	"context"
	"errors"
	"fmt"
	"livevibe/src/inventory"
	"livevibe/src/issuance"
	"livevibe/src/lib"
	"livevibe/src/lib/mailer"
	"livevibe/src/models"
	"livevibe/src/monitoring"
	"livevibe/src/types"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	inventory.Store
	issuance.Store

	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	TicketOrderID(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
	GetTicketForUpdate(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateOrderRefunded(ctx context.Context, orderID uuid.UUID, refunded bool) error
	CreateTickets(ctx context.Context, tickets []models.Ticket) error
	AssignTickets(ctx context.Context, ticketIDs []uuid.UUID, orderID uuid.UUID, price decimal.Decimal) error
	MarkTicketsRefunded(ctx context.Context, ticketIDs []uuid.UUID) (int64, error)
	CountActiveTicketsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	DeleteOrphanOrders(ctx context.Context, ids ...uuid.UUID) (int64, error)
}

type Service struct {
	repo          Repository
	notifier      mailer.Notifier
	qr            lib.QRGenerator
	now           func() time.Time
	ticketURL     func(uuid.UUID) string
	notifyTimeout time.Duration
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTicketURL(fn func(uuid.UUID) string) Option {
	return func(s *Service) { s.ticketURL = fn }
}

func WithNotifyTimeout(d time.Duration) Option {
	return func(s *Service) { s.notifyTimeout = d }
}

func NewService(repo Repository, notifier mailer.Notifier, qr lib.QRGenerator, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		notifier:      notifier,
		qr:            qr,
		now:           time.Now,
		ticketURL:     issuance.VerificationURL,
		notifyTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type PlaceOrderInput struct {
	EventID    uuid.UUID
	SeatTypeID uuid.UUID
	Quantity   int
	Buyer      types.BuyerInfo
}

// PlaceOrder sells quantity seats of one seat type to userID.
func (s *Service) PlaceOrder(ctx context.Context, userID uuid.UUID, in PlaceOrderInput) (*types.OrderSummary, error) {
	start := time.Now()
	var (
		order   models.Order
		event   *models.Event
		tickets []models.Ticket
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetUser(ctx, userID); err != nil {
			return notFoundOr(err, "User not found.")
		}
		var err error
		event, err = s.repo.GetEvent(ctx, in.EventID)
		if err != nil {
			return notFoundOr(err, "Event not found.")
		}
		if event.HasHappened(s.now()) {
			return types.InvalidState("Event already happened.")
		}
		seatType, err := s.repo.GetSeatType(ctx, in.SeatTypeID)
		if err != nil {
			return notFoundOr(err, "Seat type not found.")
		}
		if seatType.EventID != event.ID {
			return types.NotFound("Seat type not found.")
		}
		if in.Quantity <= 0 {
			return types.Validation("Quantity must be greater than zero.")
		}
		if seatType.AvailableSeats < in.Quantity {
			return types.InvalidState(inventory.MSG_NOT_ENOUGH_SEATS)
		}
		if err := inventory.NewLedger(s.repo).Decrement(ctx, seatType.ID, in.Quantity); err != nil {
			return err
		}

		order = models.Order{
			ID:         uuid.New(),
			UserID:     userID,
			FirstName:  in.Buyer.FirstName,
			LastName:   in.Buyer.LastName,
			Email:      in.Buyer.Email,
			TotalPrice: seatType.Price.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2),
		}
		order.CreatedAt = s.now().UTC()
		if err := s.repo.CreateOrder(ctx, &order); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		alloc, err := s.allocate(ctx, seatType, order.ID, in.Quantity)
		if err != nil {
			return err
		}
		tickets = alloc.Tickets()
		return nil
	})
	monitoring.ObserveOperation("place_order", start, err)
	if err != nil {
		return nil, err
	}

	subject, body, err := orderConfirmationEmail(&order, event, tickets)
	if err != nil {
		log.Printf("Error rendering confirmation for order %s: %s\n", order.ID, err.Error())
	} else {
		s.notify(ctx, "order_confirmation", order.Email, subject, body)
	}
	return summarize(&order, tickets), nil
}

// PurchaseTicket sells one specific ticket as a single-ticket order. The buyer
// details come from the user record and no confirmation is sent.
func (s *Service) PurchaseTicket(ctx context.Context, userID, ticketID uuid.UUID) (*types.OrderSummary, error) {
	start := time.Now()
	var (
		order  models.Order
		ticket *models.Ticket
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		user, err := s.repo.GetUser(ctx, userID)
		if err != nil {
			return notFoundOr(err, "User not found.")
		}
		ticket, err = s.repo.GetTicketForUpdate(ctx, ticketID)
		if err != nil {
			return notFoundOr(err, "Ticket not found.")
		}
		event, err := s.repo.GetEvent(ctx, ticket.EventID)
		if err != nil {
			return notFoundOr(err, "Event not found.")
		}
		if event.HasHappened(s.now()) {
			return types.InvalidState("Event already happened.")
		}
		if ticket.IsActive() {
			return types.Conflict("Ticket already purchased.")
		}
		seatType, err := s.repo.GetSeatType(ctx, ticket.SeatTypeID)
		if err != nil {
			return notFoundOr(err, "Seat type not found.")
		}
		if err := inventory.NewLedger(s.repo).Decrement(ctx, seatType.ID, 1); err != nil {
			return err
		}

		order = models.Order{
			ID:         uuid.New(),
			UserID:     user.ID,
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			Email:      user.Email,
			TotalPrice: seatType.Price.Round(2),
		}
		order.CreatedAt = s.now().UTC()
		if err := s.repo.CreateOrder(ctx, &order); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}
		if err := s.repo.AssignTickets(ctx, []uuid.UUID{ticket.ID}, order.ID, seatType.Price); err != nil {
			return fmt.Errorf("assigning ticket: %w", err)
		}
		if ticket.OrderID != nil {
			if err := s.deleteOrphans(ctx, *ticket.OrderID); err != nil {
				return err
			}
		}
		oid := order.ID
		ticket.OrderID = &oid
		ticket.WasRefunded = false
		ticket.Price = seatType.Price
		monitoring.TicketsIssued(1, 0)
		return nil
	})
	monitoring.ObserveOperation("purchase_ticket", start, err)
	if err != nil {
		return nil, err
	}
	return summarize(&order, []models.Ticket{*ticket}), nil
}

// allocate issues tickets for the order and persists them.
func (s *Service) allocate(ctx context.Context, seatType *models.EventSeatType, orderID uuid.UUID, quantity int) (*issuance.Allocation, error) {
	engine := issuance.NewEngine(s.repo, s.qr, issuance.WithTicketURL(s.ticketURL), issuance.WithClock(s.now))
	alloc, err := engine.Issue(ctx, seatType, orderID, quantity)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AssignTickets(ctx, alloc.ReusedIDs(), orderID, seatType.Price); err != nil {
		return nil, fmt.Errorf("assigning reused tickets: %w", err)
	}
	if err := s.repo.CreateTickets(ctx, alloc.Minted); err != nil {
		return nil, fmt.Errorf("creating tickets: %w", err)
	}
	if err := s.deleteOrphans(ctx, alloc.PreviousOrderIDs...); err != nil {
		return nil, err
	}
	monitoring.TicketsIssued(len(alloc.Reused), len(alloc.Minted))
	return alloc, nil
}

// deleteOrphans removes the given orders if reuse left them without tickets.
func (s *Service) deleteOrphans(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := s.repo.DeleteOrphanOrders(ctx, ids...)
	if err != nil {
		return fmt.Errorf("deleting emptied orders: %w", err)
	}
	monitoring.OrphanOrdersDeleted(n)
	return nil
}

// RefundTicket refunds one ticket of an order owned by userID.
//
// The order row is locked before the ticket row, the same order RefundOrder
// uses, so sibling refunds of one order serialize and the last one sees no
// active tickets left.
func (s *Service) RefundTicket(ctx context.Context, userID, ticketID uuid.UUID) error {
	start := time.Now()
	var (
		order  *models.Order
		ticket *models.Ticket
		event  *models.Event
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		orderID, err := s.repo.TicketOrderID(ctx, ticketID)
		if err != nil {
			return notFoundOr(err, "Ticket not found.")
		}
		if orderID == nil {
			return types.NotFound("Ticket has not been purchased.")
		}
		order, err = s.repo.GetOrderForUpdate(ctx, *orderID)
		if err != nil {
			return notFoundOr(err, "Order not found.")
		}
		ticket, err = s.repo.GetTicketForUpdate(ctx, ticketID)
		if err != nil {
			return notFoundOr(err, "Ticket not found.")
		}
		if ticket.OrderID == nil || *ticket.OrderID != order.ID {
			return types.Conflict("Ticket was modified by another request.")
		}
		if !order.BelongsTo(userID) {
			return types.Unauthorized("Ticket belongs to another user.")
		}
		if ticket.WasRefunded {
			return types.Conflict("Ticket already refunded.")
		}
		event, err = s.repo.GetEvent(ctx, ticket.EventID)
		if err != nil {
			return notFoundOr(err, "Event not found.")
		}
		if event.HasHappened(s.now()) {
			return types.InvalidState("Event already happened.")
		}

		n, err := s.repo.MarkTicketsRefunded(ctx, []uuid.UUID{ticket.ID})
		if err != nil {
			return fmt.Errorf("refunding ticket: %w", err)
		}
		if n != 1 {
			return types.Conflict("Ticket already refunded.")
		}
		if err := inventory.NewLedger(s.repo).Increment(ctx, ticket.SeatTypeID, 1); err != nil {
			return err
		}
		active, err := s.repo.CountActiveTicketsByOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("counting active tickets: %w", err)
		}
		if active == 0 {
			if err := s.repo.UpdateOrderRefunded(ctx, order.ID, true); err != nil {
				return fmt.Errorf("updating order: %w", err)
			}
			order.WasRefunded = true
		}
		return nil
	})
	monitoring.ObserveOperation("refund_ticket", start, err)
	if err != nil {
		return err
	}

	subject, body, err := ticketRefundEmail(order, ticket, event)
	if err != nil {
		log.Printf("Error rendering ticket refund for order %s: %s\n", order.ID, err.Error())
		return nil
	}
	s.notify(ctx, "ticket_refund", order.Email, subject, body)
	return nil
}

// RefundOrder refunds every remaining ticket of the order. It is rejected as a
// whole if any ticket's event already happened.
func (s *Service) RefundOrder(ctx context.Context, userID, orderID uuid.UUID) error {
	start := time.Now()
	var (
		order    *models.Order
		refunded []models.Ticket
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return notFoundOr(err, "Order not found.")
		}
		if !order.BelongsTo(userID) {
			return types.Unauthorized("Order belongs to another user.")
		}
		if order.WasRefunded {
			return types.Conflict("Order already refunded.")
		}
		if len(order.Tickets) == 0 {
			return types.InvalidState("Order has no tickets.")
		}

		now := s.now()
		perSeatType := map[uuid.UUID]int{}
		var ids []uuid.UUID
		for i := range order.Tickets {
			t := &order.Tickets[i]
			event := t.Event
			if event == nil {
				if event, err = s.repo.GetEvent(ctx, t.EventID); err != nil {
					return notFoundOr(err, "Event not found.")
				}
				t.Event = event
			}
			if event.HasHappened(now) {
				return types.InvalidState("Event already happened.")
			}
			if !t.WasRefunded {
				ids = append(ids, t.ID)
				perSeatType[t.SeatTypeID]++
				refunded = append(refunded, *t)
			}
		}

		if len(ids) == 0 {
			return types.Conflict("Order already refunded.")
		}

		n, err := s.repo.MarkTicketsRefunded(ctx, ids)
		if err != nil {
			return fmt.Errorf("refunding tickets: %w", err)
		}
		if n != int64(len(ids)) {
			return types.Conflict("Order was modified by another request.")
		}

		seatTypeIDs := make([]uuid.UUID, 0, len(perSeatType))
		for id := range perSeatType {
			seatTypeIDs = append(seatTypeIDs, id)
		}
		// Fixed lock order across concurrent refunds.
		sort.Slice(seatTypeIDs, func(i, j int) bool {
			return seatTypeIDs[i].String() < seatTypeIDs[j].String()
		})
		ledger := inventory.NewLedger(s.repo)
		for _, id := range seatTypeIDs {
			if err := ledger.Increment(ctx, id, perSeatType[id]); err != nil {
				return err
			}
		}
		if err := s.repo.UpdateOrderRefunded(ctx, order.ID, true); err != nil {
			return fmt.Errorf("updating order: %w", err)
		}
		order.WasRefunded = true
		return nil
	})
	monitoring.ObserveOperation("refund_order", start, err)
	if err != nil {
		return err
	}

	subject, body, err := orderRefundEmail(order, refunded)
	if err != nil {
		log.Printf("Error rendering order refund for order %s: %s\n", order.ID, err.Error())
		return nil
	}
	s.notify(ctx, "order_refund", order.Email, subject, body)
	return nil
}

// GetOrder returns the order to its owner or to an admin.
func (s *Service) GetOrder(ctx context.Context, userID, orderID uuid.UUID, isAdmin bool) (*models.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found.")
	}
	if !isAdmin && !order.BelongsTo(userID) {
		return nil, types.Unauthorized("Order belongs to another user.")
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

// SweepOrphanOrders deletes every order that no longer owns a ticket.
func (s *Service) SweepOrphanOrders(ctx context.Context) (int64, error) {
	var n int64
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.repo.DeleteOrphanOrders(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("sweeping orphan orders: %w", err)
	}
	monitoring.OrphanOrdersDeleted(n)
	return n, nil
}

func (s *Service) notify(ctx context.Context, kind, to, subject, body string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	if err := s.notifier.Send(ctx, to, subject, body); err != nil {
		log.Printf("Error sending %s to %s: %s\n", kind, to, err.Error())
		monitoring.NotificationFailed(kind)
	}
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NotFound(msg)
	}
	return fmt.Errorf("lookup failed: %w", err)
}

func summarize(order *models.Order, tickets []models.Ticket) *types.OrderSummary {
	ids := make([]uuid.UUID, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
	}
	return &types.OrderSummary{OrderID: order.ID, TicketIDs: ids, TotalPrice: order.TotalPrice}
}
