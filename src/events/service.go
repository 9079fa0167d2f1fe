// Package events holds the admin operations that touch seat inventory.
package events

import (
	"context"
	"errors"
	"fmt"
	"livevibe/src/inventory"
	"livevibe/src/models"
	"livevibe/src/monitoring"
	"livevibe/src/types"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	inventory.Store

	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	GetSeatTypeByName(ctx context.Context, eventID uuid.UUID, name string) (*models.EventSeatType, error)
	CreateSeatType(ctx context.Context, seatType *models.EventSeatType) error
	CreateTickets(ctx context.Context, tickets []models.Ticket) error
	OrderIDsByEvent(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
	DeleteEvent(ctx context.Context, eventID uuid.UUID) error
	CountTicketsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	CountActiveTicketsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	UpdateOrderRefunded(ctx context.Context, orderID uuid.UUID, refunded bool) error
	DeleteOrphanOrders(ctx context.Context, ids ...uuid.UUID) (int64, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateSeatTypeInput struct {
	EventID  uuid.UUID
	Name     string
	Capacity int
	Price    decimal.Decimal
}

// CreateSeatType stores the seat type together with one unassigned ticket per
// unit of capacity.
func (s *Service) CreateSeatType(ctx context.Context, in CreateSeatTypeInput) (*models.EventSeatType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, types.Validation("Seat type name is required.")
	}
	if in.Capacity <= 0 {
		return nil, types.Validation("Capacity must be greater than zero.")
	}
	if in.Price.IsNegative() {
		return nil, types.Validation("Price must not be negative.")
	}

	seatType := &models.EventSeatType{
		ID:             uuid.New(),
		EventID:        in.EventID,
		Name:           name,
		Capacity:       in.Capacity,
		AvailableSeats: in.Capacity,
		Price:          in.Price.Round(2),
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetEvent(ctx, in.EventID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("Event not found.")
			}
			return fmt.Errorf("loading event: %w", err)
		}
		_, err := s.repo.GetSeatTypeByName(ctx, in.EventID, name)
		if err == nil {
			return types.Conflict("Seat type with this name already exists for this event.")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("checking seat type name: %w", err)
		}
		if err := s.repo.CreateSeatType(ctx, seatType); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return types.Conflict("Seat type with this name already exists for this event.")
			}
			return fmt.Errorf("creating seat type: %w", err)
		}

		now := s.now().UTC()
		pool := make([]models.Ticket, in.Capacity)
		for i := range pool {
			pool[i] = models.Ticket{
				ID:         uuid.New(),
				EventID:    in.EventID,
				SeatTypeID: seatType.ID,
				SeatNumber: i + 1,
				Seat:       seatType.SeatLabel(i + 1),
				Price:      seatType.Price,
				CreatedAt:  now,
			}
		}
		if err := s.repo.CreateTickets(ctx, pool); err != nil {
			return fmt.Errorf("creating ticket pool: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Created seat type %s (%s) with %d tickets\n", seatType.ID, seatType.Name, seatType.Capacity)
	return seatType, nil
}

// DeleteEvent removes the event, its seat types and tickets. Orders that lose
// tickets get their refund flag recomputed and empty ones are deleted.
func (s *Service) DeleteEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var orphans int64
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("Event not found.")
			}
			return fmt.Errorf("loading event: %w", err)
		}
		affected, err := s.repo.OrderIDsByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("listing orders of event: %w", err)
		}
		if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
			return fmt.Errorf("deleting event: %w", err)
		}
		for _, orderID := range affected {
			remaining, err := s.repo.CountTicketsByOrder(ctx, orderID)
			if err != nil {
				return err
			}
			if remaining == 0 {
				continue
			}
			active, err := s.repo.CountActiveTicketsByOrder(ctx, orderID)
			if err != nil {
				return err
			}
			if active == 0 {
				if err := s.repo.UpdateOrderRefunded(ctx, orderID, true); err != nil {
					return err
				}
			}
		}
		if len(affected) > 0 {
			if orphans, err = s.repo.DeleteOrphanOrders(ctx, affected...); err != nil {
				return fmt.Errorf("deleting orphan orders: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	monitoring.OrphanOrdersDeleted(orphans)
	log.Printf("Deleted event %s, removed %d orphan orders\n", eventID, orphans)
	return orphans, nil
}

func (s *Service) AuditSeatType(ctx context.Context, seatTypeID uuid.UUID) (*types.SeatTypeAudit, error) {
	return inventory.NewLedger(s.repo).Audit(ctx, seatTypeID)
}
