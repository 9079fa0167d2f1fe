package store

import (
	"context"
	"livevibe/src/models"
	"livevibe/src/models/scopes"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// FindReusableTickets locks up to limit tickets of the seat type that can be
// handed out again: refunded ones first, then unassigned pool placeholders.
func (s *Store) FindReusableTickets(ctx context.Context, seatTypeID uuid.UUID, limit int) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("seat_type_id = ?", seatTypeID).
		Scopes(scopes.ReusableTickets).
		Order("was_refunded DESC").
		Order("seat_number ASC").
		Limit(limit).
		Find(&tickets).
		Error
	return tickets, err
}

// TicketOrderID reads the ticket's order without locking the ticket row.
func (s *Store) TicketOrderID(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	var ticket models.Ticket
	if err := s.conn(ctx).Select("id", "order_id").First(&ticket, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return ticket.OrderID, nil
}

func (s *Store) MaxSeatNumber(ctx context.Context, seatTypeID uuid.UUID) (int, error) {
	var max int
	err := s.conn(ctx).
		Model(&models.Ticket{}).
		Where("seat_type_id = ?", seatTypeID).
		Select("COALESCE(MAX(seat_number), 0)").
		Scan(&max).
		Error
	return max, err
}

func (s *Store) CreateTickets(ctx context.Context, tickets []models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return s.conn(ctx).
		Omit("Event", "SeatType", "Order").
		CreateInBatches(tickets, 500).
		Error
}

func (s *Store) AssignTickets(ctx context.Context, ticketIDs []uuid.UUID, orderID uuid.UUID, price decimal.Decimal) error {
	if len(ticketIDs) == 0 {
		return nil
	}
	return s.conn(ctx).
		Model(&models.Ticket{}).
		Scopes(scopes.WithIDs(ticketIDs...)).
		Updates(map[string]any{
			"order_id":     orderID,
			"was_refunded": false,
			"price":        price,
		}).
		Error
}

// MarkTicketsRefunded flips only tickets that are still active and returns how
// many rows changed.
func (s *Store) MarkTicketsRefunded(ctx context.Context, ticketIDs []uuid.UUID) (int64, error) {
	if len(ticketIDs) == 0 {
		return 0, nil
	}
	res := s.conn(ctx).
		Model(&models.Ticket{}).
		Where("id IN ? AND was_refunded = ?", ticketIDs, false).
		Update("was_refunded", true)
	return res.RowsAffected, res.Error
}

func (s *Store) GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.conn(ctx).
		Preload("Event").
		Preload("SeatType").
		Preload("Order").
		First(&ticket, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetTicketForUpdate loads the ticket row with a lock held until commit.
func (s *Store) GetTicketForUpdate(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ticket, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *Store) SetTicketQRCode(ctx context.Context, id uuid.UUID, code string) error {
	return s.conn(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND qr_code IS NULL", id).
		Update("qr_code", code).
		Error
}
