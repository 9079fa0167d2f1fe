package store

import (
	"context"
	"livevibe/src/models"
	"livevibe/src/models/scopes"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Scopes(scopes.WithID(id)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := s.conn(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.conn(ctx).Omit("User", "Tickets").Create(order).Error
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.conn(ctx).
		Preload("Tickets", func(db *gorm.DB) *gorm.DB {
			return db.Order("tickets.seat_number ASC")
		}).
		Preload("Tickets.Event").
		Preload("Tickets.SeatType").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderForUpdate locks the order row, then loads it like GetOrder. Refunds
// take this lock before touching any of the order's tickets.
func (s *Store) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var locked models.Order
	err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&locked, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Preload("Tickets").
		Order("created_at DESC").
		Find(&orders).
		Error
	return orders, err
}

func (s *Store) UpdateOrderRefunded(ctx context.Context, orderID uuid.UUID, refunded bool) error {
	return s.conn(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("was_refunded", refunded).
		Error
}

func (s *Store) CountTicketsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := s.conn(ctx).
		Model(&models.Ticket{}).
		Where("order_id = ?", orderID).
		Count(&count).
		Error
	return count, err
}

func (s *Store) CountActiveTicketsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := s.conn(ctx).
		Model(&models.Ticket{}).
		Where("order_id = ?", orderID).
		Scopes(scopes.ActiveTickets).
		Count(&count).
		Error
	return count, err
}

// DeleteOrphanOrders removes orders without tickets. With ids it only
// considers those orders.
func (s *Store) DeleteOrphanOrders(ctx context.Context, ids ...uuid.UUID) (int64, error) {
	q := s.conn(ctx).
		Where("NOT EXISTS (SELECT 1 FROM tickets WHERE tickets.order_id = orders.id)")
	if len(ids) > 0 {
		q = q.Where("orders.id IN ?", ids)
	}
	res := q.Delete(&models.Order{})
	return res.RowsAffected, res.Error
}
