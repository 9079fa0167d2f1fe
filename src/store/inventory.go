package store

import (
	"context"
	"livevibe/src/models"
	"livevibe/src/models/scopes"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) GetSeatType(ctx context.Context, id uuid.UUID) (*models.EventSeatType, error) {
	var seatType models.EventSeatType
	if err := s.conn(ctx).First(&seatType, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &seatType, nil
}

func (s *Store) GetSeatTypeByName(ctx context.Context, eventID uuid.UUID, name string) (*models.EventSeatType, error) {
	var seatType models.EventSeatType
	err := s.conn(ctx).
		Where("event_id = ? AND LOWER(name) = LOWER(?)", eventID, name).
		First(&seatType).
		Error
	if err != nil {
		return nil, err
	}
	return &seatType, nil
}

func (s *Store) CreateSeatType(ctx context.Context, seatType *models.EventSeatType) error {
	return s.conn(ctx).Omit("Event", "Tickets").Create(seatType).Error
}

func (s *Store) DecrementAvailableSeats(ctx context.Context, seatTypeID uuid.UUID, n int) (bool, error) {
	res := s.conn(ctx).
		Model(&models.EventSeatType{}).
		Where("id = ? AND available_seats >= ?", seatTypeID, n).
		Update("available_seats", gorm.Expr("available_seats - ?", n))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) IncrementAvailableSeats(ctx context.Context, seatTypeID uuid.UUID, n int) (bool, error) {
	res := s.conn(ctx).
		Model(&models.EventSeatType{}).
		Where("id = ?", seatTypeID).
		Update("available_seats", gorm.Expr("LEAST(available_seats + ?, capacity)", n))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) CountActiveTicketsBySeatType(ctx context.Context, seatTypeID uuid.UUID) (int64, error) {
	var count int64
	err := s.conn(ctx).
		Model(&models.Ticket{}).
		Where("seat_type_id = ?", seatTypeID).
		Scopes(scopes.ActiveTickets).
		Count(&count).
		Error
	return count, err
}
