package store

import (
	"context"
	"livevibe/src/models"

	"github.com/google/uuid"
)

func (s *Store) OrderIDsByEvent(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.conn(ctx).
		Model(&models.Ticket{}).
		Where("event_id = ? AND order_id IS NOT NULL", eventID).
		Distinct().
		Pluck("order_id", &ids).
		Error
	return ids, err
}

// DeleteEvent removes the event together with its seat types and tickets.
func (s *Store) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	db := s.conn(ctx)
	if err := db.Where("event_id = ?", eventID).Delete(&models.Ticket{}).Error; err != nil {
		return err
	}
	if err := db.Where("event_id = ?", eventID).Delete(&models.EventSeatType{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", eventID).Delete(&models.Event{}).Error
}
