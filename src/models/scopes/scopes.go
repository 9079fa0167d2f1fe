package scopes

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func WithID(id uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithIDs(ids ...uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN ?", ids)
	}
}

// ActiveTickets keeps tickets held by an order that were not refunded.
func ActiveTickets(db *gorm.DB) *gorm.DB {
	return db.Where("order_id IS NOT NULL AND was_refunded = ?", false)
}

// ReusableTickets keeps refunded tickets and unassigned pool placeholders.
func ReusableTickets(db *gorm.DB) *gorm.DB {
	return db.Where("(was_refunded = ? OR order_id IS NULL)", true)
}
