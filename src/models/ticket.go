package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ticket is one allocatable seat. OrderID is nil while the ticket sits in the
// pool and keeps pointing at the last order after a refund until it is reused.
type Ticket struct {
	ID          uuid.UUID       `gorm:"primaryKey;type:uuid" json:"id"`
	EventID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"event_id"`
	SeatTypeID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_ticket_seat_number" json:"seat_type_id"`
	Seat        string          `gorm:"size:64;not null" json:"seat"`
	SeatNumber  int             `gorm:"not null;uniqueIndex:idx_ticket_seat_number" json:"seat_number"`
	OrderID     *uuid.UUID      `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	QRCode      *string         `gorm:"type:text" json:"-"`
	WasRefunded bool            `gorm:"not null" json:"was_refunded"`
	CreatedAt   time.Time       `json:"created_at"`

	Event    *Event         `json:"event,omitempty"`
	SeatType *EventSeatType `gorm:"foreignKey:SeatTypeID" json:"seat_type,omitempty"`
	Order    *Order         `json:"-"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}

// IsActive reports whether the ticket belongs to a live, non-refunded order.
func (ticket *Ticket) IsActive() bool {
	return ticket.OrderID != nil && !ticket.WasRefunded
}

// IsReusable reports whether the ticket can be handed to a new order: it is
// either an unsold pool placeholder or was refunded.
func (ticket *Ticket) IsReusable() bool {
	return ticket.OrderID == nil || ticket.WasRefunded
}
