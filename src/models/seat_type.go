package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EventSeatType struct {
	ID             uuid.UUID       `gorm:"primaryKey;type:uuid" json:"id"`
	EventID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_seat_type_event_name" json:"event_id"`
	Name           string          `gorm:"size:50;not null;uniqueIndex:idx_seat_type_event_name" json:"name"`
	Capacity       int             `gorm:"not null;check:chk_seat_type_capacity,capacity > 0" json:"capacity"`
	AvailableSeats int             `gorm:"not null;check:chk_seat_type_available,available_seats >= 0 AND available_seats <= capacity" json:"available_seats"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`

	Event   *Event   `json:"event,omitempty"`
	Tickets []Ticket `gorm:"foreignKey:SeatTypeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (seatType *EventSeatType) BeforeCreate(tx *gorm.DB) (err error) {
	if seatType.ID == uuid.Nil {
		seatType.ID = uuid.New()
	}
	return
}

// SeatLabel formats seat n as "Standard-003".
func (seatType *EventSeatType) SeatLabel(n int) string {
	return fmt.Sprintf("%s-%03d", seatType.Name, n)
}
