package models

import (
	"livevibe/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is owned by the admin catalog. Deleting it removes its seat types and tickets.
type Event struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `json:"description,omitempty"`
	OrganizerID uuid.UUID `gorm:"type:uuid;index" json:"organizer_id"`
	CategoryID  uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	CityID      uuid.UUID `gorm:"type:uuid;index" json:"city_id"`
	Location    string    `json:"location,omitempty"`
	Time        time.Time `gorm:"not null" json:"time"`
	ImageURL    string    `json:"image_url,omitempty"`

	SeatTypes []EventSeatType `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"seat_types,omitempty"`
	Tickets   []Ticket        `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`

	types.Timestamps
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// HasHappened is true once the start time is not strictly after now.
func (event *Event) HasHappened(now time.Time) bool {
	return !event.Time.After(now)
}
