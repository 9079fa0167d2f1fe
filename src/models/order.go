package models

import (
	"livevibe/src/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID          uuid.UUID       `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	FirstName   string          `gorm:"size:100;not null" json:"first_name"`
	LastName    string          `gorm:"size:100;not null" json:"last_name"`
	Email       string          `gorm:"size:255;not null" json:"email"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	WasRefunded bool            `gorm:"not null" json:"was_refunded"`

	User    *User    `json:"-"`
	Tickets []Ticket `gorm:"foreignKey:OrderID;constraint:OnDelete:SET NULL" json:"tickets,omitempty"`

	types.Timestamps
}

func (order *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return
}

func (order *Order) BelongsTo(userID uuid.UUID) bool {
	return order.UserID == userID
}
