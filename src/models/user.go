package models

import (
	"livevibe/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User rows are managed by the account service; orders only read them.
type User struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	FirstName string    `gorm:"size:100" json:"first_name,omitempty"`
	LastName  string    `gorm:"size:100" json:"last_name,omitempty"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Role      string    `gorm:"size:32" json:"role,omitempty"`

	Orders []Order `gorm:"foreignKey:UserID" json:"orders,omitempty"`

	types.Timestamps
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
