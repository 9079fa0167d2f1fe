package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type SimpleRequestParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

func (p SimpleRequestParams) UUID() uuid.UUID {
	return uuid.MustParse(p.ID)
}

type CreateOrderRequestBody struct {
	EventID    string `json:"eventId" binding:"required,uuid"`
	SeatTypeID string `json:"seatTypeId" binding:"required,uuid"`
	Quantity   int    `json:"quantity" binding:"required,min=1,max=100"`
	FirstName  string `json:"firstName" binding:"required,notblank,max=100"`
	LastName   string `json:"lastName" binding:"required,notblank,max=100"`
	Email      string `json:"email" binding:"required,email,max=255"`
}

type PurchaseTicketRequestBody struct {
	TicketID string `json:"ticketId" binding:"required,uuid"`
}

type CreateSeatTypeRequestBody struct {
	EventID  string          `json:"eventId" binding:"required,uuid"`
	Name     string          `json:"name" binding:"required,notblank,max=50"`
	Capacity int             `json:"capacity" binding:"required,min=1,max=100000"`
	Price    decimal.Decimal `json:"price"`
}

// BuyerInfo is the contact captured on an order.
type BuyerInfo struct {
	FirstName string
	LastName  string
	Email     string
}

type OrderSummary struct {
	OrderID    uuid.UUID       `json:"order_id"`
	TicketIDs  []uuid.UUID     `json:"ticket_ids"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type TicketVerificationDetails struct {
	EventTitle      string    `json:"event_title"`
	EventTime       time.Time `json:"event_time"`
	Seat            string    `json:"seat"`
	SeatingCategory string    `json:"seating_category"`
}

type TicketVerificationResponse struct {
	IsValid       bool                       `json:"is_valid"`
	Message       string                     `json:"message"`
	TicketDetails *TicketVerificationDetails `json:"ticket_details,omitempty"`
}

type SeatTypeAudit struct {
	SeatTypeID     uuid.UUID `json:"seat_type_id"`
	Capacity       int       `json:"capacity"`
	AvailableSeats int       `json:"available_seats"`
	ActiveTickets  int64     `json:"active_tickets"`
	Consistent     bool      `json:"consistent"`
}
