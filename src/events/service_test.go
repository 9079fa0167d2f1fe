package events

import (
	"context"
	"errors"
	"livevibe/src/models"
	"livevibe/src/store/storetest"
	"livevibe/src/types"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSeatTypeBuildsPool(t *testing.T) {
	s := storetest.New()
	event := s.AddEvent(models.Event{Title: "Kalush Orchestra", Time: time.Now().Add(72 * time.Hour)})
	svc := NewService(s)

	seatType, err := svc.CreateSeatType(context.Background(), CreateSeatTypeInput{
		EventID:  event.ID,
		Name:     " VIP ",
		Capacity: 4,
		Price:    decimal.RequireFromString("1200.499"),
	})
	require.NoError(t, err)
	assert.Equal(t, "VIP", seatType.Name)
	assert.Equal(t, 4, seatType.AvailableSeats)
	assert.True(t, decimal.RequireFromString("1200.50").Equal(seatType.Price))

	pool := s.TicketsBySeatType(seatType.ID)
	require.Len(t, pool, 4)
	assert.Equal(t, "VIP-001", pool[0].Seat)
	assert.Equal(t, "VIP-004", pool[3].Seat)
	for _, ticket := range pool {
		assert.Nil(t, ticket.OrderID)
		assert.False(t, ticket.WasRefunded)
	}

	audit, err := svc.AuditSeatType(context.Background(), seatType.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
	assert.Zero(t, audit.ActiveTickets)
}

func TestCreateSeatTypeRejections(t *testing.T) {
	s := storetest.New()
	event := s.AddEvent(models.Event{Title: "Kalush Orchestra", Time: time.Now().Add(72 * time.Hour)})
	svc := NewService(s)
	ctx := context.Background()

	_, err := svc.CreateSeatType(ctx, CreateSeatTypeInput{EventID: uuid.New(), Name: "VIP", Capacity: 1})
	assert.True(t, types.IsKind(err, types.ERR_NOT_FOUND))

	_, err = svc.CreateSeatType(ctx, CreateSeatTypeInput{EventID: event.ID, Name: "VIP", Capacity: 0})
	assert.True(t, types.IsKind(err, types.ERR_VALIDATION))

	_, err = svc.CreateSeatType(ctx, CreateSeatTypeInput{EventID: event.ID, Name: "VIP", Capacity: 1, Price: decimal.NewFromInt(-1)})
	assert.True(t, types.IsKind(err, types.ERR_VALIDATION))

	_, err = svc.CreateSeatType(ctx, CreateSeatTypeInput{EventID: event.ID, Name: "VIP", Capacity: 2, Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = svc.CreateSeatType(ctx, CreateSeatTypeInput{EventID: event.ID, Name: "vip", Capacity: 2, Price: decimal.NewFromInt(10)})
	assert.True(t, types.IsKind(err, types.ERR_CONFLICT))
}

func TestCreateSeatTypeRollsBackOnPoolFailure(t *testing.T) {
	s := storetest.New()
	event := s.AddEvent(models.Event{Title: "Kalush Orchestra", Time: time.Now().Add(72 * time.Hour)})
	s.FailOn("CreateTickets", errors.New("connection reset"))

	_, err := NewService(s).CreateSeatType(context.Background(), CreateSeatTypeInput{EventID: event.ID, Name: "VIP", Capacity: 3})
	require.Error(t, err)

	_, err = s.GetSeatTypeByName(context.Background(), event.ID, "VIP")
	assert.Error(t, err, "seat type must not survive a failed pool insert")
}

func TestDeleteEventCleansOrders(t *testing.T) {
	s := storetest.New()
	ctx := context.Background()
	user := s.AddUser(models.User{Email: "olena@example.com"})
	doomed := s.AddEvent(models.Event{Title: "Cancelled", Time: time.Now().Add(time.Hour)})
	kept := s.AddEvent(models.Event{Title: "Kept", Time: time.Now().Add(time.Hour)})
	doomedSeats := s.AddSeatType(models.EventSeatType{EventID: doomed.ID, Name: "Standard", Capacity: 5, AvailableSeats: 3})
	keptSeats := s.AddSeatType(models.EventSeatType{EventID: kept.ID, Name: "Standard", Capacity: 5, AvailableSeats: 4})

	onlyDoomed := models.Order{ID: uuid.New(), UserID: user.ID}
	mixed := models.Order{ID: uuid.New(), UserID: user.ID}
	require.NoError(t, s.CreateOrder(ctx, &onlyDoomed))
	require.NoError(t, s.CreateOrder(ctx, &mixed))
	require.NoError(t, s.CreateTickets(ctx, []models.Ticket{
		{EventID: doomed.ID, SeatTypeID: doomedSeats.ID, SeatNumber: 1, OrderID: &onlyDoomed.ID},
		{EventID: doomed.ID, SeatTypeID: doomedSeats.ID, SeatNumber: 2, OrderID: &mixed.ID},
		{EventID: kept.ID, SeatTypeID: keptSeats.ID, SeatNumber: 1, OrderID: &mixed.ID, WasRefunded: true},
	}))

	n, err := NewService(s).DeleteEvent(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok := s.Event(doomed.ID)
	assert.False(t, ok)
	_, ok = s.SeatType(doomedSeats.ID)
	assert.False(t, ok)
	assert.Empty(t, s.TicketsBySeatType(doomedSeats.ID))

	_, ok = s.Order(onlyDoomed.ID)
	assert.False(t, ok)
	remaining, ok := s.Order(mixed.ID)
	require.True(t, ok)
	assert.True(t, remaining.WasRefunded, "only refunded tickets are left")

	_, err = NewService(s).DeleteEvent(ctx, doomed.ID)
	assert.True(t, types.IsKind(err, types.ERR_NOT_FOUND))
}
