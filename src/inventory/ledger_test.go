package inventory

import (
	"context"
	"errors"
	"livevibe/src/models"
	"livevibe/src/store/storetest"
	"livevibe/src/types"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerDecrement(t *testing.T) {
	s := storetest.New()
	st := s.AddSeatType(models.EventSeatType{Name: "Balcony", Capacity: 5, AvailableSeats: 5})
	ledger := NewLedger(s)
	ctx := context.Background()

	require.NoError(t, ledger.Decrement(ctx, st.ID, 3))

	err := ledger.Decrement(ctx, st.ID, 3)
	assert.True(t, types.IsKind(err, types.ERR_INVALID_STATE))
	assert.Equal(t, MSG_NOT_ENOUGH_SEATS, err.Error())

	require.NoError(t, ledger.Decrement(ctx, st.ID, 2))
	got, _ := s.SeatType(st.ID)
	assert.Zero(t, got.AvailableSeats)

	assert.True(t, types.IsKind(ledger.Decrement(ctx, st.ID, 0), types.ERR_VALIDATION))
	assert.True(t, types.IsKind(ledger.Decrement(ctx, uuid.New(), 1), types.ERR_INVALID_STATE))
}

func TestLedgerDecrementStoreFailure(t *testing.T) {
	s := storetest.New()
	st := s.AddSeatType(models.EventSeatType{Name: "Balcony", Capacity: 5, AvailableSeats: 5})
	boom := errors.New("connection reset")
	s.FailOn("DecrementAvailableSeats", boom)

	err := NewLedger(s).Decrement(context.Background(), st.ID, 1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, types.ERR_INTERNAL, types.KindOf(err))
}

func TestLedgerIncrementCapsAtCapacity(t *testing.T) {
	s := storetest.New()
	st := s.AddSeatType(models.EventSeatType{Name: "Balcony", Capacity: 5, AvailableSeats: 3})
	ledger := NewLedger(s)
	ctx := context.Background()

	require.NoError(t, ledger.Increment(ctx, st.ID, 1))
	require.NoError(t, ledger.Increment(ctx, st.ID, 10))
	got, _ := s.SeatType(st.ID)
	assert.Equal(t, 5, got.AvailableSeats)

	assert.True(t, types.IsKind(ledger.Increment(ctx, uuid.New(), 1), types.ERR_NOT_FOUND))
	assert.True(t, types.IsKind(ledger.Increment(ctx, st.ID, -1), types.ERR_VALIDATION))
}

func TestLedgerAudit(t *testing.T) {
	s := storetest.New()
	ctx := context.Background()
	st := s.AddSeatType(models.EventSeatType{Name: "Balcony", Capacity: 4, AvailableSeats: 2})
	orderID := uuid.New()
	require.NoError(t, s.CreateTickets(ctx, []models.Ticket{
		{SeatTypeID: st.ID, SeatNumber: 1, OrderID: &orderID},
		{SeatTypeID: st.ID, SeatNumber: 2, OrderID: &orderID},
		{SeatTypeID: st.ID, SeatNumber: 3, OrderID: &orderID, WasRefunded: true},
		{SeatTypeID: st.ID, SeatNumber: 4},
	}))

	audit, err := NewLedger(s).Audit(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), audit.ActiveTickets)
	assert.True(t, audit.Consistent)

	require.NoError(t, NewLedger(s).Increment(ctx, st.ID, 1))
	audit, err = NewLedger(s).Audit(ctx, st.ID)
	require.NoError(t, err)
	assert.False(t, audit.Consistent)

	_, err = NewLedger(s).Audit(ctx, uuid.New())
	assert.True(t, types.IsKind(err, types.ERR_NOT_FOUND))
}
