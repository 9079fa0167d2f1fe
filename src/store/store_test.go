package store

import (
	"context"
	"errors"
	"livevibe/src/types"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return New(gormDB), mock
}

func TestDecrementAvailableSeatsIsConditional(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()
	stmt := regexp.QuoteMeta(`UPDATE "event_seat_types" SET "available_seats"=available_seats - $1 WHERE id = $2 AND available_seats >= $3`)

	mock.ExpectExec(stmt).WithArgs(2, id, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(stmt).WithArgs(5, id, 5).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := s.DecrementAvailableSeats(context.Background(), id, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DecrementAvailableSeats(context.Background(), id, 5)
	require.NoError(t, err)
	assert.False(t, ok, "no row matched, seats must not go negative")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementAvailableSeatsCapsAtCapacity(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`SET "available_seats"=LEAST(available_seats + $1, capacity) WHERE id = $2`)).
		WithArgs(3, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := s.IncrementAvailableSeats(context.Background(), id, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "event_seat_types"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WithTx(ctx, func(ctx context.Context) error {
		_, err := s.DecrementAvailableSeats(ctx, id, 1)
		return err
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "event_seat_types"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err = s.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.DecrementAvailableSeats(ctx, id, 1); err != nil {
			return err
		}
		return s.WithTx(ctx, func(ctx context.Context) error {
			return types.Conflict("Ticket already purchased.")
		})
	})
	assert.True(t, types.IsKind(err, types.ERR_CONFLICT))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOrphanOrders(t *testing.T) {
	s, mock := newMockStore(t)
	a, b := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders" WHERE NOT EXISTS (SELECT 1 FROM tickets WHERE tickets.order_id = orders.id) AND orders.id IN ($1,$2)`)).
		WithArgs(a, b).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders" WHERE NOT EXISTS (SELECT 1 FROM tickets WHERE tickets.order_id = orders.id)`)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.DeleteOrphanOrders(context.Background(), a, b)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.DeleteOrphanOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkTicketsRefundedSkipsRefunded(t *testing.T) {
	s, mock := newMockStore(t)
	a, b := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "tickets" SET "was_refunded"=$1 WHERE id IN ($2,$3) AND was_refunded = $4`)).
		WithArgs(true, a, b, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := s.MarkTicketsRefunded(context.Background(), []uuid.UUID{a, b})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.MarkTicketsRefunded(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetUser(context.Background(), id)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderForUpdateLocksOrderBeforeTickets(t *testing.T) {
	s, mock := newMockStore(t)
	orderID, ticketID := uuid.New(), uuid.New()
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "orders" WHERE id = \$1 ORDER BY "orders"."id" LIMIT \$2 FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(orderID.String()))
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(orderID.String(), "olena@example.com"))
	mock.ExpectQuery(`SELECT \* FROM "tickets" WHERE "tickets"."order_id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "tickets" SET "was_refunded"=$1 WHERE id IN ($2) AND was_refunded = $3`)).
		WithArgs(true, ticketID, false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WithTx(ctx, func(ctx context.Context) error {
		order, err := s.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		assert.Equal(t, orderID, order.ID)
		_, err = s.MarkTicketsRefunded(ctx, []uuid.UUID{ticketID})
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketOrderIDReadsWithoutLock(t *testing.T) {
	s, mock := newMockStore(t)
	ticketID, orderID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT "id","order_id" FROM "tickets" WHERE id = \$1 ORDER BY "tickets"."id" LIMIT \$2$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}).AddRow(ticketID.String(), orderID.String()))
	mock.ExpectQuery(`SELECT "id","order_id" FROM "tickets" WHERE id = \$1 ORDER BY "tickets"."id" LIMIT \$2$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}).AddRow(ticketID.String(), nil))

	got, err := s.TicketOrderID(context.Background(), ticketID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, orderID, *got)

	got, err = s.TicketOrderID(context.Background(), ticketID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
