package lib

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCache(client)
	ctx := context.Background()

	mock.ExpectGet("ticketcode_missing").RedisNil()
	mock.ExpectSet("ticketcode_1", "payload", time.Hour).SetVal("OK")
	mock.ExpectGet("ticketcode_1").SetVal("payload")
	mock.ExpectGet("ticketcode_2").SetErr(errors.New("connection refused"))

	_, err := cache.Get(ctx, "ticketcode_missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "ticketcode_1", "payload", time.Hour))

	val, err := cache.Get(ctx, "ticketcode_1")
	require.NoError(t, err)
	assert.Equal(t, "payload", val)

	_, err = cache.Get(ctx, "ticketcode_2")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedisClientReplacesInstance(t *testing.T) {
	client, _ := redismock.NewClientMock()
	NewRedisClient(client)
	assert.Same(t, client, GetRedisClient())
}
