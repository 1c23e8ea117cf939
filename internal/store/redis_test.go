package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisStoreForTest(t *testing.T) (*RedisStore, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	return NewRedisStore(db, zap.NewNop().Sugar()), mock
}

func TestRedisStoreGetHit(t *testing.T) {
	s, mock := newRedisStoreForTest(t)

	mock.ExpectGet("weather_nairobi").SetVal(`{"city":"Nairobi"}`)

	val, ok := s.Get(context.Background(), "weather_nairobi")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"city":"Nairobi"}`), val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreGetMiss(t *testing.T) {
	s, mock := newRedisStoreForTest(t)

	mock.ExpectGet("weather_nairobi").RedisNil()

	_, ok := s.Get(context.Background(), "weather_nairobi")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreErrorDegradesToMiss(t *testing.T) {
	s, mock := newRedisStoreForTest(t)

	mock.ExpectGet("weather_nairobi").SetErr(errors.New("connection lost"))

	_, ok := s.Get(context.Background(), "weather_nairobi")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStorePutSetsTTL(t *testing.T) {
	s, mock := newRedisStoreForTest(t)

	mock.ExpectSet("geo_nairobi", []byte(`{}`), 168*time.Hour).SetVal("OK")

	err := s.Put(context.Background(), "geo_nairobi", []byte(`{}`), 168*time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreHas(t *testing.T) {
	s, mock := newRedisStoreForTest(t)

	mock.ExpectExists("weather_nairobi").SetVal(1)
	mock.ExpectExists("weather_lagos").SetVal(0)

	assert.True(t, s.Has(context.Background(), "weather_nairobi"))
	assert.False(t, s.Has(context.Background(), "weather_lagos"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
