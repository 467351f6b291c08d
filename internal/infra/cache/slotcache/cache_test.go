package slotcache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PC-ReservationService/pkg/types"
)

var testDate = time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

const testKey = "slots:available:2026-07-14"

func TestGetTimes_Miss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := New(rdb, 30*time.Second)

	mock.ExpectGet(testKey).RedisNil()

	_, err := cache.GetTimes(context.Background(), testDate)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTimes_Hit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := New(rdb, 30*time.Second)

	times := []types.TimeString{"08:00", "08:30", "09:00"}
	raw, err := json.Marshal(times)
	require.NoError(t, err)

	mock.ExpectGet(testKey).SetVal(string(raw))

	got, err := cache.GetTimes(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, times, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetTimes(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := New(rdb, 30*time.Second)

	times := []types.TimeString{"10:00", "10:30"}
	raw, err := json.Marshal(times)
	require.NoError(t, err)

	mock.ExpectSet(testKey, raw, 30*time.Second).SetVal("OK")

	require.NoError(t, cache.SetTimes(context.Background(), testDate, times))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetTimes_NormalizesDate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := New(rdb, time.Minute)

	// Дата с временной компонентой должна попасть в тот же ключ
	noisy := time.Date(2026, 7, 14, 17, 45, 12, 0, time.UTC)

	raw, err := json.Marshal([]types.TimeString{"12:00"})
	require.NoError(t, err)

	mock.ExpectSet(testKey, raw, time.Minute).SetVal("OK")

	require.NoError(t, cache.SetTimes(context.Background(), noisy, []types.TimeString{"12:00"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := New(rdb, 30*time.Second)

	mock.ExpectDel(testKey).SetVal(1)

	require.NoError(t, cache.Invalidate(context.Background(), testDate))
	assert.NoError(t, mock.ExpectationsWereMet())
}
