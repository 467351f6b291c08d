package slotcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/PC-ReservationService/internal/domain"
	"github.com/m04kA/PC-ReservationService/pkg/types"
)

// ErrCacheMiss возвращается, когда для даты нет закэшированного списка
var ErrCacheMiss = errors.New("slotcache: cache miss")

// Cache кэш списка доступных времён начала по дате
// Список слотов на дату — самый горячий читаемый запрос; кэш снимает его
// с БД, а любая мутация занятости (резерв, отмена, sweep) инвалидирует ключ.
// Кэш никогда не является источником истины по вместимости:
// атомарный резерв всегда идёт в реестр слотов
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New создает кэш поверх клиента Redis
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func key(date time.Time) string {
	return fmt.Sprintf("slots:available:%s", domain.NormalizeDate(date).Format(domain.DateFormat))
}

// GetTimes возвращает закэшированный список времён для даты
func (c *Cache) GetTimes(ctx context.Context, date time.Time) ([]types.TimeString, error) {
	raw, err := c.rdb.Get(ctx, key(date)).Result()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("slotcache: get %s: %w", key(date), err)
	}

	var times []types.TimeString
	if err := json.Unmarshal([]byte(raw), &times); err != nil {
		return nil, fmt.Errorf("slotcache: decode %s: %w", key(date), err)
	}

	return times, nil
}

// SetTimes кэширует список времён для даты с TTL
func (c *Cache) SetTimes(ctx context.Context, date time.Time, times []types.TimeString) error {
	raw, err := json.Marshal(times)
	if err != nil {
		return fmt.Errorf("slotcache: encode %s: %w", key(date), err)
	}

	if err := c.rdb.Set(ctx, key(date), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("slotcache: set %s: %w", key(date), err)
	}

	return nil
}

// Invalidate сбрасывает кэш даты после изменения занятости любого её слота
func (c *Cache) Invalidate(ctx context.Context, date time.Time) error {
	if err := c.rdb.Del(ctx, key(date)).Err(); err != nil {
		return fmt.Errorf("slotcache: del %s: %w", key(date), err)
	}
	return nil
}
