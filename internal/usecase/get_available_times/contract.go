package get_available_times

import (
	"context"
	"time"

	"github.com/m04kA/PC-ReservationService/pkg/types"
)

// SlotLedger интерфейс реестра вместимости слотов
type SlotLedger interface {
	ListStartTimesByDate(ctx context.Context, date time.Time) ([]types.TimeString, error)
}

// SlotCache интерфейс кэша доступных времён
type SlotCache interface {
	GetTimes(ctx context.Context, date time.Time) ([]types.TimeString, error)
	SetTimes(ctx context.Context, date time.Time, times []types.TimeString) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
