package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/PC-ReservationService/internal/domain"
	"github.com/m04kA/PC-ReservationService/pkg/types"
)

// SlotLedger интерфейс реестра вместимости слотов
type SlotLedger interface {
	FindByDateTime(ctx context.Context, date time.Time, startTime types.TimeString) (*domain.TimeSlot, error)
	TryReserve(ctx context.Context, slotID int64) error
}

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
}

// ProductRepository интерфейс каталога продуктов
type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error)
}

// SlotCache интерфейс кэша доступных времён
type SlotCache interface {
	Invalidate(ctx context.Context, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
