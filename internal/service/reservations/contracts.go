package reservations

import (
	"context"
	"time"

	"github.com/m04kA/PC-ReservationService/internal/domain"
	"github.com/m04kA/PC-ReservationService/internal/integrations/paymentgw"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByEmail(ctx context.Context, email string) ([]*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, cancelledAt time.Time) error
	ConfirmPending(ctx context.Context, id int64) error
	SetPaymentIntent(ctx context.Context, id int64, transactionID string) error
	SetPaymentResult(ctx context.Context, id int64, transactionID string, amountPaid *float64, status domain.PaymentStatus) error
	ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*domain.Reservation, error)
	Delete(ctx context.Context, id int64) error
}

// SlotLedger интерфейс реестра вместимости слотов
type SlotLedger interface {
	Release(ctx context.Context, slotID int64) error
}

// PaymentGateway интерфейс клиента платежного шлюза
type PaymentGateway interface {
	CreateIntent(ctx context.Context, req paymentgw.CreateIntentRequest) (*paymentgw.Intent, error)
}

// SlotCache интерфейс кэша доступных времён
type SlotCache interface {
	Invalidate(ctx context.Context, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
