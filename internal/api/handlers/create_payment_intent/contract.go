package create_payment_intent

import (
	"context"

	"github.com/m04kA/PC-ReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	CreatePaymentIntent(ctx context.Context, id int64) (*models.PaymentIntentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
