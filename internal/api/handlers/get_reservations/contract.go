package get_reservations

import (
	"context"

	"github.com/m04kA/PC-ReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	GetByEmail(ctx context.Context, email string) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
