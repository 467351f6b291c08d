package list_products

import (
	"context"

	"github.com/m04kA/PC-ReservationService/internal/domain"
)

type ProductCatalog interface {
	List(ctx context.Context) ([]*domain.Product, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
