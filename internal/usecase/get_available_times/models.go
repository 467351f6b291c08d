package get_available_times

import (
	"time"

	"github.com/m04kA/PC-ReservationService/pkg/types"
)

// Request модель запроса доступных времён начала
type Request struct {
	Date time.Time // Дата (без времени)
}

// Response модель ответа со списком доступных времён начала
type Response struct {
	Date  time.Time
	Times []types.TimeString
}
