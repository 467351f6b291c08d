package get_available_times

import (
	"github.com/m04kA/PC-ReservationService/internal/domain"
	getAvailableTimes "github.com/m04kA/PC-ReservationService/internal/usecase/get_available_times"
)

// AvailableTimesResponse HTTP response model
type AvailableTimesResponse struct {
	Date  string   `json:"date"`  // "2026-07-14"
	Times []string `json:"times"` // ["08:00", "08:30", ...]
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableTimes.Response) *AvailableTimesResponse {
	times := make([]string, len(resp.Times))
	for i, t := range resp.Times {
		times[i] = t.String()
	}

	return &AvailableTimesResponse{
		Date:  resp.Date.Format(domain.DateFormat),
		Times: times,
	}
}
