package get_available_times

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/PC-ReservationService/internal/api/handlers"
	"github.com/m04kA/PC-ReservationService/internal/domain"
	getAvailableTimes "github.com/m04kA/PC-ReservationService/internal/usecase/get_available_times"
)

const (
	msgMissingDate     = "параметр date обязателен"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateInPast      = "дата уже прошла"
	msgDateOutOfWindow = "доступность показывается не более чем за 48 часов"
)

type Handler struct {
	useCase GetAvailableTimesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableTimesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots/available?date={date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /slots/available - Missing date parameter")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /slots/available - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableTimes.Request{Date: date})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableTimes.ErrInvalidDate):
			h.logger.Warn("GET /slots/available - Date in past: date=%s", dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableTimes.ErrDateOutOfWindow):
			h.logger.Warn("GET /slots/available - Date out of window: date=%s", dateStr)
			handlers.RespondBadRequest(w, msgDateOutOfWindow)

		default:
			h.logger.Error("GET /slots/available - Failed to get available times: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots/available - Retrieved %d times for date=%s", len(result.Times), dateStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
