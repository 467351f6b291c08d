package get_reservations

import (
	"net/http"

	"github.com/m04kA/PC-ReservationService/internal/api/handlers"
)

const (
	msgMissingEmail = "параметр email обязателен"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations?email={email}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		h.logger.Warn("GET /reservations - Missing email parameter")
		handlers.RespondBadRequest(w, msgMissingEmail)
		return
	}

	result, err := h.service.GetByEmail(r.Context(), email)
	if err != nil {
		h.logger.Error("GET /reservations - Failed to get reservations: email=%s, error=%v", email, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /reservations - Retrieved %d reservations for email=%s",
		len(result.Reservations), email)
	handlers.RespondJSON(w, http.StatusOK, result)
}
