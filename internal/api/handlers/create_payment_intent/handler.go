package create_payment_intent

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/PC-ReservationService/internal/api/handlers"
	"github.com/m04kA/PC-ReservationService/internal/service/reservations"
)

const (
	msgInvalidReservationID = "некорректный ID резервации"
	msgNotFound             = "резервация не найдена"
	msgAlreadyCancelled     = "резервация отменена"
	msgNotApplicable        = "для оплаты наличными платеж через шлюз недоступен"
	msgPaymentRejected      = "платеж отклонен"
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

// Handle POST /api/v1/reservations/{reservationId}/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reservationIDStr := vars["reservationId"]

	reservationID, err := strconv.ParseInt(reservationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/payments - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	intent, err := h.service.CreatePaymentIntent(r.Context(), reservationID)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/payments - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrAlreadyCancelled):
			h.logger.Warn("POST /reservations/{id}/payments - Reservation cancelled: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyCancelled)

		case errors.Is(err, reservations.ErrPaymentNotApplicable):
			h.logger.Warn("POST /reservations/{id}/payments - Cash payment: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgNotApplicable)

		case errors.Is(err, reservations.ErrPaymentRejected):
			h.logger.Warn("POST /reservations/{id}/payments - Payment rejected: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentRejected)

		default:
			h.logger.Error("POST /reservations/{id}/payments - Failed to create intent: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/payments - Intent created: reservation_id=%d, transaction_id=%s",
		reservationID, intent.TransactionID)
	handlers.RespondJSON(w, http.StatusCreated, intent)
}
