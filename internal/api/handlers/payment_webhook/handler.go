package payment_webhook

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/m04kA/PC-ReservationService/internal/api/handlers"
	"github.com/m04kA/PC-ReservationService/internal/integrations/paymentgw"
	"github.com/m04kA/PC-ReservationService/internal/service/reservations"
)

const (
	// SecretHeader заголовок с секретом webhook, выдается шлюзом при настройке
	SecretHeader = "X-Webhook-Secret"

	msgInvalidSecret      = "некорректный секрет webhook"
	msgInvalidRequestBody = "некорректное тело события"
	msgNotFound           = "резервация не найдена"
)

type Handler struct {
	service ReservationService
	secret  string
	logger  Logger
}

func NewHandler(service ReservationService, secret string, logger Logger) *Handler {
	return &Handler{
		service: service,
		secret:  secret,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/webhook
// Шлюз ретраит события до получения 2xx, поэтому неизвестные типы
// подтверждаются сразу, без обработки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	got := r.Header.Get(SecretHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
		h.logger.Warn("POST /payments/webhook - Invalid webhook secret")
		handlers.RespondUnauthorized(w, msgInvalidSecret)
		return
	}

	var event paymentgw.WebhookEvent
	if err := handlers.DecodeJSON(r, &event); err != nil {
		h.logger.Warn("POST /payments/webhook - Invalid event body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var err error
	switch event.Type {
	case paymentgw.EventPaymentSucceeded:
		err = h.service.ConfirmPayment(r.Context(), event.ReservationID, event.TransactionID, event.AmountMinor)

	case paymentgw.EventPaymentFailed:
		err = h.service.MarkPaymentFailed(r.Context(), event.ReservationID, event.TransactionID)

	default:
		h.logger.Info("POST /payments/webhook - Ignoring event type=%s", event.Type)
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if err != nil {
		if errors.Is(err, reservations.ErrReservationNotFound) {
			h.logger.Warn("POST /payments/webhook - Reservation not found: reservation_id=%d", event.ReservationID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("POST /payments/webhook - Failed to process event type=%s, reservation_id=%d: %v",
			event.Type, event.ReservationID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /payments/webhook - Processed event type=%s, reservation_id=%d, transaction_id=%s",
		event.Type, event.ReservationID, event.TransactionID)
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}
