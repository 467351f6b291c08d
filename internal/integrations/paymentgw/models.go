package paymentgw

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// CreateIntentRequest запрос на создание платежного намерения
type CreateIntentRequest struct {
	ReservationID int64  `json:"reservation_id"`
	AmountMinor   int64  `json:"amount_minor"`
	Currency      string `json:"currency"`
	Description   string `json:"description,omitempty"`
}

// Intent платежное намерение, созданное шлюзом
type Intent struct {
	TransactionID string `json:"transaction_id"`
	ClientSecret  string `json:"client_secret"`
	Status        string `json:"status"`
}

// WebhookEvent событие платежного шлюза
// Шлюз шлет события асинхронно; сервис обрабатывает только
// payment.succeeded и payment.failed
type WebhookEvent struct {
	Type          string  `json:"type"`
	TransactionID string  `json:"transaction_id"`
	ReservationID int64   `json:"reservation_id"`
	AmountMinor   *int64  `json:"amount_minor,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	FailureReason *string `json:"failure_reason,omitempty"`
}

// Типы событий webhook
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)
