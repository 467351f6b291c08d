package payment_webhook

import "context"

type ReservationService interface {
	ConfirmPayment(ctx context.Context, id int64, transactionID string, amountMinor *int64) error
	MarkPaymentFailed(ctx context.Context, id int64, transactionID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
