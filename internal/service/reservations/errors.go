package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда резервация не найдена
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrAlreadyCancelled возвращается при повторной отмене резервации
	ErrAlreadyCancelled = errors.New("reservation is already cancelled")

	// ErrCancellationWindow возвращается, когда до начала осталось 2 часа или меньше
	ErrCancellationWindow = errors.New("cancellation window has closed")

	// ErrPaymentRejected возвращается, когда платежный шлюз отклонил платеж
	ErrPaymentRejected = errors.New("payment rejected by gateway")

	// ErrPaymentNotApplicable возвращается при попытке создать платеж для наличной оплаты
	ErrPaymentNotApplicable = errors.New("payment intent is not applicable for this payment method")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
