package paymentgw

import "errors"

var (
	// ErrInternal внутренняя ошибка клиента
	ErrInternal = errors.New("paymentgw: internal error")

	// ErrInvalidResponse некорректный ответ платежного шлюза
	ErrInvalidResponse = errors.New("paymentgw: invalid response")

	// ErrPaymentRejected шлюз отклонил создание платежного намерения
	ErrPaymentRejected = errors.New("paymentgw: payment rejected")
)
