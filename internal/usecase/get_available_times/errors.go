package get_available_times

import "errors"

var (
	// ErrInvalidDate возвращается при некорректной дате (прошлое)
	ErrInvalidDate = errors.New("get_available_times: invalid date")

	// ErrDateOutOfWindow возвращается, когда дата дальше окна предварительного бронирования
	ErrDateOutOfWindow = errors.New("get_available_times: date is beyond the booking window")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_times: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_times: internal error")
)
