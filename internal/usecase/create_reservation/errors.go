package create_reservation

import "errors"

var (
	// ErrProductNotFound возвращается, когда продукт из запроса не найден в каталоге
	ErrProductNotFound = errors.New("create_reservation: product not found")

	// ErrInvalidDate возвращается при некорректной дате резервации (прошлое)
	ErrInvalidDate = errors.New("create_reservation: invalid reservation date")

	// ErrBookingWindowExceeded возвращается, когда начало резервации дальше 48 часов от текущего момента
	ErrBookingWindowExceeded = errors.New("create_reservation: start is beyond the booking window")

	// ErrSlotUnavailable возвращается, когда слот не существует или его вместимость исчерпана
	ErrSlotUnavailable = errors.New("create_reservation: time slot is not available")

	// ErrCapacityExceeded возвращается, когда количество людей превышает вместимость продукта
	ErrCapacityExceeded = errors.New("create_reservation: product capacity exceeded")

	// ErrTooManySlots возвращается, когда запрошено больше последовательных слотов, чем разрешено для продукта
	ErrTooManySlots = errors.New("create_reservation: too many consecutive slots requested")

	// ErrSafetyEquipmentMissing возвращается, когда для продукта не хватает шлемов или жилетов
	ErrSafetyEquipmentMissing = errors.New("create_reservation: required safety equipment is missing")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
