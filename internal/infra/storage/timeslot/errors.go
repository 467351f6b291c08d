package timeslot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден по ключу (дата, время)
	ErrSlotNotFound = errors.New("timeslot.repository: slot not found")

	// ErrSlotUnavailable возвращается, когда в слоте не осталось мест
	// на момент атомарного резервирования
	ErrSlotUnavailable = errors.New("timeslot.repository: slot is at capacity")

	// ErrSlotNotOccupied возвращается при попытке освободить пустой слот
	ErrSlotNotOccupied = errors.New("timeslot.repository: slot has no reservations to release")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("timeslot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("timeslot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("timeslot.repository: failed to scan row")
)
