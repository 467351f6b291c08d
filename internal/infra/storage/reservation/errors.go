package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда резервация не найдена
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrAlreadyCancelled возвращается, когда условная отмена не нашла
	// резервацию в отменяемом статусе
	ErrAlreadyCancelled = errors.New("reservation.repository: reservation already cancelled")

	// ErrNotPending возвращается, когда условное подтверждение не нашло
	// резервацию в статусе pending
	ErrNotPending = errors.New("reservation.repository: reservation is not pending")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
