package domain

// Default slot geometry (used by the seeding process)
const (
	DefaultSlotDurationMinutes = 30
	DefaultSlotCapacity        = 10

	SeedDays      = 7  // rolling window of days to generate
	SeedStartHour = 8  // 08:00
	SeedEndHour   = 18 // up to (not including) 18:00
)

// Business rules
const (
	// MaxAdvanceBookingHours бронировать можно не более чем за 48 часов
	MaxAdvanceBookingHours = 48

	// CancellationNoticeHours бесплатная отмена строго более чем за 2 часа до начала
	CancellationNoticeHours = 2

	// CashPaymentDueHours оплата наличными вносится за 2 часа до начала
	CashPaymentDueHours = 2

	// MaxReservationSlots максимум последовательных слотов в одной позиции
	MaxReservationSlots = 3
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
