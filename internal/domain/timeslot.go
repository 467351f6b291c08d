package domain

import (
	"time"

	"github.com/m04kA/PC-ReservationService/pkg/types"
)

// TimeSlot бронируемый интервал, идентифицируется парой (дата, время начала)
// Дата всегда нормализована к началу суток UTC
// Инвариант: 0 <= CurrentReservations <= MaxCapacity
// IsAvailable производное значение (CurrentReservations < MaxCapacity),
// пересчитывается при каждой мутации счётчика и не является
// самостоятельным источником истины
type TimeSlot struct {
	ID                  int64
	Date                time.Time
	StartTime           types.TimeString
	DurationMinutes     int
	MaxCapacity         int
	CurrentReservations int
	IsAvailable         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCapacity возвращает true, если в слоте есть свободные места
func (s *TimeSlot) HasCapacity() bool {
	return s.CurrentReservations < s.MaxCapacity
}

// AvailabilityConsistent проверяет согласованность производного флага со счётчиками
func (s *TimeSlot) AvailabilityConsistent() bool {
	return s.IsAvailable == s.HasCapacity()
}

// StartAtUTC возвращает момент начала слота в UTC
func (s *TimeSlot) StartAtUTC() (time.Time, error) {
	return s.StartTime.AtDate(s.Date)
}

// NormalizeDate нормализует дату к началу суток UTC
// Единая точка нормализации для ключа (дата, время начала):
// клиентские даты могут приходить с временной компонентой и смещением
func NormalizeDate(date time.Time) time.Time {
	utc := date.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
