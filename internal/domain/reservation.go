package domain

import (
	"time"

	"github.com/m04kA/PC-ReservationService/pkg/types"
)

// ReservationStatus статус резервации
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// Valid возвращает true для допустимого способа оплаты
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentTransfer
}

// Currency валюта платежа
type Currency string

const (
	CurrencyLocal Currency = "local"
	CurrencyUSD   Currency = "usd"
	CurrencyEUR   Currency = "eur"
)

// Valid возвращает true для допустимой валюты
func (c Currency) Valid() bool {
	return c == CurrencyLocal || c == CurrencyUSD || c == CurrencyEUR
}

// PaymentStatus статус платежа во внешнем шлюзе
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Customer контактные данные клиента
type Customer struct {
	FullName string
	Email    string
	Phone    string
}

// ReservationItem позиция резервации: ссылка на продукт, количество людей,
// число последовательных слотов (1..3) и защитное снаряжение
// Имя и цена продукта денормализованы на момент создания
type ReservationItem struct {
	ID          int64
	ProductID   int64
	ProductName ProductName
	UnitPrice   float64
	Quantity    int
	Slots       int
	Helmets     int
	Vests       int
}

// PaymentDetails данные платежа во внешнем шлюзе
type PaymentDetails struct {
	TransactionID *string
	AmountPaid    *float64
	Status        PaymentStatus
}

// Reservation агрегат резервации
// Владеет своими позициями; на продукты и слот ссылается по идентичности
// После создания мутирует только Status (и платёжные метаданные);
// отмена — переход статуса, физическое удаление выполняет только
// внешний sweep брошенных pending-резерваций
type Reservation struct {
	ID             int64
	SlotID         int64
	Customer       Customer
	Date           time.Time
	StartTime      types.TimeString
	Items          []ReservationItem
	TotalPrice     float64
	PaymentMethod  PaymentMethod
	Currency       Currency
	StormInsurance bool
	Status         ReservationStatus
	PaymentDue     *time.Time
	Payment        PaymentDetails
	CancelledAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InitialStatus начальный статус по способу оплаты:
// card и transfer считаются предавторизованными шлюзом и сразу confirmed,
// cash остаётся pending до подтверждения
func InitialStatus(method PaymentMethod) ReservationStatus {
	switch method {
	case PaymentCard, PaymentTransfer:
		return StatusConfirmed
	default:
		return StatusPending
	}
}

// IsCancelled возвращает true для отменённой резервации
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// CanBeCancelled возвращает true, если резервация ещё может быть отменена
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// StartAtUTC возвращает момент начала резервации в UTC
// Дата и время всегда совмещаются в UTC: локальная арифметика времени
// в политике отмены давала ошибку на размер смещения таймзоны
func (r *Reservation) StartAtUTC() (time.Time, error) {
	return r.StartTime.AtDate(r.Date)
}
