package create_reservation

import (
	"time"

	"github.com/m04kA/PC-ReservationService/internal/domain"
	"github.com/m04kA/PC-ReservationService/pkg/types"
)

// ItemRequest позиция резервации в запросе
type ItemRequest struct {
	ProductID int64 // ID продукта из каталога
	Quantity  int   // Количество людей / единиц
	Slots     int   // Количество последовательных 30-минутных слотов
	Helmets   int   // Количество шлемов
	Vests     int   // Количество жилетов
}

// Request модель запроса на создание резервации
type Request struct {
	Customer       domain.Customer  // Данные клиента
	Date           time.Time        // Дата резервации (без времени)
	StartTime      types.TimeString // Время начала слота (например, "10:00")
	Items          []ItemRequest    // Позиции резервации
	PaymentMethod  domain.PaymentMethod
	Currency       domain.Currency
	StormInsurance bool // Страховка от шторма
}

// ItemResponse позиция созданной резервации
type ItemResponse struct {
	ProductID   int64
	ProductName string
	UnitPrice   float64
	Quantity    int
	Slots       int
	Helmets     int
	Vests       int
}

// Response модель ответа с созданной резервацией
type Response struct {
	ID             int64
	Customer       domain.Customer
	Date           time.Time
	StartTime      types.TimeString
	Items          []ItemResponse
	TotalPrice     float64
	PaymentMethod  string
	Currency       string
	StormInsurance bool
	Status         string
	PaymentDue     *time.Time // Срок оплаты наличными (для cash)
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
