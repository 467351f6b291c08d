package create_reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/PC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.Customer.FullName) == "" {
		return fmt.Errorf("%w: customer full name is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Customer.Email) == "" {
		return fmt.Errorf("%w: customer email is required", ErrInvalidInput)
	}

	if !strings.Contains(req.Customer.Email, "@") {
		return fmt.Errorf("%w: invalid customer email format", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Customer.Phone) == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if !req.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, req.PaymentMethod)
	}

	if !req.Currency.Valid() {
		return fmt.Errorf("%w: unknown currency %q", ErrInvalidInput, req.Currency)
	}

	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}

	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: items[%d].productID must be positive", ErrInvalidInput, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity must be positive", ErrInvalidInput, i)
		}
		if item.Slots <= 0 {
			return fmt.Errorf("%w: items[%d].slots must be positive", ErrInvalidInput, i)
		}
		if item.Helmets < 0 || item.Vests < 0 {
			return fmt.Errorf("%w: items[%d] equipment counts must not be negative", ErrInvalidInput, i)
		}
	}

	return nil
}

// validateBookingWindow проверяет, что начало резервации не в прошлом
// и не дальше окна предварительного бронирования
// Момент начала всегда составляется в UTC: дата и время слота хранятся
// без часового пояса, и политика окна обязана считаться от той же базы
func validateBookingWindow(startAt, now time.Time) error {
	if !startAt.After(now) {
		return ErrInvalidDate
	}

	maxStart := now.Add(time.Duration(domain.MaxAdvanceBookingHours) * time.Hour)
	if startAt.After(maxStart) {
		return fmt.Errorf("%w: can only book up to %d hours in advance", ErrBookingWindowExceeded, domain.MaxAdvanceBookingHours)
	}

	return nil
}

// validateItemAgainstProduct проверяет позицию запроса против ограничений продукта
func validateItemAgainstProduct(item ItemRequest, product *domain.Product) error {
	if item.Quantity > product.MaxPeople {
		return fmt.Errorf("%w: product %q allows at most %d people, requested %d",
			ErrCapacityExceeded, product.Name, product.MaxPeople, item.Quantity)
	}

	if limit := product.SlotsLimit(); item.Slots > limit {
		return fmt.Errorf("%w: product %q allows at most %d consecutive slots, requested %d",
			ErrTooManySlots, product.Name, limit, item.Slots)
	}

	if product.RequiresHelmet && item.Helmets < item.Quantity {
		return fmt.Errorf("%w: product %q requires a helmet per person (%d needed, %d provided)",
			ErrSafetyEquipmentMissing, product.Name, item.Quantity, item.Helmets)
	}

	if product.RequiresVest && item.Vests < item.Quantity {
		return fmt.Errorf("%w: product %q requires a vest per person (%d needed, %d provided)",
			ErrSafetyEquipmentMissing, product.Name, item.Quantity, item.Vests)
	}

	return nil
}
