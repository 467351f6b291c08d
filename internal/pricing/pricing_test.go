package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/PC-ReservationService/internal/domain"
)

func item(price float64, quantity, slots int) domain.ReservationItem {
	return domain.ReservationItem{UnitPrice: price, Quantity: quantity, Slots: slots}
}

func TestComputeTotal_SingleProduct(t *testing.T) {
	items := []domain.ReservationItem{item(100, 2, 1)}

	assert.InDelta(t, 200.0, ComputeTotal(items, false), 1e-9)
}

func TestComputeTotal_SingleProductWithInsurance(t *testing.T) {
	items := []domain.ReservationItem{item(100, 2, 1)}

	assert.InDelta(t, 240.0, ComputeTotal(items, true), 1e-9)
}

func TestComputeTotal_BundleDiscount(t *testing.T) {
	// Два разных продукта по 100 каждый: 200 * 0.9
	items := []domain.ReservationItem{item(100, 1, 1), item(50, 2, 1)}

	assert.InDelta(t, 180.0, ComputeTotal(items, false), 1e-9)
}

func TestComputeTotal_BundleDiscountWithInsurance(t *testing.T) {
	// Скидка применяется до надбавки: 200 * 0.9 * 1.2
	items := []domain.ReservationItem{item(100, 1, 1), item(50, 2, 1)}

	assert.InDelta(t, 216.0, ComputeTotal(items, true), 1e-9)
}

func TestComputeTotal_SlotsMultiplyPrice(t *testing.T) {
	// 100 * 2 человека * 3 слота
	items := []domain.ReservationItem{item(100, 2, 3)}

	assert.InDelta(t, 600.0, ComputeTotal(items, false), 1e-9)
}

func TestComputeTotal_EmptyItems(t *testing.T) {
	assert.Zero(t, ComputeTotal(nil, false))
	assert.Zero(t, ComputeTotal(nil, true))
}

func TestComputeTotal_Deterministic(t *testing.T) {
	items := []domain.ReservationItem{item(39.99, 2, 2), item(12.5, 1, 3)}

	first := ComputeTotal(items, true)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ComputeTotal(items, true))
	}
}
