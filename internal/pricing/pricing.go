package pricing

import "github.com/m04kA/PC-ReservationService/internal/domain"

// Ценообразование резервации. Чистая функция без побочных эффектов:
// одинаковый набор позиций всегда даёт одинаковую цену
//
// Порядок применения фиксирован:
//  1. сумма по позициям (цена * количество * слоты)
//  2. скидка 10% за связку из более чем одного продукта
//  3. надбавка 20% за страховку от шторма
//
// Округление до минимальных единиц валюты здесь не выполняется —
// это ответственность границы платёжного шлюза (paymentgw.MinorUnits)
const (
	// BundleDiscountRate множитель скидки за несколько разных продуктов
	BundleDiscountRate = 0.9

	// StormInsuranceRate множитель надбавки за страховку от шторма
	StormInsuranceRate = 1.2
)

// ComputeTotal вычисляет полную стоимость резервации
// Скидка применяется к общей сумме связки, а не к отдельным позициям
func ComputeTotal(items []domain.ReservationItem, stormInsurance bool) float64 {
	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity) * float64(item.Slots)
	}

	if len(items) > 1 {
		total *= BundleDiscountRate
	}

	if stormInsurance {
		total *= StormInsuranceRate
	}

	return total
}
