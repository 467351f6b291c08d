package domain

import "time"

// ProductName название позиции каталога
// Набор фиксирован: каталог проката пляжного инвентаря
type ProductName string

const (
	ProductJetSky        ProductName = "JetSky"
	ProductATV           ProductName = "Cuatriciclos"
	ProductDivingGear    ProductName = "Equipo de buceo"
	ProductSurfboard     ProductName = "Tabla de surf adulto"
	ProductKidsSurfboard ProductName = "Tabla de surf niño"
)

// ValidProductNames список допустимых названий продуктов
var ValidProductNames = []ProductName{
	ProductJetSky,
	ProductATV,
	ProductDivingGear,
	ProductSurfboard,
	ProductKidsSurfboard,
}

// Valid возвращает true, если название входит в фиксированный набор каталога
func (n ProductName) Valid() bool {
	for _, valid := range ValidProductNames {
		if n == valid {
			return true
		}
	}
	return false
}

// Product позиция каталога проката
// После того как на продукт сослалась хотя бы одна резервация, он неизменяем:
// резервации хранят ссылку по ID плюс денормализованные имя и цену
type Product struct {
	ID                  int64
	Name                ProductName
	Price               float64
	RequiresHelmet      bool
	RequiresVest        bool
	MaxPeople           int
	MaxConsecutiveSlots int
	Description         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotsLimit возвращает максимум последовательных слотов для продукта
// с учетом общего потолка MaxReservationSlots
func (p *Product) SlotsLimit() int {
	if p.MaxConsecutiveSlots > 0 && p.MaxConsecutiveSlots < MaxReservationSlots {
		return p.MaxConsecutiveSlots
	}
	return MaxReservationSlots
}
