package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de agente extintor (conjunto cerrado; determina unidad y umbrales).
const (
	CategoryFOAM        = "FOAM"         // espuma AFFF, litros
	CategoryDryChemical = "DRY_CHEMICAL" // polvo químico seco, kilogramos
	CategoryNitrogen    = "NITROGEN"     // cilindros de nitrógeno, unidades
)

// Unidades de medida por categoría.
const (
	UnitLiters    = "liters"
	UnitKilograms = "kilograms"
	UnitCylinders = "cylinders"
)

// Estados de un lote.
const (
	StatusInStock     = "IN_STOCK"
	StatusInUse       = "IN_USE"
	StatusMaintenance = "MAINTENANCE"
	StatusDiscarded   = "DISCARDED"
)

// UnitForCategory devuelve la unidad de medida de una categoría; "" si la categoría no existe.
func UnitForCategory(category string) string {
	switch category {
	case CategoryFOAM:
		return UnitLiters
	case CategoryDryChemical:
		return UnitKilograms
	case CategoryNitrogen:
		return UnitCylinders
	}
	return ""
}

// ValidCategory verifica pertenencia al conjunto cerrado de categorías.
func ValidCategory(category string) bool {
	return UnitForCategory(category) != ""
}

// ValidStatus verifica pertenencia al conjunto de estados de lote.
func ValidStatus(status string) bool {
	switch status {
	case StatusInStock, StatusInUse, StatusMaintenance, StatusDiscarded:
		return true
	}
	return false
}

// Pressurized indica si la categoría requiere prueba hidrostática periódica.
func Pressurized(category string) bool {
	return category == CategoryNitrogen || category == CategoryDryChemical
}

// StockLot representa un lote físico de una categoría de agente extintor.
// La cantidad solo se muta a través del libro de movimientos (LedgerUseCase);
// la clave natural de deduplicación es (category, lot_code, manufacture_date)
// cuando lot_code no está vacío.
type StockLot struct {
	ID                 string
	Category           string
	Manufacturer       string
	LotCode            string // opcional; vacío = lote sin código, nunca se mergea
	Quantity           decimal.Decimal
	Unit               string
	Status             string
	ManufactureDate    time.Time
	ExpirationDate     time.Time
	WorkingPressureBar *decimal.Decimal // opcional, solo espuma
	LastHydroTestDate  *time.Time       // opcional, categorías presurizadas
	NextHydroTestDate  *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasLotCode indica si el lote participa en deduplicación por clave natural.
func (l *StockLot) HasLotCode() bool {
	return l.LotCode != ""
}
