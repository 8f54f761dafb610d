package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/brigada-api/internal/domain/entity"
)

// LotFilter filtros para listados de lotes. Campos vacíos = sin filtro.
type LotFilter struct {
	Category string
	Status   string
	Limit    int
	Offset   int
}

// StockLotRepository define el puerto de persistencia para StockLot.
// Usado dentro de transacciones para garantizar consistencia del libro.
type StockLotRepository interface {
	Create(lot *entity.StockLot) error
	GetByID(id string) (*entity.StockLot, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.StockLot, error)
	// FindByNaturalKey busca por la clave de deduplicación (category, lot_code,
	// manufacture_date) con lot_code no vacío. nil si no hay coincidencia.
	FindByNaturalKey(category, lotCode string, manufactureDate time.Time) (*entity.StockLot, error)
	// AddQuantity aplica delta con guarda de no-negatividad en el propio UPDATE
	// (quantity + delta >= 0). Devuelve false si la guarda rechazó la escritura.
	AddQuantity(id string, delta decimal.Decimal) (bool, error)
	Update(lot *entity.StockLot) error
	List(filter LotFilter) ([]*entity.StockLot, error)
	// FirstToExpire lote con vencimiento más próximo y quantity > 0 de la
	// categoría; desempate por created_at y luego id. nil si no hay elegible.
	FirstToExpire(category string) (*entity.StockLot, error)
	Delete(id string) error
}
