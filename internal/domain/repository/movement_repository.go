package repository

import (
	"time"

	"github.com/tu-usuario/brigada-api/internal/domain/entity"
)

// MovementFilter filtros para listados de movimientos. Campos vacíos/nil = sin filtro.
type MovementFilter struct {
	LotID     string
	Team      string
	Direction string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// MovementRepository define el puerto de persistencia para Movement.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// Delete borra el movimiento; devuelve false si la fila ya no existía
	// (protección contra doble reversa).
	Delete(id string) (bool, error)
	List(filter MovementFilter) ([]*entity.Movement, error)
	// CountByLot movimientos vivos que referencian un lote (guarda de borrado de lote).
	CountByLot(lotID string) (int, error)
}
