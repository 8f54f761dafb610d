package ledger

import (
	"context"

	"github.com/tu-usuario/brigada-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el libro de movimientos: o se escriben
// la cantidad del lote y la fila de movimiento juntas, o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.StockLotRepository,
		movRepo repository.MovementRepository,
	) error) error
}
