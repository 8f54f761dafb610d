package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/brigada-api/internal/domain"
	"github.com/tu-usuario/brigada-api/internal/domain/entity"
	"github.com/tu-usuario/brigada-api/internal/domain/repository"
	"github.com/tu-usuario/brigada-api/internal/domain/validation"
)

// LedgerUseCase único mutador de StockLot.Quantity. Toda escritura corre dentro
// de una transacción (TxRunner) con bloqueo de fila y guarda de no-negatividad
// en el propio UPDATE; una lectura obsoleta nunca autoriza una escritura.
type LedgerUseCase struct {
	txRunner TxRunner
	lotRepo  repository.StockLotRepository // lecturas fuera de transacción
	movRepo  repository.MovementRepository
	rules    *validation.Engine
}

// NewLedgerUseCase construye el caso de uso del libro de agentes extintores.
func NewLedgerUseCase(
	txRunner TxRunner,
	lotRepo repository.StockLotRepository,
	movRepo repository.MovementRepository,
	rules *validation.Engine,
) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, lotRepo: lotRepo, movRepo: movRepo, rules: rules}
}

// LotInputDTO entrada para registrar (o mergear) un lote.
type LotInputDTO struct {
	Category           string
	Manufacturer       string
	LotCode            string
	Quantity           decimal.Decimal
	Unit               string
	Status             string
	ManufactureDate    time.Time
	ExpirationDate     time.Time
	WorkingPressureBar *decimal.Decimal
	LastHydroTestDate  *time.Time
	NextHydroTestDate  *time.Time
}

// MovementInputDTO entrada para aplicar un movimiento IN/OUT sobre un lote.
type MovementInputDTO struct {
	LotID      string
	ActorID    string
	Direction  string
	Quantity   decimal.Decimal
	Team       string
	Notes      string
	OccurredAt time.Time
}

// CreateOrMergeLot valida el candidato y lo inserta; si ya existe un lote con la
// misma clave natural (category, lot_code, manufacture_date) con lot_code no
// vacío, la cantidad se suma al lote existente dentro de la misma transacción
// (los reabastecimientos del mismo lote son continuaciones, no lotes nuevos).
// Devuelve el lote creado o mergeado.
func (uc *LedgerUseCase) CreateOrMergeLot(ctx context.Context, input LotInputDTO) (*entity.StockLot, error) {
	now := time.Now()
	candidate := &entity.StockLot{
		ID:                 uuid.New().String(),
		Category:           input.Category,
		Manufacturer:       input.Manufacturer,
		LotCode:            input.LotCode,
		Quantity:           input.Quantity,
		Unit:               input.Unit,
		Status:             input.Status,
		ManufactureDate:    input.ManufactureDate,
		ExpirationDate:     input.ExpirationDate,
		WorkingPressureBar: input.WorkingPressureBar,
		LastHydroTestDate:  input.LastHydroTestDate,
		NextHydroTestDate:  input.NextHydroTestDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if candidate.Unit == "" {
		candidate.Unit = entity.UnitForCategory(candidate.Category)
	}
	if candidate.Status == "" {
		candidate.Status = entity.StatusInStock
	}

	if res := uc.rules.ValidateLot(candidate); !res.Valid() {
		return nil, &ValidationError{Result: res}
	}

	var result *entity.StockLot
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.StockLotRepository,
		movRepo repository.MovementRepository,
	) error {
		if candidate.HasLotCode() {
			existing, err := lotRepo.FindByNaturalKey(candidate.Category, candidate.LotCode, candidate.ManufactureDate)
			if err != nil {
				return err
			}
			if existing != nil {
				// Merge: sumar la cantidad entrante al lote existente en un solo UPDATE.
				ok, err := lotRepo.AddQuantity(existing.ID, candidate.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					return domain.ErrConflict
				}
				merged, err := lotRepo.GetByID(existing.ID)
				if err != nil {
					return err
				}
				result = merged
				return nil
			}
		}
		if err := lotRepo.Create(candidate); err != nil {
			return err
		}
		result = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyMovement carga el lote con bloqueo de fila, valida contra la cantidad
// actual y — solo si es válido — actualiza la cantidad y persiste el movimiento
// en la misma transacción. La resta lleva la guarda de no-negatividad en el
// propio UPDATE, de modo que dos salidas concurrentes no pueden autorizar ambas
// con la misma lectura previa.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, input MovementInputDTO) (*entity.Movement, error) {
	now := time.Now()
	mov := &entity.Movement{
		ID:         uuid.New().String(),
		LotID:      input.LotID,
		ActorID:    input.ActorID,
		Direction:  input.Direction,
		Quantity:   input.Quantity,
		Team:       input.Team,
		Notes:      input.Notes,
		OccurredAt: input.OccurredAt,
		CreatedAt:  now,
	}

	// Rechazo barato antes de abrir transacción (reglas que no dependen del lote).
	if res := uc.rules.ValidateMovement(mov, nil); !res.Valid() {
		return nil, &ValidationError{Result: res}
	}

	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.StockLotRepository,
		movRepo repository.MovementRepository,
	) error {
		lot, err := lotRepo.GetForUpdate(mov.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		res := uc.rules.ValidateMovement(mov, lot)
		if !res.Valid() {
			if res.HasError(validation.CodeInsufficientStock) {
				return domain.ErrInsufficientStock
			}
			return &ValidationError{Result: res}
		}
		ok, err := lotRepo.AddQuantity(lot.ID, mov.SignedDelta())
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInsufficientStock
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ReverseMovement deshace el efecto de un movimiento aplicando el delta inverso
// exacto (no recalcula desde el historial, para tolerar ediciones concurrentes)
// y borra la fila del movimiento en la misma transacción. Devuelve ErrNotFound
// si el movimiento ya no existe (protección contra doble reversa).
func (uc *LedgerUseCase) ReverseMovement(ctx context.Context, movementID string) error {
	return uc.txRunner.Run(ctx, func(
		lotRepo repository.StockLotRepository,
		movRepo repository.MovementRepository,
	) error {
		mov, err := movRepo.GetByID(movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		lot, err := lotRepo.GetForUpdate(mov.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		// Reversar un IN resta; reversar un OUT devuelve. La misma guarda de
		// no-negatividad aplica: un IN ya consumido por salidas posteriores
		// no puede reversarse por debajo de cero.
		ok, err := lotRepo.AddQuantity(lot.ID, mov.SignedDelta().Neg())
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInsufficientStock
		}
		deleted, err := movRepo.Delete(mov.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrNotFound
		}
		return nil
	})
}

// RecommendLot devuelve el lote de la categoría con vencimiento más próximo y
// cantidad > 0 (FIFO por vencimiento); desempate por created_at y luego id.
// Es una recomendación de solo lectura, no una reserva: el caller debe
// revalidar al aplicar el movimiento. ErrNotFound si no hay lote elegible.
func (uc *LedgerUseCase) RecommendLot(category string) (*entity.StockLot, error) {
	if !entity.ValidCategory(category) {
		return nil, domain.ErrInvalidInput
	}
	lot, err := uc.lotRepo.FirstToExpire(category)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return lot, nil
}

// GetLot lectura directa de un lote.
func (uc *LedgerUseCase) GetLot(id string) (*entity.StockLot, error) {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return lot, nil
}

// ListLots listado paginado de lotes.
func (uc *LedgerUseCase) ListLots(filter repository.LotFilter) ([]*entity.StockLot, error) {
	return uc.lotRepo.List(filter)
}

// ListMovements listado paginado de movimientos.
func (uc *LedgerUseCase) ListMovements(filter repository.MovementFilter) ([]*entity.Movement, error) {
	return uc.movRepo.List(filter)
}

// DeleteLot borra un lote administrativamente. Rechaza con ErrConflict mientras
// existan movimientos que lo referencien: primero hay que reversarlos, para no
// dejar registros colgantes en el libro.
func (uc *LedgerUseCase) DeleteLot(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		lotRepo repository.StockLotRepository,
		movRepo repository.MovementRepository,
	) error {
		lot, err := lotRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		count, err := movRepo.CountByLot(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrConflict
		}
		return lotRepo.Delete(id)
	})
}

// ExpirationStatus expone la clasificación de vencimiento del motor de reglas
// (EXPIRED, CRITICAL, WARNING, OK) para tableros.
func (uc *LedgerUseCase) ExpirationStatus(expiration time.Time) string {
	return uc.rules.StatusForExpiration(expiration)
}
