package ledger

import (
	"context"
	"time"

	"github.com/tu-usuario/brigada-api/internal/application/dto"
	"github.com/tu-usuario/brigada-api/internal/domain"
	"github.com/tu-usuario/brigada-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// CreateOrMergeLotFromRequest adapta el request HTTP al caso de uso
// CreateOrMergeLot(ctx, LotInputDTO). Las fechas llegan como 2006-01-02.
func (uc *LedgerUseCase) CreateOrMergeLotFromRequest(ctx context.Context, in dto.CreateLotRequest) (*entity.StockLot, error) {
	manufactureDate, err := parseDate(in.ManufactureDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	expirationDate, err := parseDate(in.ExpirationDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	input := LotInputDTO{
		Category:           in.Category,
		Manufacturer:       in.Manufacturer,
		LotCode:            in.LotCode,
		Quantity:           in.Quantity,
		Unit:               in.Unit,
		Status:             in.Status,
		ManufactureDate:    manufactureDate,
		ExpirationDate:     expirationDate,
		WorkingPressureBar: in.WorkingPressureBar,
	}
	if in.LastHydroTestDate != "" {
		d, err := parseDate(in.LastHydroTestDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		input.LastHydroTestDate = &d
	}
	if in.NextHydroTestDate != "" {
		d, err := parseDate(in.NextHydroTestDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		input.NextHydroTestDate = &d
	}
	return uc.CreateOrMergeLot(ctx, input)
}

// ApplyMovementFromRequest adapta el request HTTP al caso de uso
// ApplyMovement(ctx, MovementInputDTO). El actor sale del token, no del body.
func (uc *LedgerUseCase) ApplyMovementFromRequest(ctx context.Context, actorID string, in dto.RegisterMovementRequest) (*entity.Movement, error) {
	occurredAt := time.Now()
	if in.OccurredAt != nil {
		occurredAt = *in.OccurredAt
	}
	input := MovementInputDTO{
		LotID:      in.LotID,
		ActorID:    actorID,
		Direction:  in.Direction,
		Quantity:   in.Quantity,
		Team:       in.Team,
		Notes:      in.Notes,
		OccurredAt: occurredAt,
	}
	return uc.ApplyMovement(ctx, input)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
