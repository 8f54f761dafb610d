package reports

import (
	"context"
	"time"

	"github.com/tu-usuario/brigada-api/internal/domain"
	"github.com/tu-usuario/brigada-api/internal/domain/repository"
	"github.com/tu-usuario/brigada-api/internal/domain/validation"
)

// ReportUseCase agregaciones de solo lectura para tableros y exportes.
// Proyecciones del estado actual; jamás autorizan una mutación — esa
// responsabilidad es exclusiva de los caminos atómicos del LedgerUseCase.
type ReportUseCase struct {
	repo  repository.ReportRepository
	rules *validation.Engine
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(repo repository.ReportRepository, rules *validation.Engine) *ReportUseCase {
	return &ReportUseCase{repo: repo, rules: rules}
}

// StockSummary totales por categoría más conteo de lotes por estado, en una sola vista.
type StockSummary struct {
	ByCategory []repository.CategoryStockResult `json:"by_category"`
	ByStatus   []repository.StatusCountResult   `json:"by_status"`
}

// GetStockSummary totales actuales por categoría y estado.
func (uc *ReportUseCase) GetStockSummary(ctx context.Context) (*StockSummary, error) {
	byCategory, err := uc.repo.StockByCategory(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := uc.repo.CountLotsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &StockSummary{ByCategory: byCategory, ByStatus: byStatus}, nil
}

// ExpiringLot lote próximo a vencer anotado con su clasificación.
type ExpiringLot struct {
	LotID            string    `json:"lot_id"`
	Category         string    `json:"category"`
	Manufacturer     string    `json:"manufacturer"`
	LotCode          string    `json:"lot_code,omitempty"`
	Quantity         string    `json:"quantity"`
	Unit             string    `json:"unit"`
	ExpirationDate   time.Time `json:"expiration_date"`
	ExpirationStatus string    `json:"expiration_status"` // EXPIRED, CRITICAL, WARNING, OK
}

// GetExpiringLots lotes que vencen dentro del horizonte (en días), anotados con
// la clasificación del motor de reglas para pintar las alertas del tablero.
func (uc *ReportUseCase) GetExpiringLots(ctx context.Context, horizonDays int) ([]ExpiringLot, error) {
	if horizonDays <= 0 {
		return nil, domain.ErrInvalidInput
	}
	lots, err := uc.repo.ExpiringLots(ctx, horizonDays)
	if err != nil {
		return nil, err
	}
	out := make([]ExpiringLot, 0, len(lots))
	for _, l := range lots {
		out = append(out, ExpiringLot{
			LotID:            l.ID,
			Category:         l.Category,
			Manufacturer:     l.Manufacturer,
			LotCode:          l.LotCode,
			Quantity:         l.Quantity.String(),
			Unit:             l.Unit,
			ExpirationDate:   l.ExpirationDate,
			ExpirationStatus: uc.rules.StatusForExpiration(l.ExpirationDate),
		})
	}
	return out, nil
}

// GetMovementsByTeam actividad por guardia en el rango [from, to].
func (uc *ReportUseCase) GetMovementsByTeam(ctx context.Context, from, to time.Time) ([]repository.TeamMovementResult, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	return uc.repo.MovementsByTeam(ctx, from, to)
}
