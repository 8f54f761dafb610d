package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/brigada-api/internal/domain/entity"
)

// CategoryStockResult total de stock por categoría.
type CategoryStockResult struct {
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	LotCount      int             `json:"lot_count"`
}

// StatusCountResult conteo de lotes por estado.
type StatusCountResult struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TeamMovementResult actividad de una guardia en un rango de fechas.
type TeamMovementResult struct {
	Team          string          `json:"team"`
	MovementCount int             `json:"movement_count"`
	TotalIn       decimal.Decimal `json:"total_in"`
	TotalOut      decimal.Decimal `json:"total_out"`
}

// ReportRepository consultas de solo lectura para tableros y exportes.
// Proyecciones del estado actual del almacén; nunca autorizan mutaciones.
type ReportRepository interface {
	StockByCategory(ctx context.Context) ([]CategoryStockResult, error)
	CountLotsByStatus(ctx context.Context) ([]StatusCountResult, error)
	// ExpiringLots lotes con vencimiento dentro del horizonte (días desde hoy),
	// incluidos los ya vencidos, ordenados por vencimiento ascendente.
	ExpiringLots(ctx context.Context, horizonDays int) ([]*entity.StockLot, error)
	MovementsByTeam(ctx context.Context, from, to time.Time) ([]TeamMovementResult, error)
}
