package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/brigada-api/internal/domain/entity"
	"github.com/tu-usuario/brigada-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para tableros y exportes.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// StockByCategory suma cantidades y cuenta lotes por categoría.
func (r *ReportRepo) StockByCategory(ctx context.Context) ([]repository.CategoryStockResult, error) {
	const query = `
	SELECT category, unit,
	       COALESCE(SUM(quantity), 0) AS total_quantity,
	       COUNT(*)                   AS lot_count
	FROM stock_lots
	GROUP BY category, unit
	ORDER BY category`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reports.StockByCategory: %w", err)
	}
	defer rows.Close()

	var results []repository.CategoryStockResult
	for rows.Next() {
		var row repository.CategoryStockResult
		if err := rows.Scan(&row.Category, &row.Unit, &row.TotalQuantity, &row.LotCount); err != nil {
			return nil, fmt.Errorf("reports.StockByCategory scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// CountLotsByStatus conteo de lotes por estado.
func (r *ReportRepo) CountLotsByStatus(ctx context.Context) ([]repository.StatusCountResult, error) {
	const query = `
	SELECT status, COUNT(*) AS lot_count
	FROM stock_lots
	GROUP BY status
	ORDER BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reports.CountLotsByStatus: %w", err)
	}
	defer rows.Close()

	var results []repository.StatusCountResult
	for rows.Next() {
		var row repository.StatusCountResult
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, fmt.Errorf("reports.CountLotsByStatus scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ExpiringLots lotes que vencen dentro del horizonte (incluye los ya vencidos),
// ordenados por vencimiento ascendente.
func (r *ReportRepo) ExpiringLots(ctx context.Context, horizonDays int) ([]*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + `
		FROM stock_lots
		WHERE expiration_date <= (CURRENT_DATE + $1 * INTERVAL '1 day')
		ORDER BY expiration_date, created_at, id`

	rows, err := r.pool.Query(ctx, query, horizonDays)
	if err != nil {
		return nil, fmt.Errorf("reports.ExpiringLots: %w", err)
	}
	defer rows.Close()

	var results []*entity.StockLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("reports.ExpiringLots scan: %w", err)
		}
		results = append(results, lot)
	}
	return results, rows.Err()
}

// MovementsByTeam actividad por guardia en un rango de fechas: conteo total
// y cantidades sumadas por dirección.
func (r *ReportRepo) MovementsByTeam(ctx context.Context, from, to time.Time) ([]repository.TeamMovementResult, error) {
	const query = `
	SELECT team,
	       COUNT(*)                                                          AS movement_count,
	       COALESCE(SUM(quantity) FILTER (WHERE direction = 'IN'),  0)       AS total_in,
	       COALESCE(SUM(quantity) FILTER (WHERE direction = 'OUT'), 0)       AS total_out
	FROM movements
	WHERE occurred_at BETWEEN $1 AND $2
	GROUP BY team
	ORDER BY team`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("reports.MovementsByTeam: %w", err)
	}
	defer rows.Close()

	var results []repository.TeamMovementResult
	for rows.Next() {
		var row repository.TeamMovementResult
		if err := rows.Scan(&row.Team, &row.MovementCount, &row.TotalIn, &row.TotalOut); err != nil {
			return nil, fmt.Errorf("reports.MovementsByTeam scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
