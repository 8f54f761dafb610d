package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tu-usuario/brigada-api/internal/domain/entity"
	"github.com/tu-usuario/brigada-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportCache)(nil)

// ReportCache decorador read-through sobre ReportRepository: sirve las
// agregaciones del tablero desde Redis con TTL corto y cae a PostgreSQL en
// miss o en fallo de Redis. Solo cachea lecturas; las mutaciones del libro
// nunca pasan por aquí.
type ReportCache struct {
	next repository.ReportRepository
	rdb  *redis.Client
	ttl  time.Duration
}

// NewReportCache construye el decorador. ttl <= 0 usa 30s.
func NewReportCache(next repository.ReportRepository, rdb *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ReportCache{next: next, rdb: rdb, ttl: ttl}
}

// NewClient crea el cliente Redis y verifica conectividad.
func NewClient(addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// getOrLoad intenta la clave en Redis; en miss (o error de Redis) carga con
// load y guarda el resultado serializado con TTL. Errores de Redis no se
// propagan: el cache es mejora, no dependencia.
func getOrLoad[T any](c *ReportCache, ctx context.Context, key string, load func() (T, error)) (T, error) {
	var zero T
	if val, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var out T
		if jsonErr := json.Unmarshal([]byte(val), &out); jsonErr == nil {
			return out, nil
		}
	}
	out, err := load()
	if err != nil {
		return zero, err
	}
	if data, jsonErr := json.Marshal(out); jsonErr == nil {
		_ = c.rdb.Set(ctx, key, data, c.ttl).Err()
	}
	return out, nil
}

// StockByCategory vía cache.
func (c *ReportCache) StockByCategory(ctx context.Context) ([]repository.CategoryStockResult, error) {
	return getOrLoad(c, ctx, "reports:stock_by_category", func() ([]repository.CategoryStockResult, error) {
		return c.next.StockByCategory(ctx)
	})
}

// CountLotsByStatus vía cache.
func (c *ReportCache) CountLotsByStatus(ctx context.Context) ([]repository.StatusCountResult, error) {
	return getOrLoad(c, ctx, "reports:lots_by_status", func() ([]repository.StatusCountResult, error) {
		return c.next.CountLotsByStatus(ctx)
	})
}

// ExpiringLots vía cache, clave por horizonte.
func (c *ReportCache) ExpiringLots(ctx context.Context, horizonDays int) ([]*entity.StockLot, error) {
	key := fmt.Sprintf("reports:expiring:%d", horizonDays)
	return getOrLoad(c, ctx, key, func() ([]*entity.StockLot, error) {
		return c.next.ExpiringLots(ctx, horizonDays)
	})
}

// MovementsByTeam sin cache: el rango de fechas es libre y la cardinalidad de
// claves no lo justifica.
func (c *ReportCache) MovementsByTeam(ctx context.Context, from, to time.Time) ([]repository.TeamMovementResult, error) {
	return c.next.MovementsByTeam(ctx, from, to)
}
