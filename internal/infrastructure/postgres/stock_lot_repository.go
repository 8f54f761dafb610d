package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/brigada-api/internal/domain"
	"github.com/tu-usuario/brigada-api/internal/domain/entity"
	"github.com/tu-usuario/brigada-api/internal/domain/repository"
)

var _ repository.StockLotRepository = (*StockLotRepo)(nil)

// StockLotRepo implementación de StockLotRepository sobre PostgreSQL (usable con pool o tx).
type StockLotRepo struct {
	q Querier
}

// NewStockLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockLotRepository(q Querier) *StockLotRepo {
	return &StockLotRepo{q: q}
}

const lotColumns = `id, category, manufacturer, lot_code, quantity, unit, status,
	manufacture_date, expiration_date, working_pressure_bar,
	last_hydro_test_date, next_hydro_test_date, created_at, updated_at`

func scanLot(row pgx.Row) (*entity.StockLot, error) {
	var l entity.StockLot
	var lotCode *string
	err := row.Scan(
		&l.ID, &l.Category, &l.Manufacturer, &lotCode, &l.Quantity, &l.Unit, &l.Status,
		&l.ManufactureDate, &l.ExpirationDate, &l.WorkingPressureBar,
		&l.LastHydroTestDate, &l.NextHydroTestDate, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lotCode != nil {
		l.LotCode = *lotCode
	}
	return &l, nil
}

// Create persiste un lote nuevo. Una violación del índice único de clave natural
// (carrera de merge concurrente) se traduce a domain.ErrConflict para que el
// caller reintente.
func (r *StockLotRepo) Create(lot *entity.StockLot) error {
	query := `
		INSERT INTO stock_lots (id, category, manufacturer, lot_code, quantity, unit, status,
			manufacture_date, expiration_date, working_pressure_bar,
			last_hydro_test_date, next_hydro_test_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	lotCode := (*string)(nil)
	if lot.LotCode != "" {
		lotCode = &lot.LotCode
	}
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.Category, lot.Manufacturer, lotCode, lot.Quantity, lot.Unit, lot.Status,
		lot.ManufactureDate, lot.ExpirationDate, lot.WorkingPressureBar,
		lot.LastHydroTestDate, lot.NextHydroTestDate, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create stock lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. nil si no existe.
func (r *StockLotRepo) GetByID(id string) (*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + ` FROM stock_lots WHERE id = $1`
	lot, err := scanLot(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot: %w", err)
	}
	return lot, nil
}

// GetForUpdate obtiene el lote y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockLotRepo) GetForUpdate(id string) (*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + ` FROM stock_lots WHERE id = $1 FOR UPDATE`
	lot, err := scanLot(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot for update: %w", err)
	}
	return lot, nil
}

// FindByNaturalKey busca por la clave de deduplicación. nil si no hay coincidencia.
func (r *StockLotRepo) FindByNaturalKey(category, lotCode string, manufactureDate time.Time) (*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + `
		FROM stock_lots
		WHERE category = $1 AND lot_code = $2 AND manufacture_date = $3
		FOR UPDATE`
	lot, err := scanLot(r.q.QueryRow(context.Background(), query, category, lotCode, manufactureDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find lot by natural key: %w", err)
	}
	return lot, nil
}

// AddQuantity aplica delta con la guarda de no-negatividad dentro del propio
// UPDATE: una lectura obsoleta nunca puede autorizar una escritura que deje la
// cantidad negativa. Devuelve false si la guarda rechazó la escritura.
func (r *StockLotRepo) AddQuantity(id string, delta decimal.Decimal) (bool, error) {
	query := `
		UPDATE stock_lots
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0`
	tag, err := r.q.Exec(context.Background(), query, id, delta)
	if err != nil {
		return false, fmt.Errorf("add quantity: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Update edición correctiva de los atributos del lote (no toca quantity;
// para eso está AddQuantity con su guarda).
func (r *StockLotRepo) Update(lot *entity.StockLot) error {
	query := `
		UPDATE stock_lots
		SET manufacturer = $2, status = $3, expiration_date = $4,
			working_pressure_bar = $5, last_hydro_test_date = $6,
			next_hydro_test_date = $7, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.Manufacturer, lot.Status, lot.ExpirationDate,
		lot.WorkingPressureBar, lot.LastHydroTestDate, lot.NextHydroTestDate,
	)
	if err != nil {
		return fmt.Errorf("update stock lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista lotes con filtros opcionales, ordenados por vencimiento ascendente.
func (r *StockLotRepo) List(filter repository.LotFilter) ([]*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + ` FROM stock_lots WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, filter.Category)
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY expiration_date, created_at, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}

// FirstToExpire lote con vencimiento más próximo y cantidad > 0 de la categoría.
// Desempate determinista por created_at y luego id. nil si no hay elegible.
func (r *StockLotRepo) FirstToExpire(category string) (*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + `
		FROM stock_lots
		WHERE category = $1 AND quantity > 0
		ORDER BY expiration_date, created_at, id
		LIMIT 1`
	lot, err := scanLot(r.q.QueryRow(context.Background(), query, category))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("first to expire: %w", err)
	}
	return lot, nil
}

// Delete borra el lote por ID.
func (r *StockLotRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM stock_lots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
