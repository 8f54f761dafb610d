package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/brigada-api/internal/domain/entity"
	"github.com/tu-usuario/brigada-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, lot_id, actor_id, direction, quantity, team, notes, occurred_at, created_at`

// Create persiste un movimiento.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO movements (id, lot_id, actor_id, direction, quantity, team, notes, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	notes := (*string)(nil)
	if movement.Notes != "" {
		notes = &movement.Notes
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.LotID, movement.ActorID, movement.Direction,
		movement.Quantity, movement.Team, notes, movement.OccurredAt, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	var m entity.Movement
	var notes *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.LotID, &m.ActorID, &m.Direction, &m.Quantity, &m.Team,
		&notes, &m.OccurredAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if notes != nil {
		m.Notes = *notes
	}
	return &m, nil
}

// Delete borra el movimiento. false si la fila ya no existía (doble reversa).
func (r *MovementRepo) Delete(id string) (bool, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete movement: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List lista movimientos con filtros opcionales, más recientes primero.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.LotID != "" {
		query += fmt.Sprintf(" AND lot_id = $%d", pos)
		args = append(args, filter.LotID)
		pos++
	}
	if filter.Team != "" {
		query += fmt.Sprintf(" AND team = $%d", pos)
		args = append(args, filter.Team)
		pos++
	}
	if filter.Direction != "" {
		query += fmt.Sprintf(" AND direction = $%d", pos)
		args = append(args, filter.Direction)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND occurred_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var notes *string
		if err := rows.Scan(&m.ID, &m.LotID, &m.ActorID, &m.Direction, &m.Quantity,
			&m.Team, &notes, &m.OccurredAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if notes != nil {
			m.Notes = *notes
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountByLot movimientos vivos que referencian un lote.
func (r *MovementRepo) CountByLot(lotID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM movements WHERE lot_id = $1`, lotID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count movements by lot: %w", err)
	}
	return count, nil
}
