package ledger_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/brigada-api/internal/application/ledger"
	"github.com/tu-usuario/brigada-api/internal/domain"
	"github.com/tu-usuario/brigada-api/internal/domain/entity"
	"github.com/tu-usuario/brigada-api/internal/domain/repository"
	"github.com/tu-usuario/brigada-api/internal/domain/validation"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia. Simulan el contrato del
// adaptador PostgreSQL: copias en lecturas, guarda de no-negatividad en
// AddQuantity y violación de clave natural en Create.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	lots map[string]*entity.StockLot
	movs map[string]*entity.Movement
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		lots: make(map[string]*entity.StockLot),
		movs: make(map[string]*entity.Movement),
	}
}

type fakeLotRepo struct{ s *fakeStore }

func copyLot(l *entity.StockLot) *entity.StockLot {
	c := *l
	return &c
}

func (r *fakeLotRepo) Create(lot *entity.StockLot) error {
	if lot.LotCode != "" {
		for _, l := range r.s.lots {
			if l.Category == lot.Category && l.LotCode == lot.LotCode && l.ManufactureDate.Equal(lot.ManufactureDate) {
				return domain.ErrConflict
			}
		}
	}
	r.s.lots[lot.ID] = copyLot(lot)
	return nil
}

func (r *fakeLotRepo) GetByID(id string) (*entity.StockLot, error) {
	l, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	return copyLot(l), nil
}

func (r *fakeLotRepo) GetForUpdate(id string) (*entity.StockLot, error) {
	return r.GetByID(id)
}

func (r *fakeLotRepo) FindByNaturalKey(category, lotCode string, manufactureDate time.Time) (*entity.StockLot, error) {
	for _, l := range r.s.lots {
		if l.Category == category && l.LotCode == lotCode && l.ManufactureDate.Equal(manufactureDate) {
			return copyLot(l), nil
		}
	}
	return nil, nil
}

func (r *fakeLotRepo) AddQuantity(id string, delta decimal.Decimal) (bool, error) {
	l, ok := r.s.lots[id]
	if !ok {
		return false, nil
	}
	next := l.Quantity.Add(delta)
	if next.LessThan(decimal.Zero) {
		return false, nil
	}
	l.Quantity = next
	l.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeLotRepo) Update(lot *entity.StockLot) error {
	if _, ok := r.s.lots[lot.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.lots[lot.ID] = copyLot(lot)
	return nil
}

func (r *fakeLotRepo) List(filter repository.LotFilter) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	for _, l := range r.s.lots {
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		out = append(out, copyLot(l))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpirationDate.Before(out[j].ExpirationDate)
	})
	return out, nil
}

func (r *fakeLotRepo) FirstToExpire(category string) (*entity.StockLot, error) {
	var best *entity.StockLot
	for _, l := range r.s.lots {
		if l.Category != category || !l.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		if best == nil || earlier(l, best) {
			best = l
		}
	}
	if best == nil {
		return nil, nil
	}
	return copyLot(best), nil
}

// earlier replica el ORDER BY expiration_date, created_at, id del adaptador SQL.
func earlier(a, b *entity.StockLot) bool {
	if !a.ExpirationDate.Equal(b.ExpirationDate) {
		return a.ExpirationDate.Before(b.ExpirationDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (r *fakeLotRepo) Delete(id string) error {
	if _, ok := r.s.lots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.lots, id)
	return nil
}

type fakeMovRepo struct{ s *fakeStore }

func (r *fakeMovRepo) Create(m *entity.Movement) error {
	c := *m
	r.s.movs[m.ID] = &c
	return nil
}

func (r *fakeMovRepo) GetByID(id string) (*entity.Movement, error) {
	m, ok := r.s.movs[id]
	if !ok {
		return nil, nil
	}
	c := *m
	return &c, nil
}

func (r *fakeMovRepo) Delete(id string) (bool, error) {
	if _, ok := r.s.movs[id]; !ok {
		return false, nil
	}
	delete(r.s.movs, id)
	return true, nil
}

func (r *fakeMovRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movs {
		if filter.LotID != "" && m.LotID != filter.LotID {
			continue
		}
		if filter.Team != "" && m.Team != filter.Team {
			continue
		}
		if filter.Direction != "" && m.Direction != filter.Direction {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeMovRepo) CountByLot(lotID string) (int, error) {
	count := 0
	for _, m := range r.s.movs {
		if m.LotID == lotID {
			count++
		}
	}
	return count, nil
}

type fakeTxRunner struct{ s *fakeStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.StockLotRepository,
	movRepo repository.MovementRepository,
) error) error {
	return fn(&fakeLotRepo{s: t.s}, &fakeMovRepo{s: t.s})
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newUseCase(s *fakeStore) *ledger.LedgerUseCase {
	return ledger.NewLedgerUseCase(
		&fakeTxRunner{s: s},
		&fakeLotRepo{s: s},
		&fakeMovRepo{s: s},
		validation.NewEngine(validation.DefaultConfig()),
	)
}

// foamBase es fija para que llamadas sucesivas a foamInput con el mismo
// lotCode compartan la clave natural (category, lot_code, manufacture_date).
var foamBase = time.Now()

func foamInput(lotCode string, quantity int64) ledger.LotInputDTO {
	return ledger.LotInputDTO{
		Category:        entity.CategoryFOAM,
		Manufacturer:    "Sabo Española",
		LotCode:         lotCode,
		Quantity:        decimal.NewFromInt(quantity),
		ManufactureDate: foamBase.AddDate(-1, 0, 0),
		ExpirationDate:  foamBase.AddDate(2, 0, 0),
	}
}

func movementInput(lotID, direction string, quantity int64) ledger.MovementInputDTO {
	return ledger.MovementInputDTO{
		LotID:      lotID,
		ActorID:    "user-1",
		Direction:  direction,
		Quantity:   decimal.NewFromInt(quantity),
		Team:       entity.TeamBravo,
		OccurredAt: time.Now().Add(-time.Minute),
	}
}

// seedLot inserta un lote directo al store (sin pasar por validación),
// para armar escenarios con fechas arbitrarias.
func seedLot(s *fakeStore, category string, expiration, createdAt time.Time, quantity int64) *entity.StockLot {
	lot := &entity.StockLot{
		ID:              uuid.New().String(),
		Category:        category,
		Manufacturer:    "Drägerwerk",
		Quantity:        decimal.NewFromInt(quantity),
		Unit:            entity.UnitForCategory(category),
		Status:          entity.StatusInStock,
		ManufactureDate: expiration.AddDate(-3, 0, 0),
		ExpirationDate:  expiration,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	s.lots[lot.ID] = lot
	return lot
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateOrMergeLot
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrMergeLot_CreaLoteNuevo(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)

	lot, err := uc.CreateOrMergeLot(context.Background(), foamInput("A1", 100))
	require.NoError(t, err)
	require.NotNil(t, lot)
	assert.Equal(t, entity.StatusInStock, lot.Status, "estado por defecto")
	assert.Equal(t, entity.UnitLiters, lot.Unit, "unidad derivada de la categoría")
	assert.Len(t, s.lots, 1)
}

// Dos registros con la misma clave natural terminan en UN lote con q1+q2.
func TestCreateOrMergeLot_MergeMismaClaveNatural(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)

	first, err := uc.CreateOrMergeLot(context.Background(), foamInput("A1", 100))
	require.NoError(t, err)

	merged, err := uc.CreateOrMergeLot(context.Background(), foamInput("A1", 40))
	require.NoError(t, err)

	assert.Equal(t, first.ID, merged.ID, "el merge devuelve el lote existente")
	assert.True(t, merged.Quantity.Equal(decimal.NewFromInt(140)), "140 esperado, got %s", merged.Quantity)
	assert.Len(t, s.lots, 1, "no debe crearse un segundo lote")
}

// Sin lot_code no hay clave natural: dos registros idénticos son dos lotes.
func TestCreateOrMergeLot_SinLotCodeNoMergea(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)

	_, err := uc.CreateOrMergeLot(context.Background(), foamInput("", 100))
	require.NoError(t, err)
	_, err = uc.CreateOrMergeLot(context.Background(), foamInput("", 100))
	require.NoError(t, err)

	assert.Len(t, s.lots, 2)
}

func TestCreateOrMergeLot_ValidacionFalla(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)

	input := foamInput("A1", 100)
	input.ExpirationDate = input.ManufactureDate // orden estricto violado

	_, err := uc.CreateOrMergeLot(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var vErr *ledger.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.Result.HasError(validation.CodeExpirationNotAfter))
	assert.Empty(t, s.lots, "una validación fallida no persiste nada")
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_DescuentaYPersiste(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)
	lot, err := uc.CreateOrMergeLot(context.Background(), foamInput("A1", 100))
	require.NoError(t, err)

	mov, err := uc.ApplyMovement(context.Background(), movementInput(lot.ID, entity.DirectionOUT, 30))
	require.NoError(t, err)
	require.NotNil(t, mov)

	stored := s.lots[lot.ID]
	assert.True(t, stored.Quantity.Equal(decimal.NewFromInt(70)))
	assert.Len(t, s.movs, 1)
}

func TestApplyMovement_LoteInexistente(t *testing.T) {
	uc := newUseCase(newFakeStore())
	_, err := uc.ApplyMovement(context.Background(), movementInput(uuid.New().String(), entity.DirectionIN, 10))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Salida por el total exacto deja el lote en cero; una unidad más es
// ErrInsufficientStock y no deja rastro.
func TestApplyMovement_LimiteDeStock(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)
	lot, err := uc.CreateOrMergeLot(context.Background(), foamInput("A1", 100))
	require.NoError(t, err)

	_, err = uc.ApplyMovement(context.Background(), movementInput(lot.ID, entity.DirectionOUT, 100))
	require.NoError(t, err)
	assert.True(t, s.lots[lot.ID].Quantity.IsZero())

	_, err = uc.ApplyMovement(context.Background(), movementInput(lot.ID, entity.DirectionOUT, 1))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, s.lots[lot.ID].Quantity.IsZero(), "el rechazo no toca la cantidad")
	assert.Len(t, s.movs, 1, "el rechazo no inserta movimiento")
}

func TestApplyMovement_ValidacionFalla(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)
	lot, err := uc.CreateOrMergeLot(context.Background(), foamInput("A1", 100))
	require.NoError(t, err)

	input := movementInput(lot.ID, entity.DirectionOUT, 10)
	input.Team = "ECHO"
	_, err = uc.ApplyMovement(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, s.movs)
}

// ──────────────────────────────────────────────────────────────────────────────
// ReverseMovement
// ──────────────────────────────────────────────────────────────────────────────

// Aplicar y reversar inmediatamente devuelve la cantidad exacta previa.
func TestReverseMovement_SimetriaExacta(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)
	lot, err := uc.CreateOrMergeLot(context.Background(), foamInput("A1", 100))
	require.NoError(t, err)

	mov, err := uc.ApplyMovement(context.Background(), movementInput(lot.ID, entity.DirectionOUT, 30))
	require.NoError(t, err)

	require.NoError(t, uc.ReverseMovement(context.Background(), mov.ID))
	assert.True(t, s.lots[lot.ID].Quantity.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, s.movs, "la fila del movimiento desaparece")
}

// La segunda reversa del mismo movimiento es ErrNotFound y no toca el lote.
func TestReverseMovement_DobleReversa(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)
	lot, err := uc.CreateOrMergeLot(context.Background(), foamInput("A1", 100))
	require.NoError(t, err)
	mov, err := uc.ApplyMovement(context.Background(), movementInput(lot.ID, entity.DirectionIN, 10))
	require.NoError(t, err)

	require.NoError(t, uc.ReverseMovement(context.Background(), mov.ID))
	err = uc.ReverseMovement(context.Background(), mov.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, s.lots[lot.ID].Quantity.Equal(decimal.NewFromInt(100)))
}

// Reversar un IN cuyo stock ya fue consumido por salidas posteriores dejaría
// la cantidad negativa: la guarda lo rechaza.
func TestReverseMovement_INYaConsumido(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)
	lot, err := uc.CreateOrMergeLot(context.Background(), foamInput("A1", 10))
	require.NoError(t, err)

	in, err := uc.ApplyMovement(context.Background(), movementInput(lot.ID, entity.DirectionIN, 90))
	require.NoError(t, err)
	_, err = uc.ApplyMovement(context.Background(), movementInput(lot.ID, entity.DirectionOUT, 95))
	require.NoError(t, err)

	err = uc.ReverseMovement(context.Background(), in.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, s.movs, 2, "la reversa rechazada no borra el movimiento")
}

// ──────────────────────────────────────────────────────────────────────────────
// RecommendLot (FIFO por vencimiento)
// ──────────────────────────────────────────────────────────────────────────────

func TestRecommendLot_FIFOPorVencimiento(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	seedLot(s, entity.CategoryFOAM, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), base, 10)
	seedLot(s, entity.CategoryFOAM, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), base, 10)
	expected := seedLot(s, entity.CategoryFOAM, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), base, 10)

	got, err := uc.RecommendLot(entity.CategoryFOAM)
	require.NoError(t, err)
	assert.Equal(t, expected.ID, got.ID, "gana el vencimiento más próximo")
}

func TestRecommendLot_EmpateDesempataPorCreacion(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)
	exp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	older := seedLot(s, entity.CategoryNitrogen, exp, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 5)
	seedLot(s, entity.CategoryNitrogen, exp, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 5)

	got, err := uc.RecommendLot(entity.CategoryNitrogen)
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID, "a igual vencimiento gana el creado antes")
}

// Lotes en cero no son elegibles; sin elegibles la recomendación es ErrNotFound.
func TestRecommendLot_SinElegibles(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)
	seedLot(s, entity.CategoryFOAM, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Now(), 0)

	_, err := uc.RecommendLot(entity.CategoryFOAM)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecommendLot_CategoriaInvalida(t *testing.T) {
	uc := newUseCase(newFakeStore())
	_, err := uc.RecommendLot("HALON")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteLot
// ──────────────────────────────────────────────────────────────────────────────

// Un lote con movimientos vivos no se borra: primero hay que reversarlos.
func TestDeleteLot_ConMovimientosRechaza(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)
	lot, err := uc.CreateOrMergeLot(context.Background(), foamInput("A1", 100))
	require.NoError(t, err)
	mov, err := uc.ApplyMovement(context.Background(), movementInput(lot.ID, entity.DirectionOUT, 10))
	require.NoError(t, err)

	err = uc.DeleteLot(context.Background(), lot.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	// Tras reversar el movimiento el borrado procede.
	require.NoError(t, uc.ReverseMovement(context.Background(), mov.ID))
	require.NoError(t, uc.DeleteLot(context.Background(), lot.ID))
	assert.Empty(t, s.lots)
}

func TestDeleteLot_Inexistente(t *testing.T) {
	uc := newUseCase(newFakeStore())
	err := uc.DeleteLot(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo del libro
// ──────────────────────────────────────────────────────────────────────────────

// Alta 100 L → OUT 30 (70) → IN 10 (80) → reversa OUT (110) → reversa IN (100).
func TestEscenarioCompleto(t *testing.T) {
	s := newFakeStore()
	uc := newUseCase(s)

	lot, err := uc.CreateOrMergeLot(context.Background(), foamInput("A1", 100))
	require.NoError(t, err)

	out, err := uc.ApplyMovement(context.Background(), movementInput(lot.ID, entity.DirectionOUT, 30))
	require.NoError(t, err)
	assert.True(t, s.lots[lot.ID].Quantity.Equal(decimal.NewFromInt(70)))

	in, err := uc.ApplyMovement(context.Background(), movementInput(lot.ID, entity.DirectionIN, 10))
	require.NoError(t, err)
	assert.True(t, s.lots[lot.ID].Quantity.Equal(decimal.NewFromInt(80)))

	require.NoError(t, uc.ReverseMovement(context.Background(), out.ID))
	assert.True(t, s.lots[lot.ID].Quantity.Equal(decimal.NewFromInt(110)))

	require.NoError(t, uc.ReverseMovement(context.Background(), in.ID))
	assert.True(t, s.lots[lot.ID].Quantity.Equal(decimal.NewFromInt(100)), "el libro vuelve al estado inicial")
}
