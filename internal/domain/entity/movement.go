package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento sobre un lote.
const (
	DirectionIN  = "IN"  // entrada: suma al lote
	DirectionOUT = "OUT" // salida: resta del lote
)

// Guardias de intervención (roster fijo de la unidad).
const (
	TeamAlfa    = "ALFA"
	TeamBravo   = "BRAVO"
	TeamCharlie = "CHARLIE"
	TeamDelta   = "DELTA"
)

// Teams devuelve el roster completo, en orden estable.
func Teams() []string {
	return []string{TeamAlfa, TeamBravo, TeamCharlie, TeamDelta}
}

// ValidTeam verifica pertenencia al roster.
func ValidTeam(team string) bool {
	switch team {
	case TeamAlfa, TeamBravo, TeamCharlie, TeamDelta:
		return true
	}
	return false
}

// ValidDirection verifica IN u OUT.
func ValidDirection(direction string) bool {
	return direction == DirectionIN || direction == DirectionOUT
}

// Movement registra un cambio de cantidad contra exactamente un StockLot.
// Quantity siempre es positiva; Direction determina el signo del efecto.
type Movement struct {
	ID         string
	LotID      string
	ActorID    string
	Direction  string
	Quantity   decimal.Decimal
	Team       string
	Notes      string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// SignedDelta devuelve el efecto del movimiento sobre la cantidad del lote
// (positivo para IN, negativo para OUT).
func (m *Movement) SignedDelta() decimal.Decimal {
	if m.Direction == DirectionOUT {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
