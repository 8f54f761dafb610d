package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/brigada-api/internal/domain/entity"
)

// CreateLotRequest alta (o merge) de un lote. Las fechas van en formato 2006-01-02.
type CreateLotRequest struct {
	Category           string           `json:"category"`
	Manufacturer       string           `json:"manufacturer"`
	LotCode            string           `json:"lot_code"`
	Quantity           decimal.Decimal  `json:"quantity"`
	Unit               string           `json:"unit"`
	Status             string           `json:"status"`
	ManufactureDate    string           `json:"manufacture_date"`
	ExpirationDate     string           `json:"expiration_date"`
	WorkingPressureBar *decimal.Decimal `json:"working_pressure_bar,omitempty"`
	LastHydroTestDate  string           `json:"last_hydro_test_date,omitempty"`
	NextHydroTestDate  string           `json:"next_hydro_test_date,omitempty"`
}

// LotResponse representación de un lote para la UI.
type LotResponse struct {
	ID                 string           `json:"id"`
	Category           string           `json:"category"`
	Manufacturer       string           `json:"manufacturer"`
	LotCode            string           `json:"lot_code,omitempty"`
	Quantity           decimal.Decimal  `json:"quantity"`
	Unit               string           `json:"unit"`
	Status             string           `json:"status"`
	ManufactureDate    string           `json:"manufacture_date"`
	ExpirationDate     string           `json:"expiration_date"`
	ExpirationStatus   string           `json:"expiration_status,omitempty"`
	WorkingPressureBar *decimal.Decimal `json:"working_pressure_bar,omitempty"`
	LastHydroTestDate  string           `json:"last_hydro_test_date,omitempty"`
	NextHydroTestDate  string           `json:"next_hydro_test_date,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// RegisterMovementRequest alta de un movimiento IN/OUT contra un lote.
// occurred_at en RFC 3339; vacío = ahora.
type RegisterMovementRequest struct {
	LotID      string          `json:"lot_id"`
	Direction  string          `json:"direction"`
	Quantity   decimal.Decimal `json:"quantity"`
	Team       string          `json:"team"`
	Notes      string          `json:"notes"`
	OccurredAt *time.Time      `json:"occurred_at"`
}

// MovementResponse representación de un movimiento para la UI.
type MovementResponse struct {
	ID         string          `json:"id"`
	LotID      string          `json:"lot_id"`
	ActorID    string          `json:"actor_id"`
	Direction  string          `json:"direction"`
	Quantity   decimal.Decimal `json:"quantity"`
	Team       string          `json:"team"`
	Notes      string          `json:"notes,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

const dateLayout = "2006-01-02"

// NewLotResponse mapea la entidad al DTO; expirationStatus puede ir vacío.
func NewLotResponse(l *entity.StockLot, expirationStatus string) LotResponse {
	resp := LotResponse{
		ID:                 l.ID,
		Category:           l.Category,
		Manufacturer:       l.Manufacturer,
		LotCode:            l.LotCode,
		Quantity:           l.Quantity,
		Unit:               l.Unit,
		Status:             l.Status,
		ManufactureDate:    l.ManufactureDate.Format(dateLayout),
		ExpirationDate:     l.ExpirationDate.Format(dateLayout),
		ExpirationStatus:   expirationStatus,
		WorkingPressureBar: l.WorkingPressureBar,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
	if l.LastHydroTestDate != nil {
		resp.LastHydroTestDate = l.LastHydroTestDate.Format(dateLayout)
	}
	if l.NextHydroTestDate != nil {
		resp.NextHydroTestDate = l.NextHydroTestDate.Format(dateLayout)
	}
	return resp
}

// NewMovementResponse mapea la entidad al DTO.
func NewMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:         m.ID,
		LotID:      m.LotID,
		ActorID:    m.ActorID,
		Direction:  m.Direction,
		Quantity:   m.Quantity,
		Team:       m.Team,
		Notes:      m.Notes,
		OccurredAt: m.OccurredAt,
		CreatedAt:  m.CreatedAt,
	}
}
