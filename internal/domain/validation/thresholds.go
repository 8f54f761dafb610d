package validation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/brigada-api/internal/domain/entity"
)

// CategoryThresholds bandas de validación por categoría de agente.
// Las cantidades se expresan en la unidad de la categoría (litros, kg, cilindros).
type CategoryThresholds struct {
	MinQuantity decimal.Decimal // por debajo genera advertencia de stock mínimo
	MaxQuantity decimal.Decimal // por encima se rechaza el registro
	// Banda de presión de trabajo (bar). Cero en ambos = no aplica a la categoría.
	MinPressureBar decimal.Decimal
	MaxPressureBar decimal.Decimal
}

// HasPressureBand indica si la categoría define banda de presión de trabajo.
func (t CategoryThresholds) HasPressureBand() bool {
	return t.MaxPressureBar.GreaterThan(decimal.Zero)
}

// Config parametriza el motor de validación. Todos los umbrales son
// tabla por categoría para poder ajustarlos sin tocar las reglas.
type Config struct {
	Thresholds         map[string]CategoryThresholds
	WarningWindowDays  int              // vencimiento dentro de la ventana => advertencia
	CriticalWindowDays int              // vencimiento inminente => CRITICAL en clasificación
	Now                func() time.Time // inyectable en tests; nil = time.Now
}

// DefaultConfig umbrales operativos de la unidad.
func DefaultConfig() Config {
	return Config{
		Thresholds: map[string]CategoryThresholds{
			entity.CategoryFOAM: {
				MinQuantity:    decimal.NewFromInt(50),
				MaxQuantity:    decimal.NewFromInt(5000),
				MinPressureBar: decimal.NewFromInt(5),
				MaxPressureBar: decimal.NewFromInt(18),
			},
			entity.CategoryDryChemical: {
				MinQuantity: decimal.NewFromInt(25),
				MaxQuantity: decimal.NewFromInt(2000),
			},
			entity.CategoryNitrogen: {
				MinQuantity: decimal.NewFromInt(2),
				MaxQuantity: decimal.NewFromInt(200),
			},
		},
		WarningWindowDays:  30,
		CriticalWindowDays: 7,
	}
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
