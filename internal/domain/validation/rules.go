package validation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/brigada-api/internal/domain/entity"
)

// Códigos de regla (legibles por máquina, estables para la UI).
const (
	CodeCategoryUnknown      = "CATEGORY_UNKNOWN"
	CodeManufacturerRequired = "MANUFACTURER_REQUIRED"
	CodeUnitMismatch         = "UNIT_MISMATCH"
	CodeStatusUnknown        = "STATUS_UNKNOWN"
	CodeQuantityNegative     = "QUANTITY_NEGATIVE"
	CodeQuantityAboveMax     = "QUANTITY_ABOVE_MAX"
	CodeManufactureInFuture  = "MANUFACTURE_IN_FUTURE"
	CodeExpirationNotAfter   = "EXPIRATION_NOT_AFTER_MANUFACTURE"
	CodeExpired              = "EXPIRED"
	CodeExpiresSoon          = "EXPIRES_SOON"
	CodePressureOutOfBand    = "PRESSURE_OUT_OF_BAND"
	CodeQuantityBelowMin     = "QUANTITY_BELOW_MIN"

	CodeLotRequired         = "LOT_REQUIRED"
	CodeActorRequired       = "ACTOR_REQUIRED"
	CodeDirectionUnknown    = "DIRECTION_UNKNOWN"
	CodeTeamUnknown         = "TEAM_UNKNOWN"
	CodeQuantityNotPositive = "QUANTITY_NOT_POSITIVE"
	CodeOccurredInFuture    = "OCCURRED_IN_FUTURE"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeLotDiscarded        = "LOT_DISCARDED"
)

// Clasificación de vencimiento (StatusForExpiration).
const (
	ExpirationExpired  = "EXPIRED"
	ExpirationCritical = "CRITICAL"
	ExpirationWarning  = "WARNING"
	ExpirationOK       = "OK"
)

// Violation una regla incumplida, con código estable y mensaje para logs.
type Violation struct {
	Code    string
	Message string
}

// Result resultado estructurado de una validación. El motor nunca retorna
// error de Go por reglas de negocio: errores y advertencias van aquí.
type Result struct {
	Errors   []Violation
	Warnings []Violation
}

// Valid indica ausencia de errores (las advertencias no invalidan).
func (r Result) Valid() bool { return len(r.Errors) == 0 }

func (r *Result) addError(code, msg string)   { r.Errors = append(r.Errors, Violation{code, msg}) }
func (r *Result) addWarning(code, msg string) { r.Warnings = append(r.Warnings, Violation{code, msg}) }

// HasError busca un código entre los errores.
func (r Result) HasError(code string) bool {
	for _, v := range r.Errors {
		if v.Code == code {
			return true
		}
	}
	return false
}

// HasWarning busca un código entre las advertencias.
func (r Result) HasWarning(code string) bool {
	for _, v := range r.Warnings {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Engine motor de validación puro: sin I/O, sin efectos; umbrales tabla por categoría.
type Engine struct {
	cfg Config
}

// NewEngine construye el motor con la configuración dada.
func NewEngine(cfg Config) *Engine {
	if cfg.Thresholds == nil {
		cfg.Thresholds = DefaultConfig().Thresholds
	}
	if cfg.WarningWindowDays <= 0 {
		cfg.WarningWindowDays = 30
	}
	if cfg.CriticalWindowDays <= 0 {
		cfg.CriticalWindowDays = 7
	}
	return &Engine{cfg: cfg}
}

// ValidateLot aplica las reglas de negocio sobre un lote candidato.
// Vencimiento dentro de la ventana de advertencia => warning; vencido => error.
func (e *Engine) ValidateLot(lot *entity.StockLot) Result {
	var res Result
	now := e.cfg.now()

	if !entity.ValidCategory(lot.Category) {
		res.addError(CodeCategoryUnknown, "categoría desconocida: "+lot.Category)
		return res // sin categoría no hay unidad ni umbrales que aplicar
	}
	if lot.Manufacturer == "" {
		res.addError(CodeManufacturerRequired, "fabricante requerido")
	}
	if lot.Unit != "" && lot.Unit != entity.UnitForCategory(lot.Category) {
		res.addError(CodeUnitMismatch, "unidad "+lot.Unit+" incompatible con "+lot.Category)
	}
	if lot.Status != "" && !entity.ValidStatus(lot.Status) {
		res.addError(CodeStatusUnknown, "estado desconocido: "+lot.Status)
	}

	th := e.cfg.Thresholds[lot.Category]
	if lot.Quantity.LessThan(decimal.Zero) {
		res.addError(CodeQuantityNegative, "la cantidad no puede ser negativa")
	} else if th.MaxQuantity.GreaterThan(decimal.Zero) && lot.Quantity.GreaterThan(th.MaxQuantity) {
		res.addError(CodeQuantityAboveMax, "cantidad fuera del máximo de la categoría")
	} else if th.MinQuantity.GreaterThan(decimal.Zero) && lot.Quantity.LessThan(th.MinQuantity) {
		res.addWarning(CodeQuantityBelowMin, "cantidad bajo el mínimo de la categoría")
	}

	if lot.ManufactureDate.IsZero() || lot.ExpirationDate.IsZero() {
		res.addError(CodeExpirationNotAfter, "fechas de fabricación y vencimiento requeridas")
	} else {
		if lot.ManufactureDate.After(now) {
			res.addError(CodeManufactureInFuture, "fecha de fabricación en el futuro")
		}
		if !lot.ExpirationDate.After(lot.ManufactureDate) {
			res.addError(CodeExpirationNotAfter, "el vencimiento debe ser posterior a la fabricación")
		}
		switch e.statusForExpirationAt(lot.ExpirationDate, now) {
		case ExpirationExpired:
			res.addError(CodeExpired, "el lote ya está vencido")
		case ExpirationCritical, ExpirationWarning:
			res.addWarning(CodeExpiresSoon, "el lote vence dentro de la ventana de advertencia")
		}
	}

	// Presión de trabajo: obligatoria dentro de banda solo cuando viene informada.
	if lot.WorkingPressureBar != nil && th.HasPressureBand() {
		p := *lot.WorkingPressureBar
		if p.LessThan(th.MinPressureBar) || p.GreaterThan(th.MaxPressureBar) {
			res.addError(CodePressureOutOfBand, "presión de trabajo fuera de banda")
		}
	}

	return res
}

// ValidateMovement aplica las reglas sobre un movimiento candidato. snapshot es
// el estado actual del lote (puede ser nil si el caller aún no lo cargó); las
// reglas que dependen del lote solo se evalúan con snapshot presente.
func (e *Engine) ValidateMovement(mov *entity.Movement, snapshot *entity.StockLot) Result {
	var res Result
	now := e.cfg.now()

	if mov.LotID == "" {
		res.addError(CodeLotRequired, "lote requerido")
	}
	if mov.ActorID == "" {
		res.addError(CodeActorRequired, "actor requerido")
	}
	if !entity.ValidDirection(mov.Direction) {
		res.addError(CodeDirectionUnknown, "dirección desconocida: "+mov.Direction)
	}
	if !entity.ValidTeam(mov.Team) {
		res.addError(CodeTeamUnknown, "guardia desconocida: "+mov.Team)
	}
	if !mov.Quantity.GreaterThan(decimal.Zero) {
		res.addError(CodeQuantityNotPositive, "la cantidad debe ser positiva")
	}
	if mov.OccurredAt.After(now) {
		res.addError(CodeOccurredInFuture, "el movimiento no puede ocurrir en el futuro")
	}

	if snapshot == nil {
		return res
	}
	if snapshot.Status == entity.StatusDiscarded {
		res.addError(CodeLotDiscarded, "el lote está dado de baja")
	}
	if mov.Direction == entity.DirectionOUT && mov.Quantity.GreaterThan(decimal.Zero) {
		if mov.Quantity.GreaterThan(snapshot.Quantity) {
			res.addError(CodeInsufficientStock, "la salida excede el stock disponible")
		} else {
			remaining := snapshot.Quantity.Sub(mov.Quantity)
			th := e.cfg.Thresholds[snapshot.Category]
			if th.MinQuantity.GreaterThan(decimal.Zero) && remaining.LessThan(th.MinQuantity) {
				res.addWarning(CodeQuantityBelowMin, "el stock restante queda bajo el mínimo de la categoría")
			}
		}
	}

	return res
}

// StatusForExpiration clasifica una fecha de vencimiento contra hoy:
// EXPIRED, CRITICAL (<= ventana crítica), WARNING (<= ventana de advertencia) u OK.
func (e *Engine) StatusForExpiration(expiration time.Time) string {
	return e.statusForExpirationAt(expiration, e.cfg.now())
}

func (e *Engine) statusForExpirationAt(expiration, now time.Time) string {
	if !expiration.After(now) {
		return ExpirationExpired
	}
	days := int(expiration.Sub(now).Hours() / 24)
	switch {
	case days <= e.cfg.CriticalWindowDays:
		return ExpirationCritical
	case days <= e.cfg.WarningWindowDays:
		return ExpirationWarning
	}
	return ExpirationOK
}
