package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/brigada-api/internal/application/dto"
	"github.com/tu-usuario/brigada-api/internal/application/reports"
)

// ReportHandler maneja las consultas de tablero (protegido, solo lectura).
type ReportHandler struct {
	uc *reports.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// GetStockSummary godoc
// @Summary      Totales de stock por categoría y conteo de lotes por estado
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  reports.StockSummary
// @Router       /api/reports/stock [get]
func (h *ReportHandler) GetStockSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetStockSummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// GetExpiringLots godoc
// @Summary      Lotes que vencen dentro del horizonte
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "horizonte en días (por defecto 30)"
// @Success      200  {array}   reports.ExpiringLot
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/expiring [get]
func (h *ReportHandler) GetExpiringLots(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	lots, err := h.uc.GetExpiringLots(c.Context(), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"horizon_days": days, "total": len(lots), "lots": lots})
}

// GetMovementsByTeam godoc
// @Summary      Actividad de movimientos por guardia en un rango de fechas
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "fecha inicio 2006-01-02"
// @Param        to    query  string  true  "fecha fin 2006-01-02"
// @Success      200  {array}   repository.TeamMovementResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements-by-team [get]
func (h *ReportHandler) GetMovementsByTeam(c *fiber.Ctx) error {
	from, err1 := time.Parse("2006-01-02", c.Query("from"))
	to, err2 := time.Parse("2006-01-02", c.Query("to"))
	if err1 != nil || err2 != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from y to requeridos en formato 2006-01-02"})
	}
	// El rango incluye el día final completo.
	to = to.Add(24*time.Hour - time.Nanosecond)
	results, err := h.uc.GetMovementsByTeam(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(results)
}
