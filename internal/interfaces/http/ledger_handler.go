package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/brigada-api/internal/application/dto"
	"github.com/tu-usuario/brigada-api/internal/application/ledger"
	"github.com/tu-usuario/brigada-api/internal/domain/repository"
)

// LedgerHandler maneja las peticiones HTTP del libro de agentes extintores (protegido).
type LedgerHandler struct {
	uc *ledger.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// CreateLot godoc
// @Summary      Registrar un lote (o mergear con uno existente de la misma clave natural)
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "category, manufacturer, quantity, manufacture_date, expiration_date; lot_code opcional"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LedgerHandler) CreateLot(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lot, err := h.uc.CreateOrMergeLotFromRequest(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewLotResponse(lot, h.uc.ExpirationStatus(lot.ExpirationDate)))
}

// ListLots godoc
// @Summary      Listar lotes
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "FOAM | DRY_CHEMICAL | NITROGEN"
// @Param        status    query  string  false  "IN_STOCK | IN_USE | MAINTENANCE | DISCARDED"
// @Param        limit     query  int     false  "por defecto 20, máximo 100"
// @Param        offset    query  int     false  "por defecto 0"
// @Success      200  {array}   dto.LotResponse
// @Router       /api/lots [get]
func (h *LedgerHandler) ListLots(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	lots, err := h.uc.ListLots(repository.LotFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.NewLotResponse(l, h.uc.ExpirationStatus(l.ExpirationDate)))
	}
	return c.JSON(out)
}

// GetLot godoc
// @Summary      Obtener un lote por ID
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LedgerHandler) GetLot(c *fiber.Ctx) error {
	lot, err := h.uc.GetLot(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewLotResponse(lot, h.uc.ExpirationStatus(lot.ExpirationDate)))
}

// DeleteLot godoc
// @Summary      Borrar un lote (solo admin; rechaza si tiene movimientos)
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [delete]
func (h *LedgerHandler) DeleteLot(c *fiber.Ctx) error {
	if err := h.uc.DeleteLot(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecommendLot godoc
// @Summary      Recomendar lote FIFO por vencimiento (solo lectura, no reserva)
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  true  "FOAM | DRY_CHEMICAL | NITROGEN"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/recommendation [get]
func (h *LedgerHandler) RecommendLot(c *fiber.Ctx) error {
	lot, err := h.uc.RecommendLot(c.Query("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewLotResponse(lot, h.uc.ExpirationStatus(lot.ExpirationDate)))
}

// RegisterMovement godoc
// @Summary      Aplicar un movimiento IN/OUT sobre un lote
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "lot_id, direction, quantity, team; occurred_at opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *LedgerHandler) RegisterMovement(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.ApplyMovementFromRequest(c.Context(), actorID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        lot_id     query  string  false  "filtrar por lote"
// @Param        team       query  string  false  "ALFA | BRAVO | CHARLIE | DELTA"
// @Param        direction  query  string  false  "IN | OUT"
// @Param        limit      query  int     false  "por defecto 20, máximo 100"
// @Param        offset     query  int     false  "por defecto 0"
// @Success      200  {array}   dto.MovementResponse
// @Router       /api/movements [get]
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	movs, err := h.uc.ListMovements(repository.MovementFilter{
		LotID:     c.Query("lot_id"),
		Team:      c.Query("team"),
		Direction: c.Query("direction"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.NewMovementResponse(m))
	}
	return c.JSON(out)
}

// ReverseMovement godoc
// @Summary      Reversar un movimiento (inverso exacto sobre el lote)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *LedgerHandler) ReverseMovement(c *fiber.Ctx) error {
	if err := h.uc.ReverseMovement(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
