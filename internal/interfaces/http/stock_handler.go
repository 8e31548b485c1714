package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/healthstack/lmis-facility-api/internal/application/dto"
	"github.com/healthstack/lmis-facility-api/internal/application/losses"
	"github.com/healthstack/lmis-facility-api/internal/application/receipts"
	"github.com/healthstack/lmis-facility-api/internal/application/stock"
	"github.com/healthstack/lmis-facility-api/internal/domain"
)

// StockHandler maneja existencias, pérdidas y recepciones (protegido).
type StockHandler struct {
	ledger     *stock.Ledger
	lossesUC   *losses.UseCase
	receiptsUC *receipts.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.Ledger, lossesUC *losses.UseCase, receiptsUC *receipts.UseCase) *StockHandler {
	return &StockHandler{ledger: ledger, lossesUC: lossesUC, receiptsUC: receiptsUC}
}

// Level godoc
// @Summary      Existencia actual de un insumo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        commodityId  path  string  true  "ID del insumo"
// @Success      200  {object}  dto.StockLevelResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/{commodityId} [get]
func (h *StockHandler) Level(c *fiber.Ctx) error {
	commodityID := c.Params("commodityId")
	level, err := h.ledger.LevelFor(commodityID)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(dto.StockLevelResponse{CommodityID: commodityID, Quantity: level})
}

// RecordLoss godoc
// @Summary      Registrar pérdida de un insumo
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "commodity_id, quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/losses [post]
func (h *StockHandler) RecordLoss(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.lossesUC.RecordLoss(c.Context(), in.CommodityID, in.Quantity); err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "pérdida registrada"})
}

// RecordReceipt godoc
// @Summary      Registrar recepción de un insumo
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "commodity_id, quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/receipts [post]
func (h *StockHandler) RecordReceipt(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.receiptsUC.RecordReceipt(c.Context(), in.CommodityID, in.Quantity); err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "recepción registrada"})
}

func stockError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "insumo no encontrado"})
	case errors.Is(err, domain.ErrActivityNotConfigured):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ACTIVITY_NOT_CONFIGURED", Message: "el insumo no tiene la actividad configurada"})
	case errors.Is(err, domain.ErrStockItemNotFound), errors.Is(err, domain.ErrStockItemDuplicated):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STOCK_INTEGRITY", Message: "el stock del insumo está en un estado inconsistente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
