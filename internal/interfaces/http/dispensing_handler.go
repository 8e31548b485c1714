package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/healthstack/lmis-facility-api/internal/application/dispensing"
	"github.com/healthstack/lmis-facility-api/internal/application/dto"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
)

// DispensingHandler maneja las peticiones HTTP de dispensaciones (protegido).
type DispensingHandler struct {
	uc *dispensing.UseCase
}

// NewDispensingHandler construye el handler.
func NewDispensingHandler(uc *dispensing.UseCase) *DispensingHandler {
	return &DispensingHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar dispensación
// @Tags         dispensing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDispensingRequest  true  "items, to_facility, prescription_id (opcional)"
// @Success      201   {object}  dto.DispensingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/dispensings [post]
func (h *DispensingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDispensingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items es requerido"})
	}

	d := &entity.Dispensing{
		PrescriptionID: in.PrescriptionID,
		ToFacility:     in.ToFacility,
		Items:          make([]entity.DispensingItem, 0, len(in.Items)),
	}
	for _, item := range in.Items {
		d.Items = append(d.Items, entity.DispensingItem{
			CommodityID: item.CommodityID,
			Quantity:    item.Quantity,
		})
	}

	if err := h.uc.AddDispensing(c.Context(), d); err != nil {
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
	return c.Status(fiber.StatusCreated).JSON(dto.DispensingResponse{
		ID:             d.ID,
		PrescriptionID: d.PrescriptionID,
		ToFacility:     d.ToFacility,
		Items:          len(d.Items),
		Created:        d.Created,
	})
}

// NextPrescription godoc
// @Summary      Consecutivo de receta sugerido para el mes actual
// @Tags         dispensing
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NextPrescriptionResponse
// @Router       /api/dispensings/next-prescription [get]
func (h *DispensingHandler) NextPrescription(c *fiber.Ctx) error {
	id, err := h.uc.NextPrescriptionID(c.Context(), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NextPrescriptionResponse{PrescriptionID: id})
}
