package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/healthstack/lmis-facility-api/internal/application/catalog"
	"github.com/healthstack/lmis-facility-api/internal/application/dto"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
)

// CommodityHandler maneja el catálogo de insumos (protegido).
type CommodityHandler struct {
	uc *catalog.UseCase
}

// NewCommodityHandler construye el handler.
func NewCommodityHandler(uc *catalog.UseCase) *CommodityHandler {
	return &CommodityHandler{uc: uc}
}

// List godoc
// @Summary      Listar insumos activos
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CommodityResponse
// @Router       /api/commodities [get]
func (h *CommodityHandler) List(c *fiber.Ctx) error {
	commodities, err := h.uc.ListActiveCommodities(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.CommodityResponse, 0, len(commodities))
	for _, cm := range commodities {
		out = append(out, toCommodityResponse(cm))
	}
	return c.JSON(out)
}

// ListCategories godoc
// @Summary      Listar categorías del catálogo
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CommodityHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.uc.ListCategories(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, dto.CategoryResponse{ID: cat.ID, Name: cat.Name})
	}
	return c.JSON(out)
}

// Activities godoc
// @Summary      Actividades configuradas de un insumo
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del insumo"
// @Success      200  {array}  dto.ActivityResponse
// @Router       /api/commodities/{id}/activities [get]
func (h *CommodityHandler) Activities(c *fiber.Ctx) error {
	activities, err := h.uc.ActivitiesFor(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, dto.ActivityResponse{
			ID:           a.ID,
			CommodityID:  a.CommodityID,
			Name:         a.Name,
			ActivityType: a.ActivityType,
			DataSetID:    a.DataSetID,
		})
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Importar catálogo del servidor remoto (solo admin)
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  catalog.ImportReport
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/catalog/import [post]
func (h *CommodityHandler) Import(c *fiber.Ctx) error {
	orgUnit := GetFacilityCode(c)
	if orgUnit == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin facility_code"})
	}
	report, err := h.uc.FetchAndImport(c.Context(), orgUnit)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "IMPORT_FAILED", Message: err.Error()})
	}
	return c.JSON(report)
}

// Deactivate godoc
// @Summary      Desactivar un insumo (solo admin)
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del insumo"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/commodities/{id} [delete]
func (h *CommodityHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "insumo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "insumo desactivado"})
}

func toCommodityResponse(c *entity.Commodity) dto.CommodityResponse {
	return dto.CommodityResponse{
		ID:              c.ID,
		CategoryID:      c.CategoryID,
		Name:            c.Name,
		Active:          c.Active,
		MinimumQuantity: c.MinimumQuantity,
		MaximumQuantity: c.MaximumQuantity,
		CreatedAt:       c.CreatedAt,
	}
}
