package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/healthstack/lmis-facility-api/internal/application/dto"
	"github.com/healthstack/lmis-facility-api/internal/application/reports"
	"github.com/healthstack/lmis-facility-api/internal/domain"
)

// ReportHandler genera el reporte mensual de dispensación (protegido).
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// MonthlyPDF godoc
// @Summary      Descargar reporte mensual de dispensación en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        month  query  string  false  "Mes a reportar (YYYY-MM, por defecto el actual)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/dispensing/monthly [get]
func (h *ReportHandler) MonthlyPDF(c *fiber.Ctx) error {
	at := time.Now()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "month debe tener formato YYYY-MM"})
		}
		at = parsed
	}

	facilityName := GetFacilityCode(c)
	pdfBytes, filename, err := h.uc.DownloadMonthlyPDF(c.Context(), facilityName, at)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no hay insumos activos para reportar"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
