package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/healthstack/lmis-facility-api/internal/application/auth"
	"github.com/healthstack/lmis-facility-api/internal/application/dto"
	"github.com/healthstack/lmis-facility-api/internal/application/sync"
	"github.com/healthstack/lmis-facility-api/internal/domain"
)

// SyncHandler dispara la sincronización manual con el servidor remoto (protegido).
type SyncHandler struct {
	syncUC *sync.UseCase
	authUC *auth.AuthUseCase
}

// NewSyncHandler construye el handler.
func NewSyncHandler(syncUC *sync.UseCase, authUC *auth.AuthUseCase) *SyncHandler {
	return &SyncHandler{syncUC: syncUC, authUC: authUC}
}

// Sync godoc
// @Summary      Sincronizar snapshots pendientes con el servidor remoto
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  sync.Report
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sync [post]
func (h *SyncHandler) Sync(c *fiber.Ctx) error {
	user, err := h.authUC.GetUser(GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario del token no encontrado"})
	}
	report, err := h.syncUC.SyncWithServer(c.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSyncInProgress):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SYNC_IN_PROGRESS", Message: "ya hay una sincronización en curso"})
		case errors.Is(err, domain.ErrSyncFailed):
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "SYNC_FAILED", Message: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(report)
}
