package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/healthstack/lmis-facility-api/internal/application/auth"
	"github.com/healthstack/lmis-facility-api/internal/application/catalog"
	"github.com/healthstack/lmis-facility-api/internal/application/dispensing"
	"github.com/healthstack/lmis-facility-api/internal/application/losses"
	"github.com/healthstack/lmis-facility-api/internal/application/receipts"
	"github.com/healthstack/lmis-facility-api/internal/application/reports"
	"github.com/healthstack/lmis-facility-api/internal/application/stock"
	"github.com/healthstack/lmis-facility-api/internal/application/sync"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CatalogUC    *catalog.UseCase
	DispensingUC *dispensing.UseCase
	LossesUC     *losses.UseCase
	ReceiptsUC   *receipts.UseCase
	SyncUC       *sync.UseCase
	ReportsUC    *reports.UseCase
	Ledger       *stock.Ledger
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo (protegido; importación y desactivación solo admin)
	commodityHandler := NewCommodityHandler(deps.CatalogUC)
	protected.Get("/commodities", commodityHandler.List)
	protected.Get("/commodities/:id/activities", commodityHandler.Activities)
	protected.Delete("/commodities/:id", RequireRole(entity.RoleAdmin), commodityHandler.Deactivate)
	protected.Get("/categories", commodityHandler.ListCategories)
	protected.Post("/catalog/import", RequireRole(entity.RoleAdmin), commodityHandler.Import)

	// Dispensaciones (protegido)
	dispensings := protected.Group("/dispensings")
	dispensingHandler := NewDispensingHandler(deps.DispensingUC)
	dispensings.Post("/", dispensingHandler.Create)
	dispensings.Get("/next-prescription", dispensingHandler.NextPrescription)

	// Stock: existencias, pérdidas y recepciones (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Ledger, deps.LossesUC, deps.ReceiptsUC)
	stockGroup.Post("/losses", stockHandler.RecordLoss)
	stockGroup.Post("/receipts", stockHandler.RecordReceipt)
	stockGroup.Get("/:commodityId", stockHandler.Level)

	// Sincronización manual (protegido)
	syncHandler := NewSyncHandler(deps.SyncUC, deps.AuthUC)
	protected.Post("/sync", syncHandler.Sync)

	// Reportes (protegido)
	reportHandler := NewReportHandler(deps.ReportsUC)
	protected.Get("/reports/dispensing/monthly", reportHandler.MonthlyPDF)
}
