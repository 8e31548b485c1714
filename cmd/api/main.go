package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/healthstack/lmis-facility-api/docs"
	"github.com/healthstack/lmis-facility-api/internal/application/auth"
	"github.com/healthstack/lmis-facility-api/internal/application/catalog"
	"github.com/healthstack/lmis-facility-api/internal/application/dispensing"
	"github.com/healthstack/lmis-facility-api/internal/application/losses"
	"github.com/healthstack/lmis-facility-api/internal/application/receipts"
	"github.com/healthstack/lmis-facility-api/internal/application/reports"
	"github.com/healthstack/lmis-facility-api/internal/application/snapshot"
	"github.com/healthstack/lmis-facility-api/internal/application/stock"
	appsync "github.com/healthstack/lmis-facility-api/internal/application/sync"
	"github.com/healthstack/lmis-facility-api/internal/cache"
	"github.com/healthstack/lmis-facility-api/internal/infrastructure/dhis2"
	infrapdf "github.com/healthstack/lmis-facility-api/internal/infrastructure/pdf"
	"github.com/healthstack/lmis-facility-api/internal/infrastructure/postgres"
	httpRouter "github.com/healthstack/lmis-facility-api/internal/interfaces/http"
	"github.com/healthstack/lmis-facility-api/pkg/config"
	"github.com/healthstack/lmis-facility-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Caché de catálogo: memoria por defecto, Redis para despliegues con
	// varias réplicas.
	var catalogCache cache.Cache
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedis(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		catalogCache = redisCache
	} else {
		catalogCache = cache.NewMemory()
	}

	commodityRepo := postgres.NewCommodityRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	dispRepo := postgres.NewDispensingRepository(pool)
	snapRepo := postgres.NewSnapshotRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	dhis2Client := dhis2.NewClient(dhis2.Config{
		BaseURL:  cfg.DHIS2.BaseURL,
		Username: cfg.DHIS2.Username,
		Password: cfg.DHIS2.Password,
		Timeout:  cfg.DHIS2.Timeout(),
	})

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := catalog.NewUseCase(txRunner, commodityRepo, activityRepo, dhis2Client, catalogCache, cfg.Cache.TTL(), log)
	dispensingUC := dispensing.NewUseCase(txRunner, dispRepo, commodityRepo)
	lossesUC := losses.NewUseCase(txRunner, commodityRepo)
	receiptsUC := receipts.NewUseCase(txRunner, commodityRepo)
	snapshotSvc := snapshot.NewService(snapRepo)
	syncUC := appsync.NewUseCase(snapshotSvc, dhis2Client, log)

	reportGenerator := infrapdf.NewMarotoReportGenerator()
	reportsUC := reports.NewUseCase(commodityRepo, stockRepo, dispensingUC, reportGenerator)

	ledger := stock.NewLedger(stockRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "LMIS Facility API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CatalogUC:    catalogUC,
		DispensingUC: dispensingUC,
		LossesUC:     lossesUC,
		ReceiptsUC:   receiptsUC,
		SyncUC:       syncUC,
		ReportsUC:    reportsUC,
		Ledger:       ledger,
		JWTSecret:    cfg.JWT.Secret,
	})

	// Job periódico de sincronización (deshabilitado si el intervalo es 0).
	syncCtx, stopSync := context.WithCancel(ctx)
	defer stopSync()
	if cfg.Sync.Interval() > 0 {
		go runPeriodicSync(syncCtx, cfg.Sync, syncUC, authUC, log)
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopSync()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// runPeriodicSync dispara la sincronización cada intervalo, con la identidad
// del usuario configurado en SYNC_USERNAME. ErrSyncInProgress solo indica que
// un disparo manual se adelantó; el resto de errores se loguea y se reintenta
// en el siguiente tick.
func runPeriodicSync(ctx context.Context, cfg config.SyncConfig, syncUC *appsync.UseCase, authUC *auth.AuthUseCase, log *logger.Logger) {
	if cfg.Username == "" {
		log.Warn().Msg("SYNC_USERNAME vacío, job periódico de sincronización deshabilitado")
		return
	}
	ticker := time.NewTicker(cfg.Interval())
	defer ticker.Stop()

	log.Info().Dur("intervalo", cfg.Interval()).Msg("job periódico de sincronización programado")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			user, err := authUC.GetUserByUsername(cfg.Username)
			if err != nil {
				log.Error().Err(err).Str("username", cfg.Username).Msg("usuario del job de sincronización")
				continue
			}
			report, err := syncUC.SyncWithServer(ctx, user)
			if err != nil {
				log.Warn().Err(err).Msg("sincronización periódica fallida")
				continue
			}
			if report.Pushed > 0 {
				log.Info().Int("enviados", report.Pushed).Msg("sincronización periódica completada")
			}
		}
	}
}
