package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/healthstack/lmis-facility-api/internal/application/ports"
	"github.com/healthstack/lmis-facility-api/internal/cache"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/domain/repository"
	"github.com/healthstack/lmis-facility-api/internal/infrastructure/dhis2"
	"github.com/healthstack/lmis-facility-api/pkg/logger"
)

const commoditiesCacheKey = "catalog:commodities:active"

// ImportReport resume una importación de catálogo.
type ImportReport struct {
	Categories  int `json:"categories"`
	Commodities int `json:"commodities"`
	Activities  int `json:"activities"`
	Skipped     int `json:"skipped"` // insumos ya presentes por nombre
}

// UseCase gestiona el catálogo local: importación desde el servidor remoto y
// lecturas cacheadas. La importación es aditiva: nunca borra ni modifica
// insumos existentes, solo agrega los que faltan.
type UseCase struct {
	txRunner      ports.TxRunner
	commodityRepo repository.CommodityRepository
	activityRepo  repository.ActivityRepository
	fetcher       dhis2.CatalogFetcher
	cache         cache.Cache
	cacheTTL      time.Duration
	log           *logger.Logger
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(
	txRunner ports.TxRunner,
	commodityRepo repository.CommodityRepository,
	activityRepo repository.ActivityRepository,
	fetcher dhis2.CatalogFetcher,
	c cache.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		commodityRepo: commodityRepo,
		activityRepo:  activityRepo,
		fetcher:       fetcher,
		cache:         c,
		cacheTTL:      cacheTTL,
		log:           log,
	}
}

// FetchAndImport descarga el catálogo del establecimiento desde el servidor
// remoto y lo importa localmente.
func (uc *UseCase) FetchAndImport(ctx context.Context, orgUnit string) (*ImportReport, error) {
	if orgUnit == "" {
		return nil, domain.ErrInvalidInput
	}
	remote, err := uc.fetcher.FetchCatalog(ctx, orgUnit)
	if err != nil {
		return nil, fmt.Errorf("descargar catálogo: %w", err)
	}
	return uc.Import(ctx, remote)
}

// Import persiste un catálogo en una sola transacción: categorías, insumos
// (con su fila de stock en cero), actividades y dataSets. Los insumos cuyo
// nombre ya existe se saltan completos; los IDs de actividad vienen del
// servidor (son dataElements) y se guardan tal cual.
func (uc *UseCase) Import(ctx context.Context, remote *dhis2.Catalog) (*ImportReport, error) {
	if remote == nil {
		return nil, domain.ErrInvalidInput
	}
	report := &ImportReport{}

	err := uc.txRunner.RunCatalog(ctx, func(
		commodityRepo repository.CommodityRepository,
		activityRepo repository.ActivityRepository,
		stockRepo repository.StockRepository,
	) error {
		existingCategories, err := commodityRepo.ListCategories()
		if err != nil {
			return fmt.Errorf("listar categorías: %w", err)
		}
		categoryIDByName := make(map[string]string, len(existingCategories))
		for _, cat := range existingCategories {
			categoryIDByName[cat.Name] = cat.ID
		}

		for _, remoteCategory := range remote.Categories {
			categoryID, ok := categoryIDByName[remoteCategory.Name]
			if !ok {
				categoryID = uuid.New().String()
				if err := commodityRepo.CreateCategory(&entity.Category{
					ID:   categoryID,
					Name: remoteCategory.Name,
				}); err != nil {
					return fmt.Errorf("crear categoría %s: %w", remoteCategory.Name, err)
				}
				categoryIDByName[remoteCategory.Name] = categoryID
				report.Categories++
			}

			for _, remoteCommodity := range remoteCategory.Commodities {
				existing, err := commodityRepo.GetByName(remoteCommodity.Name)
				if err != nil {
					return fmt.Errorf("buscar insumo %s: %w", remoteCommodity.Name, err)
				}
				if existing != nil {
					report.Skipped++
					continue
				}

				commodity := &entity.Commodity{
					ID:              uuid.New().String(),
					CategoryID:      categoryID,
					Name:            remoteCommodity.Name,
					Active:          true,
					MinimumQuantity: remoteCommodity.MinimumQuantity,
					MaximumQuantity: remoteCommodity.MaximumQuantity,
				}
				if err := commodityRepo.Create(commodity); err != nil {
					return fmt.Errorf("crear insumo %s: %w", commodity.Name, err)
				}
				report.Commodities++

				// Todo insumo nace con su única fila de stock en cero.
				stockItem, err := entity.NewStockItem(uuid.New().String(), commodity.ID, 0)
				if err != nil {
					return err
				}
				if err := stockRepo.Create(stockItem); err != nil {
					return fmt.Errorf("crear stock de %s: %w", commodity.Name, err)
				}

				for _, remoteActivity := range remoteCommodity.Activities {
					if err := activityRepo.UpsertDataSet(&entity.DataSet{
						ID:         remoteActivity.DataSet.ID,
						Name:       remoteActivity.DataSet.Name,
						PeriodType: remoteActivity.DataSet.PeriodType,
					}); err != nil {
						return fmt.Errorf("upsert dataSet %s: %w", remoteActivity.DataSet.ID, err)
					}
					if err := activityRepo.Create(&entity.CommodityActivity{
						ID:           remoteActivity.ID,
						CommodityID:  commodity.ID,
						Name:         remoteActivity.Name,
						ActivityType: remoteActivity.ActivityType,
						DataSetID:    remoteActivity.DataSet.ID,
					}); err != nil {
						return fmt.Errorf("crear actividad %s: %w", remoteActivity.ID, err)
					}
					report.Activities++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Delete(ctx, commoditiesCacheKey); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de insumos")
	}
	uc.log.Info().
		Int("categorias", report.Categories).
		Int("insumos", report.Commodities).
		Int("actividades", report.Activities).
		Int("omitidos", report.Skipped).
		Msg("catálogo importado")
	return report, nil
}

// ListActiveCommodities devuelve los insumos activos, pasando por caché.
// Un fallo de caché degrada a lectura directa, nunca rompe la consulta.
func (uc *UseCase) ListActiveCommodities(ctx context.Context) ([]*entity.Commodity, error) {
	var cached []*entity.Commodity
	err := uc.cache.Get(ctx, commoditiesCacheKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		uc.log.Warn().Err(err).Msg("lectura de caché de insumos fallida")
	}

	commodities, err := uc.commodityRepo.List(true)
	if err != nil {
		return nil, fmt.Errorf("listar insumos: %w", err)
	}
	if err := uc.cache.Set(ctx, commoditiesCacheKey, commodities, uc.cacheTTL); err != nil {
		uc.log.Warn().Err(err).Msg("escritura de caché de insumos fallida")
	}
	return commodities, nil
}

// ListCategories devuelve las categorías del catálogo local.
func (uc *UseCase) ListCategories(_ context.Context) ([]*entity.Category, error) {
	return uc.commodityRepo.ListCategories()
}

// ActivitiesFor devuelve las actividades configuradas de un insumo.
func (uc *UseCase) ActivitiesFor(_ context.Context, commodityID string) ([]*entity.CommodityActivity, error) {
	if commodityID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.activityRepo.ListByCommodity(commodityID)
}

// Deactivate marca un insumo como inactivo e invalida la caché de lecturas.
func (uc *UseCase) Deactivate(ctx context.Context, commodityID string) error {
	if commodityID == "" {
		return domain.ErrInvalidInput
	}
	if err := uc.commodityRepo.Deactivate(commodityID); err != nil {
		return err
	}
	if err := uc.cache.Delete(ctx, commoditiesCacheKey); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de insumos")
	}
	return nil
}
