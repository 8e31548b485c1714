package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthstack/lmis-facility-api/internal/application/catalog"
	"github.com/healthstack/lmis-facility-api/internal/cache"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/infrastructure/dhis2"
	"github.com/healthstack/lmis-facility-api/internal/infrastructure/memstore"
	"github.com/healthstack/lmis-facility-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeFetcher devuelve un catálogo fijo o un error.
type fakeFetcher struct {
	catalog *dhis2.Catalog
	err     error
	orgUnit string
}

func (f *fakeFetcher) FetchCatalog(_ context.Context, orgUnit string) (*dhis2.Catalog, error) {
	f.orgUnit = orgUnit
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

func sampleCatalog() *dhis2.Catalog {
	return &dhis2.Catalog{
		Categories: []dhis2.CatalogCategory{{
			Name: "Malaria",
			Commodities: []dhis2.CatalogCommodity{{
				Name:            "Coartem",
				MinimumQuantity: 10,
				MaximumQuantity: 200,
				Activities: []dhis2.CatalogActivity{
					{
						ID:           "de-DISPENSE-001",
						Name:         "Coartem DISPENSE",
						ActivityType: entity.ActivityDispense,
						DataSet:      dhis2.CatalogDataSet{ID: "ds-1", Name: "Daily", PeriodType: "Daily"},
					},
					{
						ID:           "de-LOSS-001",
						Name:         "Coartem LOSS",
						ActivityType: entity.ActivityLoss,
						DataSet:      dhis2.CatalogDataSet{ID: "ds-1", Name: "Daily", PeriodType: "Daily"},
					},
				},
			}},
		}},
	}
}

func newFixture(t *testing.T, fetcher dhis2.CatalogFetcher) (*memstore.Store, *catalog.UseCase) {
	t.Helper()
	store := memstore.New()
	uc := catalog.NewUseCase(
		memstore.NewTxRunner(store),
		store.Commodities(),
		store.Activities(),
		fetcher,
		cache.NewMemory(),
		time.Minute,
		logger.New(logger.Config{Env: "test", Level: "error"}),
	)
	return store, uc
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Import
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_CreaCatalogoCompleto(t *testing.T) {
	store, uc := newFixture(t, nil)

	report, err := uc.Import(context.Background(), sampleCatalog())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Categories)
	assert.Equal(t, 1, report.Commodities)
	assert.Equal(t, 2, report.Activities)
	assert.Zero(t, report.Skipped)

	commodity, err := store.Commodities().GetByName("Coartem")
	require.NoError(t, err)
	require.NotNil(t, commodity)
	assert.True(t, commodity.Active, "un insumo importado nace activo")
	assert.Equal(t, 10, commodity.MinimumQuantity)

	// La fila de stock nace en cero.
	items, err := store.Stock().FindByCommodity(commodity.ID)
	require.NoError(t, err)
	require.Len(t, items, 1, "todo insumo importado tiene exactamente una fila de stock")
	assert.Zero(t, items[0].Quantity)

	activities, err := store.Activities().ListByCommodity(commodity.ID)
	require.NoError(t, err)
	assert.Len(t, activities, 2)
}

// Un insumo cuyo nombre ya existe se salta completo, con sus actividades.
func TestImport_SaltaInsumosExistentesPorNombre(t *testing.T) {
	store, uc := newFixture(t, nil)
	require.NoError(t, store.Commodities().CreateCategory(&entity.Category{ID: "cat-0", Name: "Malaria"}))
	require.NoError(t, store.Commodities().Create(&entity.Commodity{
		ID: "c-0", CategoryID: "cat-0", Name: "Coartem", Active: true,
	}))

	report, err := uc.Import(context.Background(), sampleCatalog())
	require.NoError(t, err)

	assert.Zero(t, report.Categories, "la categoría ya existía por nombre")
	assert.Zero(t, report.Commodities)
	assert.Zero(t, report.Activities, "las actividades de un insumo saltado no se importan")
	assert.Equal(t, 1, report.Skipped)
}

// Reimportar el mismo catálogo es idempotente.
func TestImport_ReimportacionEsIdempotente(t *testing.T) {
	store, uc := newFixture(t, nil)

	_, err := uc.Import(context.Background(), sampleCatalog())
	require.NoError(t, err)
	report, err := uc.Import(context.Background(), sampleCatalog())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	commodities, err := store.Commodities().List(false)
	require.NoError(t, err)
	assert.Len(t, commodities, 1, "no debe duplicarse el insumo")
}

func TestImport_CatalogoNilEsInvalido(t *testing.T) {
	_, uc := newFixture(t, nil)
	_, err := uc.Import(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests FetchAndImport
// ──────────────────────────────────────────────────────────────────────────────

func TestFetchAndImport_UsaLaUnidadOrganizativaDada(t *testing.T) {
	fetcher := &fakeFetcher{catalog: sampleCatalog()}
	_, uc := newFixture(t, fetcher)

	report, err := uc.FetchAndImport(context.Background(), "OU-KAILAHUN")
	require.NoError(t, err)

	assert.Equal(t, "OU-KAILAHUN", fetcher.orgUnit)
	assert.Equal(t, 1, report.Commodities)
}

func TestFetchAndImport_PropagaFalloDeDescarga(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("timeout")}
	_, uc := newFixture(t, fetcher)

	_, err := uc.FetchAndImport(context.Background(), "OU-KAILAHUN")
	assert.Error(t, err)

	_, err = uc.FetchAndImport(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests lecturas cacheadas
// ──────────────────────────────────────────────────────────────────────────────

func TestListActiveCommodities_SirveDesdeCacheTrasLaPrimeraLectura(t *testing.T) {
	store, uc := newFixture(t, nil)
	_, err := uc.Import(context.Background(), sampleCatalog())
	require.NoError(t, err)

	first, err := uc.ListActiveCommodities(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Un insumo agregado por fuera del caso de uso no invalida la caché:
	// la segunda lectura sigue sirviendo el resultado cacheado.
	require.NoError(t, store.Commodities().Create(&entity.Commodity{
		ID: "c-fuera", CategoryID: "cat-x", Name: "Zinc", Active: true,
	}))
	second, err := uc.ListActiveCommodities(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 1, "la segunda lectura viene de la caché")
}

// La importación y la desactivación invalidan la caché de insumos.
func TestListActiveCommodities_ImportYDeactivateInvalidanLaCache(t *testing.T) {
	_, uc := newFixture(t, nil)
	_, err := uc.Import(context.Background(), sampleCatalog())
	require.NoError(t, err)

	commodities, err := uc.ListActiveCommodities(context.Background())
	require.NoError(t, err)
	require.Len(t, commodities, 1)

	require.NoError(t, uc.Deactivate(context.Background(), commodities[0].ID))

	after, err := uc.ListActiveCommodities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, after, "desactivar debe reflejarse de inmediato en la lista")
}

func TestDeactivate_InsumoInexistente(t *testing.T) {
	_, uc := newFixture(t, nil)
	err := uc.Deactivate(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
