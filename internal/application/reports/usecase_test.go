package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthstack/lmis-facility-api/internal/application/dispensing"
	"github.com/healthstack/lmis-facility-api/internal/application/reports"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/infrastructure/memstore"
)

// fakeGenerator captura el reporte que recibe y devuelve bytes fijos.
type fakeGenerator struct {
	got *reports.MonthlyReport
}

func (f *fakeGenerator) GenerateDispensingReport(_ context.Context, report *reports.MonthlyReport) ([]byte, error) {
	f.got = report
	return []byte("%PDF-fake"), nil
}

func newFixture(t *testing.T) (*memstore.Store, *reports.UseCase, *fakeGenerator) {
	t.Helper()
	store := memstore.New()
	require.NoError(t, store.Commodities().CreateCategory(&entity.Category{ID: "cat-1", Name: "Malaria"}))
	require.NoError(t, store.Activities().UpsertDataSet(&entity.DataSet{ID: "ds-1", Name: "Daily", PeriodType: "Daily"}))

	dispensingUC := dispensing.NewUseCase(memstore.NewTxRunner(store), store.Dispensings(), store.Commodities())
	generator := &fakeGenerator{}
	uc := reports.NewUseCase(store.Commodities(), store.Stock(), dispensingUC, generator)
	return store, uc, generator
}

func seedCommodity(t *testing.T, store *memstore.Store, id, name string, qty int) {
	t.Helper()
	require.NoError(t, store.Commodities().Create(&entity.Commodity{
		ID: id, CategoryID: "cat-1", Name: name, Active: true,
		MinimumQuantity: 10, MaximumQuantity: 200,
	}))
	item, err := entity.NewStockItem("stock-"+id, id, qty)
	require.NoError(t, err)
	require.NoError(t, store.Stock().Create(item))
	require.NoError(t, store.Activities().Create(&entity.CommodityActivity{
		ID:           "de-DISPENSE-" + id,
		CommodityID:  id,
		Name:         name + " DISPENSE",
		ActivityType: entity.ActivityDispense,
		DataSetID:    "ds-1",
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests MonthlyDispensing
// ──────────────────────────────────────────────────────────────────────────────

func TestMonthlyDispensing_UnaFilaPorInsumoActivo(t *testing.T) {
	store, uc, _ := newFixture(t)
	seedCommodity(t, store, "c-1", "Coartem", 50)
	seedCommodity(t, store, "c-2", "Paracetamol", 30)

	at := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	dispensingUC := dispensing.NewUseCase(memstore.NewTxRunner(store), store.Dispensings(), store.Commodities())
	require.NoError(t, dispensingUC.AddDispensing(context.Background(), &entity.Dispensing{
		Created: at,
		Items:   []entity.DispensingItem{{CommodityID: "c-1", Quantity: 8}},
	}))
	// Dispensación de otro mes: no debe contarse.
	require.NoError(t, dispensingUC.AddDispensing(context.Background(), &entity.Dispensing{
		Created: at.AddDate(0, -1, 0),
		Items:   []entity.DispensingItem{{CommodityID: "c-1", Quantity: 5}},
	}))

	report, err := uc.MonthlyDispensing(context.Background(), "Kailahun CHC", at)
	require.NoError(t, err)

	assert.Equal(t, "Kailahun CHC", report.FacilityName)
	require.Len(t, report.Rows, 2, "una fila por insumo activo, ordenadas por nombre")

	coartem := report.Rows[0]
	assert.Equal(t, "Coartem", coartem.CommodityName)
	assert.Equal(t, 8, coartem.TotalDispensed, "solo cuenta lo dispensado en el mes")
	assert.Equal(t, 37, coartem.CurrentStock, "la existencia es la actual, no la del cierre del mes")
	assert.Equal(t, 10, coartem.MinimumQuantity)

	paracetamol := report.Rows[1]
	assert.Zero(t, paracetamol.TotalDispensed)
	assert.Equal(t, 30, paracetamol.CurrentStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests DownloadMonthlyPDF
// ──────────────────────────────────────────────────────────────────────────────

func TestDownloadMonthlyPDF_NombreDeArchivoConElMes(t *testing.T) {
	store, uc, generator := newFixture(t)
	seedCommodity(t, store, "c-1", "Coartem", 50)

	at := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	pdfBytes, filename, err := uc.DownloadMonthlyPDF(context.Background(), "Kailahun CHC", at)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-fake"), pdfBytes)
	assert.Equal(t, "dispensacion_2026-08.pdf", filename)
	require.NotNil(t, generator.got)
	assert.Len(t, generator.got.Rows, 1, "el generador recibe las filas armadas")
}

func TestDownloadMonthlyPDF_SinInsumosActivos(t *testing.T) {
	_, uc, _ := newFixture(t)

	_, _, err := uc.DownloadMonthlyPDF(context.Background(), "Kailahun CHC", time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
