package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthstack/lmis-facility-api/internal/application/snapshot"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/infrastructure/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCommodityID = "00000000-0000-0000-0000-00000000000a"
	testActivityID  = "de-DISPENSE-001"
	testDay         = "2026-08-28"
)

// seededStore construye un store con un insumo y su actividad DISPENSE.
func seededStore(t *testing.T) *memstore.Store {
	t.Helper()
	store := memstore.New()
	require.NoError(t, store.Commodities().CreateCategory(&entity.Category{ID: "cat-1", Name: "Malaria"}))
	require.NoError(t, store.Commodities().Create(&entity.Commodity{
		ID: testCommodityID, CategoryID: "cat-1", Name: "Coartem", Active: true,
	}))
	require.NoError(t, store.Activities().UpsertDataSet(&entity.DataSet{ID: "ds-1", Name: "Daily", PeriodType: "Daily"}))
	require.NoError(t, store.Activities().Create(&entity.CommodityActivity{
		ID:           testActivityID,
		CommodityID:  testCommodityID,
		Name:         "Coartem DISPENSE",
		ActivityType: entity.ActivityDispense,
		DataSetID:    "ds-1",
	}))
	return store
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Recorder — crear o incrementar por clave
// ──────────────────────────────────────────────────────────────────────────────

// Primer evento del día: debe crear el snapshot con value = cantidad y synced = false.
func TestRecorder_PrimerEventoCreaSnapshot(t *testing.T) {
	store := seededStore(t)
	recorder := snapshot.NewRecorder(store.Activities(), store.Snapshots())

	snap, err := recorder.RecordActivity(testCommodityID, entity.ActivityDispense, 5, testDay)
	require.NoError(t, err)

	assert.Equal(t, int64(5), snap.Value, "el primer evento debe fijar value = cantidad")
	assert.False(t, snap.Synced, "un snapshot nuevo nace pendiente de sincronizar")
	assert.Equal(t, testActivityID, snap.ActivityID, "el snapshot debe apuntar al dataElement de la actividad")
	assert.Equal(t, testDay, snap.Day)
}

// Eventos repetidos sobre la misma clave: deben acumular en una sola fila.
func TestRecorder_EventosRepetidosIncrementanMismaFila(t *testing.T) {
	store := seededStore(t)
	recorder := snapshot.NewRecorder(store.Activities(), store.Snapshots())

	first, err := recorder.RecordActivity(testCommodityID, entity.ActivityDispense, 5, testDay)
	require.NoError(t, err)
	second, err := recorder.RecordActivity(testCommodityID, entity.ActivityDispense, 3, testDay)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "la misma clave debe reusar la fila existente")
	assert.Equal(t, int64(8), second.Value, "los valores deben acumularse")

	pendientes, err := store.Snapshots().ListUnsynced()
	require.NoError(t, err)
	assert.Len(t, pendientes, 1, "a lo sumo un snapshot por (insumo, actividad, día)")
}

// Días distintos producen snapshots distintos.
func TestRecorder_DiasDistintosProducenFilasDistintas(t *testing.T) {
	store := seededStore(t)
	recorder := snapshot.NewRecorder(store.Activities(), store.Snapshots())

	_, err := recorder.RecordActivity(testCommodityID, entity.ActivityDispense, 5, "2026-08-27")
	require.NoError(t, err)
	_, err = recorder.RecordActivity(testCommodityID, entity.ActivityDispense, 2, "2026-08-28")
	require.NoError(t, err)

	pendientes, err := store.Snapshots().ListUnsynced()
	require.NoError(t, err)
	assert.Len(t, pendientes, 2)
}

// Un evento sobre un snapshot ya sincronizado debe volverlo a marcar pendiente.
func TestRecorder_EventoReinvalidaSnapshotSincronizado(t *testing.T) {
	store := seededStore(t)
	recorder := snapshot.NewRecorder(store.Activities(), store.Snapshots())

	snap, err := recorder.RecordActivity(testCommodityID, entity.ActivityDispense, 5, testDay)
	require.NoError(t, err)
	require.NoError(t, store.Snapshots().MarkSynced([]string{snap.ID}))

	updated, err := recorder.RecordActivity(testCommodityID, entity.ActivityDispense, 2, testDay)
	require.NoError(t, err)

	assert.Equal(t, int64(7), updated.Value)
	assert.False(t, updated.Synced, "cualquier cambio de valor invalida el push anterior")

	pendientes, err := store.Snapshots().ListUnsynced()
	require.NoError(t, err)
	assert.Len(t, pendientes, 1, "el snapshot debe volver al conjunto pendiente")
}

// Insumo sin la actividad configurada: error de desfase de catálogo.
func TestRecorder_ActividadNoConfigurada(t *testing.T) {
	store := seededStore(t)
	recorder := snapshot.NewRecorder(store.Activities(), store.Snapshots())

	_, err := recorder.RecordActivity(testCommodityID, entity.ActivityLoss, 1, testDay)
	assert.ErrorIs(t, err, domain.ErrActivityNotConfigured,
		"sin actividad LOSS configurada debe fallar con ErrActivityNotConfigured")

	pendientes, err := store.Snapshots().ListUnsynced()
	require.NoError(t, err)
	assert.Empty(t, pendientes, "no debe quedar snapshot a medias")
}
