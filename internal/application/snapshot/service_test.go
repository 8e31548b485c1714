package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthstack/lmis-facility-api/internal/application/snapshot"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
)

// BuildDataValueSet debe ser una transformación pura que preserva el orden y
// aplica el formato de frontera (período diario, valor como texto).
func TestBuildDataValueSet_FormatoDeFrontera(t *testing.T) {
	snaps := []*entity.CommoditySnapshot{
		{ID: "s1", CommodityID: "c1", ActivityID: "de-1", Day: "2026-08-27", Value: 12},
		{ID: "s2", CommodityID: "c2", ActivityID: "de-2", Day: "2026-08-28", Value: 0},
		{ID: "s3", CommodityID: "c1", ActivityID: "de-3", Day: "2026-08-28", Value: 7},
	}

	set := snapshot.BuildDataValueSet(snaps, "OU-KAILAHUN")
	require.Len(t, set.DataValues, 3)

	first := set.DataValues[0]
	assert.Equal(t, "de-1", first.DataElement, "dataElement debe ser el id de la actividad")
	assert.Equal(t, "20260827", first.Period, "el período diario es yyyymmdd")
	assert.Equal(t, "OU-KAILAHUN", first.OrgUnit)
	assert.Equal(t, "12", first.Value, "el valor viaja como texto")

	assert.Equal(t, "0", set.DataValues[1].Value, "un acumulado en cero igual se reporta")
	assert.Equal(t, "de-3", set.DataValues[2].DataElement, "el orden de entrada se preserva")
}

func TestBuildDataValueSet_SinSnapshots(t *testing.T) {
	set := snapshot.BuildDataValueSet(nil, "OU-X")
	assert.Empty(t, set.DataValues)
}
