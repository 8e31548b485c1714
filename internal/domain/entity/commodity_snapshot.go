package entity

import "time"

// SnapshotDayLayout es el formato del día calendario de un snapshot.
const SnapshotDayLayout = "2006-01-02"

// CommoditySnapshot es la unidad de agregación diaria: el acumulado de un
// (insumo, actividad) en un día calendario. Invariante: a lo sumo una fila
// por clave (CommodityID, ActivityID, Day); un evento repetido incrementa la
// fila existente.
//
// Value se guarda como entero nativo; el formato textual que exige el
// servidor remoto se aplica solo al construir el payload de salida.
type CommoditySnapshot struct {
	ID          string
	CommodityID string
	ActivityID  string
	Day         string // YYYY-MM-DD, hora local del establecimiento
	Value       int64
	Synced      bool
	UpdatedAt   time.Time
}

// Day devuelve el día calendario de t en el formato de clave de snapshot.
func Day(t time.Time) string {
	return t.Format(SnapshotDayLayout)
}
