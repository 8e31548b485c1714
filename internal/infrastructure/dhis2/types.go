package dhis2

// Tipos del contrato JSON con el servidor DHIS2. El valor de cada dataValue
// viaja como texto: el formato se aplica aquí, en la frontera, y en ningún
// otro lado.

// DataValue es una entrada del lote de salida: el acumulado de un
// dataElement (actividad de insumo) para un período y una unidad
// organizativa.
type DataValue struct {
	DataElement string `json:"dataElement"`
	Period      string `json:"period"`
	OrgUnit     string `json:"orgUnit"`
	Value       string `json:"value"`
}

// DataValueSet es el lote completo que se envía en un push.
type DataValueSet struct {
	DataValues []DataValue `json:"dataValues"`
}

// ImportCount resumen de importación que devuelve el servidor.
type ImportCount struct {
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Ignored  int `json:"ignored"`
}

// PushResponse respuesta del servidor a un push de dataValues.
// Cualquier Status distinto de "SUCCESS" se trata como rechazo.
type PushResponse struct {
	Status      string      `json:"status"`
	Description string      `json:"description"`
	ImportCount ImportCount `json:"importCount"`
}

// Success indica si el servidor aceptó el lote completo.
func (r *PushResponse) Success() bool {
	return r != nil && r.Status == "SUCCESS"
}

// ── Catálogo remoto ───────────────────────────────────────────────────────────

// CatalogDataSet dataSet remoto al que reporta una actividad.
type CatalogDataSet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PeriodType string `json:"periodType"`
}

// CatalogActivity actividad contable de un insumo en el catálogo remoto.
// ID es el identificador del dataElement.
type CatalogActivity struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	ActivityType string         `json:"activityType"`
	DataSet      CatalogDataSet `json:"dataSet"`
}

// CatalogCommodity insumo del catálogo remoto con sus actividades.
type CatalogCommodity struct {
	Name            string            `json:"name"`
	MinimumQuantity int               `json:"minimumQuantity"`
	MaximumQuantity int               `json:"maximumQuantity"`
	Activities      []CatalogActivity `json:"activities"`
}

// CatalogCategory categoría del catálogo remoto.
type CatalogCategory struct {
	Name        string             `json:"name"`
	Commodities []CatalogCommodity `json:"commodities"`
}

// Catalog catálogo completo del establecimiento.
type Catalog struct {
	Categories []CatalogCategory `json:"categories"`
}
