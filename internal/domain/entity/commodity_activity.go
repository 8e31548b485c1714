package entity

// Tipos de actividad contable sobre un insumo. Cada evento de negocio que se
// agrega en snapshots diarios corresponde a uno de estos tipos.
const (
	ActivityDispense = "DISPENSE"
	ActivityLoss     = "LOSS"
	ActivityReceive  = "RECEIVE"
	ActivityExpiry   = "EXPIRY"
)

// DataSet agrupa dataElements del servidor remoto bajo un mismo período de
// reporte (ej: "Daily"). Inmutable tras la importación de catálogo.
type DataSet struct {
	ID         string
	Name       string
	PeriodType string
}

// CommodityActivity vincula un insumo con un tipo de actividad y con el
// dataElement remoto al que se reporta. El ID es el identificador del
// dataElement en el servidor remoto y se usa tal cual en el push de datos.
// Inmutable tras la importación de catálogo.
type CommodityActivity struct {
	ID           string
	CommodityID  string
	Name         string
	ActivityType string
	DataSetID    string
}
