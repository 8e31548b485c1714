package entity

import "time"

// Dispensing es la cabecera de una transacción de dispensación: una entrega
// a paciente (con número de receta) o a otro punto del establecimiento.
// Se persiste junto con todos sus ítems o no se persiste nada.
type Dispensing struct {
	ID             string
	PrescriptionID string
	ToFacility     bool
	Created        time.Time
	Items          []DispensingItem
}

// DispensingItem es una línea (insumo, cantidad) de una dispensación.
// Pertenece exactamente a una cabecera.
type DispensingItem struct {
	ID           string
	DispensingID string
	CommodityID  string
	Quantity     int
}
