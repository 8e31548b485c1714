package repository

import (
	"time"

	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
)

// DispensingRepository define el puerto de persistencia de dispensaciones.
type DispensingRepository interface {
	CreateDispensing(d *entity.Dispensing) error
	CreateItem(item *entity.DispensingItem) error
	// CountToPatientsBetween cuenta dispensaciones a pacientes (ToFacility =
	// false) con Created en [from, to]. Alimenta el consecutivo de recetas.
	CountToPatientsBetween(from, to time.Time) (int, error)
	// SumQuantityForCommodity suma las cantidades de los ítems del insumo
	// cuya cabecera cae en [from, to] (bordes inclusive). 0 si no hay.
	SumQuantityForCommodity(commodityID string, from, to time.Time) (int, error)
}
