package ports

import (
	"context"

	"github.com/healthstack/lmis-facility-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD pasando
// repositorios atados a esa tx. Es la única frontera transaccional dura del
// sistema: la cabecera, los ítems, el ajuste de stock y los snapshots de una
// misma acción se persisten todos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		dispRepo repository.DispensingRepository,
		stockRepo repository.StockRepository,
		activityRepo repository.ActivityRepository,
		snapRepo repository.SnapshotRepository,
	) error) error

	// RunCatalog es la variante para la importación de catálogo: crea
	// categorías, insumos, actividades y filas de stock en un solo batch.
	RunCatalog(ctx context.Context, fn func(
		commodityRepo repository.CommodityRepository,
		activityRepo repository.ActivityRepository,
		stockRepo repository.StockRepository,
	) error) error
}
