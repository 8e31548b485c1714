package repository

import "github.com/healthstack/lmis-facility-api/internal/domain/entity"

// SnapshotRepository define el puerto de persistencia de los snapshots
// diarios. La unicidad por (insumo, actividad, día) es la única regla de
// integridad que el almacén debe sostener además de la persistencia genérica.
type SnapshotRepository interface {
	Create(s *entity.CommoditySnapshot) error
	Update(s *entity.CommoditySnapshot) error
	// GetByKey devuelve (nil, nil) si no existe snapshot para la clave.
	GetByKey(commodityID, activityID, day string) (*entity.CommoditySnapshot, error)
	// ListUnsynced devuelve los snapshots con synced = false, ordenados por
	// día e insumo para que los lotes sean deterministas.
	ListUnsynced() ([]*entity.CommoditySnapshot, error)
	// MarkSynced marca synced = true para todos los ids en un solo paso:
	// o se marcan todos o ninguno.
	MarkSynced(ids []string) error
}
