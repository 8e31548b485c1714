package repository

import "github.com/healthstack/lmis-facility-api/internal/domain/entity"

// ActivityRepository define el puerto de persistencia de las actividades por
// insumo y de los dataSets remotos a los que reportan.
type ActivityRepository interface {
	Create(activity *entity.CommodityActivity) error
	// GetByCommodityAndType resuelve la actividad de un insumo para un tipo.
	// Devuelve (nil, nil) si el insumo no tiene ese tipo configurado.
	GetByCommodityAndType(commodityID, activityType string) (*entity.CommodityActivity, error)
	ListByCommodity(commodityID string) ([]*entity.CommodityActivity, error)

	UpsertDataSet(ds *entity.DataSet) error
	GetDataSet(id string) (*entity.DataSet, error)
}
