package repository

import "github.com/healthstack/lmis-facility-api/internal/domain/entity"

// CommodityRepository define el puerto de persistencia del catálogo de
// insumos y sus categorías.
type CommodityRepository interface {
	Create(commodity *entity.Commodity) error
	GetByID(id string) (*entity.Commodity, error)
	GetByName(name string) (*entity.Commodity, error)
	// List devuelve los insumos (activos si onlyActive) ordenados por nombre.
	List(onlyActive bool) ([]*entity.Commodity, error)
	Deactivate(id string) error

	CreateCategory(category *entity.Category) error
	ListCategories() ([]*entity.Category, error)
}
