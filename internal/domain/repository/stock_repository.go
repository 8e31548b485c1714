package repository

import "github.com/healthstack/lmis-facility-api/internal/domain/entity"

// StockRepository define el puerto de persistencia de las filas de stock.
// FindByCommodity devuelve todas las filas del insumo: el libro de stock es
// quien decide si cero filas o más de una constituyen una violación de
// integridad (regla de una fila por insumo).
type StockRepository interface {
	Create(item *entity.StockItem) error
	FindByCommodity(commodityID string) ([]*entity.StockItem, error)
	Update(item *entity.StockItem) error
}
