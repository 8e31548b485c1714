package entity

import (
	"time"

	"github.com/healthstack/lmis-facility-api/internal/domain"
)

// StockItem es la existencia actual de un insumo (una fila por insumo).
// La cantidad puede quedar negativa por sobre-dispensación: es una condición
// de negocio recuperable, no un error. Solo el libro de stock la muta.
type StockItem struct {
	ID          string
	CommodityID string
	Quantity    int
	UpdatedAt   time.Time
}

// NewStockItem construye la fila de stock inicial de un insumo.
// La cantidad inicial no puede ser negativa; después sí puede llegar a serlo
// vía ajustes.
func NewStockItem(id, commodityID string, quantity int) (*StockItem, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	return &StockItem{ID: id, CommodityID: commodityID, Quantity: quantity}, nil
}
