package stock

import (
	"fmt"

	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/domain/repository"
)

// Ledger es el libro de stock: la única vía de mutación de las filas de
// stock. Se construye sobre un StockRepository atado al pool (lecturas) o a
// una transacción (ajustes dentro de un batch atómico).
type Ledger struct {
	repo repository.StockRepository
}

// NewLedger construye el libro de stock sobre el repositorio dado.
func NewLedger(repo repository.StockRepository) *Ledger {
	return &Ledger{repo: repo}
}

// Adjust aplica un delta con signo a la existencia del insumo y la persiste.
// No hay piso: una sobre-dispensación deja la cantidad en negativo y eso es
// visible aguas arriba, porque el libro registra lo que realmente salió.
func (l *Ledger) Adjust(commodityID string, delta int) (*entity.StockItem, error) {
	item, err := l.itemFor(commodityID)
	if err != nil {
		return nil, err
	}
	item.Quantity += delta
	if err := l.repo.Update(item); err != nil {
		return nil, fmt.Errorf("actualizar stock de %s: %w", commodityID, err)
	}
	return item, nil
}

// LevelFor devuelve la existencia actual del insumo.
func (l *Ledger) LevelFor(commodityID string) (int, error) {
	item, err := l.itemFor(commodityID)
	if err != nil {
		return 0, err
	}
	return item.Quantity, nil
}

// itemFor aplica la regla de una fila por insumo. Cero filas o más de una
// son violaciones de integridad del catálogo: fatales y reportables, nunca
// se resuelven en silencio.
func (l *Ledger) itemFor(commodityID string) (*entity.StockItem, error) {
	items, err := l.repo.FindByCommodity(commodityID)
	if err != nil {
		return nil, fmt.Errorf("consultar stock de %s: %w", commodityID, err)
	}
	switch len(items) {
	case 1:
		return items[0], nil
	case 0:
		return nil, fmt.Errorf("%w: insumo %s", domain.ErrStockItemNotFound, commodityID)
	default:
		return nil, fmt.Errorf("%w: insumo %s (%d filas)", domain.ErrStockItemDuplicated, commodityID, len(items))
	}
}
