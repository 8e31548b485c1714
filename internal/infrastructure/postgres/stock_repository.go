package postgres

import (
	"context"
	"fmt"

	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Create persiste la fila de stock inicial de un insumo.
func (r *StockRepo) Create(item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, commodity_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())`
	_, err := r.q.Exec(context.Background(), query, item.ID, item.CommodityID, item.Quantity)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

// FindByCommodity devuelve todas las filas de stock de un insumo, bloqueadas
// para update. El libro de stock decide si el número de filas viola la regla
// de una fila por insumo.
func (r *StockRepo) FindByCommodity(commodityID string) ([]*entity.StockItem, error) {
	query := `
		SELECT id, commodity_id, quantity, updated_at
		FROM stock_items WHERE commodity_id = $1
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, commodityID)
	if err != nil {
		return nil, fmt.Errorf("find stock items: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		var s entity.StockItem
		if err := rows.Scan(&s.ID, &s.CommodityID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Update actualiza la cantidad de una fila de stock.
func (r *StockRepo) Update(item *entity.StockItem) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE stock_items SET quantity = $2, updated_at = now() WHERE id = $1`,
		item.ID, item.Quantity,
	)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
