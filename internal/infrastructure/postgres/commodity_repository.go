package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/domain/repository"
)

var _ repository.CommodityRepository = (*CommodityRepo)(nil)

// CommodityRepo implementación de CommodityRepository sobre PostgreSQL
// (usable con pool o tx).
type CommodityRepo struct {
	q Querier
}

// NewCommodityRepository construye el adaptador de catálogo. Pasar pool o tx (Querier).
func NewCommodityRepository(q Querier) *CommodityRepo {
	return &CommodityRepo{q: q}
}

// Create persiste un insumo nuevo.
func (r *CommodityRepo) Create(c *entity.Commodity) error {
	query := `
		INSERT INTO commodities (id, category_id, name, active, minimum_quantity, maximum_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.CategoryID, c.Name, c.Active, c.MinimumQuantity, c.MaximumQuantity,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert commodity: %w", err)
	}
	return nil
}

// GetByID obtiene un insumo por ID.
func (r *CommodityRepo) GetByID(id string) (*entity.Commodity, error) {
	return r.getWhere("id = $1", id)
}

// GetByName obtiene un insumo por nombre. Devuelve (nil, nil) si no existe.
func (r *CommodityRepo) GetByName(name string) (*entity.Commodity, error) {
	return r.getWhere("name = $1", name)
}

func (r *CommodityRepo) getWhere(where string, arg any) (*entity.Commodity, error) {
	query := `
		SELECT id, category_id, name, active, minimum_quantity, maximum_quantity, created_at, updated_at
		FROM commodities WHERE ` + where
	var c entity.Commodity
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&c.ID, &c.CategoryID, &c.Name, &c.Active, &c.MinimumQuantity, &c.MaximumQuantity,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get commodity: %w", err)
	}
	return &c, nil
}

// List lista insumos (activos si onlyActive) ordenados por nombre.
func (r *CommodityRepo) List(onlyActive bool) ([]*entity.Commodity, error) {
	query := `
		SELECT id, category_id, name, active, minimum_quantity, maximum_quantity, created_at, updated_at
		FROM commodities`
	if onlyActive {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name`

	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list commodities: %w", err)
	}
	defer rows.Close()
	var list []*entity.Commodity
	for rows.Next() {
		var c entity.Commodity
		if err := rows.Scan(&c.ID, &c.CategoryID, &c.Name, &c.Active, &c.MinimumQuantity, &c.MaximumQuantity, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan commodity: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Deactivate marca un insumo como inactivo. Los insumos nunca se borran.
func (r *CommodityRepo) Deactivate(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE commodities SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate commodity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateCategory persiste una categoría nueva.
func (r *CommodityRepo) CreateCategory(cat *entity.Category) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO categories (id, name, created_at) VALUES ($1, $2, now())`,
		cat.ID, cat.Name,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// ListCategories lista las categorías ordenadas por nombre.
func (r *CommodityRepo) ListCategories() ([]*entity.Category, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
