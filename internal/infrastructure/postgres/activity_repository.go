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

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

// ActivityRepo implementación de ActivityRepository sobre PostgreSQL
// (usable con pool o tx).
type ActivityRepo struct {
	q Querier
}

// NewActivityRepository construye el adaptador de actividades. Pasar pool o tx (Querier).
func NewActivityRepository(q Querier) *ActivityRepo {
	return &ActivityRepo{q: q}
}

// Create persiste una actividad. El ID viene del servidor remoto (dataElement).
func (r *ActivityRepo) Create(a *entity.CommodityActivity) error {
	query := `
		INSERT INTO commodity_activities (id, commodity_id, name, activity_type, data_set_id)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.CommodityID, a.Name, a.ActivityType, a.DataSetID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// GetByCommodityAndType resuelve la actividad de un insumo para un tipo.
// Devuelve (nil, nil) si el insumo no tiene ese tipo configurado.
func (r *ActivityRepo) GetByCommodityAndType(commodityID, activityType string) (*entity.CommodityActivity, error) {
	query := `
		SELECT id, commodity_id, name, activity_type, data_set_id
		FROM commodity_activities WHERE commodity_id = $1 AND activity_type = $2`
	var a entity.CommodityActivity
	err := r.q.QueryRow(context.Background(), query, commodityID, activityType).Scan(
		&a.ID, &a.CommodityID, &a.Name, &a.ActivityType, &a.DataSetID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return &a, nil
}

// ListByCommodity lista las actividades de un insumo.
func (r *ActivityRepo) ListByCommodity(commodityID string) ([]*entity.CommodityActivity, error) {
	query := `
		SELECT id, commodity_id, name, activity_type, data_set_id
		FROM commodity_activities WHERE commodity_id = $1 ORDER BY activity_type`
	rows, err := r.q.Query(context.Background(), query, commodityID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()
	var list []*entity.CommodityActivity
	for rows.Next() {
		var a entity.CommodityActivity
		if err := rows.Scan(&a.ID, &a.CommodityID, &a.Name, &a.ActivityType, &a.DataSetID); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// UpsertDataSet inserta o actualiza un dataSet remoto.
func (r *ActivityRepo) UpsertDataSet(ds *entity.DataSet) error {
	query := `
		INSERT INTO data_sets (id, name, period_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name, period_type = EXCLUDED.period_type`
	_, err := r.q.Exec(context.Background(), query, ds.ID, ds.Name, ds.PeriodType)
	if err != nil {
		return fmt.Errorf("upsert data set: %w", err)
	}
	return nil
}

// GetDataSet obtiene un dataSet por ID. Devuelve (nil, nil) si no existe.
func (r *ActivityRepo) GetDataSet(id string) (*entity.DataSet, error) {
	var ds entity.DataSet
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, period_type FROM data_sets WHERE id = $1`, id).Scan(
		&ds.ID, &ds.Name, &ds.PeriodType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get data set: %w", err)
	}
	return &ds, nil
}
