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

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo implementación de SnapshotRepository sobre PostgreSQL
// (usable con pool o tx). La unicidad por (insumo, actividad, día) la
// sostiene un índice único en la tabla.
type SnapshotRepo struct {
	q Querier
}

// NewSnapshotRepository construye el adaptador de snapshots. Pasar pool o tx (Querier).
func NewSnapshotRepository(q Querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

// Create persiste un snapshot nuevo.
func (r *SnapshotRepo) Create(s *entity.CommoditySnapshot) error {
	query := `
		INSERT INTO commodity_snapshots (id, commodity_id, activity_id, day, value, synced, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.CommodityID, s.ActivityID, s.Day, s.Value, s.Synced,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Update actualiza el valor y el flag de un snapshot existente.
func (r *SnapshotRepo) Update(s *entity.CommoditySnapshot) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE commodity_snapshots SET value = $2, synced = $3, updated_at = now() WHERE id = $1`,
		s.ID, s.Value, s.Synced,
	)
	if err != nil {
		return fmt.Errorf("update snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByKey obtiene el snapshot de (insumo, actividad, día), bloqueado para
// update. Devuelve (nil, nil) si no existe.
func (r *SnapshotRepo) GetByKey(commodityID, activityID, day string) (*entity.CommoditySnapshot, error) {
	query := `
		SELECT id, commodity_id, activity_id, day, value, synced, updated_at
		FROM commodity_snapshots
		WHERE commodity_id = $1 AND activity_id = $2 AND day = $3
		FOR UPDATE`
	var s entity.CommoditySnapshot
	err := r.q.QueryRow(context.Background(), query, commodityID, activityID, day).Scan(
		&s.ID, &s.CommodityID, &s.ActivityID, &s.Day, &s.Value, &s.Synced, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &s, nil
}

// ListUnsynced lista los snapshots pendientes, ordenados por día e insumo
// para que los lotes de salida sean deterministas.
func (r *SnapshotRepo) ListUnsynced() ([]*entity.CommoditySnapshot, error) {
	query := `
		SELECT id, commodity_id, activity_id, day, value, synced, updated_at
		FROM commodity_snapshots WHERE synced = false
		ORDER BY day, commodity_id, activity_id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list unsynced snapshots: %w", err)
	}
	defer rows.Close()
	var list []*entity.CommoditySnapshot
	for rows.Next() {
		var s entity.CommoditySnapshot
		if err := rows.Scan(&s.ID, &s.CommodityID, &s.ActivityID, &s.Day, &s.Value, &s.Synced, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// MarkSynced marca synced = true para todos los ids en un solo UPDATE:
// o se marcan todos o ninguno.
func (r *SnapshotRepo) MarkSynced(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tag, err := r.q.Exec(context.Background(),
		`UPDATE commodity_snapshots SET synced = true, updated_at = now() WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("mark snapshots synced: %w", err)
	}
	if int(tag.RowsAffected()) != len(ids) {
		return fmt.Errorf("mark snapshots synced: %d de %d filas afectadas", tag.RowsAffected(), len(ids))
	}
	return nil
}
