package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/domain/repository"
)

var _ repository.DispensingRepository = (*DispensingRepo)(nil)

// DispensingRepo implementación de DispensingRepository sobre PostgreSQL
// (usable con pool o tx).
type DispensingRepo struct {
	q Querier
}

// NewDispensingRepository construye el adaptador de dispensaciones. Pasar pool o tx (Querier).
func NewDispensingRepository(q Querier) *DispensingRepo {
	return &DispensingRepo{q: q}
}

// CreateDispensing persiste la cabecera de una dispensación.
func (r *DispensingRepo) CreateDispensing(d *entity.Dispensing) error {
	query := `
		INSERT INTO dispensings (id, prescription_id, to_facility, created)
		VALUES ($1, NULLIF($2, ''), $3, $4)`
	_, err := r.q.Exec(context.Background(), query, d.ID, d.PrescriptionID, d.ToFacility, d.Created)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert dispensing: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de dispensación.
func (r *DispensingRepo) CreateItem(item *entity.DispensingItem) error {
	query := `
		INSERT INTO dispensing_items (id, dispensing_id, commodity_id, quantity)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.DispensingID, item.CommodityID, item.Quantity,
	)
	if err != nil {
		return fmt.Errorf("insert dispensing item: %w", err)
	}
	return nil
}

// CountToPatientsBetween cuenta dispensaciones a pacientes con Created en
// [from, to]. Alimenta el consecutivo de recetas del mes.
func (r *DispensingRepo) CountToPatientsBetween(from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM dispensings
		WHERE to_facility = false AND created >= $1 AND created <= $2`
	var count int
	if err := r.q.QueryRow(context.Background(), query, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count dispensings: %w", err)
	}
	return count, nil
}

// SumQuantityForCommodity suma las cantidades dispensadas del insumo cuya
// cabecera cae en [from, to]. 0 si no hay movimientos.
func (r *DispensingRepo) SumQuantityForCommodity(commodityID string, from, to time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(di.quantity), 0)
		FROM dispensing_items di
		JOIN dispensings d ON d.id = di.dispensing_id
		WHERE di.commodity_id = $1 AND d.created >= $2 AND d.created <= $3`
	var total int
	if err := r.q.QueryRow(context.Background(), query, commodityID, from, to).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum dispensed quantity: %w", err)
	}
	return total, nil
}
