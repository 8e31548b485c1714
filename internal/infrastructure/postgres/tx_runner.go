package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/healthstack/lmis-facility-api/internal/application/ports"
	"github.com/healthstack/lmis-facility-api/internal/domain/repository"
)

// Ensure TxRunner implements ports.TxRunner.
var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Es la frontera de atomicidad de las dispensaciones:
// cabecera, ítems, stock y snapshots comparten la misma tx.
func (r *TxRunner) Run(ctx context.Context, fn func(
	dispRepo repository.DispensingRepository,
	stockRepo repository.StockRepository,
	activityRepo repository.ActivityRepository,
	snapRepo repository.SnapshotRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	dispRepo := NewDispensingRepository(tx)
	stockRepo := NewStockRepository(tx)
	activityRepo := NewActivityRepository(tx)
	snapRepo := NewSnapshotRepository(tx)

	if err := fn(dispRepo, stockRepo, activityRepo, snapRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCatalog inicia una transacción con los repos de catálogo (importación).
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	commodityRepo repository.CommodityRepository,
	activityRepo repository.ActivityRepository,
	stockRepo repository.StockRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	commodityRepo := NewCommodityRepository(tx)
	activityRepo := NewActivityRepository(tx)
	stockRepo := NewStockRepository(tx)

	if err := fn(commodityRepo, activityRepo, stockRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
