package memstore

import (
	"context"
	"sync"

	"github.com/healthstack/lmis-facility-api/internal/application/ports"
	"github.com/healthstack/lmis-facility-api/internal/domain/repository"
)

// Ensure TxRunner implements ports.TxRunner.
var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner simula transacciones sobre el Store: el callback opera sobre un
// clon del estado; si retorna nil el clon se adopta (commit), si retorna
// error se descarta (rollback). Las transacciones se serializan con un mutex.
type TxRunner struct {
	mu    sync.Mutex
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos atados al clon y adopta o descarta el resultado.
func (r *TxRunner) Run(_ context.Context, fn func(
	dispRepo repository.DispensingRepository,
	stockRepo repository.StockRepository,
	activityRepo repository.ActivityRepository,
	snapRepo repository.SnapshotRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store.mu.Lock()
	clone := r.store.clone()
	r.store.mu.Unlock()

	if err := fn(clone.Dispensings(), clone.Stock(), clone.Activities(), clone.Snapshots()); err != nil {
		return err
	}

	r.store.mu.Lock()
	r.store.adopt(clone)
	r.store.mu.Unlock()
	return nil
}

// RunCatalog igual que Run pero con los repos de catálogo.
func (r *TxRunner) RunCatalog(_ context.Context, fn func(
	commodityRepo repository.CommodityRepository,
	activityRepo repository.ActivityRepository,
	stockRepo repository.StockRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store.mu.Lock()
	clone := r.store.clone()
	r.store.mu.Unlock()

	if err := fn(clone.Commodities(), clone.Activities(), clone.Stock()); err != nil {
		return err
	}

	r.store.mu.Lock()
	r.store.adopt(clone)
	r.store.mu.Unlock()
	return nil
}
