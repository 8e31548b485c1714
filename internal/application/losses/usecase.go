package losses

import (
	"context"
	"time"

	"github.com/healthstack/lmis-facility-api/internal/application/ports"
	"github.com/healthstack/lmis-facility-api/internal/application/snapshot"
	"github.com/healthstack/lmis-facility-api/internal/application/stock"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/domain/repository"
)

// UseCase registra pérdidas de insumos (daño, vencimiento, robo): descuenta
// stock y acumula la actividad LOSS del día, en un solo batch atómico.
type UseCase struct {
	txRunner      ports.TxRunner
	commodityRepo repository.CommodityRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, commodityRepo repository.CommodityRepository) *UseCase {
	return &UseCase{txRunner: txRunner, commodityRepo: commodityRepo}
}

// RecordLoss registra una pérdida de qty unidades del insumo.
func (uc *UseCase) RecordLoss(ctx context.Context, commodityID string, qty int) error {
	if commodityID == "" || qty <= 0 {
		return domain.ErrInvalidInput
	}
	commodity, err := uc.commodityRepo.GetByID(commodityID)
	if err != nil {
		return err
	}
	if commodity == nil {
		return domain.ErrNotFound
	}
	day := entity.Day(time.Now())

	return uc.txRunner.Run(ctx, func(
		_ repository.DispensingRepository,
		stockRepo repository.StockRepository,
		activityRepo repository.ActivityRepository,
		snapRepo repository.SnapshotRepository,
	) error {
		if _, err := stock.NewLedger(stockRepo).Adjust(commodityID, -qty); err != nil {
			return err
		}
		_, err := snapshot.NewRecorder(activityRepo, snapRepo).
			RecordActivity(commodityID, entity.ActivityLoss, qty, day)
		return err
	})
}
