package dispensing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/healthstack/lmis-facility-api/internal/application/ports"
	"github.com/healthstack/lmis-facility-api/internal/application/snapshot"
	"github.com/healthstack/lmis-facility-api/internal/application/stock"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/domain/repository"
)

// UseCase registra dispensaciones de forma transaccional: cabecera, ítems,
// descuento de stock y snapshots diarios se persisten todos o ninguno.
type UseCase struct {
	txRunner      ports.TxRunner
	dispRepo      repository.DispensingRepository
	commodityRepo repository.CommodityRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	dispRepo repository.DispensingRepository,
	commodityRepo repository.CommodityRepository,
) *UseCase {
	return &UseCase{txRunner: txRunner, dispRepo: dispRepo, commodityRepo: commodityRepo}
}

// AddDispensing valida y persiste una dispensación completa. Por cada ítem:
// crea la línea, descuenta stock y registra la actividad DISPENSE del día en
// el snapshot correspondiente. Si cualquier paso falla (incluido un desfase
// de catálogo en el segundo ítem) no queda rastro de ninguno.
func (uc *UseCase) AddDispensing(ctx context.Context, d *entity.Dispensing) error {
	if d == nil || len(d.Items) == 0 {
		return domain.ErrInvalidInput
	}
	for i := range d.Items {
		if d.Items[i].CommodityID == "" || d.Items[i].Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	}

	// Validaciones de solo lectura fuera de la tx.
	for i := range d.Items {
		commodity, err := uc.commodityRepo.GetByID(d.Items[i].CommodityID)
		if err != nil {
			return fmt.Errorf("validar insumo %s: %w", d.Items[i].CommodityID, err)
		}
		if commodity == nil {
			return domain.ErrNotFound
		}
	}

	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Created.IsZero() {
		d.Created = time.Now()
	}
	if d.PrescriptionID == "" && !d.ToFacility {
		id, err := uc.NextPrescriptionID(ctx, d.Created)
		if err != nil {
			return err
		}
		d.PrescriptionID = id
	}
	day := entity.Day(d.Created)

	return uc.txRunner.Run(ctx, func(
		dispRepo repository.DispensingRepository,
		stockRepo repository.StockRepository,
		activityRepo repository.ActivityRepository,
		snapRepo repository.SnapshotRepository,
	) error {
		if err := dispRepo.CreateDispensing(d); err != nil {
			return fmt.Errorf("crear dispensación: %w", err)
		}
		ledger := stock.NewLedger(stockRepo)
		recorder := snapshot.NewRecorder(activityRepo, snapRepo)
		for i := range d.Items {
			item := &d.Items[i]
			if item.ID == "" {
				item.ID = uuid.New().String()
			}
			item.DispensingID = d.ID
			if err := dispRepo.CreateItem(item); err != nil {
				return fmt.Errorf("crear ítem de dispensación: %w", err)
			}
			if _, err := ledger.Adjust(item.CommodityID, -item.Quantity); err != nil {
				return err
			}
			if _, err := recorder.RecordActivity(item.CommodityID, entity.ActivityDispense, item.Quantity, day); err != nil {
				return err
			}
		}
		return nil
	})
}

// NextPrescriptionID compone el siguiente número de receta del mes: el
// consecutivo (1 + dispensaciones a pacientes del mes calendario, con mínimo
// cuatro dígitos) seguido de la abreviatura del mes. Las dispensaciones a
// otros puntos del establecimiento no cuentan.
func (uc *UseCase) NextPrescriptionID(_ context.Context, at time.Time) (string, error) {
	first, last := monthBounds(at)
	count, err := uc.dispRepo.CountToPatientsBetween(first, last)
	if err != nil {
		return "", fmt.Errorf("contar dispensaciones del mes: %w", err)
	}
	return fmt.Sprintf("%04d-%s", count+1, at.Format("Jan")), nil
}

// TotalDispensed suma lo dispensado de un insumo cuyas cabeceras caen en
// [start, end] (bordes inclusive). Devuelve 0 si no hay movimientos; un
// fallo del almacén sube como error duro, nunca se silencia.
func (uc *UseCase) TotalDispensed(_ context.Context, commodityID string, start, end time.Time) (int, error) {
	total, err := uc.dispRepo.SumQuantityForCommodity(commodityID, start, end)
	if err != nil {
		return 0, fmt.Errorf("sumar dispensado de %s: %w", commodityID, err)
	}
	return total, nil
}

// monthBounds devuelve el primer y último instante del mes calendario de t.
func monthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return first, last
}
