package snapshot

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/domain/repository"
)

// Recorder materializa eventos de actividad en snapshots diarios. Se
// construye sobre repositorios atados a la transacción del batch que generó
// el evento: el snapshot se persiste o se revierte junto con la dispensación,
// pérdida o recepción que lo causó.
type Recorder struct {
	activityRepo repository.ActivityRepository
	snapRepo     repository.SnapshotRepository
}

// NewRecorder construye el agregador sobre los repositorios dados.
func NewRecorder(activityRepo repository.ActivityRepository, snapRepo repository.SnapshotRepository) *Recorder {
	return &Recorder{activityRepo: activityRepo, snapRepo: snapRepo}
}

// RecordActivity aplica un evento (insumo, tipo de actividad, cantidad, día)
// sobre el snapshot de su clave:
//
//  1. Resuelve la actividad del insumo; si el catálogo no la tiene, es
//     ErrActivityNotConfigured (desfase de catálogo, no reintentable).
//  2. Si no existe snapshot para (insumo, actividad, día) lo crea con
//     value = cantidad y synced = false.
//  3. Si existe, incrementa value y fuerza synced = false sin mirar su
//     estado previo: todo cambio de valor invalida un push anterior, porque
//     la copia remota quedó desactualizada.
func (r *Recorder) RecordActivity(commodityID, activityType string, quantity int, day string) (*entity.CommoditySnapshot, error) {
	activity, err := r.activityRepo.GetByCommodityAndType(commodityID, activityType)
	if err != nil {
		return nil, fmt.Errorf("resolver actividad %s de %s: %w", activityType, commodityID, err)
	}
	if activity == nil {
		return nil, fmt.Errorf("%w: insumo %s, actividad %s", domain.ErrActivityNotConfigured, commodityID, activityType)
	}

	snap, err := r.snapRepo.GetByKey(commodityID, activity.ID, day)
	if err != nil {
		return nil, fmt.Errorf("consultar snapshot: %w", err)
	}
	if snap == nil {
		snap = &entity.CommoditySnapshot{
			ID:          uuid.New().String(),
			CommodityID: commodityID,
			ActivityID:  activity.ID,
			Day:         day,
			Value:       int64(quantity),
			Synced:      false,
			UpdatedAt:   time.Now(),
		}
		if err := r.snapRepo.Create(snap); err != nil {
			return nil, fmt.Errorf("crear snapshot: %w", err)
		}
		return snap, nil
	}

	snap.Value += int64(quantity)
	snap.Synced = false
	snap.UpdatedAt = time.Now()
	if err := r.snapRepo.Update(snap); err != nil {
		return nil, fmt.Errorf("actualizar snapshot: %w", err)
	}
	return snap, nil
}
