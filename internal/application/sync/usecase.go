package sync

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/healthstack/lmis-facility-api/internal/application/snapshot"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/infrastructure/dhis2"
	"github.com/healthstack/lmis-facility-api/pkg/logger"
)

// Report resume un intento de sincronización exitoso.
type Report struct {
	Attempted int `json:"attempted"` // snapshots pendientes al iniciar
	Pushed    int `json:"pushed"`    // snapshots aceptados y marcados
}

// UseCase es el coordinador de sincronización: selecciona los snapshots
// pendientes, arma un solo lote direccionado a la unidad organizativa del
// usuario, lo envía y, solo si el servidor lo acepta, marca el lote completo
// como sincronizado en un único paso.
//
// La entrega es at-least-once: un fallo de transporte deja los flags
// intactos y el siguiente intento reenvía el mismo lote (posiblemente
// ampliado). Se asume que reenviar un valor ya aplicado es una sobreescritura
// segura en el servidor, no una acumulación.
type UseCase struct {
	snapshots *snapshot.Service
	submitter dhis2.Submitter
	log       *logger.Logger

	// inFlight serializa intentos concurrentes: dos syncs simultáneos
	// leerían el mismo conjunto pendiente y lo enviarían dos veces.
	inFlight atomic.Bool
}

// NewUseCase construye el coordinador.
func NewUseCase(snapshots *snapshot.Service, submitter dhis2.Submitter, log *logger.Logger) *UseCase {
	return &UseCase{snapshots: snapshots, submitter: submitter, log: log}
}

// SyncWithServer ejecuta un intento de sincronización para el usuario dado
// (su FacilityCode direcciona el lote). Nunca revierte estado local previo:
// las escrituras anteriores al intento son durables pase lo que pase con la
// red.
func (uc *UseCase) SyncWithServer(ctx context.Context, user *entity.User) (*Report, error) {
	if user == nil || user.FacilityCode == "" {
		return nil, domain.ErrInvalidInput
	}
	if !uc.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSyncInProgress
	}
	defer uc.inFlight.Store(false)

	syncAttempts.Inc()

	snaps, err := uc.snapshots.UnSynced()
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		uc.log.Debug().Msg("sincronización sin pendientes")
		return &Report{}, nil
	}

	set := snapshot.BuildDataValueSet(snaps, user.FacilityCode)
	resp, err := uc.submitter.PostDataValueSet(ctx, set)
	if err != nil {
		syncFailures.Inc()
		uc.log.Warn().Err(err).Int("pendientes", len(snaps)).Msg("push de snapshots fallido")
		return nil, fmt.Errorf("%w: %v", domain.ErrSyncFailed, err)
	}
	if !resp.Success() {
		syncFailures.Inc()
		uc.log.Warn().
			Str("status", resp.Status).
			Str("descripcion", resp.Description).
			Int("pendientes", len(snaps)).
			Msg("el servidor rechazó el lote de snapshots")
		return nil, fmt.Errorf("%w: servidor respondió %s", domain.ErrSyncFailed, resp.Status)
	}

	// El lote fue aceptado: la transición unsynced -> synced es un único
	// paso para todo el lote, nunca por ítem.
	ids := make([]string, len(snaps))
	for i, s := range snaps {
		ids[i] = s.ID
	}
	if err := uc.snapshots.MarkSynced(ids); err != nil {
		// El remoto ya aplicó el lote; el próximo intento lo reenviará
		// entero (sobreescritura idempotente del lado del servidor).
		return nil, err
	}

	snapshotsPushed.Add(float64(len(ids)))
	uc.log.Info().
		Int("enviados", len(ids)).
		Str("org_unit", user.FacilityCode).
		Msg("snapshots sincronizados")
	return &Report{Attempted: len(snaps), Pushed: len(ids)}, nil
}
