package snapshot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/domain/repository"
	"github.com/healthstack/lmis-facility-api/internal/infrastructure/dhis2"
)

// Service expone el lado de lectura de los snapshots para el coordinador de
// sincronización. Opera sobre el pool (fuera de transacciones locales).
type Service struct {
	snapRepo repository.SnapshotRepository
}

// NewService construye el servicio de snapshots.
func NewService(snapRepo repository.SnapshotRepository) *Service {
	return &Service{snapRepo: snapRepo}
}

// UnSynced devuelve los snapshots pendientes de reportar.
func (s *Service) UnSynced() ([]*entity.CommoditySnapshot, error) {
	snaps, err := s.snapRepo.ListUnsynced()
	if err != nil {
		return nil, fmt.Errorf("listar snapshots pendientes: %w", err)
	}
	return snaps, nil
}

// MarkSynced marca el lote como sincronizado: todos los ids o ninguno.
func (s *Service) MarkSynced(ids []string) error {
	if err := s.snapRepo.MarkSynced(ids); err != nil {
		return fmt.Errorf("marcar snapshots sincronizados: %w", err)
	}
	return nil
}

// BuildDataValueSet transforma snapshots en el lote de salida hacia el
// servidor remoto. Es una transformación pura: preserva el orden de entrada,
// no muta estado ni toca la red. El dataElement es el id de la actividad y
// el período es el día en el formato diario del servidor (yyyymmdd).
func BuildDataValueSet(snapshots []*entity.CommoditySnapshot, orgUnit string) *dhis2.DataValueSet {
	values := make([]dhis2.DataValue, 0, len(snapshots))
	for _, snap := range snapshots {
		values = append(values, dhis2.DataValue{
			DataElement: snap.ActivityID,
			Period:      dailyPeriod(snap.Day),
			OrgUnit:     orgUnit,
			Value:       strconv.FormatInt(snap.Value, 10),
		})
	}
	return &dhis2.DataValueSet{DataValues: values}
}

// dailyPeriod convierte un día YYYY-MM-DD al período diario yyyymmdd.
func dailyPeriod(day string) string {
	if t, err := time.Parse(entity.SnapshotDayLayout, day); err == nil {
		return t.Format("20060102")
	}
	// Día ya normalizado por el agregador; si no parsea, se degrada a
	// quitar los separadores en lugar de perder la entrada.
	return strings.ReplaceAll(day, "-", "")
}
