package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/healthstack/lmis-facility-api/internal/application/dispensing"
	"github.com/healthstack/lmis-facility-api/internal/application/stock"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/repository"
)

// ReportRow es una fila del reporte mensual: lo dispensado de un insumo en el
// mes y su existencia al momento de generar el reporte.
type ReportRow struct {
	CommodityName   string
	TotalDispensed  int
	CurrentStock    int
	MinimumQuantity int
	MaximumQuantity int
}

// MonthlyReport es el reporte mensual de dispensación del establecimiento.
type MonthlyReport struct {
	FacilityName string
	Month        time.Time // cualquier instante dentro del mes reportado
	Rows         []ReportRow
}

// DispensingReportGenerator renderiza el reporte mensual como documento.
type DispensingReportGenerator interface {
	GenerateDispensingReport(ctx context.Context, report *MonthlyReport) ([]byte, error)
}

// UseCase arma y renderiza el reporte mensual de dispensación.
type UseCase struct {
	commodityRepo repository.CommodityRepository
	stockRepo     repository.StockRepository
	dispensing    *dispensing.UseCase
	generator     DispensingReportGenerator
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(
	commodityRepo repository.CommodityRepository,
	stockRepo repository.StockRepository,
	dispensingUC *dispensing.UseCase,
	generator DispensingReportGenerator,
) *UseCase {
	return &UseCase{
		commodityRepo: commodityRepo,
		stockRepo:     stockRepo,
		dispensing:    dispensingUC,
		generator:     generator,
	}
}

// MonthlyDispensing arma las filas del mes de at: una por insumo activo, con
// el total dispensado en el mes calendario y la existencia actual.
func (uc *UseCase) MonthlyDispensing(ctx context.Context, facilityName string, at time.Time) (*MonthlyReport, error) {
	commodities, err := uc.commodityRepo.List(true)
	if err != nil {
		return nil, fmt.Errorf("reporte: listar insumos: %w", err)
	}

	first := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
	ledger := stock.NewLedger(uc.stockRepo)

	rows := make([]ReportRow, 0, len(commodities))
	for _, c := range commodities {
		total, err := uc.dispensing.TotalDispensed(ctx, c.ID, first, last)
		if err != nil {
			return nil, err
		}
		level, err := ledger.LevelFor(c.ID)
		if err != nil {
			return nil, fmt.Errorf("reporte: stock de %s: %w", c.Name, err)
		}
		rows = append(rows, ReportRow{
			CommodityName:   c.Name,
			TotalDispensed:  total,
			CurrentStock:    level,
			MinimumQuantity: c.MinimumQuantity,
			MaximumQuantity: c.MaximumQuantity,
		})
	}

	return &MonthlyReport{FacilityName: facilityName, Month: at, Rows: rows}, nil
}

// DownloadMonthlyPDF arma el reporte del mes y lo renderiza como PDF.
// Retorna los bytes del documento y el nombre de archivo sugerido.
func (uc *UseCase) DownloadMonthlyPDF(ctx context.Context, facilityName string, at time.Time) ([]byte, string, error) {
	report, err := uc.MonthlyDispensing(ctx, facilityName, at)
	if err != nil {
		return nil, "", err
	}
	if len(report.Rows) == 0 {
		return nil, "", fmt.Errorf("%w: no hay insumos activos para reportar", domain.ErrNotFound)
	}
	pdfBytes, err := uc.generator.GenerateDispensingReport(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación fallida: %w", err)
	}
	filename := fmt.Sprintf("dispensacion_%s.pdf", at.Format("2006-01"))
	return pdfBytes, filename, nil
}
