package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-engine/internal/application/dto"
	"github.com/jhoicas/Inventario-engine/internal/domain"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
	"github.com/jhoicas/Inventario-engine/internal/domain/inventory"
	"github.com/jhoicas/Inventario-engine/internal/domain/repository"
)

// DemandConfig parámetros del agregador de demanda.
type DemandConfig struct {
	AvgDemandTolerance float64 // tolerancia relativa avg vs total/días
	WindowDays         int     // ventana por defecto de RefreshDemand
}

// DemandUseCase resume el consumo diario en muestras de demanda y alimenta los parámetros EOQ/ROP.
type DemandUseCase struct {
	txRunner        TxRunner
	itemRepo        repository.InventoryItemRepository
	sampleRepo      repository.DemandSampleRepository
	consumptionRepo repository.ConsumptionRepository
	cache           ReorderCache
	cfg             DemandConfig
	log             zerolog.Logger
}

// NewDemandUseCase construye el caso de uso de demanda.
func NewDemandUseCase(
	txRunner TxRunner,
	itemRepo repository.InventoryItemRepository,
	sampleRepo repository.DemandSampleRepository,
	consumptionRepo repository.ConsumptionRepository,
	cache ReorderCache,
	cfg DemandConfig,
	log zerolog.Logger,
) *DemandUseCase {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 90
	}
	if cfg.AvgDemandTolerance < 0 {
		cfg.AvgDemandTolerance = inventory.DefaultAvgDemandTolerance
	}
	return &DemandUseCase{
		txRunner:        txRunner,
		itemRepo:        itemRepo,
		sampleRepo:      sampleRepo,
		consumptionRepo: consumptionRepo,
		cache:           cache,
		cfg:             cfg,
		log:             log,
	}
}

// DefaultWindow ventana [hoy - WindowDays, hoy] en UTC.
func (uc *DemandUseCase) DefaultWindow(now time.Time) (time.Time, time.Time) {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, 0, -uc.cfg.WindowDays), end
}

// RefreshDemand agrega el consumo diario de la ventana [start, end] (los días sin consumo cuentan
// como cero), guarda la muestra, actualiza la demanda anual (media × 365) y la desviación diaria del
// ítem y recalcula sus derivados, todo en una transacción.
func (uc *DemandUseCase) RefreshDemand(ctx context.Context, companyID, itemID string, start, end time.Time) (*dto.DemandStatsDTO, error) {
	start, end = dayUTC(start), dayUTC(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: start_date posterior a end_date", domain.ErrInvalidInput)
	}
	if _, err := getCompanyItem(ctx, uc.itemRepo, companyID, itemID); err != nil {
		return nil, err
	}

	rows, err := uc.consumptionRepo.ListDailyConsumption(ctx, companyID, itemID, start, end)
	if err != nil {
		return nil, err
	}
	quantities := fillDays(start, end, rows)

	counts := make([]float64, len(quantities))
	total := decimal.Zero
	for i, q := range quantities {
		counts[i] = q.InexactFloat64()
		total = total.Add(q)
	}
	stats, err := inventory.AggregateDemand(start, end, counts)
	if err != nil {
		return nil, err
	}

	avg := total.Div(decimal.NewFromInt(int64(stats.Days)))
	sample := &entity.DemandPeriodSample{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		ItemID:         itemID,
		PeriodStart:    start,
		PeriodEnd:      end,
		TotalDemand:    total,
		AvgDailyDemand: avg,
		DemandStdDev:   toFixed(stats.StdDev, 6),
		CreatedAt:      time.Now().UTC(),
	}
	if stats.Min != nil && stats.Max != nil {
		minD, maxD := decimal.NewFromFloat(*stats.Min), decimal.NewFromFloat(*stats.Max)
		sample.MinDailyDemand, sample.MaxDailyDemand = &minD, &maxD
	}
	if err := inventory.ValidateDemandSample(sample, uc.cfg.AvgDemandTolerance); err != nil {
		return nil, err
	}

	annual := avg.Mul(decimal.NewFromInt(inventory.DaysPerYear)).Round(4)
	stdDev := sample.DemandStdDev
	err = uc.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, sampleRepo repository.DemandSampleRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := sampleRepo.Create(ctx, sample); err != nil {
			return err
		}
		patched := *item
		patched.AnnualDemand = &annual
		patched.DemandStdDev = &stdDev
		updated, err := inventory.RecomputeDerivedFields(&patched)
		if err != nil {
			return err
		}
		return itemRepo.SaveParameters(ctx, updated)
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, companyID); err != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Msg("reorder cache: no se pudo invalidar")
		}
	}
	uc.log.Debug().Str("company_id", companyID).Str("item_id", itemID).
		Str("avg_daily", avg.StringFixed(4)).Int("days", stats.Days).Msg("demand: muestra registrada")

	out := toDemandStatsDTO(sample)
	return &out, nil
}

// RecordDemandSample valida una muestra calculada fuera del motor y la agrega al historial.
// No modifica los parámetros del ítem.
func (uc *DemandUseCase) RecordDemandSample(ctx context.Context, companyID, itemID string, in dto.DemandSampleRequest) (*dto.DemandStatsDTO, error) {
	start, err := parseDate(in.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("%w: period_start debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
	}
	end, err := parseDate(in.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: period_end debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
	}
	if _, err := getCompanyItem(ctx, uc.itemRepo, companyID, itemID); err != nil {
		return nil, err
	}

	sample := &entity.DemandPeriodSample{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		ItemID:         itemID,
		PeriodStart:    start,
		PeriodEnd:      end,
		TotalDemand:    in.TotalDemand,
		AvgDailyDemand: in.AvgDailyDemand,
		DemandStdDev:   in.DemandStdDev,
		MinDailyDemand: in.MinDailyDemand,
		MaxDailyDemand: in.MaxDailyDemand,
		CreatedAt:      time.Now().UTC(),
	}
	if err := inventory.ValidateDemandSample(sample, uc.cfg.AvgDemandTolerance); err != nil {
		return nil, err
	}
	if err := uc.sampleRepo.Create(ctx, sample); err != nil {
		return nil, err
	}
	out := toDemandStatsDTO(sample)
	return &out, nil
}

// LatestDemand última muestra del ítem con su coeficiente de variación y estabilidad.
func (uc *DemandUseCase) LatestDemand(ctx context.Context, companyID, itemID string) (*dto.DemandStatsDTO, error) {
	if _, err := getCompanyItem(ctx, uc.itemRepo, companyID, itemID); err != nil {
		return nil, err
	}
	sample, err := uc.sampleRepo.GetLatestByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if sample == nil {
		return nil, domain.ErrNotFound
	}
	out := toDemandStatsDTO(sample)
	return &out, nil
}

// fillDays devuelve un valor por día de [start, end]; los días sin fila quedan en cero.
func fillDays(start, end time.Time, rows []entity.DailyConsumption) []decimal.Decimal {
	byDay := make(map[time.Time]decimal.Decimal, len(rows))
	for _, r := range rows {
		d := dayUTC(r.Day)
		byDay[d] = byDay[d].Add(r.Quantity)
	}
	var out []decimal.Decimal
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, byDay[d])
	}
	return out
}

func dayUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
