package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-engine/internal/application/dto"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
	"github.com/jhoicas/Inventario-engine/internal/domain/inventory"
	"github.com/jhoicas/Inventario-engine/internal/domain/repository"
)

var errNoRenderer = errors.New("reorder: generador de reportes no configurado")

// ReorderUseCase detecta los ítems que alcanzaron su punto de reorden.
// Solo lee el catálogo: nunca modifica ítems.
type ReorderUseCase struct {
	itemRepo repository.InventoryItemRepository
	cache    ReorderCache
	renderer ReorderReportRenderer
	log      zerolog.Logger
}

// NewReorderUseCase construye el caso de uso de reposición. cache y renderer pueden ser nil.
func NewReorderUseCase(
	itemRepo repository.InventoryItemRepository,
	cache ReorderCache,
	renderer ReorderReportRenderer,
	log zerolog.Logger,
) *ReorderUseCase {
	return &ReorderUseCase{
		itemRepo: itemRepo,
		cache:    cache,
		renderer: renderer,
		log:      log,
	}
}

// RunReorderSweep evalúa todos los ítems con ROP de la empresa. Un ítem con datos corruptos se
// registra y se omite sin abortar el barrido. Si ctx se cancela devuelve lo evaluado con Partial=true.
func (uc *ReorderUseCase) RunReorderSweep(ctx context.Context, companyID string) (*dto.ReorderSweepDTO, error) {
	items, err := uc.itemRepo.ListWithReorderPoint(ctx, companyID)
	if err != nil {
		return nil, err
	}

	res := inventory.SweepReorder(ctx, items, func(f inventory.ItemFailure) {
		uc.log.Warn().Err(f.Err).Str("company_id", companyID).Str("item_id", f.ItemID).
			Msg("reorder: ítem omitido en el barrido")
	})

	out := &dto.ReorderSweepDTO{
		CompanyID: companyID,
		SweptAt:   time.Now().UTC().Format(time.RFC3339),
		Evaluated: res.Evaluated,
		Partial:   res.Partial,
		Signals:   make([]dto.ReorderSignalDTO, 0, len(res.Signals)),
	}
	for _, s := range res.Signals {
		out.Signals = append(out.Signals, toSignalDTO(s))
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, dto.SweepFailureDTO{ItemID: f.ItemID, Error: f.Err.Error()})
	}
	sortSignals(out.Signals)

	ev := uc.log.Info()
	if res.Partial {
		ev = uc.log.Warn()
	}
	ev.Str("company_id", companyID).
		Int("evaluated", res.Evaluated).
		Int("signals", len(out.Signals)).
		Int("failures", len(out.Failures)).
		Bool("partial", res.Partial).
		Msg("reorder: barrido completado")

	// Un barrido parcial no se cachea: no representa el catálogo completo.
	if !res.Partial && uc.cache != nil {
		if err := uc.cache.Set(ctx, companyID, out); err != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Msg("reorder cache: no se pudo guardar")
		}
	}
	return out, nil
}

// ItemsBelowReorderPoint consulta en vivo los ítems con stock en o bajo su ROP, mayor déficit primero.
func (uc *ReorderUseCase) ItemsBelowReorderPoint(ctx context.Context, companyID string) ([]dto.ReorderSignalDTO, error) {
	items, err := uc.itemRepo.ListBelowReorderPoint(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReorderSignalDTO, 0, len(items))
	for _, it := range items {
		sig, err := inventory.EvaluateReorder(it)
		if err != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Str("item_id", it.ID).Msg("reorder: ítem omitido")
			continue
		}
		if sig != nil {
			out = append(out, toSignalDTO(*sig))
		}
	}
	sortSignals(out)
	return out, nil
}

// LastSweep devuelve el último barrido cacheado; si no hay, ejecuta uno nuevo.
func (uc *ReorderUseCase) LastSweep(ctx context.Context, companyID string) (*dto.ReorderSweepDTO, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, companyID)
		if err != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Msg("reorder cache: lectura fallida")
		}
		if cached != nil {
			return cached, nil
		}
	}
	return uc.RunReorderSweep(ctx, companyID)
}

// ReorderReportPDF genera el PDF del último barrido de la empresa.
func (uc *ReorderUseCase) ReorderReportPDF(ctx context.Context, companyID string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, errNoRenderer
	}
	sweep, err := uc.LastSweep(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderReorderReport(sweep)
}

// sortSignals ordena por déficit descendente, luego por clase ABC (A primero, sin clase al final)
// y finalmente por SKU.
func sortSignals(signals []dto.ReorderSignalDTO) {
	sort.SliceStable(signals, func(i, j int) bool {
		a, b := signals[i], signals[j]
		if a.Deficit != b.Deficit {
			return a.Deficit > b.Deficit
		}
		ca, cb := entity.ABCClass(a.ABCClassification), entity.ABCClass(b.ABCClassification)
		if ca != cb {
			return ca.Less(cb)
		}
		return a.SKU < b.SKU
	})
}
