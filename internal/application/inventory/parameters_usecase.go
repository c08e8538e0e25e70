package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-engine/internal/application/dto"
	"github.com/jhoicas/Inventario-engine/internal/domain"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
	"github.com/jhoicas/Inventario-engine/internal/domain/inventory"
	"github.com/jhoicas/Inventario-engine/internal/domain/repository"
)

// ParametersUseCase mantiene los parámetros de reposición de cada ítem y sus campos derivados
// (EOQ, stock de seguridad, punto de reorden).
type ParametersUseCase struct {
	txRunner TxRunner
	itemRepo repository.InventoryItemRepository
	cache    ReorderCache
	workers  int
	log      zerolog.Logger
}

// NewParametersUseCase construye el caso de uso. workers acota la concurrencia de RecomputeCatalog.
func NewParametersUseCase(
	txRunner TxRunner,
	itemRepo repository.InventoryItemRepository,
	cache ReorderCache,
	workers int,
	log zerolog.Logger,
) *ParametersUseCase {
	if workers < 1 {
		workers = 1
	}
	return &ParametersUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		cache:    cache,
		workers:  workers,
		log:      log,
	}
}

// UpdateParameters aplica los campos informados, valida, recalcula los derivados y persiste todo
// en una transacción con la fila bloqueada. Una entrada inválida rechaza la escritura completa.
func (uc *ParametersUseCase) UpdateParameters(
	ctx context.Context,
	companyID, itemID string,
	in dto.UpdateParametersRequest,
) (*dto.ItemOptimizationDTO, error) {
	var saved *entity.InventoryItem
	err := uc.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, _ repository.DemandSampleRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.CompanyID != companyID {
			return domain.ErrForbidden
		}

		patched := *item
		applyParameters(&patched, in)

		updated, err := inventory.RecomputeDerivedFields(&patched)
		if err != nil {
			return err
		}
		if err := itemRepo.SaveParameters(ctx, updated); err != nil {
			return err
		}
		saved = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, companyID)
	out := toItemDTO(saved)
	return &out, nil
}

// RecomputeCatalog recalcula los derivados de todos los ítems de la empresa (p. ej. tras una
// migración de datos). Los ítems con datos inválidos se registran y se omiten.
// Devuelve cuántos ítems se actualizaron.
func (uc *ParametersUseCase) RecomputeCatalog(ctx context.Context, companyID string) (int, error) {
	items, err := uc.itemRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return 0, err
	}

	var updated atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for _, it := range items {
		itemID := it.ID
		g.Go(func() error {
			changed, err := uc.recomputeOne(gctx, companyID, itemID)
			if errors.Is(err, domain.ErrInvalidInput) {
				uc.log.Warn().Err(err).Str("company_id", companyID).Str("item_id", itemID).
					Msg("recompute: ítem con parámetros inválidos, se omite")
				return nil
			}
			if err != nil {
				return fmt.Errorf("recompute item %s: %w", itemID, err)
			}
			if changed {
				updated.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(updated.Load()), err
	}

	if updated.Load() > 0 {
		uc.invalidate(ctx, companyID)
	}
	uc.log.Info().Str("company_id", companyID).Int("items", len(items)).Int64("updated", updated.Load()).
		Msg("recompute: catálogo recalculado")
	return int(updated.Load()), nil
}

func (uc *ParametersUseCase) recomputeOne(ctx context.Context, companyID, itemID string) (bool, error) {
	changed := false
	err := uc.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, _ repository.DemandSampleRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil || item.CompanyID != companyID {
			return nil
		}
		updated, err := inventory.RecomputeDerivedFields(item)
		if err != nil {
			return err
		}
		if sameDerived(item, updated) {
			return nil
		}
		changed = true
		return itemRepo.SaveParameters(ctx, updated)
	})
	return changed, err
}

// GetBreakdown devuelve el ítem con el desglose de costos EOQ y el detalle del punto de reorden.
func (uc *ParametersUseCase) GetBreakdown(ctx context.Context, companyID, itemID string) (*dto.ItemBreakdownDTO, error) {
	item, err := getCompanyItem(ctx, uc.itemRepo, companyID, itemID)
	if err != nil {
		return nil, err
	}
	b, err := inventory.BreakdownFor(item)
	if err != nil {
		return nil, err
	}

	out := &dto.ItemBreakdownDTO{Item: toItemDTO(item)}
	if b.EOQ != nil {
		out.EOQ = &dto.EOQBreakdownDTO{
			EconomicOrderQuantity: toFixed(b.EOQ.Quantity, 2),
			OrdersPerYear:         toFixed(b.EOQ.OrdersPerYear, 2),
			AverageInventory:      toFixed(b.EOQ.AverageInventory, 2),
			AnnualOrderingCost:    toFixed(b.EOQ.AnnualOrderingCost, 2),
			AnnualHoldingCost:     toFixed(b.EOQ.AnnualHoldingCost, 2),
			TotalAnnualCost:       toFixed(b.EOQ.TotalAnnualCost, 2),
		}
	}
	if b.Reorder != nil {
		out.Reorder = &dto.ReorderBreakdownDTO{
			ZScore:         toFixed(b.Reorder.ZScore, 3),
			DailyDemand:    toFixed(b.Reorder.DailyDemand, 4),
			LeadTimeDemand: b.Reorder.LeadTimeDemand,
			SafetyStock:    b.Reorder.SafetyStock,
			ReorderPoint:   b.Reorder.ReorderPoint,
		}
	}
	return out, nil
}

func (uc *ParametersUseCase) invalidate(ctx context.Context, companyID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, companyID); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("reorder cache: no se pudo invalidar")
	}
}

// applyParameters copia sobre el ítem solo los campos presentes en la petición.
func applyParameters(item *entity.InventoryItem, in dto.UpdateParametersRequest) {
	if in.CurrentStock != nil {
		item.CurrentStock = *in.CurrentStock
	}
	if in.UnitPrice != nil {
		item.UnitPrice = in.UnitPrice
	}
	if in.AnnualDemand != nil {
		item.AnnualDemand = in.AnnualDemand
	}
	if in.OrderingCost != nil {
		item.OrderingCost = in.OrderingCost
	}
	if in.HoldingCost != nil {
		item.HoldingCost = in.HoldingCost
	}
	if in.LeadTimeDays != nil {
		item.LeadTimeDays = in.LeadTimeDays
	}
	if in.DemandStdDev != nil {
		item.DemandStdDev = in.DemandStdDev
	}
	if in.ServiceLevel != nil {
		item.ServiceLevel = in.ServiceLevel
	}
}

func sameDerived(a, b *entity.InventoryItem) bool {
	return equalDecimalPtr(a.EconomicOrderQuantity, b.EconomicOrderQuantity) &&
		equalIntPtr(a.ReorderPoint, b.ReorderPoint) &&
		equalIntPtr(a.SafetyStock, b.SafetyStock)
}

// getCompanyItem carga un ítem y verifica que pertenezca a la empresa.
func getCompanyItem(ctx context.Context, repo repository.InventoryItemRepository, companyID, itemID string) (*entity.InventoryItem, error) {
	item, err := repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}
