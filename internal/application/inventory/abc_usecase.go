package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-engine/internal/application/dto"
	"github.com/jhoicas/Inventario-engine/internal/domain"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
	"github.com/jhoicas/Inventario-engine/internal/domain/inventory"
	"github.com/jhoicas/Inventario-engine/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// ABCUseCase clasifica el catálogo de una empresa por valor anual (Pareto A/B/C).
type ABCUseCase struct {
	txRunner TxRunner
	itemRepo repository.InventoryItemRepository
	cache    ReorderCache
	log      zerolog.Logger
}

// NewABCUseCase construye el caso de uso de clasificación ABC.
func NewABCUseCase(
	txRunner TxRunner,
	itemRepo repository.InventoryItemRepository,
	cache ReorderCache,
	log zerolog.Logger,
) *ABCUseCase {
	return &ABCUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		cache:    cache,
		log:      log,
	}
}

// RunAbcAnalysis lee el catálogo completo, lo clasifica en memoria y escribe todas las clases en
// una sola operación dentro de la transacción. Si falla, la clasificación anterior queda intacta.
// Con valor total cero devuelve domain.ErrNoClassifiableValue sin tocar el catálogo.
func (uc *ABCUseCase) RunAbcAnalysis(ctx context.Context, companyID string) (*dto.ABCRunDTO, error) {
	if companyID == "" {
		return nil, fmt.Errorf("%w: company_id requerido", domain.ErrInvalidInput)
	}

	classifiedAt := time.Now().UTC()
	var result inventory.ABCResult
	err := uc.txRunner.RunClassification(ctx, companyID, func(itemRepo repository.InventoryItemRepository) error {
		items, err := itemRepo.ListByCompany(ctx, companyID)
		if err != nil {
			return err
		}
		res, err := inventory.ClassifyABC(items)
		if err != nil {
			return err
		}
		result = res
		return itemRepo.ApplyClassification(ctx, companyID, res.Assignments(), classifiedAt)
	})
	if errors.Is(err, domain.ErrNoClassifiableValue) {
		uc.log.Info().Str("company_id", companyID).Msg("abc: catálogo sin valor clasificable, no se modifica")
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	counts := result.CountByClass()
	uc.log.Info().
		Str("company_id", companyID).
		Int("a", counts[entity.ABCClassA]).
		Int("b", counts[entity.ABCClassB]).
		Int("c", counts[entity.ABCClassC]).
		Int("unclassified", len(result.Unclassified)).
		Str("total_value", result.TotalValue.StringFixed(2)).
		Msg("abc: clasificación aplicada")

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, companyID); err != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Msg("reorder cache: no se pudo invalidar")
		}
	}

	out := &dto.ABCRunDTO{
		CompanyID:    companyID,
		ClassifiedAt: classifiedAt.Format(time.RFC3339),
		TotalValue:   result.TotalValue,
		CountA:       counts[entity.ABCClassA],
		CountB:       counts[entity.ABCClassB],
		CountC:       counts[entity.ABCClassC],
		Unclassified: len(result.Unclassified),
		Entries:      make([]dto.ABCEntryDTO, 0, len(result.Entries)),
	}
	for _, e := range result.Entries {
		out.Entries = append(out.Entries, dto.ABCEntryDTO{
			ItemID:            e.ItemID,
			Rank:              e.Rank,
			AnnualValue:       e.AnnualValue,
			CumulativePercent: e.CumulativePercent.Mul(hundred).Round(2),
			Class:             e.Class.String(),
		})
	}
	return out, nil
}

// ListByClass ítems de la empresa con la clase indicada, paginados.
func (uc *ABCUseCase) ListByClass(ctx context.Context, companyID, class string, page dto.PageRequest) (*dto.ItemListResponse, error) {
	c, err := entity.ParseABCClass(class)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	page.DefaultPage()
	items, err := uc.itemRepo.ListByABCClass(ctx, companyID, c, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ItemListResponse{
		Items: make([]dto.ItemOptimizationDTO, 0, len(items)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, it := range items {
		out.Items = append(out.Items, toItemDTO(it))
	}
	return out, nil
}
