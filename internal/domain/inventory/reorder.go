package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-engine/internal/domain"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
)

// ReorderSignal aviso de reposición para un ítem con stock en o bajo su punto de reorden.
type ReorderSignal struct {
	ItemID              string
	SKU                 string
	Name                string
	CurrentStock        int
	ReorderPoint        int
	Deficit             int  // ROP - stock actual (≥ 0)
	RecommendedOrderQty *int // floor(EOQ); nil si el ítem no tiene EOQ
	ABCClassification   entity.ABCClass
}

// ItemFailure error al evaluar un ítem dentro de un barrido.
type ItemFailure struct {
	ItemID string
	Err    error
}

// SweepResult resultado de un barrido. Partial=true si se canceló antes de recorrer todo el catálogo;
// las señales emitidas hasta ese punto siguen siendo válidas.
type SweepResult struct {
	Signals   []ReorderSignal
	Evaluated int
	Failures  []ItemFailure
	Partial   bool
}

// EvaluateReorder compara stock contra ROP. Devuelve nil si el ítem no tiene ROP o está por encima.
// Un ítem con datos corruptos (stock o ROP negativos, EOQ no positivo) devuelve error.
func EvaluateReorder(item *entity.InventoryItem) (*ReorderSignal, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: ítem nulo", domain.ErrInvalidInput)
	}
	if item.ReorderPoint == nil {
		return nil, nil
	}
	if item.CurrentStock < 0 {
		return nil, fmt.Errorf("%w: current_stock negativo (%d)", domain.ErrInvalidInput, item.CurrentStock)
	}
	rop := *item.ReorderPoint
	if rop < 0 {
		return nil, fmt.Errorf("%w: reorder_point negativo (%d)", domain.ErrInvalidInput, rop)
	}
	if item.CurrentStock > rop {
		return nil, nil
	}

	sig := &ReorderSignal{
		ItemID:            item.ID,
		SKU:               item.SKU,
		Name:              item.Name,
		CurrentStock:      item.CurrentStock,
		ReorderPoint:      rop,
		Deficit:           rop - item.CurrentStock,
		ABCClassification: item.ABCClassification,
	}
	if item.EconomicOrderQuantity != nil {
		if !item.EconomicOrderQuantity.IsPositive() {
			return nil, fmt.Errorf("%w: economic_order_quantity no positivo", domain.ErrInvalidInput)
		}
		qty := int(item.EconomicOrderQuantity.Floor().IntPart())
		sig.RecommendedOrderQty = &qty
	}
	return sig, nil
}

// SweepReorder recorre todos los ítems sin modificarlos. Un error en un ítem se reporta en onFailure
// (puede ser nil) y el barrido continúa. Si ctx se cancela deja de evaluar y marca el resultado parcial.
func SweepReorder(ctx context.Context, items []*entity.InventoryItem, onFailure func(ItemFailure)) SweepResult {
	res := SweepResult{Signals: []ReorderSignal{}}
	for _, item := range items {
		if ctx.Err() != nil {
			res.Partial = true
			break
		}
		res.Evaluated++
		sig, err := EvaluateReorder(item)
		if err != nil {
			f := ItemFailure{Err: err}
			if item != nil {
				f.ItemID = item.ID
			}
			res.Failures = append(res.Failures, f)
			if onFailure != nil {
				onFailure(f)
			}
			continue
		}
		if sig != nil {
			res.Signals = append(res.Signals, *sig)
		}
	}
	return res
}
