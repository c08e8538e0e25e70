package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-engine/internal/domain"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
)

// eoqScale decimales con los que se persiste la EOQ.
const eoqScale = 2

var one = decimal.NewFromInt(1)

// ValidateParameters rechaza entradas fuera de dominio. Se ejecuta antes de cualquier cálculo:
// si falla, la escritura completa se descarta.
func ValidateParameters(item *entity.InventoryItem) error {
	if item == nil {
		return fmt.Errorf("%w: ítem nulo", domain.ErrInvalidInput)
	}
	if item.CurrentStock < 0 {
		return fmt.Errorf("%w: current_stock negativo", domain.ErrInvalidInput)
	}
	nonNegative := []struct {
		name string
		v    *decimal.Decimal
	}{
		{"unit_price", item.UnitPrice},
		{"annual_demand", item.AnnualDemand},
		{"ordering_cost", item.OrderingCost},
		{"holding_cost", item.HoldingCost},
		{"demand_std_dev", item.DemandStdDev},
	}
	for _, f := range nonNegative {
		if f.v != nil && f.v.IsNegative() {
			return fmt.Errorf("%w: %s negativo", domain.ErrInvalidInput, f.name)
		}
	}
	if item.LeadTimeDays != nil && *item.LeadTimeDays < 0 {
		return fmt.Errorf("%w: lead_time_days negativo", domain.ErrInvalidInput)
	}
	if sl := item.ServiceLevel; sl != nil && (sl.IsNegative() || sl.GreaterThan(one)) {
		return fmt.Errorf("%w: service_level fuera de [0,1]", domain.ErrInvalidInput)
	}
	return nil
}

// RecomputeDerivedFields devuelve una copia del ítem con EOQ, stock de seguridad y ROP recalculados
// en conjunto. El ítem recibido no se modifica. Un campo derivado queda nil si faltan sus entradas;
// si alguna entrada es inválida devuelve error y no se calcula nada.
// La clase ABC no se toca: depende del catálogo completo.
func RecomputeDerivedFields(item *entity.InventoryItem) (*entity.InventoryItem, error) {
	if err := ValidateParameters(item); err != nil {
		return nil, err
	}

	out := *item
	out.ClearDerived()

	if item.HasEOQInputs() {
		q, ok := EOQ(item.AnnualDemand.InexactFloat64(), item.OrderingCost.InexactFloat64(), item.HoldingCost.InexactFloat64())
		if ok {
			eoq := decimal.NewFromFloat(q).Round(eoqScale)
			if eoq.IsPositive() {
				out.EconomicOrderQuantity = &eoq
			}
		}
	}

	if item.HasReorderInputs() {
		res, err := SafetyStock(
			item.AnnualDemand.InexactFloat64(),
			*item.LeadTimeDays,
			item.DemandStdDev.InexactFloat64(),
			item.ServiceLevel.InexactFloat64(),
		)
		if err != nil {
			return nil, err
		}
		ss, rop := res.SafetyStock, res.ReorderPoint
		out.SafetyStock = &ss
		out.ReorderPoint = &rop
	}

	return &out, nil
}

// ItemBreakdown desglose EOQ/ROP de un ítem para reportes. Los punteros son nil si faltan datos.
type ItemBreakdown struct {
	EOQ     *EOQBreakdown
	Reorder *SafetyStockResult
}

// BreakdownFor calcula el desglose a partir de las entradas actuales del ítem.
func BreakdownFor(item *entity.InventoryItem) (ItemBreakdown, error) {
	if err := ValidateParameters(item); err != nil {
		return ItemBreakdown{}, err
	}
	var b ItemBreakdown
	if item.HasEOQInputs() {
		if eb, ok := NewEOQBreakdown(item.AnnualDemand.InexactFloat64(), item.OrderingCost.InexactFloat64(), item.HoldingCost.InexactFloat64()); ok {
			b.EOQ = &eb
		}
	}
	if item.HasReorderInputs() {
		res, err := SafetyStock(item.AnnualDemand.InexactFloat64(), *item.LeadTimeDays, item.DemandStdDev.InexactFloat64(), item.ServiceLevel.InexactFloat64())
		if err != nil {
			return ItemBreakdown{}, err
		}
		b.Reorder = &res
	}
	return b, nil
}
