package inventory

import "math"

// EOQ calcula la cantidad económica de pedido: Q* = sqrt(2·D·S / H).
// ok=false cuando faltan datos útiles (D <= 0 o H <= 0): el llamador deja el campo sin valor.
// Con S = 0 devuelve 0 (sin beneficio por agrupar pedidos), no un error.
func EOQ(annualDemand, orderingCost, holdingCost float64) (float64, bool) {
	if !finite(annualDemand, orderingCost, holdingCost) {
		return 0, false
	}
	if annualDemand <= 0 || holdingCost <= 0 || orderingCost < 0 {
		return 0, false
	}
	return math.Sqrt(2 * annualDemand * orderingCost / holdingCost), true
}

// TotalAnnualCost TC(Q) = (D/Q)·S + (Q/2)·H. Para Q <= 0 devuelve +Inf.
func TotalAnnualCost(annualDemand, orderingCost, holdingCost, qty float64) float64 {
	if qty <= 0 {
		return math.Inf(1)
	}
	return annualDemand/qty*orderingCost + qty/2*holdingCost
}

// EOQBreakdown descomposición del costo anual en Q*. En el óptimo el costo de pedir
// y el de mantener son iguales (cada uno TC/2).
type EOQBreakdown struct {
	Quantity           float64
	OrdersPerYear      float64 // D / Q*
	AverageInventory   float64 // Q* / 2
	AnnualOrderingCost float64 // (D/Q*)·S
	AnnualHoldingCost  float64 // (Q*/2)·H
	TotalAnnualCost    float64
}

// NewEOQBreakdown arma el reporte derivado. ok=false si no hay EOQ positivo.
func NewEOQBreakdown(annualDemand, orderingCost, holdingCost float64) (EOQBreakdown, bool) {
	q, ok := EOQ(annualDemand, orderingCost, holdingCost)
	if !ok || q <= 0 {
		return EOQBreakdown{}, false
	}
	ordering := annualDemand / q * orderingCost
	holding := q / 2 * holdingCost
	return EOQBreakdown{
		Quantity:           q,
		OrdersPerYear:      annualDemand / q,
		AverageInventory:   q / 2,
		AnnualOrderingCost: ordering,
		AnnualHoldingCost:  holding,
		TotalAnnualCost:    ordering + holding,
	}, true
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
