package inventory

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-engine/internal/domain"
)

// DaysPerYear base para convertir demanda anual en diaria.
const DaysPerYear = 365

// maxQuantity tope de SS y ROP: las columnas safety_stock y reorder_point son INTEGER.
var maxQuantity = decimal.NewFromInt(math.MaxInt32)

var daysPerYearDec = decimal.NewFromInt(DaysPerYear)

// defaultZScore se usa cuando el nivel de servicio está por debajo del menor escalón.
const defaultZScore = 1.645

// zTable escalones de nivel de servicio → z, de mayor a menor. Sin interpolación:
// un nivel entre escalones toma el z del escalón inferior (0.93 → 1.282).
var zTable = []struct {
	minLevel float64
	z        float64
}{
	{0.999, 3.090},
	{0.990, 2.326},
	{0.950, 1.645},
	{0.900, 1.282},
	{0.750, 0.674},
}

// ZScore devuelve el z correspondiente al nivel de servicio según la tabla escalonada.
func ZScore(serviceLevel float64) float64 {
	for _, step := range zTable {
		if serviceLevel >= step.minLevel {
			return step.z
		}
	}
	return defaultZScore
}

// SafetyStockResult resultado del cálculo de stock de seguridad y punto de reorden.
type SafetyStockResult struct {
	ZScore         float64
	DailyDemand    float64 // d = D / 365
	LeadTimeDemand int     // ceil(d·L)
	SafetyStock    int     // ceil(z·σ·sqrt(L))
	ReorderPoint   int     // ceil(d·L) + SS
}

// SafetyStock calcula SS = ceil(z·σ·√L) y ROP = ceil(d·L) + SS.
// Entradas negativas o α fuera de [0,1] se rechazan antes de calcular.
func SafetyStock(annualDemand float64, leadTimeDays int, demandStdDev, serviceLevel float64) (SafetyStockResult, error) {
	switch {
	case !finite(annualDemand, demandStdDev, serviceLevel):
		return SafetyStockResult{}, fmt.Errorf("%w: parámetros no numéricos", domain.ErrInvalidInput)
	case annualDemand < 0:
		return SafetyStockResult{}, fmt.Errorf("%w: annual_demand negativa", domain.ErrInvalidInput)
	case leadTimeDays < 0:
		return SafetyStockResult{}, fmt.Errorf("%w: lead_time_days negativo", domain.ErrInvalidInput)
	case demandStdDev < 0:
		return SafetyStockResult{}, fmt.Errorf("%w: demand_std_dev negativa", domain.ErrInvalidInput)
	case serviceLevel < 0 || serviceLevel > 1:
		return SafetyStockResult{}, fmt.Errorf("%w: service_level fuera de [0,1]", domain.ErrInvalidInput)
	}

	z := ZScore(serviceLevel)
	daily := annualDemand / DaysPerYear
	lead := float64(leadTimeDays)

	// d·L en decimal: D·L/365 es exacto para entradas NUMERIC y su techo no pierde fracciones reales.
	leadDec := decimal.NewFromFloat(annualDemand).Mul(decimal.NewFromInt(int64(leadTimeDays))).Div(daysPerYearDec).Ceil()
	if leadDec.GreaterThan(maxQuantity) {
		return SafetyStockResult{}, fmt.Errorf("%w: demanda durante el lead time fuera de rango", domain.ErrInvalidInput)
	}
	ssRaw := z * demandStdDev * math.Sqrt(lead)
	if ssRaw > math.MaxInt32 {
		return SafetyStockResult{}, fmt.Errorf("%w: stock de seguridad fuera de rango", domain.ErrInvalidInput)
	}

	leadDemand := int(leadDec.IntPart())
	ss := ceilInt(ssRaw)
	if int64(leadDemand)+int64(ss) > math.MaxInt32 {
		return SafetyStockResult{}, fmt.Errorf("%w: punto de reorden fuera de rango", domain.ErrInvalidInput)
	}

	return SafetyStockResult{
		ZScore:         z,
		DailyDemand:    daily,
		LeadTimeDemand: leadDemand,
		SafetyStock:    ss,
		ReorderPoint:   leadDemand + ss,
	}, nil
}

// ceilInt redondea hacia arriba ignorando ruido de punto flotante (2.0000000000001 → 2).
// El margen es absoluto: una fracción real mayor a 1e-12 siempre sube al entero siguiente.
func ceilInt(x float64) int {
	if x <= 0 {
		return 0
	}
	return int(math.Ceil(x - 1e-12))
}
