package inventory

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-engine/internal/domain"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
)

// DefaultAvgDemandTolerance tolerancia relativa por defecto entre el promedio diario informado
// y total/días.
const DefaultAvgDemandTolerance = 0.01

// Umbrales del coeficiente de variación para clasificar la estabilidad de la demanda.
const (
	cvStableBelow   = 0.5
	cvVariableAbove = 1.0
)

// DemandStability clasificación de la variabilidad de la demanda.
type DemandStability string

const (
	DemandStable         DemandStability = "stable"
	DemandModerate       DemandStability = "moderate"
	DemandHighlyVariable DemandStability = "highly_variable"
	DemandUnknown        DemandStability = "unknown" // CV indefinido (media cero)
)

// DemandStats estadística diaria de un ítem en una ventana.
type DemandStats struct {
	PeriodStart    time.Time
	PeriodEnd      time.Time
	Days           int
	Observations   int
	TotalDemand    float64
	AvgDailyDemand float64
	StdDev         float64  // desviación estándar muestral (n-1)
	Min            *float64 // nil si no hubo observaciones
	Max            *float64
}

// PeriodDays días enteros entre fechas, mínimo 1 (ventanas de un solo día no dividen por cero).
func PeriodDays(start, end time.Time) int {
	d := int(math.Round(dateOnly(end).Sub(dateOnly(start)).Hours() / 24))
	if d < 1 {
		return 1
	}
	return d
}

// AggregateDemand resume los conteos diarios de consumo de la ventana [start, end].
func AggregateDemand(start, end time.Time, dailyCounts []float64) (DemandStats, error) {
	if dateOnly(end).Before(dateOnly(start)) {
		return DemandStats{}, fmt.Errorf("%w: period_start posterior a period_end", domain.ErrInvalidInput)
	}

	stats := DemandStats{
		PeriodStart:  dateOnly(start),
		PeriodEnd:    dateOnly(end),
		Days:         PeriodDays(start, end),
		Observations: len(dailyCounts),
	}
	if len(dailyCounts) == 0 {
		return stats, nil
	}

	minV, maxV := math.Inf(1), math.Inf(-1)
	var sum float64
	for _, c := range dailyCounts {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return DemandStats{}, fmt.Errorf("%w: consumo diario inválido %v", domain.ErrInvalidInput, c)
		}
		sum += c
		minV = math.Min(minV, c)
		maxV = math.Max(maxV, c)
	}

	stats.TotalDemand = sum
	stats.AvgDailyDemand = sum / float64(stats.Days)
	stats.StdDev = sampleStdDev(dailyCounts)
	stats.Min = &minV
	stats.Max = &maxV
	return stats, nil
}

// CoefficientOfVariation CV = σ/μ. ok=false cuando μ = 0.
func CoefficientOfVariation(stdDev, mean float64) (float64, bool) {
	if mean == 0 || math.IsNaN(mean) {
		return 0, false
	}
	return stdDev / mean, true
}

// ClassifyStability CV < 0.5 estable, CV ≥ 1.0 altamente variable, resto moderada.
func ClassifyStability(cv float64, ok bool) DemandStability {
	switch {
	case !ok:
		return DemandUnknown
	case cv < cvStableBelow:
		return DemandStable
	case cv >= cvVariableAbove:
		return DemandHighlyVariable
	default:
		return DemandModerate
	}
}

// ValidateDemandSample valida una muestra antes de agregarla al historial.
// tolerance es relativa a total/días; si la media esperada es 0 se usa como tolerancia absoluta.
func ValidateDemandSample(s *entity.DemandPeriodSample, tolerance float64) error {
	if s == nil {
		return fmt.Errorf("%w: muestra vacía", domain.ErrInvalidInput)
	}
	if tolerance < 0 {
		tolerance = 0
	}
	if dateOnly(s.PeriodEnd).Before(dateOnly(s.PeriodStart)) {
		return fmt.Errorf("%w: period_start posterior a period_end", domain.ErrInvalidInput)
	}
	if s.TotalDemand.IsNegative() {
		return fmt.Errorf("%w: total_demand negativa", domain.ErrInvalidInput)
	}
	if s.AvgDailyDemand.IsNegative() {
		return fmt.Errorf("%w: avg_daily_demand negativa", domain.ErrInvalidInput)
	}
	if s.DemandStdDev.IsNegative() {
		return fmt.Errorf("%w: demand_std_dev negativa", domain.ErrInvalidInput)
	}
	if s.MinDailyDemand != nil && s.MinDailyDemand.IsNegative() {
		return fmt.Errorf("%w: min_daily_demand negativa", domain.ErrInvalidInput)
	}
	if s.MaxDailyDemand != nil && s.MaxDailyDemand.IsNegative() {
		return fmt.Errorf("%w: max_daily_demand negativa", domain.ErrInvalidInput)
	}
	if s.MinDailyDemand != nil && s.MaxDailyDemand != nil && s.MinDailyDemand.GreaterThan(*s.MaxDailyDemand) {
		return fmt.Errorf("%w: min_daily_demand mayor que max_daily_demand", domain.ErrInvalidInput)
	}

	days := decimal.NewFromInt(int64(PeriodDays(s.PeriodStart, s.PeriodEnd)))
	expected := s.TotalDemand.Div(days)
	diff := s.AvgDailyDemand.Sub(expected).Abs()
	tol := decimal.NewFromFloat(tolerance)
	if expected.IsPositive() {
		tol = tol.Mul(expected)
	}
	if diff.GreaterThan(tol) {
		return fmt.Errorf("%w: avg_daily_demand %s no coincide con total/días %s",
			domain.ErrInvalidInput, s.AvgDailyDemand.String(), expected.StringFixed(4))
	}
	return nil
}

func sampleStdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss / float64(n-1))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
