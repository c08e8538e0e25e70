package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-engine/internal/application/dto"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
	"github.com/jhoicas/Inventario-engine/internal/domain/inventory"
)

const dateLayout = "2006-01-02"

func toItemDTO(item *entity.InventoryItem) dto.ItemOptimizationDTO {
	return dto.ItemOptimizationDTO{
		ID:                    item.ID,
		SKU:                   item.SKU,
		Name:                  item.Name,
		CurrentStock:          item.CurrentStock,
		UnitPrice:             item.UnitPrice,
		AnnualDemand:          item.AnnualDemand,
		OrderingCost:          item.OrderingCost,
		HoldingCost:           item.HoldingCost,
		LeadTimeDays:          item.LeadTimeDays,
		DemandStdDev:          item.DemandStdDev,
		ServiceLevel:          item.ServiceLevel,
		EconomicOrderQuantity: item.EconomicOrderQuantity,
		ReorderPoint:          item.ReorderPoint,
		SafetyStock:           item.SafetyStock,
		ABCClassification:     item.ABCClassification.String(),
	}
}

func toSignalDTO(s inventory.ReorderSignal) dto.ReorderSignalDTO {
	return dto.ReorderSignalDTO{
		ItemID:              s.ItemID,
		SKU:                 s.SKU,
		Name:                s.Name,
		CurrentStock:        s.CurrentStock,
		ReorderPoint:        s.ReorderPoint,
		Deficit:             s.Deficit,
		RecommendedOrderQty: s.RecommendedOrderQty,
		ABCClassification:   s.ABCClassification.String(),
	}
}

func toDemandStatsDTO(s *entity.DemandPeriodSample) dto.DemandStatsDTO {
	out := dto.DemandStatsDTO{
		SampleID:       s.ID,
		ItemID:         s.ItemID,
		PeriodStart:    s.PeriodStart.Format(dateLayout),
		PeriodEnd:      s.PeriodEnd.Format(dateLayout),
		TotalDemand:    s.TotalDemand,
		AvgDailyDemand: s.AvgDailyDemand,
		DemandStdDev:   s.DemandStdDev,
		MinDailyDemand: s.MinDailyDemand,
		MaxDailyDemand: s.MaxDailyDemand,
	}
	cv, ok := inventory.CoefficientOfVariation(s.DemandStdDev.InexactFloat64(), s.AvgDailyDemand.InexactFloat64())
	if ok {
		d := decimal.NewFromFloat(cv).Round(4)
		out.CoefficientOfVariation = &d
	}
	out.Stability = string(inventory.ClassifyStability(cv, ok))
	return out
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

func toFixed(v float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}

func equalDecimalPtr(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
