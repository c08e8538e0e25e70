package dto

import "github.com/shopspring/decimal"

// ── Parámetros ────────────────────────────────────────────────────────────────

// UpdateParametersRequest body para PUT /api/optimization/items/:id/parameters.
// Los campos omitidos conservan su valor actual.
type UpdateParametersRequest struct {
	CurrentStock *int             `json:"current_stock,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	AnnualDemand *decimal.Decimal `json:"annual_demand,omitempty"`
	OrderingCost *decimal.Decimal `json:"ordering_cost,omitempty"`
	HoldingCost  *decimal.Decimal `json:"holding_cost,omitempty"`
	LeadTimeDays *int             `json:"lead_time_days,omitempty"`
	DemandStdDev *decimal.Decimal `json:"demand_std_dev,omitempty"`
	ServiceLevel *decimal.Decimal `json:"service_level,omitempty"` // 0.0 – 1.0
}

// ItemOptimizationDTO vista de un ítem con entradas y derivados.
type ItemOptimizationDTO struct {
	ID                    string           `json:"id"`
	SKU                   string           `json:"sku"`
	Name                  string           `json:"name"`
	CurrentStock          int              `json:"current_stock"`
	UnitPrice             *decimal.Decimal `json:"unit_price,omitempty"`
	AnnualDemand          *decimal.Decimal `json:"annual_demand,omitempty"`
	OrderingCost          *decimal.Decimal `json:"ordering_cost,omitempty"`
	HoldingCost           *decimal.Decimal `json:"holding_cost,omitempty"`
	LeadTimeDays          *int             `json:"lead_time_days,omitempty"`
	DemandStdDev          *decimal.Decimal `json:"demand_std_dev,omitempty"`
	ServiceLevel          *decimal.Decimal `json:"service_level,omitempty"`
	EconomicOrderQuantity *decimal.Decimal `json:"economic_order_quantity,omitempty"`
	ReorderPoint          *int             `json:"reorder_point,omitempty"`
	SafetyStock           *int             `json:"safety_stock,omitempty"`
	ABCClassification     string           `json:"abc_classification,omitempty"`
}

// ItemListResponse listado paginado de ítems.
type ItemListResponse struct {
	Items []ItemOptimizationDTO `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ── Desglose EOQ / ROP ────────────────────────────────────────────────────────

// EOQBreakdownDTO descomposición del costo anual en la cantidad económica.
type EOQBreakdownDTO struct {
	EconomicOrderQuantity decimal.Decimal `json:"economic_order_quantity"`
	OrdersPerYear         decimal.Decimal `json:"orders_per_year"`
	AverageInventory      decimal.Decimal `json:"average_inventory"`
	AnnualOrderingCost    decimal.Decimal `json:"annual_ordering_cost"`
	AnnualHoldingCost     decimal.Decimal `json:"annual_holding_cost"`
	TotalAnnualCost       decimal.Decimal `json:"total_annual_cost"`
}

// ReorderBreakdownDTO detalle del punto de reorden.
type ReorderBreakdownDTO struct {
	ZScore         decimal.Decimal `json:"z_score"`
	DailyDemand    decimal.Decimal `json:"daily_demand"`
	LeadTimeDemand int             `json:"lead_time_demand"`
	SafetyStock    int             `json:"safety_stock"`
	ReorderPoint   int             `json:"reorder_point"`
}

// ItemBreakdownDTO respuesta de GET /api/optimization/items/:id/breakdown.
type ItemBreakdownDTO struct {
	Item    ItemOptimizationDTO  `json:"item"`
	EOQ     *EOQBreakdownDTO     `json:"eoq,omitempty"`
	Reorder *ReorderBreakdownDTO `json:"reorder,omitempty"`
}

// ── ABC ───────────────────────────────────────────────────────────────────────

// ABCEntryDTO posición de un ítem en el ranking ABC.
type ABCEntryDTO struct {
	ItemID            string          `json:"item_id"`
	Rank              int             `json:"rank"`
	AnnualValue       decimal.Decimal `json:"annual_value"`
	CumulativePercent decimal.Decimal `json:"cumulative_percent"` // 0 – 100
	Class             string          `json:"class"`
}

// ABCRunDTO resultado de una corrida de clasificación.
type ABCRunDTO struct {
	CompanyID    string          `json:"company_id"`
	ClassifiedAt string          `json:"classified_at"`
	TotalValue   decimal.Decimal `json:"total_value"`
	CountA       int             `json:"count_a"`
	CountB       int             `json:"count_b"`
	CountC       int             `json:"count_c"`
	Unclassified int             `json:"unclassified"`
	Entries      []ABCEntryDTO   `json:"entries"`
}

// ── Reposición ────────────────────────────────────────────────────────────────

// ReorderSignalDTO aviso de reposición.
type ReorderSignalDTO struct {
	ItemID              string `json:"item_id"`
	SKU                 string `json:"sku"`
	Name                string `json:"name"`
	CurrentStock        int    `json:"current_stock"`
	ReorderPoint        int    `json:"reorder_point"`
	Deficit             int    `json:"deficit"`
	RecommendedOrderQty *int   `json:"recommended_order_qty,omitempty"`
	ABCClassification   string `json:"abc_classification,omitempty"`
}

// SweepFailureDTO ítem que no pudo evaluarse en el barrido.
type SweepFailureDTO struct {
	ItemID string `json:"item_id"`
	Error  string `json:"error"`
}

// ReorderSweepDTO resultado de un barrido de reposición.
type ReorderSweepDTO struct {
	CompanyID string             `json:"company_id"`
	SweptAt   string             `json:"swept_at"`
	Evaluated int                `json:"evaluated"`
	Partial   bool               `json:"partial"`
	Signals   []ReorderSignalDTO `json:"signals"`
	Failures  []SweepFailureDTO  `json:"failures,omitempty"`
}

// ── Demanda ───────────────────────────────────────────────────────────────────

// RefreshDemandRequest body para POST /api/optimization/items/:id/demand/refresh.
type RefreshDemandRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD; por defecto hoy - ventana configurada
	EndDate   string `json:"end_date"`   // YYYY-MM-DD; por defecto hoy
}

// DemandSampleRequest muestra de demanda calculada por el cliente.
type DemandSampleRequest struct {
	PeriodStart    string           `json:"period_start"`
	PeriodEnd      string           `json:"period_end"`
	TotalDemand    decimal.Decimal  `json:"total_demand"`
	AvgDailyDemand decimal.Decimal  `json:"avg_daily_demand"`
	DemandStdDev   decimal.Decimal  `json:"demand_std_dev"`
	MinDailyDemand *decimal.Decimal `json:"min_daily_demand,omitempty"`
	MaxDailyDemand *decimal.Decimal `json:"max_daily_demand,omitempty"`
}

// DemandStatsDTO estadística de demanda de un ítem con su clasificación de estabilidad.
type DemandStatsDTO struct {
	SampleID               string           `json:"sample_id"`
	ItemID                 string           `json:"item_id"`
	PeriodStart            string           `json:"period_start"`
	PeriodEnd              string           `json:"period_end"`
	TotalDemand            decimal.Decimal  `json:"total_demand"`
	AvgDailyDemand         decimal.Decimal  `json:"avg_daily_demand"`
	DemandStdDev           decimal.Decimal  `json:"demand_std_dev"`
	MinDailyDemand         *decimal.Decimal `json:"min_daily_demand,omitempty"`
	MaxDailyDemand         *decimal.Decimal `json:"max_daily_demand,omitempty"`
	CoefficientOfVariation *decimal.Decimal `json:"coefficient_of_variation,omitempty"` // nil si la media es 0
	Stability              string           `json:"stability"`
}
