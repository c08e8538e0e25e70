package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un ítem del catálogo con sus parámetros de reposición.
// Los campos opcionales son punteros: nil = dato ausente (todavía no informado por el catálogo).
// EconomicOrderQuantity, ReorderPoint y SafetyStock son derivados: solo los escribe el motor.
type InventoryItem struct {
	ID        string
	CompanyID string
	SKU       string
	Name      string

	CurrentStock int
	UnitPrice    *decimal.Decimal

	// Entradas EOQ
	AnnualDemand *decimal.Decimal // D, unidades/año
	OrderingCost *decimal.Decimal // S, costo por pedido
	HoldingCost  *decimal.Decimal // H, costo de mantener una unidad un año

	// Entradas ROP
	LeadTimeDays *int
	DemandStdDev *decimal.Decimal // σ diaria
	ServiceLevel *decimal.Decimal // α en [0,1]

	// Derivados
	EconomicOrderQuantity *decimal.Decimal
	ReorderPoint          *int
	SafetyStock           *int
	ABCClassification     ABCClass // "" = sin clasificar
	ClassifiedAt          *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasEOQInputs indica si D, S y H están presentes.
func (i *InventoryItem) HasEOQInputs() bool {
	return i.AnnualDemand != nil && i.OrderingCost != nil && i.HoldingCost != nil
}

// HasReorderInputs indica si D, L, σ y α están presentes.
func (i *InventoryItem) HasReorderInputs() bool {
	return i.AnnualDemand != nil && i.LeadTimeDays != nil && i.DemandStdDev != nil && i.ServiceLevel != nil
}

// AnnualValue devuelve D × precio unitario; ok=false si falta alguno de los dos.
func (i *InventoryItem) AnnualValue() (decimal.Decimal, bool) {
	if i.AnnualDemand == nil || i.UnitPrice == nil {
		return decimal.Zero, false
	}
	return i.AnnualDemand.Mul(*i.UnitPrice), true
}

// ClearDerived borra EOQ, ROP y stock de seguridad (no toca la clase ABC).
func (i *InventoryItem) ClearDerived() {
	i.EconomicOrderQuantity = nil
	i.ReorderPoint = nil
	i.SafetyStock = nil
}
