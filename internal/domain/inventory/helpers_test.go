package inventory_test

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(v int) *int { return &v }

// itemConValor ítem elegible para ABC con D = value y precio 1.
func itemConValor(id, value string) *entity.InventoryItem {
	return &entity.InventoryItem{ID: id, AnnualDemand: dec(value), UnitPrice: dec("1")}
}
