package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-engine/internal/application/inventory"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
)

func itemROP(id string, stock, rop int, class entity.ABCClass) *entity.InventoryItem {
	return &entity.InventoryItem{
		ID:                    id,
		CompanyID:             "c1",
		SKU:                   "SKU-" + id,
		CurrentStock:          stock,
		ReorderPoint:          intPtr(rop),
		EconomicOrderQuantity: dec("40.75"),
		ABCClassification:     class,
	}
}

func TestRunReorderSweep_SenalesOrdenadasYCacheadas(t *testing.T) {
	corrupto := itemROP("bad", 1, -3, "")
	repo := newFakeItemRepo(
		itemROP("a", 5, 10, entity.ABCClassC),
		itemROP("b", 2, 7, entity.ABCClassA),
		itemROP("c", 20, 10, entity.ABCClassA),
		itemROP("d", 10, 10, ""),
		corrupto,
		&entity.InventoryItem{ID: "sin-rop", CompanyID: "c1", CurrentStock: 0},
	)
	before := repo.snapshot()
	cache := newFakeCache()
	uc := inventory.NewReorderUseCase(repo, cache, nil, nopLog())

	out, err := uc.RunReorderSweep(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 5, out.Evaluated)
	assert.False(t, out.Partial)
	require.Len(t, out.Signals, 3)
	// déficit 5 (A antes que C), luego déficit 0
	assert.Equal(t, "b", out.Signals[0].ItemID)
	assert.Equal(t, "a", out.Signals[1].ItemID)
	assert.Equal(t, "d", out.Signals[2].ItemID)
	require.NotNil(t, out.Signals[0].RecommendedOrderQty)
	assert.Equal(t, 40, *out.Signals[0].RecommendedOrderQty)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "bad", out.Failures[0].ItemID)

	assert.Equal(t, before, repo.snapshot(), "el barrido no escribe ítems")
	assert.Same(t, out, cache.data["c1"])
}

func TestRunReorderSweep_CancelacionNoSeCachea(t *testing.T) {
	repo := newFakeItemRepo(itemROP("a", 1, 5, ""))
	cache := newFakeCache()
	uc := inventory.NewReorderUseCase(repo, cache, nil, nopLog())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := uc.RunReorderSweep(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, out.Partial)
	assert.Empty(t, out.Signals)
	assert.Empty(t, cache.data)
}

func TestItemsBelowReorderPoint(t *testing.T) {
	repo := newFakeItemRepo(
		itemROP("a", 9, 10, ""),
		itemROP("b", 0, 10, entity.ABCClassB),
		itemROP("c", 11, 10, ""),
	)
	uc := inventory.NewReorderUseCase(repo, nil, nil, nopLog())

	out, err := uc.ItemsBelowReorderPoint(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].ItemID)
	assert.Equal(t, 10, out[0].Deficit)
}

func TestLastSweep_UsaCacheOEjecuta(t *testing.T) {
	repo := newFakeItemRepo(itemROP("a", 1, 5, ""))
	cache := newFakeCache()
	renderer := &fakeRenderer{}
	uc := inventory.NewReorderUseCase(repo, cache, renderer, nopLog())

	pdf, err := uc.ReorderReportPDF(context.Background(), "c1")
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	require.NotNil(t, renderer.got)
	first := renderer.got

	// una segunda llamada reutiliza el barrido cacheado aunque el stock cambie
	require.NoError(t, repo.SaveParameters(context.Background(), itemROP("a", 100, 5, "")))
	again, err := uc.LastSweep(context.Background(), "c1")
	require.NoError(t, err)
	assert.Same(t, first, again)

	cache.getErr = errBoom
	fresh, err := uc.LastSweep(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, fresh.Signals)
}

func TestReorderReportPDF_SinRenderer(t *testing.T) {
	uc := inventory.NewReorderUseCase(newFakeItemRepo(), nil, nil, nopLog())
	_, err := uc.ReorderReportPDF(context.Background(), "c1")
	assert.Error(t, err)
}
