package inventory_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-engine/internal/domain"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
	"github.com/jhoicas/Inventario-engine/internal/domain/inventory"
)

func TestClassifyABC_EscenarioDeReferencia(t *testing.T) {
	items := []*entity.InventoryItem{
		itemConValor("c", "100"),
		itemConValor("a", "700"),
		itemConValor("b", "200"),
	}

	res, err := inventory.ClassifyABC(items)
	require.NoError(t, err)
	require.Len(t, res.Entries, 3)

	assert.Equal(t, "a", res.Entries[0].ItemID)
	assert.True(t, res.Entries[0].CumulativePercent.Equal(decimal.RequireFromString("0.7")))
	assert.True(t, res.Entries[1].CumulativePercent.Equal(decimal.RequireFromString("0.9")))
	assert.True(t, res.Entries[2].CumulativePercent.Equal(decimal.NewFromInt(1)))

	assert.Equal(t, map[string]entity.ABCClass{
		"a": entity.ABCClassA,
		"b": entity.ABCClassB,
		"c": entity.ABCClassC,
	}, res.Assignments())
	assert.True(t, res.TotalValue.Equal(decimal.NewFromInt(1000)))
}

func TestClassifyABC_ValorUsaDemandaPorPrecio(t *testing.T) {
	items := []*entity.InventoryItem{
		{ID: "barato", AnnualDemand: dec("1000"), UnitPrice: dec("0.10")}, // 100
		{ID: "caro", AnnualDemand: dec("10"), UnitPrice: dec("90")},       // 900
	}
	res, err := inventory.ClassifyABC(items)
	require.NoError(t, err)
	assert.Equal(t, "caro", res.Entries[0].ItemID)
	assert.True(t, res.Entries[0].AnnualValue.Equal(decimal.NewFromInt(900)))
}

func TestClassifyABC_ItemsSinDatosQuedanSinClasificar(t *testing.T) {
	items := []*entity.InventoryItem{
		itemConValor("x", "500"),
		{ID: "sin-precio", AnnualDemand: dec("100")},
		{ID: "sin-demanda", UnitPrice: dec("3")},
	}
	res, err := inventory.ClassifyABC(items)
	require.NoError(t, err)
	assert.Len(t, res.Entries, 1)
	assert.Equal(t, []string{"sin-demanda", "sin-precio"}, res.Unclassified)
	_, ok := res.Assignments()["sin-precio"]
	assert.False(t, ok)
}

func TestClassifyABC_ValorTotalCero(t *testing.T) {
	items := []*entity.InventoryItem{
		itemConValor("a", "0"),
		itemConValor("b", "0"),
	}
	_, err := inventory.ClassifyABC(items)
	assert.ErrorIs(t, err, domain.ErrNoClassifiableValue)

	_, err = inventory.ClassifyABC(nil)
	assert.ErrorIs(t, err, domain.ErrNoClassifiableValue)
}

// Con un solo ítem el acumulado llega a 100% al incluirlo: la regla literal lo deja en C.
func TestClassifyABC_UnSoloItemQuedaEnC(t *testing.T) {
	res, err := inventory.ClassifyABC([]*entity.InventoryItem{itemConValor("solo", "42")})
	require.NoError(t, err)
	assert.Equal(t, entity.ABCClassC, res.Entries[0].Class)
}

func TestClassifyABC_EmpatesPorID(t *testing.T) {
	items := []*entity.InventoryItem{
		itemConValor("b", "500"),
		itemConValor("a", "500"),
	}
	res, err := inventory.ClassifyABC(items)
	require.NoError(t, err)
	assert.Equal(t, "a", res.Entries[0].ItemID)
	assert.Equal(t, entity.ABCClassA, res.Entries[0].Class)
	assert.Equal(t, entity.ABCClassC, res.Entries[1].Class)
}

func catalogoAleatorio(r *rand.Rand, n int) []*entity.InventoryItem {
	items := make([]*entity.InventoryItem, 0, n)
	for i := 0; i < n; i++ {
		d := decimal.NewFromInt(int64(r.Intn(50) * 10)) // fuerza empates
		p := decimal.NewFromInt(int64(1 + r.Intn(5)))
		items = append(items, &entity.InventoryItem{
			ID:           decimal.NewFromInt(int64(i)).String(),
			AnnualDemand: &d,
			UnitPrice:    &p,
		})
	}
	return items
}

func TestClassifyABC_ParticionYMonotonia(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	items := catalogoAleatorio(r, 200)

	res, err := inventory.ClassifyABC(items)
	require.NoError(t, err)

	counts := res.CountByClass()
	assert.Equal(t, len(res.Entries), counts[entity.ABCClassA]+counts[entity.ABCClassB]+counts[entity.ABCClassC])
	assert.Equal(t, len(items), len(res.Entries)+len(res.Unclassified))

	seen := map[string]bool{}
	prev := decimal.Zero
	for _, e := range res.Entries {
		assert.False(t, seen[e.ItemID], "ítem repetido %s", e.ItemID)
		seen[e.ItemID] = true

		assert.True(t, e.CumulativePercent.GreaterThanOrEqual(prev), "el acumulado no puede decrecer")
		prev = e.CumulativePercent

		switch {
		case e.CumulativePercent.LessThanOrEqual(decimal.RequireFromString("0.70")):
			assert.Equal(t, entity.ABCClassA, e.Class)
		case e.CumulativePercent.LessThanOrEqual(decimal.RequireFromString("0.90")):
			assert.Equal(t, entity.ABCClassB, e.Class)
		default:
			assert.Equal(t, entity.ABCClassC, e.Class)
		}
	}
}

// Dos corridas sobre los mismos datos (en cualquier orden) producen la misma asignación.
func TestClassifyABC_Idempotente(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	items := catalogoAleatorio(r, 120)

	first, err := inventory.ClassifyABC(items)
	require.NoError(t, err)

	shuffled := append([]*entity.InventoryItem(nil), items...)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	second, err := inventory.ClassifyABC(shuffled)
	require.NoError(t, err)

	assert.Equal(t, first.Assignments(), second.Assignments())
	for i := range first.Entries {
		assert.Equal(t, first.Entries[i].ItemID, second.Entries[i].ItemID)
	}
}
