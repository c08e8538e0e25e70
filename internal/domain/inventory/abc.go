package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-engine/internal/domain"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
)

// Umbrales Pareto sobre el porcentaje acumulado del valor anual (evaluados después de acumular el ítem).
var (
	abcThresholdA = decimal.RequireFromString("0.70")
	abcThresholdB = decimal.RequireFromString("0.90")
)

// ABCEntry posición de un ítem elegible en el ranking.
type ABCEntry struct {
	ItemID            string
	Rank              int // 1 = mayor valor anual
	AnnualValue       decimal.Decimal
	CumulativeValue   decimal.Decimal
	CumulativePercent decimal.Decimal // fracción en [0,1]
	Class             entity.ABCClass
}

// ABCResult resultado de una corrida de clasificación sobre un catálogo completo.
type ABCResult struct {
	Entries      []ABCEntry // en orden de ranking
	Unclassified []string   // ítems sin demanda anual o sin precio
	TotalValue   decimal.Decimal
}

// Assignments devuelve itemID → clase para los ítems clasificados.
func (r ABCResult) Assignments() map[string]entity.ABCClass {
	out := make(map[string]entity.ABCClass, len(r.Entries))
	for _, e := range r.Entries {
		out[e.ItemID] = e.Class
	}
	return out
}

// CountByClass cantidad de ítems por clase.
func (r ABCResult) CountByClass() map[entity.ABCClass]int {
	out := map[entity.ABCClass]int{entity.ABCClassA: 0, entity.ABCClassB: 0, entity.ABCClassC: 0}
	for _, e := range r.Entries {
		out[e.Class]++
	}
	return out
}

// ClassifyABC rankea el catálogo por valor anual (D × precio) y lo parte en A/B/C:
// A mientras el acumulado ≤ 70%, B mientras ≤ 90%, C el resto.
// Empates de valor se resuelven por ID ascendente para que dos corridas sobre los mismos datos coincidan.
// Si el valor total es cero devuelve domain.ErrNoClassifiableValue y ningún resultado.
//
// Nota: con un solo ítem el acumulado es 100% tras incluirlo, así que queda en C.
func ClassifyABC(items []*entity.InventoryItem) (ABCResult, error) {
	type ranked struct {
		id    string
		value decimal.Decimal
	}

	eligible := make([]ranked, 0, len(items))
	var unclassified []string
	total := decimal.Zero

	for _, it := range items {
		if it == nil {
			continue
		}
		v, ok := it.AnnualValue()
		if !ok || v.IsNegative() {
			unclassified = append(unclassified, it.ID)
			continue
		}
		eligible = append(eligible, ranked{id: it.ID, value: v})
		total = total.Add(v)
	}

	if len(eligible) == 0 || !total.IsPositive() {
		return ABCResult{}, domain.ErrNoClassifiableValue
	}

	sort.Slice(eligible, func(i, j int) bool {
		if c := eligible[i].value.Cmp(eligible[j].value); c != 0 {
			return c > 0
		}
		return eligible[i].id < eligible[j].id
	})
	sort.Strings(unclassified)

	entries := make([]ABCEntry, 0, len(eligible))
	cumulative := decimal.Zero
	for i, e := range eligible {
		cumulative = cumulative.Add(e.value)
		pct := cumulative.Div(total)
		entries = append(entries, ABCEntry{
			ItemID:            e.id,
			Rank:              i + 1,
			AnnualValue:       e.value,
			CumulativeValue:   cumulative,
			CumulativePercent: pct,
			Class:             classForPercent(pct),
		})
	}

	return ABCResult{
		Entries:      entries,
		Unclassified: unclassified,
		TotalValue:   total,
	}, nil
}

func classForPercent(pct decimal.Decimal) entity.ABCClass {
	switch {
	case pct.LessThanOrEqual(abcThresholdA):
		return entity.ABCClassA
	case pct.LessThanOrEqual(abcThresholdB):
		return entity.ABCClassB
	default:
		return entity.ABCClassC
	}
}
