package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-engine/internal/application/dto"
	"github.com/jhoicas/Inventario-engine/internal/application/inventory"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
	"github.com/jhoicas/Inventario-engine/internal/domain/repository"
)

// ─── Repositorios en memoria ──────────────────────────────────────────────────

type fakeItemRepo struct {
	mu       sync.Mutex
	items    map[string]*entity.InventoryItem
	saves    int
	listErr  error
	applyErr error
}

func newFakeItemRepo(items ...*entity.InventoryItem) *fakeItemRepo {
	r := &fakeItemRepo{items: map[string]*entity.InventoryItem{}}
	for _, it := range items {
		cp := *it
		r.items[it.ID] = &cp
	}
	return r
}

func (r *fakeItemRepo) get(id string) *entity.InventoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil
	}
	cp := *it
	return &cp
}

func (r *fakeItemRepo) snapshot() map[string]entity.InventoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]entity.InventoryItem, len(r.items))
	for id, it := range r.items {
		out[id] = *it
	}
	return out
}

func (r *fakeItemRepo) restore(s map[string]entity.InventoryItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[string]*entity.InventoryItem, len(s))
	for id, it := range s {
		cp := it
		r.items[id] = &cp
	}
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	return r.get(id), nil
}

func (r *fakeItemRepo) GetForUpdate(_ context.Context, id string) (*entity.InventoryItem, error) {
	return r.get(id), nil
}

func (r *fakeItemRepo) SaveParameters(_ context.Context, item *entity.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID] = &cp
	r.saves++
	return nil
}

func (r *fakeItemRepo) list(companyID string, keep func(*entity.InventoryItem) bool) []*entity.InventoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.InventoryItem
	for _, it := range r.items {
		if it.CompanyID == companyID && keep(it) {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeItemRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.InventoryItem, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.list(companyID, func(*entity.InventoryItem) bool { return true }), nil
}

func (r *fakeItemRepo) ListWithReorderPoint(_ context.Context, companyID string) ([]*entity.InventoryItem, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.list(companyID, func(it *entity.InventoryItem) bool { return it.ReorderPoint != nil }), nil
}

func (r *fakeItemRepo) ListBelowReorderPoint(_ context.Context, companyID string) ([]*entity.InventoryItem, error) {
	return r.list(companyID, func(it *entity.InventoryItem) bool {
		return it.ReorderPoint != nil && it.CurrentStock <= *it.ReorderPoint
	}), nil
}

func (r *fakeItemRepo) ListByABCClass(_ context.Context, companyID string, class entity.ABCClass, limit, offset int) ([]*entity.InventoryItem, error) {
	all := r.list(companyID, func(it *entity.InventoryItem) bool { return it.ABCClassification == class })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeItemRepo) ApplyClassification(_ context.Context, companyID string, classes map[string]entity.ABCClass, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.CompanyID != companyID {
			continue
		}
		if r.applyErr != nil {
			// escritura a medio camino: el runner debe revertirla
			it.ABCClassification = entity.ABCClassC
			continue
		}
		c, ok := classes[it.ID]
		if ok {
			it.ABCClassification = c
			t := at
			it.ClassifiedAt = &t
		} else {
			it.ABCClassification = ""
			it.ClassifiedAt = nil
		}
	}
	return r.applyErr
}

func (r *fakeItemRepo) ListCompanyIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, it := range r.items {
		if !seen[it.CompanyID] {
			seen[it.CompanyID] = true
			out = append(out, it.CompanyID)
		}
	}
	sort.Strings(out)
	return out, nil
}

var _ repository.InventoryItemRepository = (*fakeItemRepo)(nil)

type fakeSampleRepo struct {
	mu      sync.Mutex
	samples []*entity.DemandPeriodSample
}

func (r *fakeSampleRepo) Create(_ context.Context, s *entity.DemandPeriodSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.samples = append(r.samples, &cp)
	return nil
}

func (r *fakeSampleRepo) GetLatestByItem(_ context.Context, itemID string) (*entity.DemandPeriodSample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.DemandPeriodSample
	for _, s := range r.samples {
		if s.ItemID == itemID && (latest == nil || s.PeriodEnd.After(latest.PeriodEnd)) {
			latest = s
		}
	}
	return latest, nil
}

type fakeConsumptionRepo struct {
	rows map[string][]entity.DailyConsumption
}

func (r *fakeConsumptionRepo) ListDailyConsumption(_ context.Context, _, itemID string, start, end time.Time) ([]entity.DailyConsumption, error) {
	var out []entity.DailyConsumption
	for _, row := range r.rows[itemID] {
		if !row.Day.Before(start) && !row.Day.After(end) {
			out = append(out, row)
		}
	}
	return out, nil
}

// fakeTxRunner ejecuta fn sobre los repos en memoria y restaura el estado si fn falla.
type fakeTxRunner struct {
	items   *fakeItemRepo
	samples *fakeSampleRepo
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(repository.InventoryItemRepository, repository.DemandSampleRepository) error) error {
	snap := t.items.snapshot()
	t.samples.mu.Lock()
	nSamples := len(t.samples.samples)
	t.samples.mu.Unlock()
	if err := fn(t.items, t.samples); err != nil {
		t.items.restore(snap)
		t.samples.mu.Lock()
		t.samples.samples = t.samples.samples[:nSamples]
		t.samples.mu.Unlock()
		return err
	}
	return nil
}

func (t *fakeTxRunner) RunClassification(ctx context.Context, _ string, fn func(repository.InventoryItemRepository) error) error {
	return t.Run(ctx, func(items repository.InventoryItemRepository, _ repository.DemandSampleRepository) error {
		return fn(items)
	})
}

// ─── Caché y renderer ─────────────────────────────────────────────────────────

type fakeCache struct {
	mu          sync.Mutex
	data        map[string]*dto.ReorderSweepDTO
	invalidated []string
	getErr      error
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]*dto.ReorderSweepDTO{}} }

func (c *fakeCache) Get(_ context.Context, companyID string) (*dto.ReorderSweepDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.data[companyID], nil
}

func (c *fakeCache) Set(_ context.Context, companyID string, s *dto.ReorderSweepDTO) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[companyID] = s
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, companyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, companyID)
	c.invalidated = append(c.invalidated, companyID)
	return nil
}

// asCache evita pasar un *fakeCache nil como interfaz no nil.
func asCache(c *fakeCache) inventory.ReorderCache {
	if c == nil {
		return nil
	}
	return c
}

type fakeRenderer struct {
	got *dto.ReorderSweepDTO
}

func (r *fakeRenderer) RenderReorderReport(s *dto.ReorderSweepDTO) ([]byte, error) {
	r.got = s
	return []byte("%PDF-fake"), nil
}

var errBoom = errors.New("boom")

// ─── Helpers ──────────────────────────────────────────────────────────────────

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(v int) *int { return &v }

func nopLog() zerolog.Logger { return zerolog.Nop() }

// itemBase ítem con todas las entradas del escenario de referencia (EOQ 223.61, SS 3, ROP 10).
func itemBase(id, companyID string) *entity.InventoryItem {
	return &entity.InventoryItem{
		ID:           id,
		CompanyID:    companyID,
		SKU:          "SKU-" + id,
		Name:         "Item " + id,
		CurrentStock: 50,
		UnitPrice:    dec("10"),
		AnnualDemand: dec("1000"),
		OrderingCost: dec("50"),
		HoldingCost:  dec("2"),
	}
}
