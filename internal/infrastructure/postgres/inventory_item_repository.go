package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-engine/internal/domain"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
	"github.com/jhoicas/Inventario-engine/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

const itemColumns = `
	id, company_id, sku, name, current_stock, unit_price,
	annual_demand, ordering_cost, holding_cost,
	lead_time_days, demand_std_dev, service_level,
	economic_order_quantity, reorder_point, safety_stock,
	abc_classification, classified_at, created_at, updated_at`

// InventoryItemRepo implementación de InventoryItemRepository sobre PostgreSQL.
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var (
		it    entity.InventoryItem
		class *string
	)
	err := row.Scan(
		&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.CurrentStock, &it.UnitPrice,
		&it.AnnualDemand, &it.OrderingCost, &it.HoldingCost,
		&it.LeadTimeDays, &it.DemandStdDev, &it.ServiceLevel,
		&it.EconomicOrderQuantity, &it.ReorderPoint, &it.SafetyStock,
		&class, &it.ClassifiedAt, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if class != nil {
		it.ABCClassification = entity.ABCClass(*class)
	}
	return &it, nil
}

func (r *InventoryItemRepo) getOne(ctx context.Context, query, id string) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, err
	}
	return it, nil
}

func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	it, err := r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return it, nil
}

func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	it, err := r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("get inventory item for update: %w", err)
	}
	return it, nil
}

func (r *InventoryItemRepo) SaveParameters(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET
			current_stock = $3, unit_price = $4,
			annual_demand = $5, ordering_cost = $6, holding_cost = $7,
			lead_time_days = $8, demand_std_dev = $9, service_level = $10,
			economic_order_quantity = $11, reorder_point = $12, safety_stock = $13,
			updated_at = now()
		WHERE id = $1 AND company_id = $2`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.CompanyID, item.CurrentStock, item.UnitPrice,
		item.AnnualDemand, item.OrderingCost, item.HoldingCost,
		item.LeadTimeDays, item.DemandStdDev, item.ServiceLevel,
		item.EconomicOrderQuantity, item.ReorderPoint, item.SafetyStock,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return fmt.Errorf("save item parameters: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InventoryItemRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (r *InventoryItemRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.InventoryItem, error) {
	return r.list(ctx, "list items by company",
		`SELECT `+itemColumns+` FROM inventory_items WHERE company_id = $1 ORDER BY id`, companyID)
}

func (r *InventoryItemRepo) ListWithReorderPoint(ctx context.Context, companyID string) ([]*entity.InventoryItem, error) {
	return r.list(ctx, "list items with reorder point",
		`SELECT `+itemColumns+` FROM inventory_items
		WHERE company_id = $1 AND reorder_point IS NOT NULL
		ORDER BY id`, companyID)
}

func (r *InventoryItemRepo) ListBelowReorderPoint(ctx context.Context, companyID string) ([]*entity.InventoryItem, error) {
	return r.list(ctx, "list items below reorder point",
		`SELECT `+itemColumns+` FROM inventory_items
		WHERE company_id = $1 AND reorder_point IS NOT NULL AND current_stock <= reorder_point
		ORDER BY (reorder_point - current_stock) DESC, sku`, companyID)
}

func (r *InventoryItemRepo) ListByABCClass(ctx context.Context, companyID string, class entity.ABCClass, limit, offset int) ([]*entity.InventoryItem, error) {
	return r.list(ctx, "list items by abc class",
		`SELECT `+itemColumns+` FROM inventory_items
		WHERE company_id = $1 AND abc_classification = $2
		ORDER BY annual_demand * unit_price DESC NULLS LAST, id
		LIMIT $3 OFFSET $4`, companyID, string(class), limit, offset)
}

// ApplyClassification escribe la corrida en una sola sentencia: los ítems presentes en classes reciben
// su clase y el resto del catálogo de la empresa queda sin clase.
func (r *InventoryItemRepo) ApplyClassification(ctx context.Context, companyID string, classes map[string]entity.ABCClass, classifiedAt time.Time) error {
	ids := make([]string, 0, len(classes))
	values := make([]string, 0, len(classes))
	for id, c := range classes {
		if !c.Valid() {
			return fmt.Errorf("%w: clase ABC %q para ítem %s", domain.ErrInvalidInput, c, id)
		}
		ids = append(ids, id)
		values = append(values, string(c))
	}

	query := `
		UPDATE inventory_items i SET
			abc_classification = c.class,
			classified_at      = CASE WHEN c.class IS NULL THEN NULL ELSE $4::timestamptz END,
			updated_at         = now()
		FROM inventory_items t
		LEFT JOIN unnest($2::text[], $3::text[]) AS c(id, class) ON c.id::uuid = t.id
		WHERE t.id = i.id AND i.company_id = $1
		  AND (c.class IS NOT NULL OR i.abc_classification IS NOT NULL)`
	if _, err := r.q.Exec(ctx, query, companyID, ids, values, classifiedAt); err != nil {
		return fmt.Errorf("apply abc classification: %w", err)
	}
	return nil
}

func (r *InventoryItemRepo) ListCompanyIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT company_id FROM inventory_items ORDER BY company_id`)
	if err != nil {
		return nil, fmt.Errorf("list company ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan company id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
