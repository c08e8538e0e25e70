package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
	"github.com/jhoicas/Inventario-engine/internal/domain/repository"
)

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

// ConsumptionRepo lectura de daily_consumption, que alimenta el pipeline de captura de movimientos.
type ConsumptionRepo struct {
	q Querier
}

// NewConsumptionRepository construye el adaptador.
func NewConsumptionRepository(q Querier) *ConsumptionRepo {
	return &ConsumptionRepo{q: q}
}

func (r *ConsumptionRepo) ListDailyConsumption(ctx context.Context, companyID, itemID string, start, end time.Time) ([]entity.DailyConsumption, error) {
	query := `
		SELECT day, quantity
		FROM daily_consumption
		WHERE company_id = $1 AND item_id = $2 AND day BETWEEN $3::date AND $4::date
		ORDER BY day`
	rows, err := r.q.Query(ctx, query, companyID, itemID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list daily consumption: %w", err)
	}
	defer rows.Close()
	var list []entity.DailyConsumption
	for rows.Next() {
		var c entity.DailyConsumption
		if err := rows.Scan(&c.Day, &c.Quantity); err != nil {
			return nil, fmt.Errorf("scan daily consumption: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
