package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-engine/internal/domain"
	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
	"github.com/jhoicas/Inventario-engine/internal/domain/repository"
)

var _ repository.DemandSampleRepository = (*DemandSampleRepo)(nil)

// DemandSampleRepo historial de muestras de demanda (append-only).
type DemandSampleRepo struct {
	q Querier
}

// NewDemandSampleRepository construye el adaptador. Acepta pool o tx (Querier).
func NewDemandSampleRepository(q Querier) *DemandSampleRepo {
	return &DemandSampleRepo{q: q}
}

func (r *DemandSampleRepo) Create(ctx context.Context, s *entity.DemandPeriodSample) error {
	query := `
		INSERT INTO demand_period_samples (
			id, company_id, item_id, period_start, period_end,
			total_demand, avg_daily_demand, demand_std_dev,
			min_daily_demand, max_daily_demand, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.ItemID, s.PeriodStart, s.PeriodEnd,
		s.TotalDemand, s.AvgDailyDemand, s.DemandStdDev,
		s.MinDailyDemand, s.MaxDailyDemand, s.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrConflict
		case isConstraintViolation(err):
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return fmt.Errorf("create demand sample: %w", err)
	}
	return nil
}

func (r *DemandSampleRepo) GetLatestByItem(ctx context.Context, itemID string) (*entity.DemandPeriodSample, error) {
	query := `
		SELECT id, company_id, item_id, period_start, period_end,
		       total_demand, avg_daily_demand, demand_std_dev,
		       min_daily_demand, max_daily_demand, created_at
		FROM demand_period_samples
		WHERE item_id = $1
		ORDER BY period_end DESC, created_at DESC
		LIMIT 1`
	var s entity.DemandPeriodSample
	err := r.q.QueryRow(ctx, query, itemID).Scan(
		&s.ID, &s.CompanyID, &s.ItemID, &s.PeriodStart, &s.PeriodEnd,
		&s.TotalDemand, &s.AvgDailyDemand, &s.DemandStdDev,
		&s.MinDailyDemand, &s.MaxDailyDemand, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest demand sample: %w", err)
	}
	return &s, nil
}
