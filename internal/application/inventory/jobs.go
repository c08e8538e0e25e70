package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-engine/internal/domain"
	"github.com/jhoicas/Inventario-engine/internal/domain/repository"
)

// JobRunner ejecuta los procesos programados (barrido diario, ABC periódico, refresco de demanda)
// sobre una empresa o sobre todas. La programación es externa (cron / CronJob).
type JobRunner struct {
	itemRepo   repository.InventoryItemRepository
	reorder    *ReorderUseCase
	abc        *ABCUseCase
	demand     *DemandUseCase
	parameters *ParametersUseCase
	workers    int
	log        zerolog.Logger
}

// NewJobRunner construye el runner. workers acota cuántas empresas se procesan en paralelo.
func NewJobRunner(
	itemRepo repository.InventoryItemRepository,
	reorder *ReorderUseCase,
	abc *ABCUseCase,
	demand *DemandUseCase,
	parameters *ParametersUseCase,
	workers int,
	log zerolog.Logger,
) *JobRunner {
	if workers < 1 {
		workers = 1
	}
	return &JobRunner{
		itemRepo:   itemRepo,
		reorder:    reorder,
		abc:        abc,
		demand:     demand,
		parameters: parameters,
		workers:    workers,
		log:        log,
	}
}

// SweepReorder barrido de reposición. companyID vacío = todas las empresas.
func (r *JobRunner) SweepReorder(ctx context.Context, companyID string) error {
	return r.forEachCompany(ctx, "reorder-sweep", companyID, func(ctx context.Context, id string) error {
		_, err := r.reorder.RunReorderSweep(ctx, id)
		return err
	})
}

// ClassifyABC corrida ABC. Un catálogo sin valor clasificable no cuenta como fallo.
func (r *JobRunner) ClassifyABC(ctx context.Context, companyID string) error {
	return r.forEachCompany(ctx, "abc-analysis", companyID, func(ctx context.Context, id string) error {
		_, err := r.abc.RunAbcAnalysis(ctx, id)
		if errors.Is(err, domain.ErrNoClassifiableValue) {
			return nil
		}
		return err
	})
}

// RefreshDemand recalcula la demanda de todos los ítems sobre la ventana por defecto.
// Los ítems con datos inválidos se registran y se omiten.
func (r *JobRunner) RefreshDemand(ctx context.Context, companyID string) error {
	start, end := r.demand.DefaultWindow(time.Now())
	return r.forEachCompany(ctx, "refresh-demand", companyID, func(ctx context.Context, id string) error {
		items, err := r.itemRepo.ListByCompany(ctx, id)
		if err != nil {
			return err
		}
		for _, it := range items {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if _, err := r.demand.RefreshDemand(ctx, id, it.ID, start, end); err != nil {
				if errors.Is(err, domain.ErrInvalidInput) {
					r.log.Warn().Err(err).Str("company_id", id).Str("item_id", it.ID).Msg("refresh-demand: ítem omitido")
					continue
				}
				return fmt.Errorf("item %s: %w", it.ID, err)
			}
		}
		return nil
	})
}

// RecomputeCatalog recalcula los derivados de todo el catálogo.
func (r *JobRunner) RecomputeCatalog(ctx context.Context, companyID string) error {
	return r.forEachCompany(ctx, "recompute", companyID, func(ctx context.Context, id string) error {
		_, err := r.parameters.RecomputeCatalog(ctx, id)
		return err
	})
}

// forEachCompany ejecuta fn por empresa en paralelo. El fallo de una empresa se registra y no
// detiene a las demás; al final se devuelven todos los fallos juntos.
func (r *JobRunner) forEachCompany(ctx context.Context, job, companyID string, fn func(context.Context, string) error) error {
	companies := []string{companyID}
	if companyID == "" {
		ids, err := r.itemRepo.ListCompanyIDs(ctx)
		if err != nil {
			return fmt.Errorf("%s: list companies: %w", job, err)
		}
		companies = ids
	}

	started := time.Now()
	var (
		mu   sync.Mutex
		errs []error
	)
	var g errgroup.Group
	g.SetLimit(r.workers)
	for _, id := range companies {
		g.Go(func() error {
			if err := fn(ctx, id); err != nil {
				r.log.Error().Err(err).Str("job", job).Str("company_id", id).Msg("job: empresa fallida")
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s %s: %w", job, id, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	r.log.Info().Str("job", job).Int("companies", len(companies)).Int("failed", len(errs)).
		Dur("elapsed", time.Since(started)).Msg("job: finalizado")
	return errors.Join(errs...)
}
