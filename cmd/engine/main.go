package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/jhoicas/Inventario-engine/internal/application/inventory"
	"github.com/jhoicas/Inventario-engine/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/Inventario-engine/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-engine/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-engine/pkg/config"
	"github.com/jhoicas/Inventario-engine/pkg/logger"
)

// engine dependencias compartidas por los comandos; se arma en Before y se libera en After.
type engine struct {
	cfg    *config.Config
	log    *logger.Logger
	pool   *pgxpool.Pool
	closer func() error
	jobs   *inventory.JobRunner
}

var eng engine

func newCompanyFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "company",
		Usage:   "ID de la empresa; vacío = todas las empresas con ítems",
		EnvVars: []string{"ENGINE_COMPANY_ID"},
	}
}

func setup(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	if c.IsSet("workers") {
		cfg.Engine.Workers = c.Int("workers")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "engine"})

	pool, err := postgres.NewPool(c.Context, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	reorderCache, closeCache, err := cache.NewReorderCache(c.Context, cfg.Cache)
	if err != nil {
		pool.Close()
		return fmt.Errorf("conexión a Redis: %w", err)
	}

	itemRepo := postgres.NewInventoryItemRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	parametersUC := inventory.NewParametersUseCase(txRunner, itemRepo, reorderCache, cfg.Engine.Workers, log.Component("parameters"))
	abcUC := inventory.NewABCUseCase(txRunner, itemRepo, reorderCache, log.Component("abc"))
	reorderUC := inventory.NewReorderUseCase(itemRepo, reorderCache,
		infrapdf.NewReorderReportGenerator(cfg.App.Name), log.Component("reorder"))
	demandUC := inventory.NewDemandUseCase(txRunner, itemRepo,
		postgres.NewDemandSampleRepository(pool), postgres.NewConsumptionRepository(pool), reorderCache,
		inventory.DemandConfig{
			AvgDemandTolerance: cfg.Engine.AvgDemandTolerance,
			WindowDays:         cfg.Engine.DemandWindowDays,
		}, log.Component("demand"))

	eng = engine{
		cfg:    cfg,
		log:    log,
		pool:   pool,
		closer: closeCache,
		jobs:   inventory.NewJobRunner(itemRepo, reorderUC, abcUC, demandUC, parametersUC, cfg.Engine.Workers, log.Component("jobs")),
	}
	return nil
}

func teardown(*cli.Context) error {
	if eng.pool != nil {
		eng.pool.Close()
	}
	if eng.closer != nil {
		return eng.closer()
	}
	return nil
}

// job adapta un método de JobRunner a una acción de cli.
func job(name string, run func(*inventory.JobRunner, context.Context, string) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		companyID := c.String("company")
		eng.log.Info().Str("job", name).Str("company_id", companyID).Msg("engine: inicio")
		if err := run(eng.jobs, c.Context, companyID); err != nil {
			return cli.Exit(fmt.Sprintf("%s: %v", name, err), 1)
		}
		return nil
	}
}

func runMigrate(c *cli.Context) error {
	applied, err := postgres.Migrate(c.Context, eng.pool, eng.log.Component("migrate"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("migrate: %v", err), 1)
	}
	eng.log.Info().Int("applied", applied).Msg("migraciones aplicadas")
	return nil
}

func runFlushCache(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "engine"})
	if !cfg.Cache.Enabled {
		log.Warn().Msg("caché deshabilitada (CACHE_ENABLED=false), nada que limpiar")
		return nil
	}
	client, err := cache.NewRedisClient(c.Context, cfg.Cache)
	if err != nil {
		return cli.Exit(fmt.Sprintf("flush-cache: %v", err), 1)
	}
	defer client.Close()

	rc := cache.NewRedisReorderCache(client, cfg.Cache.TTL, cfg.Cache.Prefix)
	if companyID := c.String("company"); companyID != "" {
		err = rc.Invalidate(c.Context, companyID)
	} else {
		err = rc.InvalidateAll(c.Context)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("flush-cache: %v", err), 1)
	}
	log.Info().Str("company_id", c.String("company")).Msg("caché de reposición limpiada")
	return nil
}

func main() {
	// Las variables del .env quedan en el entorno y Viper las toma con AutomaticEnv.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "engine",
		Usage: "Procesos programados del motor de optimización de inventario",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "Empresas procesadas en paralelo (por defecto ENGINE_WORKERS)",
				EnvVars: []string{"ENGINE_JOB_WORKERS"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "reorder-sweep",
				Usage:  "Barrido de reposición: ítems en o bajo su punto de reorden",
				Flags:  []cli.Flag{newCompanyFlag()},
				Before: setup,
				After:  teardown,
				Action: job("reorder-sweep", (*inventory.JobRunner).SweepReorder),
			},
			{
				Name:   "abc-analysis",
				Usage:  "Clasificación ABC por valor anual de consumo",
				Flags:  []cli.Flag{newCompanyFlag()},
				Before: setup,
				After:  teardown,
				Action: job("abc-analysis", (*inventory.JobRunner).ClassifyABC),
			},
			{
				Name:   "refresh-demand",
				Usage:  "Recalcula la demanda de cada ítem desde el consumo diario de la ventana configurada",
				Flags:  []cli.Flag{newCompanyFlag()},
				Before: setup,
				After:  teardown,
				Action: job("refresh-demand", (*inventory.JobRunner).RefreshDemand),
			},
			{
				Name:   "recompute",
				Usage:  "Recalcula EOQ, stock de seguridad y punto de reorden de todo el catálogo",
				Flags:  []cli.Flag{newCompanyFlag()},
				Before: setup,
				After:  teardown,
				Action: job("recompute", (*inventory.JobRunner).RecomputeCatalog),
			},
			{
				Name:   "migrate",
				Usage:  "Aplica las migraciones SQL embebidas",
				Before: setup,
				After:  teardown,
				Action: runMigrate,
			},
			{
				Name:   "flush-cache",
				Usage:  "Borra los barridos de reposición cacheados en Redis",
				Flags:  []cli.Flag{newCompanyFlag()},
				Action: runFlushCache,
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
