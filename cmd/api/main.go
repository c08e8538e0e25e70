package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Inventario-engine/internal/application/inventory"
	"github.com/jhoicas/Inventario-engine/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/Inventario-engine/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-engine/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-engine/internal/interfaces/http"
	"github.com/jhoicas/Inventario-engine/pkg/config"
	"github.com/jhoicas/Inventario-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Int("workers", cfg.Engine.Workers).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	reorderCache, closeCache, err := cache.NewReorderCache(ctx, cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer func() {
		if err := closeCache(); err != nil {
			log.Error().Err(err).Msg("cerrar Redis")
		}
	}()

	itemRepo := postgres.NewInventoryItemRepository(pool)
	sampleRepo := postgres.NewDemandSampleRepository(pool)
	consumptionRepo := postgres.NewConsumptionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	parametersUC := inventory.NewParametersUseCase(txRunner, itemRepo, reorderCache, cfg.Engine.Workers, log.Component("parameters"))
	abcUC := inventory.NewABCUseCase(txRunner, itemRepo, reorderCache, log.Component("abc"))
	reorderUC := inventory.NewReorderUseCase(itemRepo, reorderCache,
		infrapdf.NewReorderReportGenerator(cfg.App.Name), log.Component("reorder"))
	demandUC := inventory.NewDemandUseCase(txRunner, itemRepo, sampleRepo, consumptionRepo, reorderCache,
		inventory.DemandConfig{
			AvgDemandTolerance: cfg.Engine.AvgDemandTolerance,
			WindowDays:         cfg.Engine.DemandWindowDays,
		}, log.Component("demand"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Engine API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Parameters: parametersUC,
		ABC:        abcUC,
		Reorder:    reorderUC,
		Demand:     demandUC,
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
