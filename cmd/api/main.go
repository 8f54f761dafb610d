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
	"github.com/tu-usuario/brigada-api/internal/application/auth"
	"github.com/tu-usuario/brigada-api/internal/application/ledger"
	"github.com/tu-usuario/brigada-api/internal/application/reports"
	"github.com/tu-usuario/brigada-api/internal/domain/repository"
	"github.com/tu-usuario/brigada-api/internal/domain/validation"
	"github.com/tu-usuario/brigada-api/internal/infrastructure/postgres"
	"github.com/tu-usuario/brigada-api/internal/infrastructure/rediscache"
	httpRouter "github.com/tu-usuario/brigada-api/internal/interfaces/http"
	"github.com/tu-usuario/brigada-api/pkg/config"
	"github.com/tu-usuario/brigada-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	lotRepo := postgres.NewStockLotRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	rules := validation.NewEngine(validation.DefaultConfig())
	ledgerUC := ledger.NewLedgerUseCase(txRunner, lotRepo, movRepo, rules)

	// Reportes: cache Redis opcional delante de PostgreSQL.
	var reportRepo repository.ReportRepository = postgres.NewReportRepository(pool)
	if cfg.Redis.Addr != "" {
		rdb, err := rediscache.NewClient(cfg.Redis.Addr)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, reportes directos a PostgreSQL")
		} else {
			defer rdb.Close()
			ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
			reportRepo = rediscache.NewReportCache(reportRepo, rdb, ttl)
			log.Info().Str("addr", cfg.Redis.Addr).Msg("cache de reportes habilitado")
		}
	}
	reportUC := reports.NewReportUseCase(reportRepo, rules)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Brigada API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:  ledgerUC,
		ReportUC:  reportUC,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
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
