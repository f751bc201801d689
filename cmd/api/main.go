// @title                       Inventario y Ventas API
// @version                     1.0
// @description                 Inventario con log de movimientos, ventas multi-línea con comprobante y sesiones opacas.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
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

	"github.com/jhoicas/inventario-ventas/internal/application/analytics"
	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/inventory"
	"github.com/jhoicas/inventario-ventas/internal/application/sales"
	"github.com/jhoicas/inventario-ventas/internal/application/session"
	"github.com/jhoicas/inventario-ventas/internal/application/usecase"
	infrapdf "github.com/jhoicas/inventario-ventas/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ventas/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/inventario-ventas/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/inventario-ventas/internal/interfaces/http"
	"github.com/jhoicas/inventario-ventas/pkg/config"
	"github.com/jhoicas/inventario-ventas/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// fuera de transacción cada consulta lleva su propio deadline
	db := postgres.NewTimeoutQuerier(pool, cfg.DB.QueryTimeout)

	userRepo := postgres.NewUserRepository(db)
	productRepo := postgres.NewProductRepository(db)
	movementRepo := postgres.NewStockMovementRepository(db)
	saleRepo := postgres.NewSaleRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	txRunner := postgres.NewTxRunner(pool, cfg.DB.AcquireTimeout, cfg.DB.QueryTimeout)

	reg := session.NewRegistry(postgres.NewSessionRepository(db), session.Config{
		Timeout:  cfg.Session.Timeout,
		CacheTTL: cfg.Session.CacheTTL,
	}, log.Component("sessions"))
	go reg.Run(ctx, cfg.Session.SweepInterval)

	gwOpts := []auth.Option{auth.WithVerboseErrors(cfg.App.IsDevelopment())}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RedisAddr != "" {
			client, err := infraredis.NewClient(ctx, cfg.RateLimit)
			if err != nil {
				log.Fatal().Err(err).Str("addr", cfg.RateLimit.RedisAddr).Msg("conexión a Redis")
			}
			defer client.Close()
			gwOpts = append(gwOpts, auth.WithRateLimiter(infraredis.NewRateLimiter(client, cfg.RateLimit.Max, cfg.RateLimit.Window)))
		} else {
			gwOpts = append(gwOpts, auth.WithRateLimiter(auth.NewMemoryRateLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)))
		}
	}
	gw := auth.NewGateway(userRepo, reg, log.Component("auth"), gwOpts...)

	ledger := inventory.NewLedger(txRunner, productRepo, movementRepo, inventory.Config{
		ExchangeRate: cfg.Business.USDToCUPRate,
		Policy:       inventory.NumericPolicy(cfg.Business.NumericPolicy),
		LowStock:     cfg.Business.LowStockThreshold,
		MediumStock:  cfg.Business.MediumStockThreshold,
	}, log.Zerolog())
	coordinator := sales.NewCoordinator(txRunner, ledger, saleRepo, infrapdf.NewReceiptGenerator(cfg.App.Name), log.Zerolog())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    1 << 20,
		ErrorHandler: httpRouter.ErrorHandler(gw),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario y Ventas API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Gateway:    gw,
		Ledger:     ledger,
		Sales:      coordinator,
		Categories: usecase.NewCategoryUseCase(txRunner, categoryRepo, log.Zerolog()),
		Services:   usecase.NewServiceUseCase(postgres.NewServiceRepository(db)),
		Users:      usecase.NewUserUseCase(userRepo, saleRepo, reg, log.Zerolog()),
		Reports:    analytics.NewReportUseCase(postgres.NewReportRepository(db), cfg.Business.LowStockThreshold),
		System:     httpRouter.NewSystemHandler(postgres.NewProbe(pool), reg, cfg.App.Name, cfg.App.Env, time.Now()),
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
