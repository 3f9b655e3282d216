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
	"github.com/tallerpro/compras-api/internal/application/auth"
	apppayables "github.com/tallerpro/compras-api/internal/application/payables"
	apppurchasing "github.com/tallerpro/compras-api/internal/application/purchasing"
	"github.com/tallerpro/compras-api/internal/application/usecase"
	"github.com/tallerpro/compras-api/internal/infrastructure/email"
	"github.com/tallerpro/compras-api/internal/infrastructure/inventario"
	infrapdf "github.com/tallerpro/compras-api/internal/infrastructure/pdf"
	"github.com/tallerpro/compras-api/internal/infrastructure/postgres"
	httpRouter "github.com/tallerpro/compras-api/internal/interfaces/http"
	"github.com/tallerpro/compras-api/pkg/config"
	"github.com/tallerpro/compras-api/pkg/logger"
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

	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	accountRepo := postgres.NewManualAccountRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	partRepo := postgres.NewPartRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	payablesRepo := postgres.NewPayablesRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Colaboradores externos: correo al proveedor e inventario. Ambos son
	// best-effort: su falla se reporta como advertencia, nunca revierte.
	supplierNotifier := email.NewSupplierNotifier(cfg.SMTP, log)
	stockNotifier := inventario.NewStockNotifier(cfg.Inventario, log)
	pdfGenerator := infrapdf.NewMarotoOrderGenerator()

	orderUC := apppurchasing.NewOrderUseCase(
		txRunner, orderRepo, paymentRepo, supplierRepo, partRepo,
		pdfGenerator, supplierNotifier,
	)
	receiveUC := apppurchasing.NewReceiveUseCase(txRunner, paymentRepo, stockNotifier, orderUC)
	paymentUC := apppurchasing.NewPaymentUseCase(txRunner, orderUC)
	manualUC := apppayables.NewManualAccountUseCase(
		txRunner, accountRepo, paymentRepo, supplierRepo, payablesRepo,
	)
	reportUC := apppayables.NewReportUseCase(payablesRepo)
	catalogUC := usecase.NewCatalogUseCase(supplierRepo, partRepo)
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
		Title:    "Compras API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		OrderUC:   orderUC,
		ReceiveUC: receiveUC,
		PaymentUC: paymentUC,
		ManualUC:  manualUC,
		ReportUC:  reportUC,
		CatalogUC: catalogUC,
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
