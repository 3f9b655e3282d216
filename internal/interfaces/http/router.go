package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tallerpro/compras-api/internal/application/auth"
	"github.com/tallerpro/compras-api/internal/application/payables"
	"github.com/tallerpro/compras-api/internal/application/purchasing"
	"github.com/tallerpro/compras-api/internal/application/usecase"
	"github.com/tallerpro/compras-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderUC   *purchasing.OrderUseCase
	ReceiveUC *purchasing.ReceiveUseCase
	PaymentUC *purchasing.PaymentUseCase
	ManualUC  *payables.ManualAccountUseCase
	ReportUC  *payables.ReportUseCase
	CatalogUC *usecase.CatalogUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token con rol admin o compras)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin, entity.RoleCompras))

	// Catálogos de solo lectura (protegido)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	protected.Get("/suppliers", catalogHandler.ListSuppliers)
	protected.Get("/suppliers/:id", catalogHandler.GetSupplier)
	protected.Get("/parts", catalogHandler.ListParts)

	// Órdenes de compra (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewPurchaseOrderHandler(deps.OrderUC, deps.ReceiveUC, deps.PaymentUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Patch("/:id", orderHandler.Update)
	orders.Post("/:id/authorize", orderHandler.Authorize)
	orders.Post("/:id/send", orderHandler.Send)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Post("/:id/receive", orderHandler.Receive)
	orders.Post("/:id/payments", orderHandler.RegisterPayment)
	orders.Get("/:id/pdf", orderHandler.PDF)

	// Cuentas por pagar (protegido)
	payablesGroup := protected.Group("/payables")
	manualHandler := NewManualPayableHandler(deps.ManualUC)
	payablesGroup.Post("/manual", manualHandler.Create)
	payablesGroup.Get("/manual", manualHandler.List)
	payablesGroup.Get("/manual/:id", manualHandler.GetByID)
	payablesGroup.Post("/manual/:id/payments", manualHandler.RegisterPayment)

	payablesHandler := NewPayablesHandler(deps.ReportUC)
	payablesGroup.Get("/report", payablesHandler.Report)
}
