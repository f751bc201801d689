package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ventas/internal/application/analytics"
	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/inventory"
	"github.com/jhoicas/inventario-ventas/internal/application/sales"
	"github.com/jhoicas/inventario-ventas/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Gateway    *auth.Gateway
	Ledger     *inventory.Ledger
	Sales      *sales.Coordinator
	Categories *usecase.CategoryUseCase
	Services   *usecase.ServiceUseCase
	Users      *usecase.UserUseCase
	Reports    *analytics.ReportUseCase
	System     *SystemHandler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	gw := deps.Gateway
	authed := AuthMiddleware(gw)
	admin := AdminMiddleware(gw)

	if deps.System != nil {
		app.Get("/health", deps.System.Health)
	}

	api := app.Group("/api")

	// Auth
	authHandler := NewAuthHandler(gw)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)
	api.Get("/auth/session", authHandler.Session)

	// Products (lectura pública)
	productHandler := NewProductHandler(gw, deps.Ledger)
	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.GetByID)
	api.Post("/products", authed, productHandler.Create)
	api.Put("/products/:id", authed, productHandler.Update)
	api.Delete("/products/:id", authed, productHandler.Delete)
	api.Get("/products/:id/movements", authed, productHandler.Movements)

	// Inventory movements
	inventoryHandler := NewInventoryHandler(gw, deps.Ledger)
	api.Post("/inventory/movements", authed, inventoryHandler.RegisterMovement)
	api.Get("/inventory/movements", authed, inventoryHandler.ListMovements)

	// Categories
	categoryHandler := NewCategoryHandler(gw, deps.Categories)
	api.Get("/categories", categoryHandler.List)
	api.Post("/categories", authed, categoryHandler.Create)
	api.Put("/categories/:id", authed, categoryHandler.Rename)
	api.Delete("/categories/:id", authed, categoryHandler.Delete)
	api.Post("/categories/:id/subcategories", authed, categoryHandler.CreateSubcategory)
	api.Put("/subcategories/:id", authed, categoryHandler.RenameSubcategory)
	api.Delete("/subcategories/:id", authed, categoryHandler.DeleteSubcategory)

	// Services
	serviceHandler := NewServiceHandler(gw, deps.Services)
	api.Get("/services", serviceHandler.List)
	api.Post("/services", authed, serviceHandler.Create)
	api.Put("/services/:id", authed, serviceHandler.Update)
	api.Delete("/services/:id", authed, serviceHandler.Delete)

	// Sales (las rutas de comprobantes van antes de /:id)
	saleHandler := NewSaleHandler(gw, deps.Sales)
	saleRoutes := api.Group("/sales", authed)
	saleRoutes.Post("/", saleHandler.Register)
	saleRoutes.Get("/", saleHandler.List)
	saleRoutes.Get("/receipts/:transactionId", saleHandler.Receipt)
	saleRoutes.Get("/receipts/:transactionId/pdf", saleHandler.ReceiptPDF)
	saleRoutes.Get("/:id", saleHandler.GetByID)

	// Reports
	reportHandler := NewReportHandler(gw, deps.Reports)
	api.Get("/reports/summary", authed, reportHandler.Summary)

	// Users (cambio de contraseña propia antes de las rutas admin)
	userHandler := NewUserHandler(gw, deps.Users)
	api.Put("/users/me/password", authed, userHandler.ChangePassword)
	userRoutes := api.Group("/users", admin)
	userRoutes.Get("/", userHandler.List)
	userRoutes.Post("/", userHandler.Create)
	userRoutes.Get("/stats", userHandler.Stats)
	userRoutes.Get("/activity", userHandler.Activity)
	userRoutes.Get("/:id", userHandler.GetByID)
	userRoutes.Put("/:id", userHandler.Update)
	userRoutes.Delete("/:id", userHandler.Delete)

	// System
	if deps.System != nil {
		api.Get("/system/info", admin, deps.System.Info)
	}
}
