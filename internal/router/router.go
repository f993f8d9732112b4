package router

import (
	"database/sql"

	"inventory_backend/internal/handlers"
	"inventory_backend/internal/middleware"
	"inventory_backend/internal/repositories"
	"inventory_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	productRepo := repositories.NewProductRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	productService := services.NewProductService(productRepo, ledgerRepo, db)
	ledgerService := services.NewLedgerService(ledgerRepo, productRepo, db)
	stockService := services.NewStockService(ledgerRepo)
	reportService := services.NewReportService(ledgerRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, ledgerRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	barcodeHandler := handlers.NewBarcodeHandler(productService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	reportHandler := handlers.NewReportHandler(reportService, stockService)
	exportHandler := handlers.NewExportHandler(reportService)
	orderHandler := handlers.NewOrderHandler(orderService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupProductRoutes(authenticated, productHandler, barcodeHandler)
		SetupLedgerRoutes(authenticated, ledgerHandler)
		SetupReportRoutes(authenticated, reportHandler, exportHandler)
		SetupOrderRoutes(authenticated, orderHandler)
	}
}
