package router

import (
	"inventory_backend/internal/handlers"
	"inventory_backend/internal/middleware"
	"inventory_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterUser)
		authRoutes.POST("/login", authHandler.LoginUser)
		authRoutes.POST("/refresh-token", authHandler.RefreshToken)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.POST("/logout", authHandler.LogoutUser)
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupProductRoutes sets up the product catalogue routes. Reads are open
// to any authenticated user; mutations require manager or admin.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler, barcodeHandler *handlers.BarcodeHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	{
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.GET("/all", productHandler.GetAllProducts)
		productRoutes.GET("/code/:code", productHandler.GetProductByCode)
		productRoutes.GET("/barcode/:barcodeID", productHandler.GetProductByBarcodeID)
		productRoutes.GET("/:id", productHandler.GetProductByID)
		productRoutes.GET("/:id/barcode.png", barcodeHandler.RenderProductBarcode)

		productEditRoutes := productRoutes.Group("")
		productEditRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager))
		{
			productEditRoutes.POST("", productHandler.CreateProduct)
			productEditRoutes.PUT("/:id", productHandler.UpdateProduct)
			productEditRoutes.DELETE("/:id", productHandler.DeleteProduct)
		}
	}
}

// SetupLedgerRoutes sets up the stock-ledger routes. Any authenticated
// user can record and inspect movements; edits and deletions of past
// entries require manager or admin.
func SetupLedgerRoutes(authenticatedGroup *gin.RouterGroup, ledgerHandler *handlers.LedgerHandler) {
	ledgerRoutes := authenticatedGroup.Group("/ledger-entries")
	{
		ledgerRoutes.POST("", ledgerHandler.CreateEntry)
		ledgerRoutes.GET("", ledgerHandler.GetEntries)
		ledgerRoutes.GET("/check-resi/:resiNumber", ledgerHandler.CheckResi)
		ledgerRoutes.GET("/:id", ledgerHandler.GetEntryByID)

		ledgerEditRoutes := ledgerRoutes.Group("")
		ledgerEditRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager))
		{
			ledgerEditRoutes.PUT("/:id", ledgerHandler.UpdateEntry)
			ledgerEditRoutes.DELETE("/:id", ledgerHandler.DeleteEntry)
		}
	}
}

// SetupReportRoutes sets up the aggregation, report and dashboard routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler, exportHandler *handlers.ExportHandler) {
	authenticatedGroup.GET("/stock-aggregate", reportHandler.GetStockAggregate)
	authenticatedGroup.GET("/stock-classification", reportHandler.GetStockClassification)
	authenticatedGroup.GET("/dashboard", reportHandler.GetDashboard)

	reportRoutes := authenticatedGroup.Group("/reports")
	{
		reportRoutes.GET("", reportHandler.GetReport)
		reportRoutes.GET("/export", exportHandler.ExportReport)
	}
}

// SetupOrderRoutes sets up the marketplace-order routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/verify", orderHandler.VerifyOrders)

		orderEditRoutes := orderRoutes.Group("")
		orderEditRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager))
		{
			orderEditRoutes.PUT("/:id", orderHandler.UpdateOrder)
			orderEditRoutes.DELETE("/:id", orderHandler.DeleteOrder)
		}
	}
}
