package router

import (
	"tintshop_backend/internal/handlers"
	"tintshop_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupProductRoutes sets up the catalog routes.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	{
		productRoutes.POST("", productHandler.CreateProduct)
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.GET("/low-stock", productHandler.GetLowStockProducts)
		productRoutes.GET("/:id", productHandler.GetProductByID)
		productRoutes.PUT("/:id", productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", middleware.RequireRole("admin"), productHandler.DeleteProduct)
		productRoutes.POST("/:id/adjust-stock", productHandler.AdjustStock)
	}

	authenticatedGroup.GET("/stock-movements", productHandler.GetStockMovements)
}

// SetupTransactionRoutes sets up the ledger routes.
func SetupTransactionRoutes(authenticatedGroup *gin.RouterGroup, transactionHandler *handlers.TransactionHandler) {
	transactionRoutes := authenticatedGroup.Group("/transactions")
	{
		transactionRoutes.POST("", transactionHandler.AppendTransaction)
		transactionRoutes.GET("", transactionHandler.GetTransactionsByPeriod)
		transactionRoutes.GET("/:id", transactionHandler.GetTransactionByID)
		transactionRoutes.PUT("/:id", transactionHandler.UpdateTransaction)
		transactionRoutes.DELETE("/:id", transactionHandler.DeleteTransaction)
	}
}

// SetupBillRoutes sets up the recurring bill routes.
func SetupBillRoutes(authenticatedGroup *gin.RouterGroup, billHandler *handlers.BillHandler) {
	templateRoutes := authenticatedGroup.Group("/bill-templates")
	{
		templateRoutes.POST("", billHandler.CreateTemplate)
		templateRoutes.GET("", billHandler.GetTemplates)
		templateRoutes.GET("/:id", billHandler.GetTemplateByID)
		templateRoutes.PUT("/:id", billHandler.UpdateTemplate)
		templateRoutes.DELETE("/:id", middleware.RequireRole("admin"), billHandler.DeleteTemplate)
	}

	billRoutes := authenticatedGroup.Group("/bills")
	{
		billRoutes.GET("", billHandler.GetMonthBills)
		billRoutes.POST("/generate", billHandler.GenerateMonth)
	}
}

// SetupAppointmentRoutes sets up the appointment routes.
func SetupAppointmentRoutes(authenticatedGroup *gin.RouterGroup, appointmentHandler *handlers.AppointmentHandler) {
	appointmentRoutes := authenticatedGroup.Group("/appointments")
	{
		appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
		appointmentRoutes.GET("", appointmentHandler.GetAppointments)
		appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
		appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointment)
		appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)
		appointmentRoutes.POST("/:id/complete", appointmentHandler.CompleteAppointment)
		appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
	}
}

// SetupCheckoutRoutes sets up the sale checkout route.
func SetupCheckoutRoutes(authenticatedGroup *gin.RouterGroup, checkoutHandler *handlers.CheckoutHandler) {
	authenticatedGroup.POST("/checkout", checkoutHandler.Checkout)
}

// SetupReportRoutes sets up the reporting routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	{
		reportRoutes.GET("/finance", reportHandler.GetFinanceReport)
		reportRoutes.GET("/dashboard", reportHandler.GetDashboardSummary)
	}
}

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(authenticatedGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := authenticatedGroup.Group("/clients")
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
	}
}
