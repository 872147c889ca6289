package router

import (
	"database/sql"

	"tintshop_backend/internal/handlers"
	"tintshop_backend/internal/middleware"
	"tintshop_backend/internal/models"
	"tintshop_backend/internal/repositories"
	"tintshop_backend/internal/services"
	"tintshop_backend/pkg/utils"

	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Repositories
	authRepo := repositories.NewAuthRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	productRepo := repositories.NewProductRepository(db)
	movementRepo := repositories.NewStockMovementRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	templateRepo := repositories.NewBillTemplateRepository(db)
	appointmentRepo := repositories.NewAppointmentRepository(db)

	// The low-stock bus. Handlers never see it; subscribers attach here.
	bus := EventBus.New()
	if err := bus.Subscribe(services.TopicLowStock, func(alert models.LowStockAlert) {
		utils.LogWarn("low stock alert", map[string]interface{}{
			"product_id": alert.ProductID.String(),
			"product":    alert.Name,
			"stock":      alert.StockQuantity.String(),
			"threshold":  alert.MinStockAlert.String(),
		})
	}); err != nil {
		utils.LogError(err, "failed to subscribe low stock logger")
	}

	// Services
	authService := services.NewAuthService(authRepo, db)
	clientService := services.NewClientService(clientRepo, db)
	catalogService := services.NewCatalogService(productRepo, movementRepo, bus, db)
	ledgerService := services.NewLedgerService(transactionRepo, db)
	billingService := services.NewBillingService(templateRepo, transactionRepo, db)
	checkoutService := services.NewCheckoutService(productRepo, movementRepo, transactionRepo, appointmentRepo, db)
	appointmentService := services.NewAppointmentService(appointmentRepo, clientRepo, productRepo, movementRepo, transactionRepo, checkoutService, db)
	financeService := services.NewFinanceService(transactionRepo, productRepo, appointmentRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	clientHandler := handlers.NewClientHandler(clientService)
	productHandler := handlers.NewProductHandler(catalogService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	billHandler := handlers.NewBillHandler(billingService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	reportHandler := handlers.NewReportHandler(financeService)

	apiV1 := engine.Group("/api/v1")

	publicAuth := apiV1.Group("/auth")
	{
		publicAuth.POST("/register", authHandler.Register)
		publicAuth.POST("/login", authHandler.Login)
	}

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		authenticated.GET("/auth/me", authHandler.Me)

		SetupProductRoutes(authenticated, productHandler)
		SetupTransactionRoutes(authenticated, transactionHandler)
		SetupBillRoutes(authenticated, billHandler)
		SetupAppointmentRoutes(authenticated, appointmentHandler)
		SetupCheckoutRoutes(authenticated, checkoutHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupClientRoutes(authenticated, clientHandler)
	}
}
