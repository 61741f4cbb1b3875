package main

import (
	"rental-service/internal/handler"
	"rental-service/internal/middleware"
	"rental-service/pkg/config"
	"rental-service/pkg/database"
	"rental-service/pkg/jwtutil"
	"rental-service/pkg/logger"
	"rental-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting rental service...", zap.String("environment", cfg.Server.Env))

	// Initialize JWT utilities
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utilities initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Billing parameters for late-fee calculation
	handler.Initialize(&cfg.Billing)
	log.Info("Billing configuration loaded", zap.Float64("late_fee_daily_rate", cfg.Billing.LateFeeDailyRate))

	// Initialize database and run migrations
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_host", cfg.DB.Host),
		zap.String("db_name", cfg.DB.DBName))

	// Create Echo instance
	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(middleware.MetricsMiddleware)

	// Public routes
	e.GET("/", handler.Health)
	e.GET("/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API routes that require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	buildings := api.Group("/buildings")
	buildings.POST("", handler.CreateBuilding)
	buildings.GET("", handler.ListBuildings)
	buildings.GET("/statistics", handler.BuildingStatistics)
	buildings.GET("/:id", handler.GetBuilding)
	buildings.GET("/:id/units", handler.ListBuildingUnits)
	buildings.GET("/:id/expenses", handler.ListBuildingExpenses)
	buildings.PUT("/:id", handler.UpdateBuilding)
	buildings.DELETE("/:id", handler.DeleteBuilding)

	units := api.Group("/units")
	units.POST("", handler.CreateUnit)
	units.GET("", handler.ListUnits)
	units.GET("/available", handler.ListAvailableUnits)
	units.GET("/:id", handler.GetUnit)
	units.PUT("/:id", handler.UpdateUnit)
	units.DELETE("/:id", handler.DeleteUnit)

	tenants := api.Group("/tenants")
	tenants.POST("", handler.CreateTenant)
	tenants.GET("", handler.ListTenants)
	tenants.GET("/:id", handler.GetTenant)
	tenants.GET("/:id/contracts", handler.ListTenantContracts)
	tenants.PUT("/:id", handler.UpdateTenant)
	tenants.DELETE("/:id", handler.DeleteTenant)

	contracts := api.Group("/contracts")
	contracts.POST("", handler.CreateContract)
	contracts.GET("", handler.ListContracts)
	contracts.GET("/expired", handler.ListExpiredContracts)
	contracts.POST("/terminate", handler.TerminateContract)
	contracts.GET("/:id", handler.GetContract)
	contracts.PUT("/:id", handler.UpdateContract)
	contracts.DELETE("/:id", handler.DeleteContract)

	invoices := api.Group("/invoices")
	invoices.POST("", handler.CreateInvoice)
	invoices.GET("", handler.ListInvoices)
	invoices.GET("/overdue", handler.ListOverdueInvoices)
	invoices.GET("/:id", handler.GetInvoice)
	invoices.POST("/:id/late-fee", handler.CalculateLateFee)
	invoices.PUT("/:id", handler.UpdateInvoice)
	invoices.DELETE("/:id", handler.DeleteInvoice)

	payments := api.Group("/payments")
	payments.POST("", handler.CreatePayment)
	payments.GET("", handler.ListPayments)
	payments.GET("/statistics", handler.PaymentStatistics)
	payments.GET("/:id", handler.GetPayment)
	payments.PUT("/:id", handler.UpdatePayment)
	payments.DELETE("/:id", handler.DeletePayment)

	maintenance := api.Group("/maintenance-requests")
	maintenance.POST("", handler.CreateMaintenanceRequest)
	maintenance.GET("", handler.ListMaintenanceRequests)
	maintenance.GET("/unresolved", handler.ListUnresolvedMaintenanceRequests)
	maintenance.POST("/bulk-resolve", handler.BulkResolveMaintenanceRequests)
	maintenance.GET("/:id", handler.GetMaintenanceRequest)
	maintenance.PUT("/:id", handler.UpdateMaintenanceRequest)
	maintenance.DELETE("/:id", handler.DeleteMaintenanceRequest)

	expenses := api.Group("/expenses")
	expenses.POST("", handler.CreateExpense)
	expenses.GET("", handler.ListExpenses)
	expenses.GET("/:id", handler.GetExpense)
	expenses.PUT("/:id", handler.UpdateExpense)
	expenses.DELETE("/:id", handler.DeleteExpense)

	notifications := api.Group("/notifications")
	notifications.POST("", handler.CreateNotification)
	notifications.GET("", handler.ListNotifications)
	notifications.POST("/mark-as-read", handler.MarkNotificationsAsRead)
	notifications.GET("/:id", handler.GetNotification)
	notifications.PUT("/:id", handler.UpdateNotification)
	notifications.DELETE("/:id", handler.DeleteNotification)

	reports := api.Group("/reports")
	reports.GET("/summary", handler.SummaryReportHandler)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
