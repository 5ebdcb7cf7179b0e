package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"invoice-analytics-backend/internal/config"
	handler "invoice-analytics-backend/internal/handlers"
	"invoice-analytics-backend/internal/repository"
	"invoice-analytics-backend/internal/services/analytics"
	"invoice-analytics-backend/internal/services/chat"
	"invoice-analytics-backend/internal/services/seeding"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	invoiceRepo := repository.NewInvoiceRepository(db)
	analyticsService := analytics.NewService(db)
	seedRunner := seeding.NewRunner(db)
	chatClient := chat.NewClient(cfg.ChatServiceURL)

	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceRepo)
	seedHandler := handler.NewSeedHandler(seedRunner, db, cfg.SeedDataFile)
	chatHandler := handler.NewChatHandler(chatClient)

	// Endpoint directory for anyone poking the root
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Invoice Analytics API",
			"endpoints": gin.H{
				"health":        "/api/health",
				"stats":         "/api/stats",
				"invoiceTrends": "/api/invoice-trends",
				"vendors":       "/api/vendors/top10",
				"categorySpend": "/api/category-spend",
				"cashOutflow":   "/api/cash-outflow",
				"invoices":      "/api/invoices",
				"chatWithData":  "/api/chat-with-data",
			},
		})
	})

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Dashboard aggregations
	api.GET("/stats", analyticsHandler.GetStats)
	api.GET("/invoice-trends", analyticsHandler.GetInvoiceTrends)
	api.GET("/vendors/top10", analyticsHandler.GetTopVendors)
	api.GET("/category-spend", analyticsHandler.GetCategorySpend)
	api.GET("/cash-outflow", analyticsHandler.GetCashOutflow)

	// Invoice routes
	invoices := api.Group("/invoices")
	{
		invoices.GET("", invoiceHandler.List)
		invoices.GET("/:id", invoiceHandler.Get)
		invoices.POST("/:id/payments", invoiceHandler.CreatePayment)
	}

	// Seed trigger
	api.POST("/seed", seedHandler.Run)
	api.GET("/seed/latest", seedHandler.Latest)

	// NL2SQL proxy
	api.POST("/chat-with-data", chatHandler.Query)
}
