// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/handlers"
	"spendlog/internal/metrics"
	"spendlog/internal/middleware"
	"spendlog/internal/services"
	"spendlog/internal/validator"
)

// Deps holds what the router serves.
type Deps struct {
	Expenses services.ExpenseServicer
	Receipts services.ReceiptServicer
	Reports  services.ReportServicer
	Messages services.MessageServicer
	Metrics  *metrics.Metrics

	JWTSecret      string
	AllowedUserIDs []int64
}

// NewRouter builds the gin engine. Everything under /api/v1 requires a
// bearer token; health and metrics are public.
func NewRouter(d Deps) *gin.Engine {
	validator.Register()

	expenseHandler := handlers.NewExpenseHandler(d.Expenses, d.Receipts)
	reportHandler := handlers.NewReportHandler(d.Reports)
	messageHandler := handlers.NewMessageHandler(d.Messages)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics(d.Metrics))
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.ErrNotFound)
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(d.JWTSecret, d.AllowedUserIDs))

	v1.POST("/messages", messageHandler.Handle)

	expenses := v1.Group("/expenses")
	expenses.POST("/extract", expenseHandler.Extract)
	expenses.POST("/receipt", expenseHandler.ScanReceipt)
	expenses.POST("", expenseHandler.Create)
	expenses.GET("", expenseHandler.List)
	expenses.GET("/:id", expenseHandler.Get)
	expenses.POST("/:id/keywords", expenseHandler.AddKeywords)
	expenses.DELETE("/:id", expenseHandler.Delete)

	reports := v1.Group("/reports")
	reports.POST("", reportHandler.Report)
	reports.POST("/compile", reportHandler.Compile)

	return router
}
