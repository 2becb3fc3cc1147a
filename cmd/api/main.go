package main

import (
	"context"
	"fmt"
	"os"

	"spendlog/internal/app"
	"spendlog/internal/config"
	"spendlog/internal/logger"
	"spendlog/internal/server"
)

// @title           Spendlog API
// @version         1.0
// @description     Spendlog records expenses from chat messages and receipt photos and answers questions about spending.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := app.New(context.Background(), appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warnw("shutdown error", "error", err)
		}
	}()

	router := server.NewRouter(server.Deps{
		Expenses:       a.Expenses,
		Receipts:       a.Receipts,
		Reports:        a.Reports,
		Messages:       a.Messages,
		Metrics:        a.Metrics,
		JWTSecret:      appConfig.JWTSecret,
		AllowedUserIDs: appConfig.AllowedUserIDs,
	})

	log.Infow("Starting spendlog server",
		"port", appConfig.Port,
		"store", appConfig.StoreDriver,
		"llm", appConfig.LLMProvider,
		"timezone", appConfig.Timezone,
	)
	return router.Run(":" + appConfig.Port)
}
