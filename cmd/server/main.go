package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"moneymate-api/internal/adapters/http/middleware"
	"moneymate-api/internal/adapters/http/routes"
	"moneymate-api/internal/adapters/persistence/models"
	"moneymate-api/internal/config"
	"moneymate-api/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "moneymate-api/docs" // Swagger docs
)

// @title MoneyMate API
// @version 1.0
// @description Loan tracking backend: loans, payments, and aggregated statistics.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@moneymate.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity provider access token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MoneyMate API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	statsService := routes.Setup(app, db, cfg)

	// Start cache janitor (prunes dead report-cache entries)
	janitor := services.NewJanitorService(statsService)
	janitor.Start()
	defer janitor.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
