package routes

import (
	"time"

	"moneymate-api/internal/adapters/http/handlers"
	"moneymate-api/internal/adapters/http/middleware"
	"moneymate-api/internal/adapters/persistence/repositories"
	"moneymate-api/internal/config"
	"moneymate-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the
// stats service so the caller can wire the cache janitor to it.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.StatsService {
	// Initialize repositories
	loanRepo := repositories.NewLoanRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	// Cache instances are constructed once here and injected; they
	// live for the life of the process.
	caches := services.NewCacheSet(
		cfg.Cache.ReportCapacity,
		cfg.Cache.LoanCapacity,
		cfg.Cache.PaymentCapacity,
	)
	clock := clockwork.NewRealClock()

	// Initialize services
	statsService := services.NewStatsService(loanRepo, caches, clock)
	loanService := services.NewLoanService(loanRepo, caches, clock)
	paymentService := services.NewPaymentService(loanRepo, paymentRepo, caches, clock)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	statsHandler := handlers.NewStatsHandler(statsService)
	loanHandler := handlers.NewLoanHandler(loanService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Stats routes: userId is an explicit query parameter, and client
	// cache headers mirror the shortest server-side TTL.
	statsRoutes := apiV1.Group("/stats")
	statsRoutes.Get("/", middleware.PrivateCacheHeaders(2*time.Minute), statsHandler.GetStats)
	statsRoutes.Get("/cache", middleware.NoCacheHeaders(), statsHandler.GetCacheInfo)

	// Loan & payment routes (authenticated)
	loanRoutes := apiV1.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	loanRoutes.Get("/", loanHandler.List)
	loanRoutes.Post("/", loanHandler.Create)
	loanRoutes.Get("/:id", loanHandler.GetByID)
	loanRoutes.Put("/:id/paid", loanHandler.MarkPaid)
	loanRoutes.Delete("/:id", loanHandler.Delete)
	loanRoutes.Get("/:id/payments", paymentHandler.ListForLoan)
	loanRoutes.Post("/:id/payments", paymentHandler.Create)

	return statsService
}
