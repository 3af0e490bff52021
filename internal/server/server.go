package server

import (
	"productsapi/internal/config"
	"productsapi/internal/handlers"
	"productsapi/internal/metrics"
	"productsapi/internal/middleware"
	"productsapi/internal/repositories"
	"productsapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
)

// NewApp assembles the Fiber app: middleware, the /api/products routing
// table, /docs, /health and, when enabled, /metrics. publisher may be nil.
func NewApp(cfg *config.Config, repo repositories.ProductRepository, publisher services.EventPublisher, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "productsapi",
		ErrorHandler:          middleware.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.Server.HTTPLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(middleware.CORS(cfg.Server.FrontendURL))
	if cfg.Server.MetricsEnabled {
		app.Use(middleware.Metrics())
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	}

	productService := services.NewProductService(repo, publisher, log)

	api := app.Group("/api")
	handlers.NewProductHandler(productService).RegisterRoutes(api)
	handlers.NewDocsHandler().RegisterRoutes(app)
	handlers.NewHealthHandler(productService).RegisterRoutes(app)

	return app
}
