package main

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"katalog/internal/config"
	"katalog/internal/database"
	"katalog/internal/handlers"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/internal/storage"
)

// App bundles the HTTP server with the resources it owns.
type App struct {
	Fiber *fiber.App
	db    *gorm.DB
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return database.Close(a.db)
}

// NewApp wires repositories, services and handlers. store and publisher
// are created by the caller so tests can substitute them; publisher may
// be nil.
func NewApp(cfg *config.Config, lg *zap.Logger, store storage.Storage, publisher services.EventPublisher) (*App, error) {
	a := &App{}

	var productRepo repositories.ProductRepository
	if cfg.Database.Driver == config.DriverMemory {
		productRepo = repositories.NewMemoryProductRepository()
	} else {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, errors.Wrap(err, "open database")
		}
		a.db = db
		productRepo = repositories.NewGORMProductRepository(db)
	}

	var opts []services.Option
	if publisher != nil {
		opts = append(opts, services.WithPublisher(publisher))
	}
	productService := services.NewProductService(productRepo, store, lg.Named("products"), opts...)
	productHandler := handlers.NewProductHandler(productService, lg.Named("http"), !cfg.IsProduction())

	app := fiber.New(fiber.Config{
		AppName:   "katalog",
		BodyLimit: handlers.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)

	app.Get("/health", a.handleHealth)

	a.Fiber = app
	return a, nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	status := "healthy"
	dbStatus := "memory"
	code := fiber.StatusOK

	if a.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		dbStatus = "connected"
		if err := database.Ping(ctx, a.db); err != nil {
			status, dbStatus, code = "unhealthy", "unreachable", fiber.StatusServiceUnavailable
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"time":     time.Now().Format(time.RFC3339),
		"database": dbStatus,
	})
}
