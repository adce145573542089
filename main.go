package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"katalog/internal/config"
	"katalog/internal/services"
	"katalog/internal/storage"
	"katalog/pkg/logging"
	"katalog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	config.LoadDotEnv()
	v := viper.New()
	v.AutomaticEnv()

	cfg, err := config.Load(v)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	lg, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	// --- Object storage ---
	store, err := storage.NewS3Storage(cfg.Storage)
	if err != nil {
		lg.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		mqClient, err := rabbitmq.NewClient(cfg.RabbitMQ, lg.Named("rabbitmq"))
		if err != nil {
			lg.Fatal("Failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer func() { _ = mqClient.Close() }()
		publisher = mqClient

		if err := mqClient.Consume(logProductEvent(lg.Named("events"))); err != nil {
			lg.Error("Failed to start RabbitMQ consumer", zap.Error(err))
		}
	}

	app, err := NewApp(cfg, lg, store, publisher)
	if err != nil {
		lg.Fatal("Failed to create app", zap.Error(err))
	}
	defer func() { _ = app.Close() }()

	// --- Start HTTP Server ---
	lg.Info("Starting server",
		zap.String("addr", cfg.AppPort),
		zap.String("env", cfg.AppEnv),
		zap.String("database", cfg.Database.Driver),
		zap.String("bucket", cfg.Storage.Bucket),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			lg.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-quit
	lg.Info("Shutting down server")

	if err := app.Fiber.Shutdown(); err != nil {
		lg.Error("Error during Fiber shutdown", zap.Error(err))
	}
	lg.Info("Server gracefully stopped")
}

// logProductEvent records product events received from the broker.
// Malformed messages are logged and acked so they are not redelivered.
func logProductEvent(lg *zap.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		if msg.Type != services.EventProductCreated {
			lg.Debug("Ignoring event", zap.String("type", msg.Type))
			return nil
		}
		var event services.ProductCreatedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			lg.Warn("Malformed product event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
			return nil
		}
		lg.Info("Product created event",
			zap.String("product_id", event.ID),
			zap.String("category", event.Category),
			zap.Float64("price", event.Price),
		)
		return nil
	}
}
