package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"exampleapi/internal/cache"
	"exampleapi/internal/client"
	"exampleapi/internal/client/cached"
	"exampleapi/internal/client/rest"
	"exampleapi/internal/config"
	"exampleapi/internal/consumer"
	handlers "exampleapi/internal/http/handler"
	"exampleapi/internal/http/middleware"
	"exampleapi/internal/logger"
	"exampleapi/internal/messaging"
	"exampleapi/internal/messaging/kafkax"
	tracing "exampleapi/internal/otel"
	"exampleapi/internal/service"
	"exampleapi/internal/storage"
)

// @title Example API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	logr := logger.New(cfg.LogLevel, loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, logr)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Outbound REST client with a pooled, traced transport
	clientMetrics, err := rest.NewMetrics(reg)
	if err != nil {
		log.Fatalf("failed to register client metrics: %v", err)
	}
	tc := rest.DefaultTransportConfig()
	if cfg.External.TimeoutSec > 0 {
		tc.Timeout = time.Duration(cfg.External.TimeoutSec) * time.Second
	}
	var ext client.ExternalServiceClient = rest.New(cfg.External.BaseURL, logr,
		rest.WithHTTPClient(rest.NewHTTPClient(tc)),
		rest.WithMetrics(clientMetrics),
	)

	// Optional Redis read-through cache for external fetches
	if cfg.Redis.Addr != "" {
		c, closeRedis, err := cache.NewRedis(cfg.Redis, "exampleapi:")
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer closeRedis()
		ext = cached.New(ext, c, time.Duration(cfg.External.CacheTTLSec)*time.Second, logr)
	}

	// Event producer: Kafka when brokers are configured, log-only otherwise
	var producer messaging.EventProducer = messaging.LogProducer{Logger: logr}
	var checks []handlers.Checker
	if cfg.Kafka.Brokers != "" {
		kp := kafkax.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		defer kp.Close()
		producer = kp
		checks = append(checks, kafkax.ReadyCheck(cfg.Kafka.Brokers))
	}

	exampleSvc := service.NewExampleService(ext, producer)

	// Optional archive for inbound messages that cannot be decoded
	var archive storage.Storage
	if cfg.MinIO.Endpoint != "" {
		archive, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
	}

	// Inbound messaging
	var consumers sync.WaitGroup
	if cfg.Kafka.Brokers != "" {
		h := consumer.NewExampleEventHandler(exampleSvc, archive, logr)
		c := kafkax.NewConsumer(logr, kafkax.ConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			GroupID: cfg.Kafka.GroupID,
			Topic:   cfg.Kafka.Topic,
		}, h.HandleExampleEvent)
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			c.Run(ctx)
		}()
	} else {
		logr.Warn("kafka consumer disabled (no brokers configured)")
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(logr))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, exampleSvc, reg, checks...)

	addr := ":" + cfg.Port
	go func() {
		if err := app.Listen(addr); err != nil {
			logr.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logr.Error("shutdown failed", "err", err)
	}
	// The producer and tracer are closed by the deferred calls, after the consumer drains.
	consumers.Wait()
}
