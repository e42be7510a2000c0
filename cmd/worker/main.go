package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"fastighet/internal/application/notification"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/infrastructure/config"
	"fastighet/internal/infrastructure/database"
	"fastighet/internal/infrastructure/email"
	"fastighet/internal/infrastructure/messaging"
	"fastighet/internal/infrastructure/metrics"
	"fastighet/internal/shared/goroutine"
	"fastighet/internal/shared/logger"
	"fastighet/internal/shared/services/markdown"
)

// The worker consumes ticket events from Redis or Kafka and mails the
// people involved. It is not needed with the in-memory events driver.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger().Named("worker")
	cfg.Events.Driver = messaging.EffectiveDriver(cfg.Events.Driver)
	log.Infow("starting notification worker", "environment", env, "events_driver", cfg.Events.Driver)

	if cfg.Events.Driver == messaging.DriverMemory {
		log.Errorw("events driver memory delivers notifications in-process; nothing to consume")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var redisClient *redis.Client
	if cfg.Events.Driver == messaging.DriverRedis {
		redisClient, err = database.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			log.Errorw("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	metricsSrv := startMetricsServer(cfg.Worker.MetricsAddr, registry, log)

	subscriber, err := messaging.NewTicketEventSubscriber(cfg.Events, cfg.Kafka, cfg.Worker.Group, redisClient, log.Named("events"))
	if err != nil {
		log.Errorw("failed to create ticket event subscriber", "error", err)
		os.Exit(1)
	}

	notifier := notification.NewTicketNotifier(
		email.NewEmailService(cfg.Email, log.Named("email")),
		markdown.NewMarkdownService(),
		m,
		log.Named("notifier"),
	)

	log.Infow("notification worker started", "channel", cfg.Events.Channel, "group", cfg.Worker.Group)

	err = subscriber.Subscribe(ctx, func(ctx context.Context, event *ticket.TicketEvent) {
		// Handle logs and counts its own failures; a lost mail never stops consumption.
		_ = notifier.Handle(ctx, event)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("ticket event subscription ended", "error", err)
	}

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Warnw("failed to stop metrics server", "error", err)
		}
		shutdownCancel()
	}

	log.Infow("notification worker stopped")
}

func startMetricsServer(addr string, registry *prometheus.Registry, log logger.Interface) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	goroutine.SafeGo(log, "metrics-server", func() {
		log.Infow("metrics server starting", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("metrics server failed", "error", err)
		}
	})

	return srv
}
