package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"naayee/internal/api"
	"naayee/internal/config"
	"naayee/internal/directory"
	"naayee/internal/events"
	"naayee/internal/logging"
	"naayee/internal/metrics"
	"naayee/internal/payment"
	"naayee/internal/repository"
	"naayee/internal/session"
	"naayee/internal/storage"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		startMetricsServer(cfg.Monitoring.PrometheusPort, logger)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open local store")
		return err
	}
	defer store.Close()

	sessions := session.NewManager(store, logging.Component(logger, "session"))

	client := api.NewClient(
		cfg.API.BaseURL,
		sessions,
		logging.Component(logger, "api"),
		api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
		api.WithRateLimit(cfg.API.RateLimitRPS, cfg.API.RateLimitBurst),
	)

	redisClient, states := initStateRepository(ctx, cfg, logger)
	defer func() { _ = repository.Close(redisClient) }()

	bus := events.NewEventBus()
	subscribeDisplayEvents(bus, logger)

	input := newLineSource(os.Stdin)
	collector := payment.NewPromptCollector(cfg.Payment.KeyID, input, os.Stdout)
	orchestrator := payment.NewOrchestrator(client, collector, bus, cfg.Payment, logging.Component(logger, "payment"))

	fetcher := directory.NewFetcher(client, logging.Component(logger, "directory"))

	app := &app{
		cfg:          cfg,
		client:       client,
		sessions:     sessions,
		states:       states,
		fetcher:      fetcher,
		orchestrator: orchestrator,
		bus:          bus,
		logger:       logging.Component(logger, "app"),
		input:        input,
		out:          os.Stdout,
	}

	logger.Info().Str("base_url", cfg.API.BaseURL).Msg("salonbook started")
	return app.Run(ctx)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, logger, closer, nil
}

// initStateRepository builds the draft store: Redis when configured, with an
// in-memory fallback taking over while Redis is down.
func initStateRepository(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *repository.FailoverStateRepository) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if err := repository.Ping(ctx, redisClient); err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, drafts will not survive restarts")
		}
	}

	ttl := time.Duration(cfg.Session.StateTTLSeconds) * time.Second
	primary := repository.NewRedisStateRepository(redisClient, ttl)
	fallback := repository.NewMemoryStateRepository(ttl)
	return redisClient, repository.NewFailoverStateRepository(primary, fallback, logger)
}

func startMetricsServer(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		addr := fmt.Sprintf(":%d", port)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
}

// subscribeDisplayEvents logs the domain events the flow publishes; the
// interactive loop prints its own user-facing messages.
func subscribeDisplayEvents(bus *events.EventBus, logger *zerolog.Logger) {
	logEvent := func(ev *events.Event) error {
		logger.Info().Str("event", ev.Type).RawJSON("payload", ev.Payload).Msg("domain event")
		return nil
	}

	bus.Subscribe(events.EventOrderCreated, logEvent)
	bus.Subscribe(events.EventBookingConfirmed, logEvent)
	bus.Subscribe(events.EventPaymentFailed, logEvent)
	bus.Subscribe(events.EventSessionExpired, logEvent)
	bus.Subscribe(events.EventProfileSaved, logEvent)
}
