package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/ticket-bot/internal/cache/memory"
	"github.com/kitbuilder587/ticket-bot/internal/cache/rediscache"
	"github.com/kitbuilder587/ticket-bot/internal/config"
	"github.com/kitbuilder587/ticket-bot/internal/discovery"
	"github.com/kitbuilder587/ticket-bot/internal/domain"
	"github.com/kitbuilder587/ticket-bot/internal/metrics"
	"github.com/kitbuilder587/ticket-bot/internal/query"
	"github.com/kitbuilder587/ticket-bot/internal/repository/postgres"
	"github.com/kitbuilder587/ticket-bot/internal/service"
	"github.com/kitbuilder587/ticket-bot/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("bot stopped with error", zap.Error(err))
	}
	logger.Info("bot stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	metricsServer := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server starting", zap.String("addr", cfg.Metrics.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", zap.Error(err))
		}
	}()

	db, err := postgres.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	client := discovery.New(cfg.DiscoveryConfig(), logger)

	eventCache, closeCache, err := newEventCache(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	userService := service.NewUserService(postgres.NewUserRepo(db), logger)
	searchService := service.NewSearchService(service.SearchServiceDeps{
		API:        query.NewAPI(client),
		Searches:   postgres.NewSearchRepo(db),
		Logger:     logger,
		Metrics:    m,
		EventCache: eventCache,
		PageSize:   cfg.Bot.PageSize,
	})

	bot, err := telegram.New(telegram.BotConfig{
		Token:             cfg.Telegram.Token,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
	}, userService, searchService, logger, m)
	if err != nil {
		return err
	}

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newEventCache picks Redis when configured, process memory otherwise. A
// zero TTL disables caching.
func newEventCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (service.EventCache, func(), error) {
	if cfg.EventTTL <= 0 {
		return nil, func() {}, nil
	}

	if cfg.RedisURL != "" {
		client, err := rediscache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("event cache: redis", zap.Duration("ttl", cfg.EventTTL))
		cache := rediscache.New[domain.Event](client, "ticket-bot:event:", cfg.EventTTL, logger)
		return cache, func() { _ = client.Close() }, nil
	}

	logger.Info("event cache: memory", zap.Duration("ttl", cfg.EventTTL))
	cache := memory.New[domain.Event](ctx, cfg.EventTTL)
	return cache, cache.Stop, nil
}
