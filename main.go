package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/sorare-price-bot/server/internal/bot/cache"
	"github.com/sorare-price-bot/server/internal/bot/dialog"
	"github.com/sorare-price-bot/server/internal/bot/keepalive"
	"github.com/sorare-price-bot/server/internal/bot/model"
	"github.com/sorare-price-bot/server/internal/bot/repo"
	"github.com/sorare-price-bot/server/internal/bot/sorare"
	"github.com/sorare-price-bot/server/internal/bot/telegram"
	"github.com/sorare-price-bot/server/internal/core"
	logx "github.com/sorare-price-bot/server/pkg/logger"
	pkgredis "github.com/sorare-price-bot/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the bot, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// Chat transport
	Telegram telegram.Config

	// Marketplace and caching
	Sorare  model.SorareConfig
	Cache   model.CacheConfig
	Session model.SessionConfig

	KeepAlive model.KeepAliveConfig
}

func main() {
	// Load .env file
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Could not load .env file: %v\n", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("Failed to process environment config")
	}
	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logx.Fatal().Err(err).Msg("bot stopped with error")
	}
	logx.Info().Msg("bot stopped")
}

func run(ctx context.Context, cfg AppConfig) error {
	var rdb *goredis.Client
	if needsRedis(cfg) {
		client, err := cfg.Redis.New(ctx)
		if err != nil {
			return fmt.Errorf("initialise redis client: %w", err)
		}
		defer client.Close()
		rdb = client
		logx.Info().Msg("Connected to Redis successfully")
	}

	players, prices, err := newMarketCaches(cfg.Cache, rdb)
	if err != nil {
		return err
	}

	schema, err := sorare.ParseSearchSchema(cfg.Sorare.SearchSchema)
	if err != nil {
		return err
	}
	market, err := sorare.NewClient(players, prices,
		sorare.WithEndpoint(cfg.Sorare.Endpoint),
		sorare.WithAPIKey(cfg.Sorare.APIKey),
		sorare.WithSearchSchema(schema),
		sorare.WithTimeouts(cfg.Sorare.SearchTimeout, cfg.Sorare.PriceTimeout),
	)
	if err != nil {
		return err
	}

	sessionStore, err := newSessionStore(cfg.Session, cfg.Cache.RedisKeyspace, rdb)
	if err != nil {
		return err
	}

	controller, err := dialog.NewController(ctx, dialog.GraphConfig{
		Searcher: market,
		Prices:   market,
	}, repo.NewSessionRepository(sessionStore))
	if err != nil {
		return fmt.Errorf("build dialog: %w", err)
	}

	api, err := telegram.NewAPI(cfg.Telegram)
	if err != nil {
		return fmt.Errorf("connect to telegram: %w", err)
	}
	bot, err := telegram.NewBot(api, controller, cfg.Telegram.PollTimeout)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.KeepAlive.Enabled {
		pinger, err := keepalive.NewPinger(cfg.KeepAlive.URL,
			keepalive.WithInterval(cfg.KeepAlive.Interval),
			keepalive.WithTimeout(cfg.KeepAlive.Timeout),
		)
		if err != nil {
			return err
		}
		g.Go(func() error { return pinger.Run(gctx) })
	}
	g.Go(func() error { return bot.Run(gctx) })

	return g.Wait()
}

func needsRedis(cfg AppConfig) bool {
	return cfg.Cache.Backend == model.BackendRedis || cfg.Session.Backend == model.BackendRedis
}

func newMarketCaches(cfg model.CacheConfig, rdb *goredis.Client) (cache.Cache[[]model.Player], cache.Cache[float64], error) {
	switch cfg.Backend {
	case model.BackendMemory, "":
		if cfg.MaxEntries <= 0 {
			return nil, nil, fmt.Errorf("CACHE_MAX_SIZE must be positive, got %d", cfg.MaxEntries)
		}
		return cache.NewMemory[[]model.Player](cfg.MaxEntries, cfg.PlayersTTL),
			cache.NewMemory[float64](cfg.MaxEntries, cfg.PricesTTL),
			nil
	case model.BackendRedis:
		return cache.NewRedis[[]model.Player](rdb, cfg.RedisKeyspace+":players", cfg.PlayersTTL),
			cache.NewRedis[float64](rdb, cfg.RedisKeyspace+":prices", cfg.PricesTTL),
			nil
	default:
		return nil, nil, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.Backend)
	}
}

func newSessionStore(cfg model.SessionConfig, keyspace string, rdb *goredis.Client) (cache.Cache[model.ConversationState], error) {
	switch cfg.Backend {
	case model.BackendMemory, "":
		if cfg.MaxEntries <= 0 {
			return nil, fmt.Errorf("SESSION_MAX_SIZE must be positive, got %d", cfg.MaxEntries)
		}
		return cache.NewMemory[model.ConversationState](cfg.MaxEntries, cfg.TTL), nil
	case model.BackendRedis:
		return cache.NewRedis[model.ConversationState](rdb, keyspace, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.Backend)
	}
}
