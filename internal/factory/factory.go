package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/coder/quartz"

	"github.com/mcoot/rpsgame-go/internal/dependencies/random"
	"github.com/mcoot/rpsgame-go/internal/metrics"
	"github.com/mcoot/rpsgame-go/internal/services/game"
	"github.com/mcoot/rpsgame-go/internal/services/player"
	"github.com/mcoot/rpsgame-go/internal/services/session"
	"github.com/mcoot/rpsgame-go/internal/services/setup"
	"github.com/mcoot/rpsgame-go/internal/storage"
	"github.com/mcoot/rpsgame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/rpsgame-go/internal/storage/redis"
	"github.com/mcoot/rpsgame-go/internal/stream"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// How often hubs nobody listens to are dropped
const hubCleanupInterval = time.Minute

// App contains all wired application components
type App struct {
	// Storage
	KV      storage.KV
	Storage *storage.Store

	// External dependencies
	Clock  quartz.Clock
	Random random.Random

	// Services
	PlayerService  *player.Service
	SetupService   *setup.Service
	SessionService *session.Service
	GameController *game.Controller
	HubManager     *stream.HubManager
	Metrics        *metrics.Recorder

	sessionCfg session.Config
	logger     *slog.Logger
	cancel     context.CancelFunc
}

// Config holds configuration for the application factory
type Config struct {
	// GameConfig holds the round engine delays (optional)
	// If zero value, defaults to game.DefaultConfig()
	GameConfig game.Config
	// SessionConfig holds configuration for the session service (optional)
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var kv storage.KV
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		kv = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		kv = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	gameCfg := cfg.GameConfig
	if gameCfg == (game.Config{}) {
		gameCfg = game.DefaultConfig()
	}
	sessionCfg := cfg.SessionConfig
	if sessionCfg.SessionDuration == 0 {
		sessionCfg = session.DefaultConfig()
	}

	return newWithDependencies(kv, quartz.NewReal(), random.New(), gameCfg, sessionCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	kv storage.KV,
	clk quartz.Clock,
	rnd random.Random,
	gameCfg game.Config,
	sessionCfg session.Config,
	logger *slog.Logger,
) *App {
	store := storage.NewStore(kv)
	recorder := metrics.New()
	hubManager := stream.NewHubManager(logger)
	notifier := game.Notifiers{stream.NewBroadcaster(hubManager, logger), recorder}

	playerService := player.New(store, logger)
	gameController := game.NewController(store, playerService, clk, rnd, notifier, gameCfg, logger)
	setupService := setup.New(store, playerService, gameController, rnd, logger)
	sessionService := session.New(store, gameController, clk, rnd, sessionCfg, logger)

	recorder.RegisterGauge("active_games", "Games with a live round engine",
		func() float64 { return float64(gameController.ActiveGames()) })
	recorder.RegisterGauge("active_sessions", "Unexpired browser sessions",
		func() float64 { return float64(sessionService.Count()) })
	recorder.RegisterGauge("stream_hubs", "Games with an open event stream hub",
		func() float64 { return float64(hubManager.HubCount()) })

	return &App{
		KV:             kv,
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		PlayerService:  playerService,
		SetupService:   setupService,
		SessionService: sessionService,
		GameController: gameController,
		HubManager:     hubManager,
		Metrics:        recorder,
		sessionCfg:     sessionCfg,
		logger:         logger.With(slog.String("component", "app")),
	}
}

// Start runs the background sweepers until Close is called
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)

	interval := a.sessionCfg.SweepInterval
	if interval <= 0 {
		interval = session.DefaultConfig().SweepInterval
	}
	a.SessionService.StartSweeper(ctx, interval)

	a.Clock.TickerFunc(ctx, hubCleanupInterval, func() error {
		if n := a.HubManager.CleanupEmptyHubs(); n > 0 {
			a.logger.Debug("idle stream hubs removed", slog.Int("count", n))
		}
		return nil
	}, "hubs", "cleanup")
}

// Close stops background work, live engines and streams, then releases
// the storage backend
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	a.GameController.Close()
	a.HubManager.Close()

	if closer, ok := a.KV.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
