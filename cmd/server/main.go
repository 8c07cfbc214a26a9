package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/rpsgame-go/internal/api"
	"github.com/mcoot/rpsgame-go/internal/config"
	"github.com/mcoot/rpsgame-go/internal/factory"
	"github.com/mcoot/rpsgame-go/internal/services/game"
	"github.com/mcoot/rpsgame-go/internal/services/session"
	redisstorage "github.com/mcoot/rpsgame-go/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	sessionCfg := session.DefaultConfig()
	sessionCfg.SessionDuration = cfg.SessionTTL

	factoryCfg := factory.Config{
		GameConfig: game.Config{
			RevealDelay:   cfg.RevealDelay,
			CooldownDelay: cfg.CooldownDelay,
		},
		SessionConfig: sessionCfg,
		Logger:        logger,
		StorageType:   cfg.StorageType,
	}

	if cfg.StorageType == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.SessionTTL = cfg.SessionTTL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Start(ctx)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		SessionService: app.SessionService,
		SetupService:   app.SetupService,
		PlayerService:  app.PlayerService,
		GameController: app.GameController,
		HubManager:     app.HubManager,
		Metrics:        app.Metrics,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
	)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			_ = app.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	}

	if err := app.Close(); err != nil {
		logger.Error("failed to close application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
