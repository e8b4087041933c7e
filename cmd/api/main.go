package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mines-backend/internal/config"
	"mines-backend/internal/handlers"
	"mines-backend/internal/mines"
	"mines-backend/internal/observability"
	"mines-backend/internal/services"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := handlers.RouterDeps{Config: cfg, Logger: logger}

	var ledger services.Ledger = services.NewMemoryLedger()
	if cfg.Redis.Enabled() {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		redisService, err := services.NewRedisService(pingCtx, cfg.Redis)
		cancel()
		if err != nil {
			return err
		}
		defer redisService.Close()

		ledger = redisService
		deps.Limiter = redisService
		deps.Redis = redisService
		logger.Info("using redis ledger", zap.String("addr", cfg.Redis.URL))
	} else {
		logger.Info("redis not configured, using in-memory ledger")
	}

	rules := cfg.Game.Rules()
	game := mines.NewGame(rules, mines.NewSource(cfg.Game.Seed, cfg.Game.Seed))

	gameEngine := services.NewGameEngine(game, ledger, logger.Named("game"))
	hub := handlers.NewWebSocketHub(gameEngine, logger.Named("ws"))
	defer hub.Close()
	gameEngine.SetBroadcaster(hub)

	deps.GameEngine = gameEngine
	deps.Hub = hub

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handlers.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Server.Env),
			zap.String("grid_strategy", string(rules.Strategy)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped", zap.Any("wallet", gameEngine.Wallet()))
	return nil
}
