package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/seladavis/forgebot/internal/config"
	"github.com/seladavis/forgebot/internal/game"
	"github.com/seladavis/forgebot/internal/jservice"
	"github.com/seladavis/forgebot/internal/logging"
	"github.com/seladavis/forgebot/internal/match"
	"github.com/seladavis/forgebot/internal/metrics"
	"github.com/seladavis/forgebot/internal/redis"
	"github.com/seladavis/forgebot/internal/server"
	"github.com/seladavis/forgebot/internal/slack"
	"github.com/seladavis/forgebot/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to create Redis client", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().Version)

	redisClient := setupRedis(context.Background(), cfg)
	defer func() { _ = redisClient.Close() }()

	store := redis.NewGameStore(redisClient)
	nameCache := redis.NewNameCache(redisClient)

	questions := jservice.NewClient(cfg.JserviceURL)
	names := slack.NewUserDirectory(cfg.SlackAPIURL, cfg.SlackAPIToken, nameCache)
	evaluator := match.NewEvaluator(cfg.SimilarityThreshold)

	registry := metrics.NewRegistry()
	gameMetrics := metrics.NewGameMetrics(registry)

	answerWindow := time.Duration(cfg.SecondsToAnswer) * time.Second
	gameSvc := game.NewService(store, questions, names, evaluator, answerWindow, cfg.BotUsername, gameMetrics)

	srv := server.NewServer(cfg, gameSvc, redisClient, registry, gameMetrics, clock)
	done := runGracefulShutdown(srv)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
