package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-questionnaire-nosql/internal/config"
	"github.com/go-questionnaire-nosql/internal/infrastructure/cache"
	"github.com/go-questionnaire-nosql/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-questionnaire-nosql/internal/infrastructure/jwt"
	"github.com/go-questionnaire-nosql/internal/infrastructure/metrics"
	transporthttp "github.com/go-questionnaire-nosql/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg := config.Load()
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		fatal("config", err)
	}

	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		fatal("dynamodb client", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		fatal("jwt provider", err)
	}

	questions, err := config.LoadQuestions(cfg.QuestionsFile)
	if err != nil {
		fatal("questions", err)
	}

	var userRepo transporthttp.UserRepository = dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			slog.Warn("redis not reachable, user cache disabled", "addr", cfg.RedisAddr, "err", err)
			_ = rdb.Close()
		} else {
			defer rdb.Close()
			userRepo = cache.NewUserCache(rdb, userRepo, cfg.UserCacheTTL)
			slog.Info("user cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.UserCacheTTL)
		}
	}

	deps := &transporthttp.Deps{
		UserRepo:     userRepo,
		ResponseRepo: dynamo.NewResponseRepo(dynamoClient, cfg.DynamoTables.Responses),
		JWTProvider:  jwtProvider,
		Metrics:      metrics.New(),
		Questions:    questions,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
		return
	}
	slog.Info("server stopped")
}

// setupLogger installs JSON logs in production and text logs elsewhere.
func setupLogger(cfg *config.Config) {
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(h))
}

func fatal(what string, err error) {
	slog.Error("startup failed", "component", what, "err", err)
	os.Exit(1)
}
