package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"go-chatroom/internal/assistant"
	"go-chatroom/internal/chat"
	"go-chatroom/internal/config"
	"go-chatroom/internal/db"
)

func main() {
	// 1. Config & logging
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}
	log := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Postgres (platform layer)
	database, err := db.NewDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Postgres")
	}
	if err := database.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("connected to Postgres")

	// 3. Connect to Redis (history cache; the server runs without it)
	var cache *redis.Client
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, history replay served from Postgres only")
	} else {
		cache = redisClient
		log.Info().Msg("connected to Redis")
	}

	// 4. Assistant gateway
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set, assistant replies will fall back")
	}
	gateway := assistant.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, log)

	// 5. Chat coordinator
	trigger, err := chat.NewTrigger(cfg.TriggerKeywords)
	if err != nil {
		log.Fatal().Err(err).Strs("keywords", cfg.TriggerKeywords).Msg("invalid trigger keywords")
	}
	registry := chat.NewRegistry()
	repo := chat.NewRepository(database.Conn, cache, cfg.HistoryLimit, log)
	responder := chat.NewResponder(gateway, log)
	hub := chat.NewHub(registry, repo, responder, trigger, log)
	go hub.Run(ctx)

	handler := chat.NewHandler(hub, repo, log)

	// 6. Routes
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/ws", handler.ServeWs)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}
