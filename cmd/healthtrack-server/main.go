package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/healthtrack/healthtrack/internal/config"
	"github.com/healthtrack/healthtrack/internal/domain/assistant"
	"github.com/healthtrack/healthtrack/internal/domain/navigation"
	"github.com/healthtrack/healthtrack/internal/domain/report"
	"github.com/healthtrack/healthtrack/internal/domain/symptom"
	"github.com/healthtrack/healthtrack/internal/platform/ai"
	"github.com/healthtrack/healthtrack/internal/platform/auth"
	"github.com/healthtrack/healthtrack/internal/platform/blobstore"
	"github.com/healthtrack/healthtrack/internal/platform/db"
	"github.com/healthtrack/healthtrack/internal/platform/middleware"
	"github.com/healthtrack/healthtrack/internal/platform/notification"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "healthtrack-server",
		Short: "Health Track dashboard API server",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	// Analysis archive: in-memory unless a database is configured.
	archive := report.NewArchiveRepoMem()
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		if err := report.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure schema")
		}
		archive = report.NewArchiveRepoPG(pool)
		logger.Info().Msg("connected to database")
	}

	// AI client: real Gemini when configured, canned replies otherwise so
	// the assistant and symptom endpoints stay usable in development.
	var aiClient ai.Client
	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create gemini client")
		}
		aiClient = client
		logger.Info().Str("model", cfg.GeminiModel).Msg("gemini client ready")
	} else {
		aiClient = ai.StaticClient{Reply: "AI responses are not configured on this server."}
	}

	// Report analyzer selection.
	var analyzer report.Analyzer
	switch cfg.Analyzer {
	case "ai":
		analyzer = report.AIAnalyzer{Client: aiClient}
	default:
		analyzer = report.SimulatedAnalyzer{Delay: cfg.AnalysisDelay()}
	}
	logger.Info().Str("analyzer", cfg.Analyzer).Msg("analyzer configured")

	// Share links
	signingKey := resolveShareSigningKey(cfg, logger)
	shares := auth.NewShareTokens(signingKey, cfg.ShareTTL())

	// Notification feed
	center := notification.NewCenter()

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	// Report analysis
	reportSvc := report.NewService(analyzer, center, archive, logger)
	report.NewHandler(reportSvc, shares).RegisterRoutes(apiV1)

	// Symptom advice
	symptom.NewHandler(symptom.NewService(aiClient, logger)).RegisterRoutes(apiV1)

	// Chat assistant
	assistant.NewHandler(assistant.NewService(aiClient, logger)).RegisterRoutes(apiV1)

	// Quick-action navigation
	navigation.NewHandler(navigation.Targets{
		Medicines: cfg.NavMedicinesURL,
		Doctors:   cfg.NavDoctorsURL,
		Reminders: cfg.NavRemindersURL,
	}).RegisterRoutes(apiV1)

	// Notification feed
	notification.NewHandler(center).RegisterRoutes(apiV1)

	// Raw report file locker
	blobstore.NewHandler(blobstore.NewMemStore()).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// resolveShareSigningKey returns the configured share-link key, or a
// random per-process key in development. Config validation already
// rejects a missing key in production.
func resolveShareSigningKey(cfg *config.Config, logger zerolog.Logger) string {
	if cfg.ShareSigningKey != "" {
		return cfg.ShareSigningKey
	}

	buf := make([]byte, 32)
	if _, err := crypto_rand.Read(buf); err != nil {
		logger.Fatal().Err(err).Msg("failed to generate share signing key")
	}
	key := hex.EncodeToString(buf)
	logger.Warn().Msg("SHARE_SIGNING_KEY not set; generated ephemeral key, share links will not survive restarts")
	return key
}
