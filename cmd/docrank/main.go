package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/siamtext/docrank/internal/config"
	dbRedis "github.com/siamtext/docrank/internal/db/redis"
	logpkg "github.com/siamtext/docrank/internal/logger"
	"github.com/siamtext/docrank/internal/metrics"
	chunkrepo "github.com/siamtext/docrank/internal/repository/chunk"
	documentrepo "github.com/siamtext/docrank/internal/repository/document"
	vectorrepo "github.com/siamtext/docrank/internal/repository/vector"
	chiTransport "github.com/siamtext/docrank/internal/transport/chi"
	openaiTransport "github.com/siamtext/docrank/internal/transport/openai"
	healthuc "github.com/siamtext/docrank/internal/usecase/health"
	searchuc "github.com/siamtext/docrank/internal/usecase/search"
	"github.com/siamtext/docrank/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docrank API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterSearchMetrics()

	embedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	chunks := chunkrepo.New(store)
	documents := documentrepo.New(store)
	vectors := vectorrepo.New(embedder, store)

	searchSvc := searchuc.New(chunks, documents, vectors).
		WithTuning(tuningFromConfig(cfg.Ranking)).
		WithStopWords(cfg.Ranking.StopWords)

	if cfg.Expansion.Model != "" {
		expander := openaiTransport.NewExpander(&openaiTransport.ExpanderConfig{
			APIKey:   cfg.Expansion.APIKey,
			BaseURL:  cfg.Expansion.BaseURL,
			Model:    cfg.Expansion.Model,
			MaxTerms: cfg.Expansion.MaxTerms,
			Timeout:  time.Duration(cfg.Expansion.TimeoutSec) * time.Second,
			Logger:   logger,
		})
		searchSvc.WithExpander(expander)
		logger.Info("Query expansion enabled", zap.String("model", cfg.Expansion.Model))
	}

	healthSvc := healthuc.New(store, embedder)

	server := chiTransport.NewServer(searchSvc, healthSvc, chiTransport.Defaults{
		KeywordWeight: cfg.Ranking.KeywordWeight,
		VectorWeight:  cfg.Ranking.VectorWeight,
		Threshold:     cfg.Ranking.Threshold,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// tuningFromConfig maps the ranking section onto engine tuning, keeping
// engine defaults for anything the config leaves at zero.
func tuningFromConfig(rc config.RankingConfig) searchuc.Tuning {
	t := searchuc.DefaultTuning()
	if rc.MinResults > 0 {
		t.MinResults = rc.MinResults
	}
	if rc.MaxResults > 0 {
		t.MaxResults = rc.MaxResults
	}
	if rc.MassFraction > 0 {
		t.MassFraction = rc.MassFraction
	}
	if rc.QualityFloor > 0 {
		t.QualityFloor = rc.QualityFloor
	}
	if rc.LexicalCeiling > 0 {
		t.LexicalCeiling = rc.LexicalCeiling
	}
	if rc.ExactBoost > 0 {
		t.ExactBoost = rc.ExactBoost
	}
	if rc.FuzzyPenalty > 0 {
		t.FuzzyPenalty = rc.FuzzyPenalty
	}
	if rc.FuzzyThreshold > 0 {
		t.Fuzzy.Default = rc.FuzzyThreshold
	}
	if rc.FuzzyShortThreshold > 0 {
		t.Fuzzy.Short = rc.FuzzyShortThreshold
	}
	if rc.FuzzyThaiThreshold > 0 {
		t.Fuzzy.Thai = rc.FuzzyThaiThreshold
	}
	return t
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
