package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipesearch/internal/config"
	dbRedis "recipesearch/internal/db/redis"
	"recipesearch/internal/domain"
	"recipesearch/internal/extract"
	"recipesearch/internal/index"
	logpkg "recipesearch/internal/logger"
	"recipesearch/internal/metrics"
	"recipesearch/internal/repository/extcache"
	"recipesearch/internal/scanner"
	chiTransport "recipesearch/internal/transport/chi"
	indexinguc "recipesearch/internal/usecase/indexing"
	searchuc "recipesearch/internal/usecase/search"
	"recipesearch/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	env := resolveEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting recipesearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("recipes_dir", cfg.Recipes.Dir),
		zap.Bool("cache_enabled", cfg.CacheEnabled()),
	)

	metrics.RegisterIndexingMetrics()

	ctx := context.Background()

	// Extraction cache is optional; without Redis every rebuild re-parses
	// all PDFs.
	var extractionCache scanner.Cache
	if cfg.CacheEnabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			return fmt.Errorf("create cache store: %w", err)
		}
		defer store.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeoutSec) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			return fmt.Errorf("cache not ready: %w", err)
		}
		logger.Info("Connected to extraction cache")

		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		extractionCache = extcache.New(store, ttl, metrics.ExtractionCacheTotal, logger)
	}

	maxFileSize := int64(cfg.Recipes.MaxFileSizeMB) * 1024 * 1024
	sc := scanner.New(extract.NewPDF(), extractionCache, maxFileSize, logger)

	idx := index.New()
	indexingSvc := indexinguc.New(idx, sc, cfg.Recipes.Dir, logger)
	searchSvc := searchuc.New(idx, searchuc.Options{
		TitleMinScore:          cfg.Search.TitleMinScore,
		ServeEmptyWhenNotReady: cfg.Search.EmptyIndexOK,
	})

	// Initial scan. A missing recipe directory is fatal either way; other
	// failures only delay readiness when serving before the scan completes.
	if cfg.Search.ServeBeforeReady {
		go func() {
			if _, err := indexingSvc.Rebuild(ctx); err != nil {
				if errors.Is(err, domain.ErrNoSuchDirectory) {
					logger.Fatal("Recipe directory missing", zap.Error(err))
				}
				logger.Error("Initial index build failed", zap.Error(err))
			}
		}()
	} else {
		if _, err := indexingSvc.Rebuild(ctx); err != nil {
			return fmt.Errorf("initial index build: %w", err)
		}
	}

	server := chiTransport.NewServer(
		searchSvc, indexingSvc,
		cfg.Search.DefaultLimit, cfg.Search.MaxResults,
		logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
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
	return nil
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

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
