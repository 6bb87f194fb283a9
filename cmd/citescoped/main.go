// Command citescoped is the Citescope scoring service.
// It serves the analysis API, model management endpoints, Prometheus
// metrics and a health check.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/citescope/citescope/internal/api"
	"github.com/citescope/citescope/internal/app"
	"github.com/citescope/citescope/internal/logging"
	"github.com/citescope/citescope/pkg/config"
	"github.com/citescope/citescope/pkg/ml"
	"github.com/citescope/citescope/pkg/platform"
)

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := os.Getenv("CITESCOPE_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.Server.Port = envOrDefault("PORT", cfg.Server.Port)
	cfg.Server.APIKey = envOrDefault("CITESCOPE_API_KEY", cfg.Server.APIKey)
	cfg.Log.Level = envOrDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envOrDefault("LOG_FORMAT", cfg.Log.Format)
	cfg.Store.Backend = envOrDefault("STORE_BACKEND", cfg.Store.Backend)
	cfg.Store.LocalDir = envOrDefault("LOCAL_STORAGE_PATH", cfg.Store.LocalDir)
	cfg.Store.GCSBucket = envOrDefault("GCS_BUCKET", cfg.Store.GCSBucket)
	cfg.Store.S3.Bucket = envOrDefault("S3_BUCKET", cfg.Store.S3.Bucket)
	cfg.Store.PostgresDSN = envOrDefault("DATABASE_URL", cfg.Store.PostgresDSN)
	if v := os.Getenv("WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		cfg.Engine.Workers = n
	}
	return cfg, cfg.Validate()
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		l := logging.New(logging.Config{Output: os.Stderr})
		l.Fatal().Err(err).Msg("load config")
	}
	lc := cfg.Log.Logging()
	lc.Output = os.Stderr
	logger := logging.New(lc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("build app")
	}
	defer a.Close()

	// Warm the models in the background; requests that arrive first wait
	// on the same load.
	go func() {
		if err := a.Registry.Init(ctx); err != nil {
			logger.Warn().Err(err).Msg("model warm-up incomplete")
		}
	}()

	apiHandler := api.NewHandler(a.Engine, a.Scorer, api.NewReportCache(cfg.Server.CacheSize), logger, cfg.Engine.Workers)

	apiMux := http.NewServeMux()
	apiHandler.RegisterRoutes(apiMux)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.APIKeyAuth(cfg.Server.APIKey)(apiMux))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", healthHandler(a.Scorer))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.CORS(api.RequestLogger(logger)(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Str("store", cfg.Store.Backend).Msg("starting citescoped")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

// healthHandler reports ok with each platform's serving mode. Fallback
// mode is still healthy.
func healthHandler(scorer *ml.Scorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		models := make(map[string]ml.Mode, len(platform.All()))
		for _, p := range platform.All() {
			models[string(p)] = scorer.Mode(p)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "models": models})
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
