// Package api implements the Citescope REST API.
// It serves analysis requests through the engine and exposes model
// importance and retraining per platform.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/citescope/citescope/pkg/engine"
	"github.com/citescope/citescope/pkg/ml"
)

// defaultMaxBodyBytes caps request bodies.
const defaultMaxBodyBytes = 10 << 20

// Handler is the top-level API handler for the Citescope service.
type Handler struct {
	engine       *engine.Engine
	scorer       *ml.Scorer
	cache        *ReportCache
	logger       zerolog.Logger
	batchWorkers int
	maxBodyBytes int64
}

// NewHandler creates a new API handler.
func NewHandler(eng *engine.Engine, scorer *ml.Scorer, cache *ReportCache, logger zerolog.Logger, batchWorkers int) *Handler {
	if cache == nil {
		cache = NewReportCache(0)
	}
	if batchWorkers <= 0 {
		batchWorkers = 1
	}
	return &Handler{
		engine:       eng,
		scorer:       scorer,
		cache:        cache,
		logger:       logger.With().Str("component", "api").Logger(),
		batchWorkers: batchWorkers,
		maxBodyBytes: defaultMaxBodyBytes,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Analysis
	mux.HandleFunc("POST /api/v1/analyze", h.handleAnalyze)
	mux.HandleFunc("POST /api/v1/analyze/batch", h.handleAnalyzeBatch)

	// Models
	mux.HandleFunc("GET /api/v1/platforms", h.handleListPlatforms)
	mux.HandleFunc("GET /api/v1/platforms/{platform}/importance", h.handleImportance)
	mux.HandleFunc("POST /api/v1/platforms/{platform}/retrain", h.handleRetrain)
	mux.HandleFunc("POST /api/v1/platforms/{platform}/rebuild", h.handleRebuild)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
