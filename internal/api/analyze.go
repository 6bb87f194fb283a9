package api

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/engine"
	"github.com/citescope/citescope/pkg/platform"
)

// analyzeRequest is the JSON body for POST /api/v1/analyze. Exactly one of
// HTML or Document must be set.
type analyzeRequest struct {
	HTML      string             `json:"html,omitempty"`
	BaseURL   string             `json:"base_url,omitempty"`
	Document  *content.Document  `json:"document,omitempty"`
	Platforms []string           `json:"platforms,omitempty"`
	AIScores  map[string]float64 `json:"ai_scores,omitempty"`
}

type batchRequest struct {
	Documents []*content.Document `json:"documents"`
	Platforms []string            `json:"platforms,omitempty"`
}

type batchItem struct {
	Index  int            `json:"index"`
	Report *engine.Report `json:"report,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// decodeBody reads a JSON body, accepting gzip content encoding.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	var body io.Reader = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if r.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return fmt.Errorf("invalid gzip body: %w", err)
		}
		defer gz.Close()
		body = gz
	}
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.documentFor(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	names := req.Platforms
	if len(names) == 0 {
		names = platform.Names()
	}

	key, err := CacheKey(struct {
		Doc       *content.Document
		Platforms []string
		AI        map[string]float64
	}{doc, names, req.AIScores})
	if err == nil {
		if cached := h.cache.Get(key); cached != nil {
			w.Header().Set("X-Cache", "HIT")
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	eng := h.engine
	if len(req.AIScores) > 0 {
		ev, err := staticEvaluator(req.AIScores)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		eng = eng.With(engine.WithEvaluator(ev))
	}

	report, err := eng.AnalyzePlatforms(r.Context(), doc, names)
	if errors.Is(err, engine.ErrNoValidPlatforms) {
		writeJSON(w, http.StatusUnprocessableEntity, report)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analysis failed: "+err.Error())
		return
	}

	if key != "" && !report.Partial {
		h.cache.Put(key, report)
	}
	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) documentFor(req *analyzeRequest) (*content.Document, error) {
	switch {
	case req.HTML != "" && req.Document != nil:
		return nil, errors.New("set either html or document, not both")
	case req.HTML != "":
		return content.ExtractString(req.HTML, content.ExtractOptions{
			BaseURL: req.BaseURL,
			OnMalformed: func(err error) {
				h.logger.Debug().Err(err).Msg("skipping malformed structured data")
			},
		})
	case req.Document != nil:
		return content.FromCounts(req.Document.Text, req.Document.Counts), nil
	default:
		return nil, errors.New("html or document is required")
	}
}

func staticEvaluator(scores map[string]float64) (engine.StaticEvaluator, error) {
	ev := engine.StaticEvaluator{}
	for name, v := range scores {
		p, err := platform.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("ai_scores: %w", err)
		}
		if v < 0 || v > 100 {
			return nil, fmt.Errorf("ai_scores: %s score %.1f outside 0-100", p, v)
		}
		ev[p] = v
	}
	return ev, nil
}

func (h *Handler) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, "documents is required")
		return
	}

	docs := make([]*content.Document, len(req.Documents))
	for i, d := range req.Documents {
		if d == nil {
			d = &content.Document{}
		}
		docs[i] = content.FromCounts(d.Text, d.Counts)
	}

	results, err := h.engine.AnalyzeBatch(r.Context(), docs, req.Platforms, h.batchWorkers)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "batch interrupted: "+err.Error())
		return
	}

	items := make([]batchItem, len(results))
	for i, res := range results {
		items[i] = batchItem{Index: res.Index, Report: res.Report}
		if res.Err != nil {
			items[i].Error = res.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": items})
}

// platformParam resolves the {platform} path value, writing a 404 on
// failure.
func platformParam(w http.ResponseWriter, r *http.Request) (platform.Platform, bool) {
	p, err := platform.Parse(r.PathValue("platform"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return p, true
}
