package api

import (
	"errors"
	"net/http"

	"github.com/citescope/citescope/pkg/ml"
	"github.com/citescope/citescope/pkg/platform"
)

type platformInfo struct {
	Platform    platform.Platform `json:"platform"`
	DisplayName string            `json:"display_name"`
	Mode        ml.Mode           `json:"ml_mode"`
}

type importanceResponse struct {
	Platform          platform.Platform  `json:"platform"`
	Mode              ml.Mode            `json:"ml_mode"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
}

type retrainRequest struct {
	Examples []ml.Example `json:"examples"`
}

func (h *Handler) handleListPlatforms(w http.ResponseWriter, r *http.Request) {
	out := make([]platformInfo, 0, len(platform.All()))
	for _, p := range platform.All() {
		out = append(out, platformInfo{Platform: p, DisplayName: p.DisplayName(), Mode: h.scorer.Mode(p)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"platforms": out})
}

func (h *Handler) handleImportance(w http.ResponseWriter, r *http.Request) {
	p, ok := platformParam(w, r)
	if !ok {
		return
	}

	imp, err := h.scorer.FeatureImportance(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "feature importance: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, importanceResponse{Platform: p, Mode: h.scorer.Mode(p), FeatureImportance: imp})
}

func (h *Handler) handleRetrain(w http.ResponseWriter, r *http.Request) {
	p, ok := platformParam(w, r)
	if !ok {
		return
	}

	var req retrainRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.scorer.Retrain(r.Context(), p, req.Examples)
	switch {
	case errors.Is(err, ml.ErrInsufficientTrainingData):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, ml.ErrModelUnavailable):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, "retrain failed: "+err.Error())
		return
	}

	h.cache.Purge()
	h.logger.Info().Str("platform", string(p)).Int("examples", len(req.Examples)).Msg("model retrained")
	h.writeImportance(w, r, p, "retrained")
}

func (h *Handler) handleRebuild(w http.ResponseWriter, r *http.Request) {
	p, ok := platformParam(w, r)
	if !ok {
		return
	}

	if err := h.scorer.Registry().Rebuild(r.Context(), p); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ml.ErrModelUnavailable) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}

	h.cache.Purge()
	h.logger.Info().Str("platform", string(p)).Msg("model rebuilt")
	h.writeImportance(w, r, p, "rebuilt")
}

func (h *Handler) writeImportance(w http.ResponseWriter, r *http.Request, p platform.Platform, status string) {
	imp, err := h.scorer.FeatureImportance(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status, "platform": p, "feature_importance": imp})
}
