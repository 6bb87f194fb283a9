package ml

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/citescope/citescope/pkg/platform"
)

// Model is a trained platform model. Persisted as one blob per platform.
type Model struct {
	Platform          platform.Platform
	FeatureNames      []string
	Regressor         Regressor
	Scaler            Scaler
	FeatureImportance map[string]float64
	TrainedAt         time.Time
	Samples           int
	// Extra holds examples accepted through Retrain, replayed on every refit.
	Extra []Example
}

// Predict scores a feature vector, clamped to [0, 100] and rounded to one
// decimal.
func (m *Model) Predict(x []float64) (float64, error) {
	if len(x) != len(m.FeatureNames) {
		return 0, fmt.Errorf("%s model expects %d features, got %d", m.Platform, len(m.FeatureNames), len(x))
	}
	y := m.Regressor.Predict(m.Scaler.Transform(x))
	return math.Round(math.Max(0, math.Min(100, y))*10) / 10, nil
}

// ImportanceCopy returns a copy of the feature importance map.
func (m *Model) ImportanceCopy() map[string]float64 {
	out := make(map[string]float64, len(m.FeatureImportance))
	for k, v := range m.FeatureImportance {
		out[k] = v
	}
	return out
}

// modelFormatVersion is bumped whenever Model changes incompatibly.
const modelFormatVersion = 1

// envelope wraps the compressed model with its checksum.
type envelope struct {
	Version  int
	Checksum string // sha256 of the uncompressed gob payload
	Payload  []byte // gzip(gob(Model))
}

// ModelKey is the blob key for a platform's model.
func ModelKey(p platform.Platform) string {
	return "models/" + string(p) + ".gob.gz"
}

// EncodeModel serializes a model as gob, gzip-compressed, with a checksum.
func EncodeModel(m *Model) ([]byte, error) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(m); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	sum := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	var out bytes.Buffer
	env := envelope{Version: modelFormatVersion, Checksum: hex.EncodeToString(sum[:]), Payload: compressed.Bytes()}
	if err := gob.NewEncoder(&out).Encode(env); err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return out.Bytes(), nil
}

// DecodeModel reverses EncodeModel. Any failure wraps ErrCorruptModel.
func DecodeModel(data []byte) (*Model, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", ErrCorruptModel, err)
	}
	if env.Version != modelFormatVersion {
		return nil, fmt.Errorf("%w: format version %d, want %d", ErrCorruptModel, env.Version, modelFormatVersion)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(env.Payload))
	if err != nil {
		return nil, fmt.Errorf("%w: open payload: %v", ErrCorruptModel, err)
	}
	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress payload: %v", ErrCorruptModel, err)
	}
	sum := sha256.Sum256(raw)
	if hex.EncodeToString(sum[:]) != env.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptModel)
	}

	var m Model
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: decode model: %v", ErrCorruptModel, err)
	}
	if len(m.Regressor.Weights) != len(m.FeatureNames) || len(m.Scaler.Mean) != len(m.FeatureNames) ||
		len(m.Scaler.Std) != len(m.FeatureNames) {
		return nil, fmt.Errorf("%w: dimension mismatch", ErrCorruptModel)
	}
	return &m, nil
}
