// Package ml implements the statistical scorer: per-platform ridge
// regression models trained on synthetic data, persisted as blobs, and a
// heuristic fallback for when no model can be used.
package ml

import "errors"

var (
	// ErrModelUnavailable means no statistical model can serve the platform;
	// predictions come from the heuristic fallback.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrInsufficientTrainingData means a retrain batch was too small.
	ErrInsufficientTrainingData = errors.New("insufficient training data")

	// ErrCorruptModel means a persisted model blob failed to decode or
	// verify.
	ErrCorruptModel = errors.New("corrupt model blob")

	// ErrRegistryClosed is returned after Close.
	ErrRegistryClosed = errors.New("model registry closed")
)
