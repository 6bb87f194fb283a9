package ml_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citescope/citescope/pkg/ml"
	"github.com/citescope/citescope/pkg/platform"
)

func trainedModel(t *testing.T) *ml.Model {
	t.Helper()
	reg := newRegistry(nil, smallProvider())
	m, err := reg.Model(context.Background(), platform.Gemini)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func TestEncodeDecodeModel(t *testing.T) {
	m := trainedModel(t)

	data, err := ml.EncodeModel(m)
	require.NoError(t, err)
	got, err := ml.DecodeModel(data)
	require.NoError(t, err)

	assert.Equal(t, m.Platform, got.Platform)
	assert.Equal(t, m.FeatureNames, got.FeatureNames)
	assert.Equal(t, m.FeatureImportance, got.FeatureImportance)
	assert.True(t, m.TrainedAt.Equal(got.TrainedAt))

	x := []float64{2, 1, 1, 4, 2, 3, 2, 900}
	a, err := m.Predict(x)
	require.NoError(t, err)
	b, err := got.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeModel_Corrupt(t *testing.T) {
	data, err := ml.EncodeModel(trainedModel(t))
	require.NoError(t, err)

	_, err = ml.DecodeModel([]byte("garbage"))
	assert.ErrorIs(t, err, ml.ErrCorruptModel)

	_, err = ml.DecodeModel(data[:len(data)/2])
	assert.ErrorIs(t, err, ml.ErrCorruptModel)
}

func TestModel_PredictChecksWidth(t *testing.T) {
	_, err := trainedModel(t).Predict([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestModel_PredictBounded(t *testing.T) {
	m := trainedModel(t)
	for _, x := range [][]float64{
		{0, 0, 0, 0, 0, 0, 0, 0},
		{1e4, 1e4, 1e4, 1e4, 1e4, 1e4, 1e4, 1e6},
		{-50, -50, -50, -50, -50, -50, -50, -50},
	} {
		y, err := m.Predict(x)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, y, 0.0)
		assert.LessOrEqual(t, y, 100.0)
	}
}

func TestModelKey(t *testing.T) {
	assert.Equal(t, "models/claude.gob.gz", ml.ModelKey(platform.Claude))
}
