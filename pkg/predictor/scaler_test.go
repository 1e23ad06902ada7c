package predictor

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name             string
		value, mean, std float64
		want             float64
	}{
		{"value at mean", 42, 42, 7, 0},
		{"one std above", 12, 10, 2, 1},
		{"below mean", 0, 1.5, 5, -0.3},
		{"zero std passes centered value", 7, 2, 0, 5},
		{"zero std at mean", 3, 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Normalize(tt.value, tt.mean, tt.std), 1e-12)
		})
	}
}

func TestStandardScalerValidate(t *testing.T) {
	tests := []struct {
		name    string
		scaler  StandardScaler
		wantErr bool
	}{
		{"valid", *testScaler(), false},
		{"names optional", StandardScaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}}, false},
		{"zero scale allowed", StandardScaler{Mean: []float64{0, 0}, Scale: []float64{0, 1}}, false},
		{"wrong width", StandardScaler{Mean: []float64{0}, Scale: []float64{1}}, true},
		{"wrong names", StandardScaler{FeatureNames: []string{"participants_numeric", "protest_duration"}, Mean: []float64{0, 0}, Scale: []float64{1, 1}}, true},
		{"negative scale", StandardScaler{Mean: []float64{0, 0}, Scale: []float64{-1, 1}}, true},
		{"nan scale", StandardScaler{Mean: []float64{0, 0}, Scale: []float64{math.NaN(), 1}}, true},
		{"infinite mean", StandardScaler{Mean: []float64{math.Inf(1), 0}, Scale: []float64{1, 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scaler.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStandardScalerTransform(t *testing.T) {
	v := FeatureVector{ProtestDuration: 0, Participants: 100}
	testScaler().Transform(&v)

	assert.InDelta(t, -0.3, v.ProtestDuration, 1e-12)
	assert.InDelta(t, -0.2375, v.Participants, 1e-12)
}

func TestLoadStandardScaler(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scaler.json")
	doc := `{"feature_names": ["protest_duration", "participants_numeric"], "mean": [1.5, 2000], "scale": [5, 8000]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	s, err := LoadStandardScaler(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2000}, s.Mean)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"mean": [1], "scale": [1]}`), 0644))
	_, err = LoadStandardScaler(bad)
	assert.Error(t, err)
}
