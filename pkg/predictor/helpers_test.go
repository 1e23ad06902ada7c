package predictor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/xgboost"
)

var testRegions = []string{"Africa", "Asia", "Canada", "Central America", "Europe", "MENA", "Oceania", "South America"}

// Alphabetical, as the encoder was fitted
var testResponses = []string{"Control Measures", "Forceful Repression", "Passive or Concessive"}

// testModelDoc scores protester violence only: without it "Passive or
// Concessive" wins, with it "Forceful Repression" wins.
func testModelDoc(featureNames []string) map[string]any {
	stump := func(id int, feature int, threshold, left, right float64) map[string]any {
		return map[string]any{
			"id":               id,
			"left_children":    []int{1, -1, -1},
			"right_children":   []int{2, -1, -1},
			"split_indices":    []int{feature, 0, 0},
			"split_conditions": []float64{threshold, left, right},
			"default_left":     []int{1, 0, 0},
		}
	}
	leaf := map[string]any{
		"id":               0,
		"left_children":    []int{-1},
		"right_children":   []int{-1},
		"split_indices":    []int{0},
		"split_conditions": []float64{0},
		"default_left":     []int{0},
	}

	return map[string]any{
		"learner": map[string]any{
			"feature_names": featureNames,
			"gradient_booster": map[string]any{
				"name": "gbtree",
				"model": map[string]any{
					"tree_info": []int{0, 1, 2},
					"trees": []any{
						leaf,
						stump(1, 3, 0.5, -1, 2),
						stump(2, 3, 0.5, 1, -1),
					},
				},
			},
			"learner_model_param": map[string]any{
				"base_score":  "5E-1",
				"num_class":   "3",
				"num_feature": "10",
			},
			"objective": map[string]any{"name": "multi:softprob"},
		},
	}
}

func testModel(t *testing.T) *xgboost.Model {
	t.Helper()
	data, err := json.Marshal(testModelDoc(FeatureNames))
	require.NoError(t, err)
	model, err := xgboost.Parse(data)
	require.NoError(t, err)
	return model
}

func testScaler() *StandardScaler {
	return &StandardScaler{
		FeatureNames: []string{FeatureProtestDuration, FeatureParticipants},
		Mean:         []float64{1.5, 2000},
		Scale:        []float64{5, 8000},
	}
}

func newTestArtifacts(t *testing.T) *Artifacts {
	t.Helper()
	region, err := NewLabelEncoder(testRegions)
	require.NoError(t, err)
	response, err := NewLabelEncoder(testResponses)
	require.NoError(t, err)

	artifacts, err := NewArtifacts(testModel(t), region, response, testScaler())
	require.NoError(t, err)
	return artifacts
}

// writeTestArtifacts writes a complete model directory and returns its path
func writeTestArtifacts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(name string, v any) {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}
	write("xgb_model.json", testModelDoc(FeatureNames))
	write("le_region.json", map[string]any{"classes": testRegions})
	write("le_state_response.json", map[string]any{"classes": testResponses})
	write("scaler.json", testScaler())
	return dir
}

// countingClassifier records how often it was called
type countingClassifier struct {
	calls int
	proba []float64
}

func (c *countingClassifier) PredictProba(features []float64) ([]float64, error) {
	c.calls++
	return c.proba, nil
}
