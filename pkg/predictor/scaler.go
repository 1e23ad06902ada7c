package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Numeric features standardized before classification, in scaler column order
var NumericFeatures = []string{FeatureProtestDuration, FeatureParticipants}

// Normalize standardizes one value. A zero std passes the centered value
// through unchanged, as the fitted scaler stores a scale of 1 for constant columns.
func Normalize(value, mean, std float64) float64 {
	if std == 0 {
		return value - mean
	}
	return (value - mean) / std
}

// StandardScaler holds the fitted mean and std of each numeric feature
type StandardScaler struct {
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
}

// LoadStandardScaler reads a {"feature_names", "mean", "scale"} file and
// checks that it covers NumericFeatures in order.
func LoadStandardScaler(path string) (*StandardScaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scaler: %w", err)
	}
	var s StandardScaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scaler %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scaler %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks shape and the finiteness of the fitted parameters
func (s *StandardScaler) Validate() error {
	if len(s.Mean) != len(NumericFeatures) || len(s.Scale) != len(NumericFeatures) {
		return fmt.Errorf("expected %d mean/scale entries, got %d/%d", len(NumericFeatures), len(s.Mean), len(s.Scale))
	}
	if len(s.FeatureNames) != 0 {
		if len(s.FeatureNames) != len(NumericFeatures) {
			return fmt.Errorf("expected features %v, got %v", NumericFeatures, s.FeatureNames)
		}
		for i, name := range NumericFeatures {
			if s.FeatureNames[i] != name {
				return fmt.Errorf("expected features %v, got %v", NumericFeatures, s.FeatureNames)
			}
		}
	}
	for i := range s.Mean {
		if math.IsNaN(s.Mean[i]) || math.IsInf(s.Mean[i], 0) {
			return fmt.Errorf("mean of %s is not finite", NumericFeatures[i])
		}
		if math.IsNaN(s.Scale[i]) || math.IsInf(s.Scale[i], 0) || s.Scale[i] < 0 {
			return fmt.Errorf("scale of %s must be finite and non-negative, got %v", NumericFeatures[i], s.Scale[i])
		}
	}
	return nil
}

// Transform standardizes the numeric features of a vector in place
func (s *StandardScaler) Transform(v *FeatureVector) {
	v.ProtestDuration = Normalize(v.ProtestDuration, s.Mean[0], s.Scale[0])
	v.Participants = Normalize(v.Participants, s.Mean[1], s.Scale[1])
}
