package xgboost

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// leaf walks the tree for one feature row and returns the leaf value.
// NaN features follow the node's default direction. Splits compare in
// float32, the precision the model was trained and stored in.
func (t *Tree) leaf(features []float64) (float64, error) {
	node := 0
	for steps := 0; steps <= len(t.LeftChildren); steps++ {
		left := t.LeftChildren[node]
		if left == -1 {
			return t.SplitConditions[node], nil
		}

		value := features[t.SplitIndices[node]]
		switch {
		case math.IsNaN(value):
			if t.DefaultLeft[node] {
				node = left
			} else {
				node = t.RightChildren[node]
			}
		case float32(value) < float32(t.SplitConditions[node]):
			node = left
		default:
			node = t.RightChildren[node]
		}
	}
	return 0, fmt.Errorf("tree walk did not reach a leaf")
}

// Margins returns the raw per-class scores for one feature row
func (m *Model) Margins(features []float64) ([]float64, error) {
	if len(features) != m.NumFeature {
		return nil, fmt.Errorf("expected %d features, got %d", m.NumFeature, len(features))
	}

	margins := make([]float64, m.NumClass)
	copy(margins, m.BaseScore)

	for i, tree := range m.Trees {
		value, err := tree.leaf(features)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		margins[m.TreeClass[i]] += value
	}

	return margins, nil
}

// PredictProba returns the softmax class probabilities for one feature row
func (m *Model) PredictProba(features []float64) ([]float64, error) {
	margins, err := m.Margins(features)
	if err != nil {
		return nil, err
	}
	return softmax(margins), nil
}

// Predict returns the most probable class index for one feature row
func (m *Model) Predict(features []float64) (int, error) {
	margins, err := m.Margins(features)
	if err != nil {
		return 0, err
	}
	return floats.MaxIdx(margins), nil
}

func softmax(margins []float64) []float64 {
	out := make([]float64, len(margins))
	copy(out, margins)

	// Shift by the max so exp never overflows.
	floats.AddConst(-floats.Max(out), out)
	for i, v := range out {
		out[i] = math.Exp(v)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}
