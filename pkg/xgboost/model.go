// Package xgboost evaluates gradient-boosted tree ensembles saved with
// XGBoost's JSON model format (Booster.save_model("model.json")).
package xgboost

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Objectives supported for multi-class inference
const (
	ObjectiveSoftprob = "multi:softprob"
	ObjectiveSoftmax  = "multi:softmax"
)

// Model is a loaded multi-class gbtree ensemble. It is read-only after
// Load and safe for concurrent use.
type Model struct {
	Objective    string
	NumClass     int
	NumFeature   int
	BaseScore    []float64 // one entry per class
	FeatureNames []string
	Trees        []*Tree
	TreeClass    []int // class index of Trees[i]
}

// Tree holds one regression tree in XGBoost's flat array layout.
// Node 0 is the root; a node is a leaf when its left child is -1.
type Tree struct {
	LeftChildren    []int
	RightChildren   []int
	SplitIndices    []int
	SplitConditions []float64
	DefaultLeft     []bool
}

// document mirrors the subset of the JSON model we need
type document struct {
	Learner struct {
		FeatureNames    []string `json:"feature_names"`
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				TreeInfo []int      `json:"tree_info"`
				Trees    []jsonTree `json:"trees"`
			} `json:"model"`
		} `json:"gradient_booster"`
		LearnerModelParam struct {
			BaseScore  string `json:"base_score"`
			NumClass   string `json:"num_class"`
			NumFeature string `json:"num_feature"`
		} `json:"learner_model_param"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
	} `json:"learner"`
}

type jsonTree struct {
	ID              int        `json:"id"`
	LeftChildren    []int      `json:"left_children"`
	RightChildren   []int      `json:"right_children"`
	SplitIndices    []int      `json:"split_indices"`
	SplitConditions []float64  `json:"split_conditions"`
	DefaultLeft     []flexBool `json:"default_left"`
}

// flexBool accepts both the boolean and the 0/1 encodings of default_left
// written by different XGBoost releases.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*b = true
	case "false", "0":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

// LoadFile reads and parses a JSON model file
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	model, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", path, err)
	}
	return model, nil
}

// Parse decodes a JSON model and validates its structure
func Parse(data []byte) (*Model, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}

	learner := doc.Learner
	if name := learner.GradientBooster.Name; name != "gbtree" {
		return nil, fmt.Errorf("unsupported booster %q (only gbtree)", name)
	}

	objective := learner.Objective.Name
	if objective != ObjectiveSoftprob && objective != ObjectiveSoftmax {
		return nil, fmt.Errorf("unsupported objective %q", objective)
	}

	numClass, err := strconv.Atoi(learner.LearnerModelParam.NumClass)
	if err != nil || numClass < 2 {
		return nil, fmt.Errorf("invalid num_class %q", learner.LearnerModelParam.NumClass)
	}

	numFeature, err := strconv.Atoi(learner.LearnerModelParam.NumFeature)
	if err != nil || numFeature < 1 {
		return nil, fmt.Errorf("invalid num_feature %q", learner.LearnerModelParam.NumFeature)
	}

	baseScore, err := parseBaseScore(learner.LearnerModelParam.BaseScore, numClass)
	if err != nil {
		return nil, err
	}

	if len(learner.FeatureNames) != 0 && len(learner.FeatureNames) != numFeature {
		return nil, fmt.Errorf("model lists %d feature names for %d features", len(learner.FeatureNames), numFeature)
	}

	booster := learner.GradientBooster.Model
	if len(booster.Trees) == 0 {
		return nil, fmt.Errorf("model has no trees")
	}
	if len(booster.TreeInfo) != len(booster.Trees) {
		return nil, fmt.Errorf("tree_info has %d entries for %d trees", len(booster.TreeInfo), len(booster.Trees))
	}

	model := &Model{
		Objective:    objective,
		NumClass:     numClass,
		NumFeature:   numFeature,
		BaseScore:    baseScore,
		FeatureNames: learner.FeatureNames,
		Trees:        make([]*Tree, len(booster.Trees)),
		TreeClass:    make([]int, len(booster.Trees)),
	}

	for i, jt := range booster.Trees {
		class := booster.TreeInfo[i]
		if class < 0 || class >= numClass {
			return nil, fmt.Errorf("tree %d assigned to class %d outside [0,%d)", i, class, numClass)
		}
		tree, err := newTree(jt, numFeature)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		model.Trees[i] = tree
		model.TreeClass[i] = class
	}

	return model, nil
}

// newTree converts and validates the flat arrays of one tree
func newTree(jt jsonTree, numFeature int) (*Tree, error) {
	n := len(jt.LeftChildren)
	if n == 0 {
		return nil, fmt.Errorf("empty tree")
	}
	if len(jt.RightChildren) != n || len(jt.SplitIndices) != n || len(jt.SplitConditions) != n || len(jt.DefaultLeft) != n {
		return nil, fmt.Errorf("node arrays differ in length")
	}

	tree := &Tree{
		LeftChildren:    jt.LeftChildren,
		RightChildren:   jt.RightChildren,
		SplitIndices:    jt.SplitIndices,
		SplitConditions: jt.SplitConditions,
		DefaultLeft:     make([]bool, n),
	}
	for i, b := range jt.DefaultLeft {
		tree.DefaultLeft[i] = bool(b)
	}

	for node := 0; node < n; node++ {
		left, right := tree.LeftChildren[node], tree.RightChildren[node]
		if left == -1 {
			continue
		}
		if left < 0 || left >= n || right < 0 || right >= n || left == node || right == node {
			return nil, fmt.Errorf("node %d has invalid children (%d, %d)", node, left, right)
		}
		if f := tree.SplitIndices[node]; f < 0 || f >= numFeature {
			return nil, fmt.Errorf("node %d splits on feature %d outside [0,%d)", node, f, numFeature)
		}
	}

	return tree, nil
}

// parseBaseScore handles the scalar ("5E-1") and vector ("[5E-1,5E-1,5E-1]") forms
func parseBaseScore(raw string, numClass int) ([]float64, error) {
	raw = strings.TrimSpace(raw)
	scores := make([]float64, numClass)
	if raw == "" {
		for i := range scores {
			scores[i] = 0.5
		}
		return scores, nil
	}

	if strings.HasPrefix(raw, "[") {
		parts := strings.Split(strings.Trim(raw, "[]"), ",")
		if len(parts) != numClass {
			return nil, fmt.Errorf("base_score has %d entries for %d classes", len(parts), numClass)
		}
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid base_score %q: %w", raw, err)
			}
			scores[i] = v
		}
		return scores, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid base_score %q: %w", raw, err)
	}
	for i := range scores {
		scores[i] = v
	}
	return scores, nil
}
