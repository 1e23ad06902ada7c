// Package predictor turns prediction form selections into a government
// response label using the fitted encoders, scaler and tree ensemble.
package predictor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

// Classifier scores one positional feature vector. *xgboost.Model implements it.
type Classifier interface {
	PredictProba(features []float64) ([]float64, error)
}

// Pipeline runs assemble, encode, normalize, classify and describe.
// It holds only read-only state and is safe for concurrent use.
type Pipeline struct {
	artifacts  *Artifacts
	classifier Classifier
	logger     *zap.Logger
}

// NewPipeline creates a pipeline classifying with the artifacts' model
func NewPipeline(artifacts *Artifacts, logger *zap.Logger) *Pipeline {
	return NewPipelineWithClassifier(artifacts, artifacts.Model, logger)
}

// NewPipelineWithClassifier creates a pipeline with a custom classifier
func NewPipelineWithClassifier(artifacts *Artifacts, classifier Classifier, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		artifacts:  artifacts,
		classifier: classifier,
		logger:     logger.Named("predictor"),
	}
}

// Artifacts returns the artifacts the pipeline was built with
func (p *Pipeline) Artifacts() *Artifacts {
	return p.artifacts
}

// Options describes the choices of the prediction form
func (p *Pipeline) Options() models.PredictionOptions {
	demands := make([]models.DemandOption, 0, len(models.Demands))
	for _, d := range models.Demands {
		demands = append(demands, models.DemandOption{Key: d, Label: d.Label(), Description: d.Description()})
	}
	return models.PredictionOptions{
		Regions:   p.artifacts.RegionOptions(),
		Demands:   demands,
		Violence:  []string{"No", "Yes"},
		Responses: ResponseGuides(),
	}
}

// Encode converts an assembled record into the standardized feature vector
func (p *Pipeline) Encode(record ProtestInputRecord) (FeatureVector, error) {
	code, err := p.artifacts.Region.Encode(record.Region)
	if err != nil {
		return FeatureVector{}, fmt.Errorf("failed to encode region: %w", err)
	}

	v := FeatureVector{
		Region:            float64(code),
		ProtestDuration:   float64(record.ProtestDuration),
		Participants:      float64(record.Participants),
		ProtesterViolence: boolFeature(record.ProtesterViolence),
	}
	for i, d := range models.Demands {
		v.Demands[i] = boolFeature(record.DemandFlags[d])
	}
	p.artifacts.Scaler.Transform(&v)
	return v, nil
}

// Classify returns the label code and the per-label probabilities of a vector
func (p *Pipeline) Classify(v FeatureVector) (int, []float64, error) {
	proba, err := p.classifier.PredictProba(v.Values())
	if err != nil {
		return 0, nil, fmt.Errorf("failed to classify: %w", err)
	}
	if len(proba) == 0 {
		return 0, nil, fmt.Errorf("classifier returned no scores")
	}
	return floats.MaxIdx(proba), proba, nil
}

// Predict runs the whole pipeline for one form submission
func (p *Pipeline) Predict(req models.PredictionRequest) (*models.PredictionResult, error) {
	record, err := Assemble(req)
	if err != nil {
		return nil, err
	}

	vector, err := p.Encode(record)
	if err != nil {
		return nil, err
	}

	code, proba, err := p.Classify(vector)
	if err != nil {
		return nil, err
	}

	label, err := p.artifacts.DecodeResponse(code)
	if err != nil {
		p.logUnmapped(code, "", err)
		return nil, err
	}
	description, err := Describe(label)
	if err != nil {
		p.logUnmapped(code, label, err)
		return nil, err
	}

	probabilities := make(map[string]float64, len(proba))
	for i, v := range proba {
		if name, err := p.artifacts.DecodeResponse(i); err == nil {
			probabilities[name] = v
		}
	}

	return &models.PredictionResult{
		Label:         label,
		Description:   description,
		Probabilities: probabilities,
	}, nil
}

func (p *Pipeline) logUnmapped(code int, label string, err error) {
	if !errors.Is(err, ErrUnmappedLabel) {
		return
	}
	p.logger.Error("classifier output has no response mapping",
		zap.Int("code", code),
		zap.String("label", label),
		zap.Error(err))
}
