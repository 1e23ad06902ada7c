package predictor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/xgboost"
)

// ManifestFile is looked up in the model directory
const ManifestFile = "manifest.yaml"

// Manifest names the artifact files inside the model directory
type Manifest struct {
	Model           string   `yaml:"model"`
	RegionEncoder   string   `yaml:"region_encoder"`
	ResponseEncoder string   `yaml:"response_encoder"`
	Scaler          string   `yaml:"scaler"`
	FeatureOrder    []string `yaml:"feature_order,omitempty"`
}

// DefaultManifest is used when the model directory has no manifest
func DefaultManifest() Manifest {
	return Manifest{
		Model:           "xgb_model.json",
		RegionEncoder:   "le_region.json",
		ResponseEncoder: "le_state_response.json",
		Scaler:          "scaler.json",
	}
}

// LoadManifest reads dir/manifest.yaml, filling unset names with defaults
func LoadManifest(dir string) (Manifest, error) {
	manifest := DefaultManifest()

	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return manifest, nil
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Model != "" {
		manifest.Model = m.Model
	}
	if m.RegionEncoder != "" {
		manifest.RegionEncoder = m.RegionEncoder
	}
	if m.ResponseEncoder != "" {
		manifest.ResponseEncoder = m.ResponseEncoder
	}
	if m.Scaler != "" {
		manifest.Scaler = m.Scaler
	}
	manifest.FeatureOrder = m.FeatureOrder
	return manifest, nil
}

// Artifacts bundles the fitted encoders, scaler and classifier.
// It is built once at startup and never mutated.
type Artifacts struct {
	Model    *xgboost.Model
	Region   *LabelEncoder
	Response *LabelEncoder
	Scaler   *StandardScaler
}

// LoadArtifacts loads every artifact named by the manifest in dir
func LoadArtifacts(dir string) (*Artifacts, error) {
	manifest, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}
	if len(manifest.FeatureOrder) != 0 && !slices.Equal(manifest.FeatureOrder, FeatureNames) {
		return nil, fmt.Errorf("manifest feature_order %v does not match %v", manifest.FeatureOrder, FeatureNames)
	}

	region, err := LoadLabelEncoder(filepath.Join(dir, manifest.RegionEncoder))
	if err != nil {
		return nil, err
	}
	response, err := LoadLabelEncoder(filepath.Join(dir, manifest.ResponseEncoder))
	if err != nil {
		return nil, err
	}
	scaler, err := LoadStandardScaler(filepath.Join(dir, manifest.Scaler))
	if err != nil {
		return nil, err
	}
	model, err := xgboost.LoadFile(filepath.Join(dir, manifest.Model))
	if err != nil {
		return nil, err
	}

	return NewArtifacts(model, region, response, scaler)
}

// NewArtifacts checks that the pieces agree with each other and the fixed feature schema
func NewArtifacts(model *xgboost.Model, region, response *LabelEncoder, scaler *StandardScaler) (*Artifacts, error) {
	if model.NumFeature != len(FeatureNames) {
		return nil, fmt.Errorf("model expects %d features, pipeline produces %d", model.NumFeature, len(FeatureNames))
	}
	if len(model.FeatureNames) != 0 && !slices.Equal(model.FeatureNames, FeatureNames) {
		return nil, fmt.Errorf("model feature names %v do not match %v", model.FeatureNames, FeatureNames)
	}
	if model.NumClass != response.Len() {
		return nil, fmt.Errorf("model has %d classes, response encoder has %d", model.NumClass, response.Len())
	}
	if err := scaler.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scaler: %w", err)
	}

	return &Artifacts{Model: model, Region: region, Response: response, Scaler: scaler}, nil
}

// EncodeRegion resolves the display alias and returns the region code
func (a *Artifacts) EncodeRegion(name string) (int, error) {
	return a.Region.Encode(models.CanonicalRegion(name))
}

// EncodeResponse returns the code of a response label
func (a *Artifacts) EncodeResponse(label string) (int, error) {
	return a.Response.Encode(label)
}

// DecodeResponse returns the response label of a classifier code
func (a *Artifacts) DecodeResponse(code int) (string, error) {
	return a.Response.Decode(code)
}

// RegionOptions lists the regions as the prediction form shows them
func (a *Artifacts) RegionOptions() []string {
	classes := a.Region.Classes()
	for i, c := range classes {
		if c == models.CanadaRegion {
			classes[i] = models.CanadaFormLabel
		}
	}
	return classes
}
