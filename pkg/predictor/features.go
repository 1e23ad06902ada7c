package predictor

import (
	"fmt"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

// Feature names consumed by the classifier
const (
	FeatureRegion            = "region"
	FeatureProtestDuration   = "protest_duration"
	FeatureParticipants      = "participants_numeric"
	FeatureProtesterViolence = "protesterviolence"
)

// FeatureNames is the fixed column order of the classifier input
var FeatureNames = func() []string {
	names := []string{FeatureRegion, FeatureProtestDuration, FeatureParticipants, FeatureProtesterViolence}
	for _, d := range models.Demands {
		names = append(names, string(d))
	}
	return names
}()

// ProtestInputRecord is the assembled, not yet encoded, form of one request
type ProtestInputRecord struct {
	Region            string // canonical name
	DemandFlags       map[models.Demand]bool
	ProtestDuration   int // zero-based: 0 is a same-day protest
	Participants      int
	ProtesterViolence bool
}

// Assemble turns form selections into a ProtestInputRecord. The region alias
// is resolved and the user duration is shifted to its zero-based form.
func Assemble(req models.PredictionRequest) (ProtestInputRecord, error) {
	if err := req.Validate(); err != nil {
		return ProtestInputRecord{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	flags, err := req.DemandFlags()
	if err != nil {
		return ProtestInputRecord{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return ProtestInputRecord{
		Region:            models.CanonicalRegion(req.Region),
		DemandFlags:       flags,
		ProtestDuration:   req.ProtestDuration - 1,
		Participants:      req.Participants,
		ProtesterViolence: req.ProtesterViolence,
	}, nil
}

// FeatureVector is the encoded classifier input. Values serializes it in
// FeatureNames order.
type FeatureVector struct {
	Region            float64
	ProtestDuration   float64
	Participants      float64
	ProtesterViolence float64
	Demands           [6]float64 // models.Demands order
}

// Values returns the vector positionally
func (v FeatureVector) Values() []float64 {
	out := make([]float64, 0, len(FeatureNames))
	out = append(out, v.Region, v.ProtestDuration, v.Participants, v.ProtesterViolence)
	return append(out, v.Demands[:]...)
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
