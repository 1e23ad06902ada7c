package models

import (
	"fmt"
	"strings"
	"time"
)

// Government response labels produced by the classifier
const (
	ResponsePassiveOrConcessive = "Passive or Concessive"
	ResponseControlMeasures     = "Control Measures"
	ResponseForcefulRepression  = "Forceful Repression"
)

// ResponseLabels lists the three possible government responses
var ResponseLabels = []string{
	ResponsePassiveOrConcessive,
	ResponseControlMeasures,
	ResponseForcefulRepression,
}

// PredictionRequest is one submission of the prediction form
type PredictionRequest struct {
	Region            string   `json:"region"`
	Demands           []string `json:"demands"`
	ProtestDuration   int      `json:"protest_duration"` // days, 1 means a same-day protest
	Participants      int      `json:"participants"`
	ProtesterViolence bool     `json:"protester_violence"`
}

// Validate checks the form boundary preconditions
func (r *PredictionRequest) Validate() error {
	if strings.TrimSpace(r.Region) == "" {
		return fmt.Errorf("region is required")
	}
	if r.ProtestDuration < 1 {
		return fmt.Errorf("protest_duration must be at least 1, got %d", r.ProtestDuration)
	}
	if r.Participants < 1 {
		return fmt.Errorf("participants must be at least 1, got %d", r.Participants)
	}
	for _, d := range r.Demands {
		if _, err := ParseDemand(d); err != nil {
			return err
		}
	}
	return nil
}

// DemandFlags expands the selected demands into a flag per category.
// Every category is present and false unless selected.
func (r *PredictionRequest) DemandFlags() (map[Demand]bool, error) {
	flags := make(map[Demand]bool, len(Demands))
	for _, d := range Demands {
		flags[d] = false
	}
	for _, s := range r.Demands {
		d, err := ParseDemand(s)
		if err != nil {
			return nil, err
		}
		flags[d] = true
	}
	return flags, nil
}

// PredictionResult is the outcome of one pipeline invocation
type PredictionResult struct {
	Label         string             `json:"label"`
	Description   string             `json:"description"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

// PredictionRecord is a served prediction kept in the history table
type PredictionRecord struct {
	ID        string            `json:"id"`
	Request   PredictionRequest `json:"request"`
	Result    PredictionResult  `json:"result"`
	CreatedAt time.Time         `json:"created_at"`
}

// PredictionOptions describes the choices offered by the prediction form
type PredictionOptions struct {
	Regions   []string        `json:"regions"`
	Demands   []DemandOption  `json:"demands"`
	Violence  []string        `json:"protester_violence"`
	Responses []ResponseGuide `json:"responses"`
}

// DemandOption is one demand checkbox
type DemandOption struct {
	Key         Demand `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// ResponseGuide explains one government response label
type ResponseGuide struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}
