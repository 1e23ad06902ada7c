package models

import (
	"testing"
)

// TestPredictionRequestValidate tests the form boundary checks
func TestPredictionRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     PredictionRequest
		wantErr bool
	}{
		{"valid", PredictionRequest{Region: "Africa", ProtestDuration: 1, Participants: 1}, false},
		{"valid with demands", PredictionRequest{Region: "Asia", Demands: []string{"Price Increases"}, ProtestDuration: 7, Participants: 300}, false},
		{"missing region", PredictionRequest{Region: " ", ProtestDuration: 1, Participants: 1}, true},
		{"zero duration", PredictionRequest{Region: "Africa", ProtestDuration: 0, Participants: 1}, true},
		{"zero participants", PredictionRequest{Region: "Africa", ProtestDuration: 1, Participants: 0}, true},
		{"unknown demand", PredictionRequest{Region: "Africa", Demands: []string{"weather"}, ProtestDuration: 1, Participants: 1}, true},
	}

	for _, tt := range tests {
		err := tt.req.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

// TestDemandFlags tests that every demand is present and only selected ones are set
func TestDemandFlags(t *testing.T) {
	req := PredictionRequest{Demands: []string{"Police Brutality", "demand_land_farm_issue"}}

	flags, err := req.DemandFlags()
	if err != nil {
		t.Fatalf("DemandFlags() error: %v", err)
	}
	if len(flags) != len(Demands) {
		t.Fatalf("Expected %d flags, got %d", len(Demands), len(flags))
	}
	for _, d := range Demands {
		want := d == DemandPoliceBrutality || d == DemandLandFarmIssue
		if flags[d] != want {
			t.Errorf("flags[%s] = %v, want %v", d, flags[d], want)
		}
	}
}
