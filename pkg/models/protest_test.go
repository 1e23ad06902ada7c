package models

import (
	"testing"
)

// TestParseDemand tests the accepted spellings of a demand
func TestParseDemand(t *testing.T) {
	tests := []struct {
		input   string
		want    Demand
		wantErr bool
	}{
		{"demand_police_brutality", DemandPoliceBrutality, false},
		{"Police Brutality", DemandPoliceBrutality, false},
		{"police brutality", DemandPoliceBrutality, false},
		{"police_brutality", DemandPoliceBrutality, false},
		{"Labor/Wage Dispute", DemandLaborWageDispute, false},
		{"labor_wage_dispute", DemandLaborWageDispute, false},
		{" Removal of Politician ", DemandRemovalOfPolitician, false},
		{"better weather", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDemand(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDemand(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDemand(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

// TestDemandsOrder tests that the demand order matches the classifier columns
func TestDemandsOrder(t *testing.T) {
	expected := []Demand{
		"demand_labor_wage_dispute",
		"demand_land_farm_issue",
		"demand_police_brutality",
		"demand_political_behavior",
		"demand_price_increases",
		"demand_removal_of_politician",
	}

	if len(Demands) != len(expected) {
		t.Fatalf("Expected %d demands, got %d", len(expected), len(Demands))
	}
	for i, d := range expected {
		if Demands[i] != d {
			t.Errorf("Demands[%d] = %s, want %s", i, Demands[i], d)
		}
		if Demands[i].Label() == "" || Demands[i].Description() == "" {
			t.Errorf("Demand %s has no label or description", d)
		}
	}
}

// TestViolenceSlugs tests the file name fragments of the violence categories
func TestViolenceSlugs(t *testing.T) {
	tests := map[ViolenceKind]string{
		ViolenceNone:      "protests_with_non-violent_protesters",
		ViolenceProtester: "protests_with_protester_violence",
		ViolenceState:     "protests_with_state_violence",
		ViolenceBoth:      "protests_with_both_state_and_protester_violence",
	}

	for kind, want := range tests {
		if got := kind.Slug(); got != want {
			t.Errorf("%s.Slug() = %s, want %s", kind, got, want)
		}
	}
}

// TestParseViolenceKind tests identifiers and labels
func TestParseViolenceKind(t *testing.T) {
	if kind, err := ParseViolenceKind("State Violence"); err != nil || kind != ViolenceState {
		t.Errorf("Expected state violence, got %s (%v)", kind, err)
	}
	if kind, err := ParseViolenceKind("both_violence"); err != nil || kind != ViolenceBoth {
		t.Errorf("Expected both violence, got %s (%v)", kind, err)
	}
	if _, err := ParseViolenceKind("riot"); err == nil {
		t.Error("Expected error for unknown category")
	}
}

// TestMatchesViolence tests the four violence categories
func TestMatchesViolence(t *testing.T) {
	calm := ProtestEvent{}
	violent := ProtestEvent{ProtesterViolence: 1}
	unknown := ProtestEvent{ProtesterViolence: -99, ResponseBeatings: 1}
	repressed := ProtestEvent{ResponseShootings: 1}
	clash := ProtestEvent{ProtesterViolence: 1, ResponseBeatings: 1, ResponseKillings: 1}

	tests := []struct {
		name  string
		event ProtestEvent
		want  map[ViolenceKind]bool
	}{
		{"calm", calm, map[ViolenceKind]bool{ViolenceNone: true}},
		{"protester violence", violent, map[ViolenceKind]bool{ViolenceProtester: true}},
		{"state violence", repressed, map[ViolenceKind]bool{ViolenceNone: true, ViolenceState: true}},
		{"unknown protester violence", unknown, map[ViolenceKind]bool{ViolenceState: true}},
		{"both", clash, map[ViolenceKind]bool{ViolenceProtester: true, ViolenceState: true, ViolenceBoth: true}},
	}

	for _, tt := range tests {
		for _, kind := range ViolenceKinds {
			if got := tt.event.MatchesViolence(kind); got != tt.want[kind] {
				t.Errorf("%s: MatchesViolence(%s) = %v, want %v", tt.name, kind, got, tt.want[kind])
			}
		}
	}
}

// TestCanonicalRegion tests the North America aliases
func TestCanonicalRegion(t *testing.T) {
	tests := map[string]string{
		CanadaFormLabel:      CanadaRegion,
		CanadaDashboardLabel: CanadaRegion,
		CanadaRegion:         CanadaRegion,
		"Africa":             "Africa",
		"Atlantis":           "Atlantis",
	}

	for input, want := range tests {
		if got := CanonicalRegion(input); got != want {
			t.Errorf("CanonicalRegion(%q) = %q, want %q", input, got, want)
		}
	}
}
