package models

import (
	"testing"
)

// TestParseScope tests scope aliases
func TestParseScope(t *testing.T) {
	for input, want := range map[string]Scope{"regional": ScopeRegional, "region": ScopeRegional, "country": ScopeCountry} {
		got, err := ParseScope(input)
		if err != nil || got != want {
			t.Errorf("ParseScope(%q) = %s, %v; want %s", input, got, err, want)
		}
	}
	if _, err := ParseScope("continent"); err == nil {
		t.Error("Expected error for unknown scope")
	}
}

// TestTrendQueryValidate tests selection completeness checks
func TestTrendQueryValidate(t *testing.T) {
	base := TrendQuery{Scope: ScopeCountry, Name: "Kenya", FromYear: 1990, ToYear: 2000, Topic: TopicParticipants}

	tests := []struct {
		name    string
		mutate  func(q *TrendQuery)
		wantErr bool
	}{
		{"valid", func(q *TrendQuery) {}, false},
		{"single year", func(q *TrendQuery) { q.ToYear = 1990 }, false},
		{"line chart", func(q *TrendQuery) { q.Chart = ChartLine }, false},
		{"demand", func(q *TrendQuery) { q.Topic = TopicDemands; q.Demand = DemandPriceIncreases }, false},
		{"violence", func(q *TrendQuery) { q.Topic = TopicViolence; q.Violence = ViolenceState }, false},
		{"bad scope", func(q *TrendQuery) { q.Scope = "planet" }, true},
		{"no name", func(q *TrendQuery) { q.Name = "" }, true},
		{"reversed years", func(q *TrendQuery) { q.FromYear = 2001 }, true},
		{"missing demand", func(q *TrendQuery) { q.Topic = TopicDemands }, true},
		{"missing violence", func(q *TrendQuery) { q.Topic = TopicViolence }, true},
		{"unknown topic", func(q *TrendQuery) { q.Topic = "weather" }, true},
		{"unknown chart", func(q *TrendQuery) { q.Chart = "pie" }, true},
	}

	for _, tt := range tests {
		q := base
		tt.mutate(&q)
		err := q.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

// TestExportJobRequestValidate tests export request checks
func TestExportJobRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     ExportJobRequest
		wantErr bool
	}{
		{"defaults", ExportJobRequest{Scope: ScopeRegional, Name: "Africa"}, false},
		{"explicit years", ExportJobRequest{Scope: ScopeCountry, Name: "Kenya", FromYear: 1990, ToYear: 1995, Priority: 2}, false},
		{"bad scope", ExportJobRequest{Scope: "galaxy", Name: "Africa"}, true},
		{"no name", ExportJobRequest{Scope: ScopeCountry}, true},
		{"reversed years", ExportJobRequest{Scope: ScopeCountry, Name: "Kenya", FromYear: 1995, ToYear: 1990}, true},
		{"negative priority", ExportJobRequest{Scope: ScopeCountry, Name: "Kenya", Priority: -1}, true},
	}

	for _, tt := range tests {
		err := tt.req.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
