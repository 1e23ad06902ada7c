package models

import (
	"fmt"
)

// Scope selects the column a trend is filtered on
type Scope string

const (
	ScopeRegional Scope = "regional"
	ScopeCountry  Scope = "country"
)

// ParseScope accepts "regional"/"region" and "country"
func ParseScope(s string) (Scope, error) {
	switch s {
	case "regional", "region":
		return ScopeRegional, nil
	case "country":
		return ScopeCountry, nil
	}
	return "", fmt.Errorf("unknown scope: %q", s)
}

// Topic is one tab of the regional/country views
type Topic string

const (
	TopicProtestDays  Topic = "protest_days"
	TopicParticipants Topic = "participants"
	TopicDemands      Topic = "demands"
	TopicViolence     Topic = "violence"
)

// ChartType is echoed back to the renderer
type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
)

// Metric column names of the aggregated series
const (
	MetricProtestDuration = "protest_duration"
	MetricParticipants    = "participants_numeric"
	MetricProtestsCount   = "protests_count"
)

// TrendQuery selects one aggregated series
type TrendQuery struct {
	Scope    Scope        `json:"scope"`
	Name     string       `json:"name"`
	FromYear int          `json:"from_year"`
	ToYear   int          `json:"to_year"`
	Topic    Topic        `json:"topic"`
	Demand   Demand       `json:"demand,omitempty"`
	Violence ViolenceKind `json:"violence,omitempty"`
	Chart    ChartType    `json:"chart,omitempty"`
}

// Validate checks that the query names a complete selection
func (q *TrendQuery) Validate() error {
	if q.Scope != ScopeRegional && q.Scope != ScopeCountry {
		return fmt.Errorf("invalid scope: %q", q.Scope)
	}
	if q.Name == "" {
		return fmt.Errorf("name is required")
	}
	if q.FromYear > q.ToYear {
		return fmt.Errorf("from year %d is after to year %d", q.FromYear, q.ToYear)
	}
	switch q.Topic {
	case TopicProtestDays, TopicParticipants:
	case TopicDemands:
		if _, err := ParseDemand(string(q.Demand)); err != nil {
			return err
		}
	case TopicViolence:
		if _, err := ParseViolenceKind(string(q.Violence)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid topic: %q", q.Topic)
	}
	switch q.Chart {
	case "", ChartBar, ChartLine:
	default:
		return fmt.Errorf("invalid chart type: %q", q.Chart)
	}
	return nil
}

// SeriesPoint is one (year, value) row of an aggregated series
type SeriesPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// TrendSeries is an aggregated series ready to be charted or exported
type TrendSeries struct {
	Scope       Scope         `json:"scope"`
	Name        string        `json:"name"`
	Topic       Topic         `json:"topic"`
	Title       string        `json:"title"`
	Metric      string        `json:"metric"`
	MetricLabel string        `json:"metric_label"`
	Chart       ChartType     `json:"chart"`
	FromYear    int           `json:"from_year"`
	ToYear      int           `json:"to_year"`
	FileName    string        `json:"file_name"`
	Points      []SeriesPoint `json:"points"`
}

// CountryCount is the number of protests recorded for a country
type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"protests_count"`
}

// DatasetSummary describes the loaded dataset
type DatasetSummary struct {
	Events            int     `json:"events"`
	Countries         int     `json:"countries"`
	Regions           int     `json:"regions"`
	MinYear           int     `json:"min_year"`
	MaxYear           int     `json:"max_year"`
	DefaultToYear     int     `json:"default_to_year"`
	TotalParticipants float64 `json:"total_participants"`
	MeanParticipants  float64 `json:"mean_participants"`
	MeanDuration      float64 `json:"mean_protest_duration"`
}
