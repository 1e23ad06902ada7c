package models

import (
	"fmt"
	"time"
)

// ExportJobStatus represents the current status of an export job
type ExportJobStatus string

const (
	ExportJobStatusQueued    ExportJobStatus = "queued"
	ExportJobStatusRunning   ExportJobStatus = "running"
	ExportJobStatusCompleted ExportJobStatus = "completed"
	ExportJobStatusFailed    ExportJobStatus = "failed"
)

// ExportJob writes every topic CSV of one regional or country selection
// into its own directory under the export root.
type ExportJob struct {
	ID           string          `json:"export_id"`
	Status       ExportJobStatus `json:"status"`
	Priority     int             `json:"priority"`
	Scope        Scope           `json:"scope"`
	Name         string          `json:"name"`
	FromYear     int             `json:"from_year"`
	ToYear       int             `json:"to_year"`
	OutputDir    string          `json:"output_dir,omitempty"`
	Files        []string        `json:"files,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// ExportJobRequest represents a request to submit a new export job
type ExportJobRequest struct {
	Scope    Scope  `json:"scope"`
	Name     string `json:"name"`
	FromYear int    `json:"from_year"`
	ToYear   int    `json:"to_year"`
	Priority int    `json:"priority"`
}

// Validate checks if the ExportJobRequest is valid.
// Zero years are filled with the dataset defaults by the caller.
func (r *ExportJobRequest) Validate() error {
	if r.Scope != ScopeRegional && r.Scope != ScopeCountry {
		return fmt.Errorf("invalid scope: %q", r.Scope)
	}
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.FromYear != 0 && r.ToYear != 0 && r.FromYear > r.ToYear {
		return fmt.Errorf("from_year %d is after to_year %d", r.FromYear, r.ToYear)
	}
	if r.Priority < 0 {
		return fmt.Errorf("priority must not be negative")
	}
	return nil
}
