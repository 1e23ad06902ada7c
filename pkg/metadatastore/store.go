package metadatastore

import (
	"errors"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// MetadataStore is the interface for service metadata persistence.
// It keeps the prediction history and the state of export jobs; the
// protest dataset itself is read from its CSV file.
type MetadataStore interface {
	// Prediction history
	SavePrediction(record *models.PredictionRecord) error
	GetPrediction(id string) (*models.PredictionRecord, error)
	ListPredictions(limit int) ([]*models.PredictionRecord, error)
	CountPredictionsByLabel() (map[string]int, error)

	// Export jobs
	SaveExportJob(job *models.ExportJob) error
	GetExportJob(id string) (*models.ExportJob, error)
	ListExportJobs(limit int) ([]*models.ExportJob, error)
	ListExportJobsByStatus(status models.ExportJobStatus) ([]*models.ExportJob, error)

	Close() error
}
