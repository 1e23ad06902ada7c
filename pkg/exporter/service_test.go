package exporter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/dataset"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/metadatastore"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/metrics"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

func testEvents() []models.ProtestEvent {
	event := func(year int, country, region string, days, people float64) models.ProtestEvent {
		return models.ProtestEvent{
			Year:            year,
			Country:         country,
			Region:          region,
			ProtestDuration: days,
			Participants:    people,
			Demands:         map[models.Demand]bool{models.DemandLaborWageDispute: true},
		}
	}
	return []models.ProtestEvent{
		event(1990, "Kenya", "Africa", 1, 100),
		event(1991, "Kenya", "Africa", 2, 300),
		event(1992, "France", "Europe", 0, 50),
	}
}

func setupService(t *testing.T) (*Service, *metadatastore.SQLiteStore, *metrics.Metrics) {
	t.Helper()
	dir := t.TempDir()

	store, err := metadatastore.NewSQLiteStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m := metrics.New()
	svc := NewService(store, dataset.NewStaticStore(dataset.New(testEvents())), m, zap.NewNop(), Options{
		ExportDir:      filepath.Join(dir, "exports"),
		Workers:        2,
		DefaultEndYear: 2020,
	})
	return svc, store, m
}

func waitForStatus(t *testing.T, svc *Service, id string, want models.ExportJobStatus) *models.ExportJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Get(id)
		require.NoError(t, err)
		if job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("export job %s did not reach status %s", id, want)
	return nil
}

func TestSubmitAndProcess(t *testing.T) {
	svc, _, m := setupService(t)
	require.NoError(t, svc.Start(context.Background()))
	defer svc.Stop()

	job, err := svc.Submit(&models.ExportJobRequest{Scope: models.ScopeRegional, Name: "Africa"})
	require.NoError(t, err)
	assert.Equal(t, models.ExportJobStatusQueued, job.Status)
	assert.Equal(t, 1990, job.FromYear)
	assert.Equal(t, 1992, job.ToYear)

	done := waitForStatus(t, svc, job.ID, models.ExportJobStatusCompleted)
	assert.Len(t, done.Files, 12)
	assert.NotNil(t, done.StartedAt)
	assert.NotNil(t, done.CompletedAt)

	data, err := os.ReadFile(filepath.Join(done.OutputDir, "regional_participants.csv"))
	require.NoError(t, err)
	assert.Equal(t, "year,participants_numeric\n1990,100\n1991,300\n", string(data))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportJobs.WithLabelValues("completed")))
}

func TestSubmitRejectsBadRequests(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Submit(&models.ExportJobRequest{Scope: models.ScopeCountry, Name: "Atlantis"})
	assert.True(t, errors.Is(err, dataset.ErrUnknownSelection))

	_, err = svc.Submit(&models.ExportJobRequest{Scope: "galaxy", Name: "Africa"})
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	_, err = svc.Submit(&models.ExportJobRequest{Scope: models.ScopeCountry, Name: "Kenya", FromYear: 2000, ToYear: 1990})
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestResumeUnfinishedJobs(t *testing.T) {
	svc, store, _ := setupService(t)

	stale := &models.ExportJob{
		ID:          "left-over",
		Status:      models.ExportJobStatusRunning,
		Scope:       models.ScopeCountry,
		Name:        "Kenya",
		FromYear:    1990,
		ToYear:      1991,
		OutputDir:   filepath.Join(t.TempDir(), "left-over"),
		SubmittedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveExportJob(stale))

	require.NoError(t, svc.Start(context.Background()))
	defer svc.Stop()

	done := waitForStatus(t, svc, "left-over", models.ExportJobStatusCompleted)
	assert.Contains(t, done.Files, "country_protest_days.csv")
}

func TestStartTwice(t *testing.T) {
	svc, _, _ := setupService(t)
	require.NoError(t, svc.Start(context.Background()))
	defer svc.Stop()
	assert.Error(t, svc.Start(context.Background()))
}

func TestGetMissingJob(t *testing.T) {
	svc, _, _ := setupService(t)
	_, err := svc.Get("missing")
	assert.True(t, errors.Is(err, metadatastore.ErrNotFound))
}
