// Package exporter runs server-side CSV exports of dashboard selections
// on a pool of worker goroutines.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/dataset"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/metadatastore"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/metrics"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/queue"
)

// ErrInvalidRequest wraps export requests rejected before queueing
var ErrInvalidRequest = errors.New("invalid export request")

// Options configures a Service
type Options struct {
	ExportDir      string
	Workers        int
	DefaultEndYear int
}

// Service accepts export jobs, queues them and writes their files
type Service struct {
	queue    *queue.Queue
	store    metadatastore.MetadataStore
	datasets *dataset.Store
	metrics  *metrics.Metrics
	logger   *zap.Logger
	opts     Options

	wg     sync.WaitGroup
	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewService creates an export service. metrics may be nil.
func NewService(store metadatastore.MetadataStore, datasets *dataset.Store, m *metrics.Metrics, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Service{
		queue:    queue.NewQueue(),
		store:    store,
		datasets: datasets,
		metrics:  m,
		logger:   logger.Named("exporter"),
		opts:     opts,
	}
}

// Submit validates a request, records the job as queued and enqueues it
func (s *Service) Submit(req *models.ExportJobRequest) (*models.ExportJob, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	ds := s.datasets.Current()
	from, to := ds.DefaultYearRange(s.opts.DefaultEndYear)
	if req.FromYear != 0 {
		from = req.FromYear
	}
	if req.ToYear != 0 {
		to = req.ToYear
	}
	if from > to {
		return nil, fmt.Errorf("%w: from_year %d is after to_year %d", ErrInvalidRequest, from, to)
	}
	if _, err := ds.Select(dataset.Filter{Scope: req.Scope, Name: req.Name, FromYear: from, ToYear: to}); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	job := &models.ExportJob{
		ID:          id,
		Status:      models.ExportJobStatusQueued,
		Priority:    req.Priority,
		Scope:       req.Scope,
		Name:        req.Name,
		FromYear:    from,
		ToYear:      to,
		OutputDir:   filepath.Join(s.opts.ExportDir, id),
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.store.SaveExportJob(job); err != nil {
		return nil, err
	}
	snapshot := *job
	if err := s.queue.Enqueue(job); err != nil {
		return nil, fmt.Errorf("failed to enqueue export job: %w", err)
	}

	s.logger.Info("export job queued",
		zap.String("export_id", id),
		zap.String("scope", string(req.Scope)),
		zap.String("name", req.Name))
	return &snapshot, nil
}

// Get returns the persisted state of a job
func (s *Service) Get(id string) (*models.ExportJob, error) {
	return s.store.GetExportJob(id)
}

// QueueLength returns the number of jobs waiting for a worker
func (s *Service) QueueLength() int {
	return s.queue.QueueLength()
}

// Start re-queues jobs left unfinished by a previous run and launches the workers
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return fmt.Errorf("export service already started")
	}

	if err := s.resume(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for i := 0; i < s.opts.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("export workers started", zap.Int("workers", s.opts.Workers))
	return nil
}

// Stop cancels the workers and waits for running jobs to finish
func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("export workers stopped")
}

func (s *Service) resume() error {
	for _, status := range []models.ExportJobStatus{models.ExportJobStatusRunning, models.ExportJobStatusQueued} {
		jobs, err := s.store.ListExportJobsByStatus(status)
		if err != nil {
			return fmt.Errorf("failed to list unfinished export jobs: %w", err)
		}
		for _, job := range jobs {
			job.Status = models.ExportJobStatusQueued
			job.StartedAt = nil
			if err := s.store.SaveExportJob(job); err != nil {
				return err
			}
			if err := s.queue.Enqueue(job); err != nil {
				s.logger.Warn("failed to re-queue export job", zap.String("export_id", job.ID), zap.Error(err))
				continue
			}
			s.logger.Info("export job re-queued", zap.String("export_id", job.ID))
		}
	}
	return nil
}

func (s *Service) worker(ctx context.Context, n int) {
	defer s.wg.Done()
	logger := s.logger.With(zap.Int("worker", n))

	for {
		job, err := s.queue.DequeueWait(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		if err != nil {
			logger.Error("failed to dequeue export job", zap.Error(err))
			continue
		}
		s.process(job, logger)
	}
}

// process runs one job through running to completed or failed
func (s *Service) process(job *models.ExportJob, logger *zap.Logger) {
	defer s.queue.Remove(job.ID)

	running, err := s.queue.UpdateExportJobStatus(job.ID, models.ExportJobStatusRunning, "")
	if err != nil {
		logger.Error("failed to mark export job running", zap.String("export_id", job.ID), zap.Error(err))
		return
	}
	if err := s.store.SaveExportJob(&running); err != nil {
		logger.Warn("failed to persist export job", zap.String("export_id", job.ID), zap.Error(err))
	}

	start := time.Now()
	files, exportErr := s.datasets.Current().ExportSelection(job.OutputDir, job.Scope, job.Name, job.FromYear, job.ToYear, s.opts.DefaultEndYear)

	status, message := models.ExportJobStatusCompleted, ""
	if exportErr != nil {
		status, message = models.ExportJobStatusFailed, exportErr.Error()
	}
	final, err := s.queue.UpdateExportJobStatus(job.ID, status, message)
	if err != nil {
		logger.Error("failed to finish export job", zap.String("export_id", job.ID), zap.Error(err))
		return
	}
	final.Files = files
	if err := s.store.SaveExportJob(&final); err != nil {
		logger.Warn("failed to persist export job", zap.String("export_id", job.ID), zap.Error(err))
	}

	if s.metrics != nil {
		s.metrics.ExportJobs.WithLabelValues(string(status)).Inc()
	}

	if exportErr != nil {
		logger.Error("export job failed", zap.String("export_id", job.ID), zap.Error(exportErr))
		return
	}
	logger.Info("export job completed",
		zap.String("export_id", job.ID),
		zap.Int("files", len(files)),
		zap.Duration("duration", time.Since(start)))
}
