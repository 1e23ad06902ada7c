package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/dataset"
)

// RefreshStatus describes the last scheduled dataset reload
type RefreshStatus struct {
	Schedule string     `json:"schedule"`
	LastRun  *time.Time `json:"last_run,omitempty"`
	NextRun  *time.Time `json:"next_run,omitempty"`
	LastErr  string     `json:"last_error,omitempty"`
	Events   int        `json:"events"`
}

// Service reloads the protest dataset on a cron schedule
type Service struct {
	datasets *dataset.Store
	cron     *cron.Cron
	schedule string
	entryID  cron.EntryID
	onReload func(*dataset.Dataset)
	logger   *zap.Logger

	mu     sync.RWMutex
	status RefreshStatus
}

// NewService creates a refresh scheduler. onReload, when set, is called
// after every successful reload.
func NewService(datasets *dataset.Store, schedule string, onReload func(*dataset.Dataset), logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	return &Service{
		datasets: datasets,
		cron:     cron.New(),
		schedule: schedule,
		onReload: onReload,
		logger:   logger.Named("scheduler"),
		status:   RefreshStatus{Schedule: schedule},
	}, nil
}

// Start registers the refresh job and starts the scheduler
func (s *Service) Start() error {
	entryID, err := s.cron.AddFunc(s.schedule, s.Refresh)
	if err != nil {
		return fmt.Errorf("failed to schedule dataset refresh: %w", err)
	}
	s.entryID = entryID
	s.cron.Start()

	s.logger.Info("dataset refresh scheduled", zap.String("schedule", s.schedule))
	return nil
}

// Stop stops the scheduler and waits for a running refresh
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("dataset refresh scheduler stopped")
}

// Refresh reloads the dataset now. Failures keep the previous snapshot.
func (s *Service) Refresh() {
	now := time.Now().UTC()
	ds, err := s.datasets.Reload()

	s.mu.Lock()
	s.status.LastRun = &now
	if err != nil {
		s.status.LastErr = err.Error()
	} else {
		s.status.LastErr = ""
		s.status.Events = ds.Len()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("scheduled dataset refresh failed", zap.Error(err))
		return
	}
	if s.onReload != nil {
		s.onReload(ds)
	}
}

// Status returns the state of the last refresh and the next run time
func (s *Service) Status() RefreshStatus {
	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()

	if s.entryID != 0 {
		next := s.cron.Entry(s.entryID).Next
		if !next.IsZero() {
			status.NextRun = &next
		}
	}
	return status
}
