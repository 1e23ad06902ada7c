package queue

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

// Queue provides in-memory export job queue operations with priority support
type Queue struct {
	mu     sync.RWMutex
	pq     *PriorityQueue
	jobs   map[string]*models.ExportJob
	seq    uint64
	notify chan struct{}
}

// NewQueue creates a new in-memory queue instance
func NewQueue() *Queue {
	pq := make(PriorityQueue, 0)
	heap.Init(&pq)

	return &Queue{
		pq:     &pq,
		jobs:   make(map[string]*models.ExportJob),
		notify: make(chan struct{}, 1),
	}
}

// Enqueue adds an export job to the queue
func (q *Queue) Enqueue(job *models.ExportJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.jobs[job.ID]; exists {
		return fmt.Errorf("export job already queued: %s", job.ID)
	}

	q.seq++
	heap.Push(q.pq, &PriorityQueueItem{
		JobID:    job.ID,
		Priority: job.Priority,
		Sequence: q.seq,
	})
	q.jobs[job.ID] = job
	q.signal()

	return nil
}

// Dequeue retrieves the next export job, or nil when the queue is empty
func (q *Queue) Dequeue() (*models.ExportJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.pq.Len() == 0 {
		return nil, nil
	}

	item := heap.Pop(q.pq).(*PriorityQueueItem)
	job, ok := q.jobs[item.JobID]
	if !ok {
		return nil, fmt.Errorf("export job data not found: %s", item.JobID)
	}

	// Wake another waiter while work remains
	if q.pq.Len() > 0 {
		q.signal()
	}

	// Kept in q.jobs for status tracking until Remove
	return job, nil
}

// DequeueWait blocks until a job is available or ctx is done
func (q *Queue) DequeueWait(ctx context.Context) (*models.ExportJob, error) {
	for {
		job, err := q.Dequeue()
		if err != nil || job != nil {
			return job, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.notify:
		}
	}
}

func (q *Queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// GetExportJob returns a copy of a tracked export job
func (q *Queue) GetExportJob(jobID string) (models.ExportJob, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	job, ok := q.jobs[jobID]
	if !ok {
		return models.ExportJob{}, fmt.Errorf("export job not found: %s", jobID)
	}

	return *job, nil
}

// UpdateExportJobStatus updates the status of a tracked export job and
// returns a copy of it
func (q *Queue) UpdateExportJobStatus(jobID string, status models.ExportJobStatus, errorMsg string) (models.ExportJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[jobID]
	if !ok {
		return models.ExportJob{}, fmt.Errorf("export job not found: %s", jobID)
	}

	job.Status = status
	if errorMsg != "" {
		job.ErrorMessage = errorMsg
	}

	now := time.Now().UTC()
	switch status {
	case models.ExportJobStatusRunning:
		job.StartedAt = &now
	case models.ExportJobStatusCompleted, models.ExportJobStatusFailed:
		job.CompletedAt = &now
	}

	return *job, nil
}

// Remove stops tracking a finished job
func (q *Queue) Remove(jobID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.jobs, jobID)
}

// QueueLength returns the number of jobs waiting to be dequeued
func (q *Queue) QueueLength() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.pq.Len()
}

// PriorityQueueItem represents an item in the priority queue
type PriorityQueueItem struct {
	JobID    string
	Priority int    // Higher value = served first
	Sequence uint64 // FIFO among equal priorities
	index    int
}

// PriorityQueue implements heap.Interface
type PriorityQueue []*PriorityQueueItem

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].Priority != pq[j].Priority {
		return pq[i].Priority > pq[j].Priority
	}
	return pq[i].Sequence < pq[j].Sequence
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*PriorityQueueItem)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.index = -1 // for safety
	*pq = old[0 : n-1]
	return item
}
