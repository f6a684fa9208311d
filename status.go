package catchment

import (
	"sync"

	"github.com/pkg/errors"
)

// JobStatus represents processing state of a catchment area job
type JobStatus uint8

const (
	STATUS_IN_PROGRESS = JobStatus(iota + 1)
	STATUS_SUCCESS
	STATUS_FAILURE
	STATUS_DISCONNECTED_ORIGIN
)

func (iotaIdx JobStatus) String() string {
	return [...]string{"in_progress", "success", "failure", "disconnected_origin"}[iotaIdx-1]
}

// Terminal reports whether the status can never change again
func (s JobStatus) Terminal() bool {
	return s != STATUS_IN_PROGRESS
}

// ErrUnknownJob marks a status lookup for a job id never seen by the store
var ErrUnknownJob = errors.New("unknown job id")

// JobStatusStore is the narrow key/value collaborator tracking job status.
// The pipeline writes exactly one terminal status per job.
type JobStatusStore interface {
	SetStatus(jobID string, status JobStatus) error
	GetStatus(jobID string) (JobStatus, error)
}

// MemoryStatusStore is an in-process JobStatusStore
type MemoryStatusStore struct {
	mu       sync.RWMutex
	statuses map[string]JobStatus
}

// NewMemoryStatusStore returns an empty in-process status store
func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{
		statuses: make(map[string]JobStatus),
	}
}

// SetStatus implements JobStatusStore
func (s *MemoryStatusStore) SetStatus(jobID string, status JobStatus) error {
	s.mu.Lock()
	s.statuses[jobID] = status
	s.mu.Unlock()
	return nil
}

// GetStatus implements JobStatusStore
func (s *MemoryStatusStore) GetStatus(jobID string) (JobStatus, error) {
	s.mu.RLock()
	status, ok := s.statuses[jobID]
	s.mu.RUnlock()
	if !ok {
		return JobStatus(0), errors.Wrapf(ErrUnknownJob, "job '%s'", jobID)
	}
	return status, nil
}
