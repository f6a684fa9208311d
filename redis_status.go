package catchment

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// statusNames maps between stored values and JobStatus
var statusNames = map[string]JobStatus{
	"in_progress":         STATUS_IN_PROGRESS,
	"success":             STATUS_SUCCESS,
	"failure":             STATUS_FAILURE,
	"disconnected_origin": STATUS_DISCONNECTED_ORIGIN,
}

// RedisStatusStore is a JobStatusStore over a shared Redis instance, letting
// external pollers observe job progress across worker processes
type RedisStatusStore struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisStatusStore returns a status store over given Redis address
func NewRedisStatusStore(addr string) *RedisStatusStore {
	return &RedisStatusStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ctx:    context.Background(),
	}
}

// SetStatus implements JobStatusStore
func (s *RedisStatusStore) SetStatus(jobID string, status JobStatus) error {
	if err := s.client.Set(s.ctx, jobID, status.String(), 0).Err(); err != nil {
		return errors.Wrap(err, "Can't write job status")
	}
	return nil
}

// GetStatus implements JobStatusStore
func (s *RedisStatusStore) GetStatus(jobID string) (JobStatus, error) {
	value, err := s.client.Get(s.ctx, jobID).Result()
	if err == redis.Nil {
		return JobStatus(0), errors.Wrapf(ErrUnknownJob, "job '%s'", jobID)
	}
	if err != nil {
		return JobStatus(0), errors.Wrap(err, "Can't read job status")
	}
	status, ok := statusNames[value]
	if !ok {
		return JobStatus(0), errors.Errorf("malformed job status '%s'", value)
	}
	return status, nil
}

// Close releases the underlying Redis connection
func (s *RedisStatusStore) Close() error {
	return s.client.Close()
}
