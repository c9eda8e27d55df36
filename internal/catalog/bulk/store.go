package bulk

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Status is the lifecycle of a queued import.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// ErrJobNotFound is returned for unknown, expired or foreign jobs.
var ErrJobNotFound = errors.New("bulk: job not found")

// Result is the API's summary of a processed file.
type Result struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Errors  []string `json:"errors"`
}

// Job is one queued import as the result page sees it.
type Job struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Filename  string    `json:"filename"`
	Rows      int       `json:"rows"`
	Verified  bool      `json:"verified"`
	Status    Status    `json:"status"`
	Result    *Result   `json:"result,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps jobs and their files in Redis until the TTL lapses.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore constructs a Store. A zero ttl keeps jobs for a day.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

func jobKey(id string) string  { return "bulk:job:" + id }
func fileKey(id string) string { return "bulk:file:" + id }

func newJobID() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Create records a pending job and parks its file for the worker.
func (s *Store) Create(ctx context.Context, job Job, data []byte) (Job, error) {
	id, err := newJobID()
	if err != nil {
		return Job{}, fmt.Errorf("bulk: job id: %w", err)
	}
	job.ID = id
	job.Status = StatusPending
	payload, err := json.Marshal(job)
	if err != nil {
		return Job{}, err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, jobKey(id), payload, s.ttl)
		pipe.Set(ctx, fileKey(id), data, s.ttl)
		return nil
	})
	if err != nil {
		return Job{}, err
	}
	return job, nil
}

// Get returns the job if owner created it. An empty owner skips the check.
func (s *Store) Get(ctx context.Context, owner, id string) (Job, error) {
	raw, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Job{}, ErrJobNotFound
	}
	if err != nil {
		return Job{}, err
	}
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return Job{}, err
	}
	if owner != "" && job.Owner != owner {
		return Job{}, ErrJobNotFound
	}
	return job, nil
}

// File returns the parked spreadsheet of a job.
func (s *Store) File(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, fileKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	return data, err
}

// Complete stores the API summary and drops the file.
func (s *Store) Complete(ctx context.Context, id string, result Result) error {
	return s.finish(ctx, id, func(job *Job) {
		job.Status = StatusDone
		job.Result = &result
	})
}

// Fail stores the failure message shown to the admin and drops the file.
func (s *Store) Fail(ctx context.Context, id, message string) error {
	return s.finish(ctx, id, func(job *Job) {
		job.Status = StatusFailed
		job.Message = message
	})
}

func (s *Store) finish(ctx context.Context, id string, update func(*Job)) error {
	job, err := s.Get(ctx, "", id)
	if err != nil {
		return err
	}
	update(&job)
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, jobKey(id), payload, s.ttl)
		pipe.Del(ctx, fileKey(id))
		return nil
	})
	return err
}
