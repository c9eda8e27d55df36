package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/logiparts/logiparts-admin/internal/catalog/bulk"
	jobmetrics "github.com/logiparts/logiparts-admin/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBulkUpload sends a stored spreadsheet to the catalog import endpoint.
	TaskBulkUpload = "bulk:upload"
)

// BulkUploadPayload identifies the stored job to process.
type BulkUploadPayload struct {
	JobID string `json:"job_id"`
}

// NewBulkUploadTask constructs the Asynq task. An import runs at most once:
// a failure is recorded on the job and shown to the admin, never retried.
func NewBulkUploadTask(payload BulkUploadPayload) (*asynq.Task, error) {
	if payload.JobID == "" {
		return nil, errors.New("bulk upload: job id required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBulkUpload, data, asynq.Queue(QueueDefault), asynq.MaxRetry(0)), nil
}

// BulkProcessor runs one stored bulk upload.
type BulkProcessor interface {
	Process(ctx context.Context, id string) (bulk.Result, error)
}

// BulkUploadJob handles TaskBulkUpload.
type BulkUploadJob struct {
	Processor BulkProcessor
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewBulkUploadJob initialises the bulk upload handler.
func NewBulkUploadJob(processor BulkProcessor, logger *slog.Logger, metrics *jobmetrics.Metrics) *BulkUploadJob {
	return &BulkUploadJob{Processor: processor, Logger: logger, Metrics: metrics}
}

// Handle processes TaskBulkUpload tasks.
func (j *BulkUploadJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Processor == nil {
		return errors.New("bulk upload: handler not configured")
	}
	var payload BulkUploadPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.JobID == "" {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskBulkUpload)
	logger := j.logger().With(slog.String("job_id", payload.JobID))
	logger.Info("starting bulk upload")

	result, err := j.Processor.Process(ctx, payload.JobID)
	if err != nil {
		logger.Error("bulk upload failed", slog.Any("error", err))
		return tracker.End(fmt.Errorf("bulk upload %s: %v: %w", payload.JobID, err, asynq.SkipRetry))
	}
	j.Metrics.AddRows("success", result.Success)
	j.Metrics.AddRows("error", len(result.Errors))
	return tracker.End(nil)
}

func (j *BulkUploadJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
