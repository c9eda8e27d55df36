package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logiparts/logiparts-admin/internal/catalog/bulk"
	jobmetrics "github.com/logiparts/logiparts-admin/internal/jobs"
)

type stubProcessor struct {
	result bulk.Result
	err    error
	ids    []string
}

func (s *stubProcessor) Process(ctx context.Context, id string) (bulk.Result, error) {
	s.ids = append(s.ids, id)
	return s.result, s.err
}

func TestNewBulkUploadTask(t *testing.T) {
	task, err := NewBulkUploadTask(BulkUploadPayload{JobID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, TaskBulkUpload, task.Type())
	var payload BulkUploadPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "abc", payload.JobID)

	_, err = NewBulkUploadTask(BulkUploadPayload{})
	assert.Error(t, err)
}

func TestBulkUploadJobRunsProcessor(t *testing.T) {
	processor := &stubProcessor{result: bulk.Result{Total: 3, Success: 2, Errors: []string{"fila 2"}}}
	job := NewBulkUploadJob(processor, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
	task, err := NewBulkUploadTask(BulkUploadPayload{JobID: "job-1"})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, []string{"job-1"}, processor.ids)
}

func TestBulkUploadJobNeverRetries(t *testing.T) {
	processor := &stubProcessor{err: errors.New("Archivo corrupto")}
	job := NewBulkUploadJob(processor, nil, nil)
	task, err := NewBulkUploadTask(BulkUploadPayload{JobID: "job-2"})
	require.NoError(t, err)

	err = job.Handle(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Contains(t, err.Error(), "Archivo corrupto")
}

func TestBulkUploadJobRejectsBadPayload(t *testing.T) {
	processor := &stubProcessor{}
	job := NewBulkUploadJob(processor, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskBulkUpload, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, processor.ids)

	var unset *BulkUploadJob
	assert.Error(t, unset.Handle(context.Background(), asynq.NewTask(TaskBulkUpload, nil)))
}

func TestNewWorkerNeedsHandlers(t *testing.T) {
	_, err := NewWorker(WorkerConfig{RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"}})
	assert.Error(t, err)
}

func TestHealthWithoutInspector(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(nil, nil).MountRoutes(r)

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0,"active":0,"failed":0}`, res.Body.String())
}
