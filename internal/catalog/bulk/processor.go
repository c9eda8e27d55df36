package bulk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

// Processor sends a parked file to the import endpoint and records the
// outcome on the job.
type Processor struct {
	client *apiclient.Client
	store  *Store
	logger *slog.Logger
}

// NewProcessor constructs a Processor.
func NewProcessor(client *apiclient.Client, store *Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{client: client, store: store, logger: logger}
}

// Process runs job id once. A rejected or unreachable import is recorded as
// a failed job and also returned, so the caller does not retry blindly.
func (p *Processor) Process(ctx context.Context, id string) (Result, error) {
	job, err := p.store.Get(ctx, "", id)
	if err != nil {
		return Result{}, err
	}
	data, err := p.store.File(ctx, id)
	if err != nil {
		return Result{}, p.fail(ctx, id, err)
	}

	form := apiclient.NewMultipart().AddFile(apiclient.File{
		Field:    FileField,
		Filename: job.Filename,
		Data:     data,
	})
	var result Result
	if err := p.client.PostForm(ctx, "/bulk/upload", form, &result); err != nil {
		return Result{}, p.fail(ctx, id, err)
	}
	if err := p.store.Complete(ctx, id, result); err != nil {
		return Result{}, err
	}
	p.logger.Info("bulk upload processed",
		slog.String("job", id),
		slog.Int("total", result.Total),
		slog.Int("success", result.Success),
		slog.Int("errors", len(result.Errors)))
	return result, nil
}

func (p *Processor) fail(ctx context.Context, id string, cause error) error {
	p.logger.Error("bulk upload failed", slog.String("job", id), slog.Any("error", cause))
	if err := p.store.Fail(ctx, id, internalShared.UserMessage(cause)); err != nil {
		return fmt.Errorf("bulk: record failure: %w", err)
	}
	return cause
}
