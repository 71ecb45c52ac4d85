package queue

import (
	"context"
	"errors"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
	"github.com/dmitrymomot/letterpress/pkg/logger"
	"github.com/dmitrymomot/letterpress/pkg/pdf"
)

// Dispatcher sends one letter. *dispatch.Dispatcher satisfies it.
type Dispatcher interface {
	Send(ctx context.Context, req dispatch.SendRequest) (*pdf.Document, error)
}

type sendWorker struct {
	river.WorkerDefaults[SendArgs]
	dispatcher Dispatcher
	logger     *slog.Logger
}

func (w *sendWorker) Work(ctx context.Context, job *river.Job[SendArgs]) error {
	ctx = logger.WithContextID(ctx, job.Args.ContextID)
	ctx = logger.WithReference(ctx, job.Args.Reference)

	req, err := job.Args.Request()
	if err != nil {
		w.logger.WarnContext(ctx, "letter job cancelled",
			slog.Int64("job_id", job.ID),
			slog.Any("error", err),
		)
		return river.JobCancel(err)
	}

	w.logger.DebugContext(ctx, "sending letter",
		slog.Int64("job_id", job.ID),
		slog.Int("attempt", job.Attempt),
	)

	doc, err := w.dispatcher.Send(ctx, req)
	if err != nil {
		// Input errors fail the same way on every attempt.
		if errors.Is(err, dispatch.ErrInvalidInput) {
			return river.JobCancel(err)
		}
		return err
	}
	if err := doc.Close(); err != nil {
		w.logger.WarnContext(ctx, "failed to release letter", slog.Any("error", err))
	}

	w.logger.DebugContext(ctx, "letter sent", slog.Int64("job_id", job.ID))
	return nil
}
