package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
)

// Queue enqueues and works asynchronous letter sends.
type Queue struct {
	pool   *pgxpool.Pool
	client *river.Client[pgx.Tx]
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	started bool
}

// Option configures a Queue.
type Option func(*Queue)

// WithConfig sets the queue configuration.
func WithConfig(cfg Config) Option {
	return func(q *Queue) { q.cfg = cfg }
}

// WithLogger sets the logger shared with River.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) {
		if l != nil {
			q.logger = l
		}
	}
}

// New creates a queue. Jobs can be enqueued before Start.
func New(pool *pgxpool.Pool, d Dispatcher, opts ...Option) (*Queue, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}
	if d == nil {
		return nil, ErrDispatcherRequired
	}

	q := &Queue{
		pool:   pool,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.cfg.applyDefaults()

	workers := river.NewWorkers()
	river.AddWorker(workers, &sendWorker{dispatcher: d, logger: q.logger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			q.cfg.Name: {MaxWorkers: q.cfg.MaxWorkers},
		},
		Workers:     workers,
		MaxAttempts: q.cfg.MaxAttempts,
		Logger:      q.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("queue: create client: %w", err)
	}
	q.client = client
	return q, nil
}

// Migrate creates or upgrades River's tables.
func (q *Queue) Migrate(ctx context.Context) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(q.pool), &rivermigrate.Config{Logger: q.logger})
	if err != nil {
		return fmt.Errorf("queue: create migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("queue: migrate: %w", err)
	}
	if len(res.Versions) > 0 {
		q.logger.InfoContext(ctx, "queue migrations applied", slog.Int("count", len(res.Versions)))
	}
	return nil
}

// Job identifies an enqueued send.
type Job struct {
	ID        int64
	ContextID string
}

// Enqueue stores req for asynchronous sending. A context ID is assigned
// when the request has none, so callers can correlate later logs.
func (q *Queue) Enqueue(ctx context.Context, req dispatch.SendRequest) (Job, error) {
	if req.ContextID == "" {
		req.ContextID = uuid.NewString()
	}
	res, err := q.client.Insert(ctx, NewSendArgs(req), &river.InsertOpts{
		Queue:       q.cfg.Name,
		MaxAttempts: q.cfg.MaxAttempts,
	})
	if err != nil {
		return Job{}, fmt.Errorf("queue: enqueue: %w", err)
	}
	return Job{ID: res.Job.ID, ContextID: req.ContextID}, nil
}

// Start begins working jobs.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return ErrAlreadyStarted
	}
	if err := q.client.Start(ctx); err != nil {
		return fmt.Errorf("queue: start client: %w", err)
	}
	q.started = true
	q.logger.Info("letter queue started",
		slog.String("queue", q.cfg.Name),
		slog.Int("max_workers", q.cfg.MaxWorkers),
	)
	return nil
}

// Stop waits for running jobs to finish.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.started {
		return ErrNotStarted
	}
	if err := q.client.Stop(ctx); err != nil {
		return fmt.Errorf("queue: stop client: %w", err)
	}
	q.started = false
	q.logger.Info("letter queue stopped")
	return nil
}
