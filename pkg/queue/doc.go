// Package queue sends letters asynchronously through River.
//
// A Queue stores SendArgs jobs in Postgres and works them with a dispatcher:
//
//	q, err := queue.New(pool, dispatcher, queue.WithConfig(cfg.Queue), queue.WithLogger(log))
//	if err := q.Migrate(ctx); err != nil { ... }
//	if err := q.Start(ctx); err != nil { ... }
//	defer q.Stop(context.Background())
//
//	job, err := q.Enqueue(ctx, req)
//
// Jobs run once unless Config.MaxAttempts is raised: a retried send may
// deliver the same letter twice. Input errors cancel the job outright.
package queue
