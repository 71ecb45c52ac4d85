package queue

import (
	"context"
	"errors"
)

var (
	errQueueNil        = errors.New("queue is nil")
	errQueueNotStarted = errors.New("queue not started")
)

// Healthcheck reports whether the queue is started and its database reachable.
func Healthcheck(q *Queue) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if q == nil {
			return errors.Join(ErrHealthcheckFailed, errQueueNil)
		}

		q.mu.Lock()
		started := q.started
		q.mu.Unlock()

		if !started {
			return errors.Join(ErrHealthcheckFailed, errQueueNotStarted)
		}
		if err := q.pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
