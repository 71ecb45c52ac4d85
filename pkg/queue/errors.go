package queue

import "errors"

var (
	// ErrPoolRequired is returned when no database pool is provided.
	ErrPoolRequired = errors.New("queue: pool is required")

	// ErrDispatcherRequired is returned when no dispatcher is provided.
	ErrDispatcherRequired = errors.New("queue: dispatcher is required")

	// ErrInvalidArgs is returned when job arguments cannot be turned into a request.
	ErrInvalidArgs = errors.New("queue: invalid job arguments")

	ErrAlreadyStarted = errors.New("queue: already started")
	ErrNotStarted     = errors.New("queue: not started")

	// ErrHealthcheckFailed is returned when the queue health check fails.
	ErrHealthcheckFailed = errors.New("queue: healthcheck failed")
)
