package health

import "errors"

var (
	// ErrCheckFailed is returned by Checker.Check when one or more checks fail.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is reported for checks still running when the timeout expires.
	ErrCheckTimeout = errors.New("health: check timeout")
)
