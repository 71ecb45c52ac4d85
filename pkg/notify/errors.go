package notify

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAPIKey  = errors.New("notify: invalid api key")
	ErrEmptyReference = errors.New("notify: reference is required")
	ErrRequestFailed  = errors.New("notify: request failed")
	ErrRejected       = errors.New("notify: letter rejected")
	ErrUnauthorized   = errors.New("notify: unauthorized")
	ErrRateLimited    = errors.New("notify: rate limited")
	ErrBadResponse    = errors.New("notify: malformed response")
)

// APIError is an error reported by the Notify API.
type APIError struct {
	StatusCode int
	Errors     []ErrorItem
}

// ErrorItem is one entry of an error response.
type ErrorItem struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		msgs = append(msgs, item.Error+": "+item.Message)
	}
	if len(msgs) == 0 {
		return fmt.Sprintf("notify: status %d", e.StatusCode)
	}
	return fmt.Sprintf("notify: status %d: %s", e.StatusCode, strings.Join(msgs, "; "))
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return ErrUnauthorized
	case e.StatusCode == 429:
		return ErrRateLimited
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return ErrRejected
	default:
		return ErrRequestFailed
	}
}
