package dispatch

import (
	"context"
	"errors"

	"github.com/dmitrymomot/letterpress/pkg/letter"
	"github.com/dmitrymomot/letterpress/pkg/localize"
	"github.com/dmitrymomot/letterpress/pkg/template"
)

// Error classes.
var (
	ErrInvalidInput = errors.New("dispatch: invalid input")
	ErrResource     = errors.New("dispatch: bundle resource failure")
	ErrCollaborator = errors.New("dispatch: collaborator failure")
	ErrNotFound     = errors.New("dispatch: letter not found")
	ErrConflict     = errors.New("dispatch: more than one letter stored for reference")
)

var ErrInvalidPostage = errors.New("dispatch: invalid postage class")

// inputErrors are caused by the request itself.
var inputErrors = []error{
	ErrInvalidPostage,
	template.ErrInvalidKey,
	template.ErrInvalidVersion,
	template.ErrTemplateNotRegistered,
	letter.ErrReservedField,
	letter.ErrMissingCompanyName,
	letter.ErrMissingReference,
	letter.ErrMissingOriginalDate,
	letter.ErrMissingVariables,
	letter.ErrInvalidPersonalisation,
	letter.ErrInvalidDate,
	localize.ErrMalformedDate,
	localize.ErrUnknownMonth,
}

// classify joins err with its class. Errors outside the known input set are
// resource failures, such as a template that does not render or a bundle file
// that does not load. Cancellation is returned unchanged.
func classify(err error) error {
	if err == nil || isClassified(err) || canceled(err) {
		return err
	}
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return errors.Join(ErrInvalidInput, err)
		}
	}
	return errors.Join(ErrResource, err)
}

// collaboratorError is a failure of a named external collaborator.
type collaboratorError struct {
	name string
	err  error
}

func (e *collaboratorError) Error() string { return e.name + ": " + e.err.Error() }

func (e *collaboratorError) Unwrap() []error { return []error{ErrCollaborator, e.err} }

func collaborator(name string, err error) error {
	if err == nil || isClassified(err) || canceled(err) {
		return err
	}
	return &collaboratorError{name: name, err: err}
}

// Collaborator names the collaborator that caused err, or "".
func Collaborator(err error) string {
	var ce *collaboratorError
	if errors.As(err, &ce) {
		return ce.name
	}
	return ""
}

func canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func isClassified(err error) bool {
	for _, class := range []error{ErrInvalidInput, ErrResource, ErrCollaborator, ErrNotFound, ErrConflict} {
		if errors.Is(err, class) {
			return true
		}
	}
	return false
}

// Class names the class of err for logs and metrics. It returns "ok" for nil.
func Class(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrCollaborator):
		return "collaborator"
	case errors.Is(err, ErrResource):
		return "resource"
	case canceled(err):
		return "canceled"
	default:
		return "unknown"
	}
}
