package letter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/letterpress/pkg/template"
)

var (
	ErrReservedField          = errors.New("letter: personalisation contains a reserved field")
	ErrMissingCompanyName     = errors.New("letter: company name is required")
	ErrMissingReference       = errors.New("letter: reference is required")
	ErrMissingOriginalDate    = errors.New("letter: original sending date is required to regenerate a letter")
	ErrMissingVariables       = errors.New("letter: required variables are missing")
	ErrInvalidPersonalisation = errors.New("letter: invalid personalisation")
	ErrInvalidDate            = errors.New("letter: invalid date")
)

// ValidationError reports the required variables absent from a context.
type ValidationError struct {
	Key     template.Key
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("letter: template %s is missing required variables: %s",
		e.Key, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrMissingVariables }
