package localize

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// DateSuffix marks context variables eligible for localization.
	DateSuffix = "_date"
	// WelshSuffix is appended to a date variable name to publish its translation.
	WelshSuffix = "_cy"
)

// Translator localizes dates using a month dictionary.
// Safe for concurrent use.
type Translator struct {
	dict   *Dictionary
	suffix string
}

// Option configures a Translator.
type Option func(*Translator) error

// WithDictionary replaces the built-in Welsh dictionary.
func WithDictionary(d *Dictionary) Option {
	return func(t *Translator) error {
		if d == nil || d.Len() == 0 {
			return ErrInvalidDictionary
		}
		t.dict = d
		return nil
	}
}

// WithSuffix changes the suffix used by LocalizeContext for published variants.
func WithSuffix(suffix string) Option {
	return func(t *Translator) error {
		if suffix == "" {
			return fmt.Errorf("%w: empty suffix", ErrInvalidDictionary)
		}
		t.suffix = suffix
		return nil
	}
}

// New creates a Translator. Without options it translates English to Welsh.
func New(opts ...Option) (*Translator, error) {
	t := &Translator{
		dict:   Welsh(),
		suffix: WelshSuffix,
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return t, nil
}

// Localize translates the month of a "day month year" date.
func (t *Translator) Localize(date string) (string, error) {
	return convert(date, t.dict.Translate)
}

// Delocalize translates a localized date back to the source language.
func (t *Translator) Delocalize(date string) (string, error) {
	return convert(date, t.dict.Reverse)
}

// LocalizeContext publishes a localized variant for every variable whose
// name ends with DateSuffix. Existing variants are overwritten.
// On error vars is left unchanged.
func (t *Translator) LocalizeContext(vars map[string]string) error {
	names := make([]string, 0, len(vars))
	for name := range vars {
		if strings.HasSuffix(name, DateSuffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	localized := make(map[string]string, len(names))
	for _, name := range names {
		v, err := t.Localize(vars[name])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		localized[name+t.suffix] = v
	}

	for k, v := range localized {
		vars[k] = v
	}
	return nil
}

func convert(date string, lookup func(string) (string, bool)) (string, error) {
	tokens := strings.Fields(date)
	if len(tokens) != 3 {
		return "", fmt.Errorf("%w: %q", ErrMalformedDate, date)
	}
	month, ok := lookup(tokens[1])
	if !ok {
		return "", fmt.Errorf("%w: %q in %q", ErrUnknownMonth, tokens[1], date)
	}
	return tokens[0] + " " + month + " " + tokens[2], nil
}

var defaultTranslator, _ = New()

// Default returns the shared English to Welsh translator.
func Default() *Translator { return defaultTranslator }

// Localize translates an English date to Welsh.
func Localize(date string) (string, error) { return defaultTranslator.Localize(date) }

// Delocalize translates a Welsh date to English.
func Delocalize(date string) (string, error) { return defaultTranslator.Delocalize(date) }

// LocalizeContext publishes Welsh variants of every date variable in vars.
func LocalizeContext(vars map[string]string) error { return defaultTranslator.LocalizeContext(vars) }
