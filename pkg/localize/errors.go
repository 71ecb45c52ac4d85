package localize

import "errors"

var (
	ErrMalformedDate     = errors.New("localize: date must have exactly three tokens: day month year")
	ErrUnknownMonth      = errors.New("localize: unknown month")
	ErrInvalidDictionary = errors.New("localize: invalid dictionary")
)
