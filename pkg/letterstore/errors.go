package letterstore

import "errors"

var (
	ErrInvalidRecord  = errors.New("letterstore: invalid record")
	ErrQueryFailed    = errors.New("letterstore: query failed")
	ErrUnknownRequest = errors.New("letterstore: response refers to an unknown request")
)
