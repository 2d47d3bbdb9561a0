package input

import "errors"

var (
	// ErrUnknownAction is returned when querying a name that was never bound.
	ErrUnknownAction   = errors.New("input: unknown action")
	ErrDuplicateAction = errors.New("input: duplicate action")
	ErrUnknownDevice   = errors.New("input: unknown device")
)
