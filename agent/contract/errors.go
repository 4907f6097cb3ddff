package contract

import "errors"

var (
	ErrValidation  = errors.New("validation failed")
	ErrToolCall    = errors.New("tool call failed")
	ErrUnknownTask = errors.New("unknown task")
	ErrNotFound    = errors.New("not found")
)
