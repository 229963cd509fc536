package scheduler

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning is returned by Start when the scheduler loop is active.
var ErrAlreadyRunning = errors.New("scheduler is already running")

// Error is a scheduler setup or lifecycle failure.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scheduler: %s: %v", e.Message, e.Err)
	}
	return "scheduler: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new general Error.
func NewError(message string) error {
	return &Error{Message: message}
}

// WrapError wraps an existing error with a message.
func WrapError(err error, message string) error {
	return &Error{Message: message, Err: err}
}
