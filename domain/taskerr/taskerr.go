// Package taskerr provides machine-readable error codes for task commands
// and log replay.
package taskerr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an error that did not originate here.
	CodeUnknown Code = "UNKNOWN"

	// Command dispatch
	CodeCommandNotRecognized Code = "COMMAND_NOT_RECOGNIZED"
	CodeInvalidArguments     Code = "INVALID_ARGUMENTS"

	// Task state
	CodeTaskNotFound         Code = "TASK_NOT_FOUND"
	CodeTaskAlreadyActive    Code = "TASK_ALREADY_ACTIVE"
	CodeTaskNotActive        Code = "TASK_NOT_ACTIVE"
	CodeReservedNameConflict Code = "RESERVED_NAME_CONFLICT"
	CodeInvalidSizeToken     Code = "INVALID_SIZE_TOKEN"

	// Aggregation
	CodeInsufficientTasks Code = "INSUFFICIENT_TASKS_FOR_AGGREGATE"

	// Replay
	CodeReplayInconsistency Code = "REPLAY_INCONSISTENCY"
)

// Error is a coded error with optional metadata.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error. kv is read as key/value pairs of metadata.
func New(code Code, message string, kv ...string) *Error {
	return &Error{Code: code, Message: message, Metadata: pairs(kv)}
}

// Wrap creates a coded error around a cause.
func Wrap(code Code, err error, message string, kv ...string) *Error {
	return &Error{Code: code, Message: message, Metadata: pairs(kv), Err: err}
}

// GetCode extracts the outermost code from err.
// Returns CodeUnknown if err carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode reports whether any error in err's chain has the given code.
func IsCode(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Err
	}
	return false
}

// RootCode returns the code of the innermost coded error in err's chain.
func RootCode(err error) Code {
	code := CodeUnknown
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		code = e.Code
		err = e.Err
	}
	return code
}

// GetMetadata extracts metadata from the outermost coded error.
func GetMetadata(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Metadata
	}
	return nil
}

func pairs(kv []string) map[string]string {
	if len(kv) < 2 {
		return nil
	}
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}
