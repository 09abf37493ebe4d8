package services

import (
	"errors"
	"fmt"
)

// ValidationError rejects a request before any I/O happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Field + ": " + e.Message
}

// ErrEmptyPrompt is the validation failure for a missing or blank user message.
var ErrEmptyPrompt error = &ValidationError{Field: "prompt", Message: "prompt is required"}

// ErrCompletionTimeout marks a completion call that ran past its deadline.
var ErrCompletionTimeout = errors.New("completion timed out")

const (
	OpAppendUserTurn      = "conversation.append_user"
	OpAppendAssistantTurn = "conversation.append_assistant"
	OpReadRecentTurns     = "conversation.recent"
	OpReadAllTurns        = "conversation.all"
	OpReadSchedule        = "schedule.read"
	OpReplaceSchedule     = "schedule.replace"
)

// StorageError is a conversation log or schedule persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsScheduleWrite reports whether the failure happened while replacing the
// schedule, in which case the previously committed schedule is still in place.
func (e *StorageError) IsScheduleWrite() bool {
	return e != nil && e.Op == OpReplaceSchedule
}

// CompletionError is any failure of the external completion call.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("completion (%s): %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
