package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports required or constrained fields that were missing
// or held an unacceptable value.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing required fields"
	}
	if len(e.Fields) == 0 {
		return reason
	}
	return fmt.Sprintf("%s: %s", reason, strings.Join(e.Fields, ", "))
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "article"
	}
	return fmt.Sprintf("%s %s not found", kind, e.ID)
}

type InvalidIDError struct {
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid id %q", e.Value)
}

type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return "unauthorized: " + e.Reason
}

// StorageError wraps a failure of the underlying store that is not
// otherwise classified.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
