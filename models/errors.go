package models

import "errors"

var ErrNotFound = errors.New("task not found")

// ValidationError reports input that was rejected before reaching storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "'" + e.Field + "' " + e.Reason
}
