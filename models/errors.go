package models

import "fmt"

// NotFoundError reports that a referenced entity does not exist. Queries that
// validate a parent surface it as a request-level fault; mutations fold it
// into the payload error list.
type NotFoundError struct {
	Kind  string
	Field string
	Value string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s '%s' not found", e.Kind, e.Field, e.Value)
}

// ValidationError reports a rejected input: a required field left blank, an
// unknown status value, or a duplicate organization slug. It is only ever
// surfaced through a mutation payload, never as a request-level fault.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
