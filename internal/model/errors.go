package model

import "fmt"

// NotFoundError indicates that no entity matched the given identifier.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// DataIncompleteError indicates that a fetched profile is missing a field
// the workflow requires. Raised by the parse/validate step rather than
// letting absent values propagate.
type DataIncompleteError struct {
	Entity string
	Field  string
}

func (e *DataIncompleteError) Error() string {
	return fmt.Sprintf("%s: required field %s is missing", e.Entity, e.Field)
}

// PersistenceError indicates that the data store rejected a create/update.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
