package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no session (bearer token) is stored
	ErrSessionNotFound = errors.New("session not found")

	// ErrRecordNotFound indicates that a replica record was not found
	ErrRecordNotFound = errors.New("record not found")

	// ErrOperationNotFound indicates that a queue entry was not found
	ErrOperationNotFound = errors.New("operation not found")

	// ErrMappingNotFound indicates that a temp id has not been reconciled yet
	ErrMappingNotFound = errors.New("temp id mapping not found")

	// ErrMappingConflict indicates an attempt to map a temp id to a second real id
	ErrMappingConflict = errors.New("temp id already mapped to a different id")

	// ErrTempIDReconciled indicates that a local write still keyed by a temp id
	// raced with the server confirmation of that id
	ErrTempIDReconciled = errors.New("temp id reconciled during local write")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
