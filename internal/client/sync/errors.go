package sync

import "errors"

var (
	// ErrOffline is returned when a protocol needing the backend runs while offline
	ErrOffline = errors.New("offline")

	// ErrNoCredential is returned when no usable bearer token is stored
	ErrNoCredential = errors.New("no auth credential")

	// ErrParentNotSynced marks an operation referencing an entity still known only by temp id
	ErrParentNotSynced = errors.New("parent not yet synced")

	// ErrDownloadFailed wraps the terminal failure of the initial download
	ErrDownloadFailed = errors.New("initial download failed")

	// ErrUnknownOperation marks a queue entry no handler accepts
	ErrUnknownOperation = errors.New("unknown operation")
)

// fatalError marks local storage failures that must abort the drain instead of
// being recorded on the operation.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

func fatal(err error) error {
	return &fatalError{err: err}
}
