package storage

import (
	"context"
	"time"
)

// DrainSummary is the outcome of the last queue drain.
type DrainSummary struct {
	FinishedAt time.Time `json:"finished_at"`
	Synced     int       `json:"synced"`
	Failed     int       `json:"failed"`
}

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client sync metadata
type MetadataStorage interface {
	// SaveLastDownload saves the time of the last successful initial download
	SaveLastDownload(ctx context.Context, at time.Time) error

	// GetLastDownload returns the zero time if no download has been performed yet
	GetLastDownload(ctx context.Context) (time.Time, error)

	// SaveLastDrain stores the summary of the last queue drain
	SaveLastDrain(ctx context.Context, summary DrainSummary) error

	// GetLastDrain returns nil if no drain has been recorded yet
	GetLastDrain(ctx context.Context) (*DrainSummary, error)
}
