package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/skirent/internal/client/storage"
)

const (
	keyLastDownload = "last_download"
	keyLastDrain    = "last_drain"
)

// SaveLastDownload saves the time of the last successful initial download
func (s *Storage) SaveLastDownload(ctx context.Context, at time.Time) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// Храним unix millis в big endian
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(at.UnixMilli()))

		if err := bucket.Put([]byte(keyLastDownload), buf); err != nil {
			return fmt.Errorf("failed to save last download: %w", err)
		}

		return nil
	})
}

// GetLastDownload retrieves the time of the last successful download
// Returns the zero time if no download has been performed yet
func (s *Storage) GetLastDownload(ctx context.Context) (time.Time, error) {
	var at time.Time

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		buf := bucket.Get([]byte(keyLastDownload))
		if buf == nil {
			return nil
		}
		if len(buf) != 8 {
			return fmt.Errorf("corrupted last download value")
		}

		at = time.UnixMilli(int64(binary.BigEndian.Uint64(buf)))
		return nil
	})

	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last download: %w", err)
	}

	return at, nil
}

// SaveLastDrain stores the summary of the last queue drain
func (s *Storage) SaveLastDrain(ctx context.Context, summary storage.DrainSummary) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		data, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("failed to marshal drain summary: %w", err)
		}

		if err := bucket.Put([]byte(keyLastDrain), data); err != nil {
			return fmt.Errorf("failed to save drain summary: %w", err)
		}

		return nil
	})
}

// GetLastDrain returns nil if no drain has been recorded yet
func (s *Storage) GetLastDrain(ctx context.Context) (*storage.DrainSummary, error) {
	var summary *storage.DrainSummary

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		data := bucket.Get([]byte(keyLastDrain))
		if data == nil {
			return nil
		}

		summary = &storage.DrainSummary{}
		return json.Unmarshal(data, summary)
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get last drain: %w", err)
	}

	return summary, nil
}
