package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/iudanet/skirent/internal/models"
)

// Download fetches every collection in parallel and atomically replaces the replica.
// On any terminal failure the previous replica is left untouched.
func (e *engine) Download(ctx context.Context) error {
	if !e.monitor.Online() {
		return ErrOffline
	}

	token, err := e.token(ctx)
	if err != nil {
		return err
	}

	e.syncMu.Lock()
	defer e.syncMu.Unlock()

	e.logger.Info("Starting initial download", "collections", len(models.Collections))
	e.emit(Event{Type: EventDownloadStarted, Percent: 0})

	snapshot, err := e.fetchAll(ctx, token)
	if err != nil {
		return e.downloadFailed(err)
	}

	e.emit(Event{Type: EventDownloadProgress, Percent: 50})

	if err := e.replica.ReplaceAll(ctx, snapshot); err != nil {
		return e.downloadFailed(fmt.Errorf("failed to replace replica: %w", err))
	}

	if err := e.metadata.SaveLastDownload(ctx, time.Now()); err != nil {
		// Реплика уже обновлена, метаданные вторичны
		e.logger.Warn("Failed to save download time", "error", err)
	}

	total := 0
	for _, records := range snapshot {
		total += len(records)
	}
	e.logger.Info("Initial download completed", "records", total)
	e.emit(Event{Type: EventDownloadCompleted, Percent: 100})

	return nil
}

func (e *engine) downloadFailed(err error) error {
	e.logger.Error("Initial download failed", "error", err)
	e.emit(Event{Type: EventDownloadFailed, Err: err})
	return fmt.Errorf("%w: %w", ErrDownloadFailed, err)
}

// fetchAll загружает все коллекции параллельно; первая окончательная ошибка отменяет остальные
func (e *engine) fetchAll(ctx context.Context, token string) (map[models.Collection][]models.Record, error) {
	var mu gosync.Mutex
	snapshot := make(map[models.Collection][]models.Record, len(models.Collections))

	g, gctx := errgroup.WithContext(ctx)
	for _, collection := range models.Collections {
		g.Go(func() error {
			records, err := e.fetchCollection(gctx, token, collection)
			if err != nil {
				return err
			}

			mu.Lock()
			snapshot[collection] = records
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// fetchCollection retries a collection fetch with linear backoff (base × attempt)
func (e *engine) fetchCollection(ctx context.Context, token string, collection models.Collection) ([]models.Record, error) {
	var records []models.Record
	attempt := 0

	backoff := retry.WithMaxRetries(downloadAttempts-1, linearBackoff(e.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		out, err := e.api.ListCollection(ctx, token, collection)
		if err != nil {
			e.logger.Warn("Collection fetch failed",
				"collection", collection,
				"attempt", attempt,
				"error", err)
			return retry.RetryableError(err)
		}

		records = out
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s after %d attempts: %w", collection, attempt, err)
	}

	if records == nil {
		records = []models.Record{}
	}

	return records, nil
}

func linearBackoff(base time.Duration) retry.Backoff {
	var n int64
	return retry.BackoffFunc(func() (time.Duration, bool) {
		n++
		return base * time.Duration(n), false
	})
}
