package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/skirent/internal/client/storage"
)

// Drain processes a snapshot of pending operations in sequence order.
// One operation's failure never stops the batch; local storage failures do.
func (e *engine) Drain(ctx context.Context) (DrainResult, error) {
	if !e.monitor.Online() {
		return DrainResult{}, ErrOffline
	}

	// single-flight: повторный вызов во время слива ничего не делает
	if !e.draining.CompareAndSwap(false, true) {
		e.logger.Debug("Drain already in progress, skipping")
		return DrainResult{}, nil
	}
	defer e.draining.Store(false)

	token, err := e.token(ctx)
	if err != nil {
		return DrainResult{}, err
	}

	e.syncMu.Lock()
	defer e.syncMu.Unlock()

	ops, err := e.queue.ListPending(ctx)
	if err != nil {
		return DrainResult{}, err
	}

	result := DrainResult{}
	if len(ops) == 0 {
		e.emit(Event{Type: EventDrainCompleted})
		return result, nil
	}

	e.logger.Info("Starting queue drain", "pending", len(ops))

	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := e.queue.MarkSyncing(ctx, op.Seq); err != nil {
			return result, fmt.Errorf("failed to mark operation %d syncing: %w", op.Seq, err)
		}

		err := e.dispatch(ctx, token, op)
		switch {
		case err == nil:
			if err := e.queue.Remove(ctx, op.Seq); err != nil {
				return result, fmt.Errorf("failed to remove operation %d: %w", op.Seq, err)
			}
			result.Synced++
			e.logger.Info("Operation synced", "seq", op.Seq, "entity", op.Entity, "kind", op.Kind)

		case isFatal(err):
			e.logger.Error("Drain aborted by storage failure", "seq", op.Seq, "error", err)
			return result, err

		default:
			if err := e.queue.MarkFailed(ctx, op.Seq, err); err != nil {
				return result, fmt.Errorf("failed to mark operation %d failed: %w", op.Seq, err)
			}
			result.Failed++
			e.logger.Warn("Operation failed",
				"seq", op.Seq,
				"entity", op.Entity,
				"attempts", op.Attempts+1,
				"error", err)
		}

		e.emit(Event{
			Type:   EventDrainProgress,
			Index:  i + 1,
			Synced: result.Synced,
			Failed: result.Failed,
			Total:  len(ops),
		})
	}

	summary := storage.DrainSummary{FinishedAt: time.Now(), Synced: result.Synced, Failed: result.Failed}
	if err := e.metadata.SaveLastDrain(ctx, summary); err != nil {
		e.logger.Warn("Failed to save drain summary", "error", err)
	}

	e.logger.Info("Queue drain completed", "synced", result.Synced, "failed", result.Failed)
	e.emit(Event{Type: EventDrainCompleted, Synced: result.Synced, Failed: result.Failed, Total: len(ops)})

	return result, nil
}

func isFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}
