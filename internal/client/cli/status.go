package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/iudanet/skirent/internal/client/queue"
	"github.com/iudanet/skirent/internal/client/storage"
	"github.com/iudanet/skirent/internal/models"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	session, err := c.authService.Session(ctx)
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		c.io.Println("Session:       not logged in. Run 'skirent login --token <token>'.")
	case err != nil:
		return fmt.Errorf("failed to read session: %w", err)
	default:
		c.io.Println("Session:       logged in")
		c.printSession(session)
	}

	mode := "online"
	if !c.monitor.Online() {
		mode = "offline"
	}
	c.io.Printf("Mode:          %s\n", mode)
	c.io.Println()

	if err := c.printSyncMetadata(ctx); err != nil {
		// метаданные носят справочный характер, очередь важнее
		c.io.Printf("Warning: failed to read sync metadata: %v\n", err)
	}

	stats, err := c.queue.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get queue stats: %w", err)
	}
	c.printQueue(stats)

	return nil
}

func (c *Cli) printSyncMetadata(ctx context.Context) error {
	lastDownload, err := c.metadata.GetLastDownload(ctx)
	if err != nil {
		return err
	}
	if lastDownload.IsZero() {
		c.io.Println("Last download: never. Run 'skirent download' to fill the local replica.")
	} else {
		c.io.Printf("Last download: %s\n", c.ago(lastDownload))
	}

	lastDrain, err := c.metadata.GetLastDrain(ctx)
	if err != nil {
		return err
	}
	if lastDrain == nil {
		c.io.Println("Last sync:     never")
	} else {
		c.io.Printf("Last sync:     %s (%d synced, %d failed)\n", c.ago(lastDrain.FinishedAt), lastDrain.Synced, lastDrain.Failed)
	}
	return nil
}

func (c *Cli) printQueue(stats *queue.Stats) {
	c.io.Println()
	if stats.Total == 0 {
		c.io.Println("✓ All local changes are synchronized with the server")
		return
	}

	c.io.Printf("⚠️  Pending sync: %d operation(s), oldest queued %s\n", stats.Total, c.ago(stats.OldestPending))
	for _, status := range []models.OpStatus{models.OpStatusPending, models.OpStatusSyncing, models.OpStatusFailed} {
		if n := stats.Counts[status]; n > 0 {
			c.io.Printf("   %-8s %d\n", status, n)
		}
	}

	if len(stats.Stuck) > 0 {
		c.io.Println()
		c.io.Printf("⚠️  %d operation(s) failed %d or more times and need attention:\n", len(stats.Stuck), queue.WarnAttempts)
		for _, op := range stats.Stuck {
			c.io.Printf("   #%d %s %s, %d attempts, last error: %s\n", op.Seq, op.Kind, op.Entity, op.Attempts, lastError(op))
		}
	}

	c.io.Println()
	c.io.Println("Run 'skirent sync' to send them to the server.")
}

func (c *Cli) ago(t time.Time) string {
	return humanize.RelTime(t, c.now(), "ago", "from now")
}

func lastError(op *models.Operation) string {
	if op.LastError == nil {
		return "none"
	}
	return *op.LastError
}
