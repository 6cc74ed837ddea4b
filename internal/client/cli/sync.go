package cli

import (
	"context"
	"errors"
	"fmt"

	clientsync "github.com/iudanet/skirent/internal/client/sync"
)

func (c *Cli) runDownload(ctx context.Context) error {
	c.io.Println("=== Download ===")
	c.io.Println()

	unsubscribe := c.syncService.Subscribe(func(ev clientsync.Event) {
		switch ev.Type {
		case clientsync.EventDownloadStarted, clientsync.EventDownloadProgress, clientsync.EventDownloadCompleted:
			c.io.Printf("[%3d%%] %s\n", ev.Percent, ev.Type)
		case clientsync.EventDownloadFailed:
			c.io.Printf("[fail] %v\n", ev.Err)
		}
	})
	defer unsubscribe()

	if err := c.syncService.Download(ctx); err != nil {
		if errors.Is(err, clientsync.ErrOffline) {
			return fmt.Errorf("cannot download while offline")
		}
		return fmt.Errorf("download failed, local replica left unchanged: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Local replica replaced with the server snapshot")
	return nil
}

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.io.Println()

	unsubscribe := c.syncService.Subscribe(func(ev clientsync.Event) {
		if ev.Type == clientsync.EventDrainProgress {
			c.io.Printf("[%d/%d] synced %d, failed %d\n", ev.Index, ev.Total, ev.Synced, ev.Failed)
		}
	})
	defer unsubscribe()

	result, err := c.syncService.Drain(ctx)
	if err != nil {
		if errors.Is(err, clientsync.ErrOffline) {
			return fmt.Errorf("cannot sync while offline, changes stay queued")
		}
		return fmt.Errorf("synchronization failed: %w", err)
	}

	if result.Synced == 0 && result.Failed == 0 {
		c.io.Println("Nothing to synchronize.")
		return nil
	}

	c.io.Println()
	c.io.Printf("Synced: %d operation(s)\n", result.Synced)
	if result.Failed > 0 {
		c.io.Printf("Failed: %d operation(s), they will be retried on the next sync\n", result.Failed)
		c.io.Println("Run 'skirent status' for details.")
		return nil
	}
	c.io.Println("✓ All local changes are synchronized with the server")
	return nil
}
