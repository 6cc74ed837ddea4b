// Package cli реализует команды skirent поверх офлайн фасада и sync engine.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/iudanet/skirent/internal/client/api"
	"github.com/iudanet/skirent/internal/client/auth"
	"github.com/iudanet/skirent/internal/client/connectivity"
	"github.com/iudanet/skirent/internal/client/iocli"
	"github.com/iudanet/skirent/internal/client/offline"
	"github.com/iudanet/skirent/internal/client/queue"
	"github.com/iudanet/skirent/internal/client/storage"
	"github.com/iudanet/skirent/internal/client/storage/boltdb"
	"github.com/iudanet/skirent/internal/client/storage/sqlite"
	clientsync "github.com/iudanet/skirent/internal/client/sync"
	"github.com/iudanet/skirent/internal/config"
)

// Cli holds the services the commands talk to
type Cli struct {
	io          iocli.IO
	authService *auth.Service
	facade      *offline.Facade
	syncService clientsync.Service
	queue       *queue.Queue
	metadata    storage.MetadataStorage
	monitor     *connectivity.Monitor
	now         func() time.Time
}

// App owns the storages opened for one command run
type App struct {
	*Cli
	replica *sqlite.Storage
	bolt    *boltdb.Storage
}

// Open opens the local storages and wires the client services.
// The sync engine is started; Close stops it.
func Open(ctx context.Context, cfg *config.Config, stdio iocli.IO, logger *slog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	replica, err := sqlite.New(ctx, cfg.ReplicaPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open replica: %w", err)
	}

	bolt, err := boltdb.New(ctx, cfg.SessionPath())
	if err != nil {
		_ = replica.Close()
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	monitor := connectivity.NewMonitor(!cfg.Offline, logger)

	opts := []api.Option{api.WithTimeout(cfg.RequestTimeout)}
	if !cfg.Offline {
		// любой ответ сервера означает online, ошибка транспорта означает offline
		opts = append(opts, api.WithConnectivityObserver(monitor.Set))
	}
	apiClient := api.NewClient(cfg.ServerURL, opts...)

	authService := auth.NewService(bolt)
	q := queue.New(replica, replica, logger)

	syncService, err := clientsync.NewService(clientsync.Deps{
		API:      apiClient,
		Replica:  replica,
		TempIDs:  replica,
		Metadata: bolt,
		Queue:    q,
		Tokens:   authService,
		Monitor:  monitor,
		Logger:   logger,
	}, clientsync.WithRetryBase(cfg.DownloadRetryBase))
	if err != nil {
		_ = bolt.Close()
		_ = replica.Close()
		return nil, err
	}

	if err := syncService.Start(ctx); err != nil {
		_ = bolt.Close()
		_ = replica.Close()
		return nil, fmt.Errorf("failed to start sync engine: %w", err)
	}

	facade := offline.NewFacade(apiClient, replica, q, syncService, authService, monitor, logger)

	return &App{
		Cli:     New(stdio, authService, facade, syncService, q, bolt, monitor),
		replica: replica,
		bolt:    bolt,
	}, nil
}

// Close stops the sync engine and closes the storages
func (a *App) Close() error {
	a.syncService.Stop()
	return errors.Join(a.bolt.Close(), a.replica.Close())
}

func New(
	stdio iocli.IO,
	authService *auth.Service,
	facade *offline.Facade,
	syncService clientsync.Service,
	q *queue.Queue,
	metadata storage.MetadataStorage,
	monitor *connectivity.Monitor,
) *Cli {
	return &Cli{
		io:          stdio,
		authService: authService,
		facade:      facade,
		syncService: syncService,
		queue:       q,
		metadata:    metadata,
		monitor:     monitor,
		now:         time.Now,
	}
}
