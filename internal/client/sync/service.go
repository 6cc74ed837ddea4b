package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/iudanet/skirent/internal/client/api"
	"github.com/iudanet/skirent/internal/client/auth"
	"github.com/iudanet/skirent/internal/client/connectivity"
	"github.com/iudanet/skirent/internal/client/queue"
	"github.com/iudanet/skirent/internal/client/storage"
	"github.com/iudanet/skirent/internal/models"
)

const (
	// DefaultRetryBase is the unit of the linear download backoff (base × attempt)
	DefaultRetryBase = time.Second

	// downloadAttempts is the number of tries per collection
	downloadAttempts = 3

	realIDCacheSize = 1024
)

//go:generate moq -out service_mock.go . Service

// Service is the Sync Engine: initial download, queue drain and temp id reconciliation.
type Service interface {
	// Download replaces the local replica with a full server snapshot
	Download(ctx context.Context) error

	// Drain dispatches pending operations in FIFO order. A concurrent call returns zero counts.
	Drain(ctx context.Context) (DrainResult, error)

	// GetRealID returns the server id for a reconciled temp id and passes any other id through
	GetRealID(ctx context.Context, id string) (string, error)

	// Subscribe registers a sync status observer
	Subscribe(fn func(Event)) (unsubscribe func())

	// Start drains the queue on every offline → online transition
	Start(ctx context.Context) error

	// Stop unsubscribes from connectivity and waits for background drains
	Stop()
}

// DrainResult contains drain counts
type DrainResult struct {
	Synced int // Synced операции, подтверждённые сервером
	Failed int // Failed операции, оставшиеся в статусе FAILED
}

// Deps groups the collaborators of the sync engine
type Deps struct {
	API      api.ClientAPI
	Replica  storage.ReplicaStorage
	TempIDs  storage.TempIDStorage
	Metadata storage.MetadataStorage
	Queue    *queue.Queue
	Tokens   auth.TokenProvider
	Monitor  *connectivity.Monitor
	Logger   *slog.Logger
}

// engine implements Service
type engine struct {
	api      api.ClientAPI
	replica  storage.ReplicaStorage
	tempIDs  storage.TempIDStorage
	metadata storage.MetadataStorage
	tokens   auth.TokenProvider
	queue    *queue.Queue
	monitor  *connectivity.Monitor
	logger   *slog.Logger
	realIDs  *lru.Cache[string, string]

	observers map[uint64]func(Event)

	runCtx      context.Context
	cancel      context.CancelFunc
	unsubscribe func()

	retryBase time.Duration

	wg           gosync.WaitGroup
	syncMu       gosync.Mutex // syncMu сериализует Download и Drain
	lifecycleMu  gosync.Mutex
	observersMu  gosync.RWMutex
	nextObserver uint64
	draining     atomic.Bool
}

// Option configures the engine.
type Option func(*engine)

// WithRetryBase overrides the download backoff unit
func WithRetryBase(d time.Duration) Option {
	return func(e *engine) {
		if d > 0 {
			e.retryBase = d
		}
	}
}

// NewService creates a new sync engine
func NewService(deps Deps, opts ...Option) (Service, error) {
	if deps.API == nil || deps.Replica == nil || deps.TempIDs == nil || deps.Metadata == nil ||
		deps.Queue == nil || deps.Tokens == nil || deps.Monitor == nil {
		return nil, fmt.Errorf("sync engine: missing dependency")
	}

	cache, err := lru.New[string, string](realIDCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create id cache: %w", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &engine{
		api:       deps.API,
		replica:   deps.Replica,
		tempIDs:   deps.TempIDs,
		metadata:  deps.Metadata,
		tokens:    deps.Tokens,
		queue:     deps.Queue,
		monitor:   deps.Monitor,
		logger:    logger,
		realIDs:   cache,
		observers: make(map[uint64]func(Event)),
		retryBase: DefaultRetryBase,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Start requeues operations interrupted mid-sync and begins listening for connectivity
func (e *engine) Start(ctx context.Context) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	if e.cancel != nil {
		return nil
	}

	if n, err := e.queue.Recover(ctx); err != nil {
		return fmt.Errorf("failed to recover queue: %w", err)
	} else if n > 0 {
		e.logger.Info("Requeued interrupted operations", "count", n)
	}

	e.runCtx, e.cancel = context.WithCancel(context.WithoutCancel(ctx))
	e.unsubscribe = e.monitor.Subscribe(e.onConnectivity)

	return nil
}

// Stop unsubscribes and waits for background drains to return
func (e *engine) Stop() {
	e.lifecycleMu.Lock()
	if e.cancel == nil {
		e.lifecycleMu.Unlock()
		return
	}
	e.unsubscribe()
	e.cancel()
	e.cancel = nil
	e.unsubscribe = nil
	e.lifecycleMu.Unlock()

	e.wg.Wait()
}

func (e *engine) onConnectivity(online bool) {
	if !online {
		return
	}

	e.lifecycleMu.Lock()
	if e.cancel == nil {
		e.lifecycleMu.Unlock()
		return
	}
	ctx := e.runCtx
	e.wg.Add(1)
	e.lifecycleMu.Unlock()

	go func() {
		defer e.wg.Done()

		result, err := e.Drain(ctx)
		if err != nil {
			e.logger.Warn("Background drain failed", "error", err)
			return
		}
		e.logger.Info("Background drain finished", "synced", result.Synced, "failed", result.Failed)
	}()
}

// GetRealID resolves temp ids through the mapping table; positive lookups are cached
func (e *engine) GetRealID(ctx context.Context, id string) (string, error) {
	if !models.IsTempID(id) {
		return id, nil
	}

	if realID, ok := e.realIDs.Get(id); ok {
		return realID, nil
	}

	m, err := e.tempIDs.GetMapping(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrMappingNotFound) {
			// Ещё не подтверждён сервером
			return id, nil
		}
		return "", fmt.Errorf("failed to resolve %s: %w", id, err)
	}

	e.realIDs.Add(id, m.RealID)
	return m.RealID, nil
}

func (e *engine) token(ctx context.Context) (string, error) {
	token, err := e.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoCredential, err)
	}
	return token, nil
}
