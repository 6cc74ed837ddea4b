package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/skirent/internal/client/api"
	"github.com/iudanet/skirent/internal/client/auth"
	"github.com/iudanet/skirent/internal/client/connectivity"
	"github.com/iudanet/skirent/internal/client/iocli"
	"github.com/iudanet/skirent/internal/client/offline"
	"github.com/iudanet/skirent/internal/client/queue"
	"github.com/iudanet/skirent/internal/client/storage/boltdb"
	"github.com/iudanet/skirent/internal/client/storage/sqlite"
	clientsync "github.com/iudanet/skirent/internal/client/sync"
	"github.com/iudanet/skirent/internal/models"
)

type fixture struct {
	cli     *Cli
	out     *bytes.Buffer
	io      *iocli.IOMock
	api     *api.ClientAPIMock
	engine  *clientsync.ServiceMock
	store   *sqlite.Storage
	meta    *boltdb.Storage
	queue   *queue.Queue
	monitor *connectivity.Monitor
	auth    *auth.Service
}

// newTestIO собирает весь вывод команд в буфер
func newTestIO() (*iocli.IOMock, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			_, _ = fmt.Fprintln(out, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			_, _ = fmt.Fprintf(out, format, a...)
		},
		WriteFunc: func(p []byte) (int, error) {
			return out.Write(p)
		},
		ReadInputFunc: func(prompt string) (string, error) {
			return "", io.EOF
		},
		ReadPasswordFunc: func(prompt string) (string, error) {
			return "", io.EOF
		},
	}, out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T, online bool) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	store, err := sqlite.New(ctx, filepath.Join(dir, "replica.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	meta, err := boltdb.New(ctx, filepath.Join(dir, "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, meta.Close()) })

	logger := discardLogger()
	mockAPI := &api.ClientAPIMock{}
	engine := &clientsync.ServiceMock{
		GetRealIDFunc: func(ctx context.Context, id string) (string, error) {
			return id, nil
		},
		SubscribeFunc: func(fn func(clientsync.Event)) func() {
			return func() {}
		},
	}
	monitor := connectivity.NewMonitor(online, logger)
	authService := auth.NewService(meta)
	q := queue.New(store, store, logger)
	facade := offline.NewFacade(mockAPI, store, q, engine, authService, monitor, logger)
	stdio, out := newTestIO()

	for _, raw := range []string{
		`{"id":"i_1","code":"SKI-1","name":"Atomic Redster","status":"available","item_type_id":"ski"}`,
		`{"id":"i_2","code":"BOOT-1","name":"Salomon S/Pro","status":"available","item_type_id":"boot"}`,
	} {
		rec, err := models.RecordFromJSON(json.RawMessage(raw))
		require.NoError(t, err)
		require.NoError(t, store.PutRecord(ctx, models.CollectionItems, rec))
	}

	return &fixture{
		cli:     New(stdio, authService, facade, engine, q, meta, monitor),
		out:     out,
		io:      stdio,
		api:     mockAPI,
		engine:  engine,
		store:   store,
		meta:    meta,
		queue:   q,
		monitor: monitor,
		auth:    authService,
	}
}

// login сохраняет непрозрачный токен, чтобы онлайн вызовы фасада получили credential
func (f *fixture) login(t *testing.T) {
	t.Helper()
	_, err := f.auth.Login(context.Background(), "tok", "shop-1")
	require.NoError(t, err)
}
