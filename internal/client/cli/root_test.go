package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against a fresh data dir in offline mode
func execute(t *testing.T, dataDir string, level *slog.LevelVar, args ...string) (string, error) {
	t.Helper()
	stdio, out := newTestIO()

	root := NewRootCommand(Options{
		IO:      stdio,
		Logger:  discardLogger(),
		Level:   level,
		Version: "1.2.3",
	})
	root.SetOut(out)
	root.SetErr(out)

	base := []string{
		"--config", filepath.Join(dataDir, "absent.json"),
		"--data-dir", dataDir,
		"--offline",
	}
	root.SetArgs(append(base, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Version(t *testing.T) {
	out, err := execute(t, t.TempDir(), nil, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}

func TestRootCommand_OfflineSession(t *testing.T) {
	dir := t.TempDir()
	level := new(slog.LevelVar)

	out, err := execute(t, dir, level, "--log-level", "debug", "login", "--token", "opaque-token", "--shop", "shop-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in")
	assert.Equal(t, slog.LevelDebug, level.Level())

	out, err = execute(t, dir, nil,
		"customer", "save", "--name", "Jane Doe", "--dni", "x1234567z", "--phone", "+34 600 000 000")
	require.NoError(t, err)
	assert.Contains(t, out, "Customer saved locally as customer_")

	out, err = execute(t, dir, nil, "rental", "create", "--customer", "c_1", "--item", "i_1:t_day:30")
	require.NoError(t, err)
	assert.Contains(t, out, "Rental saved locally as rental_")

	out, err = execute(t, dir, nil, "list", "customers", "--search", "x123")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe | X1234567Z | +34 600 000 000")

	out, err = execute(t, dir, nil, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Session:       logged in")
	assert.Contains(t, out, "Mode:          offline")
	assert.Contains(t, out, "Pending sync: 2 operation(s)")

	_, err = execute(t, dir, nil, "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")

	out, err = execute(t, dir, nil, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
}

func TestRootCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, nil, "list")
	assert.Error(t, err, "collection argument is required")

	_, err = execute(t, dir, nil, "list", "invoices")
	assert.Error(t, err)

	_, err = execute(t, dir, nil, "rental", "create", "--customer", "c_1", "--item", "i_1:t:cheap")
	assert.Error(t, err)

	_, err = execute(t, dir, nil, "--log-level", "loud", "status")
	assert.Error(t, err)
}

func TestNewRootCommand_Tree(t *testing.T) {
	stdio, _ := newTestIO()
	root := NewRootCommand(Options{IO: stdio, Logger: discardLogger()})

	for _, path := range [][]string{
		{"login"}, {"logout"}, {"status"}, {"download"}, {"sync"}, {"list"},
		{"customer", "save"}, {"rental", "create"}, {"rental", "return"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
