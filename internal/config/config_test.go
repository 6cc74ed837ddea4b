package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCommand создает команду с флагами, которые читает Load
func newCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "skirent"}
	cmd.PersistentFlags().String("config", "", "")
	cmd.PersistentFlags().String("server", "", "")
	cmd.PersistentFlags().String("data-dir", "", "")
	cmd.PersistentFlags().Bool("offline", false, "")
	cmd.PersistentFlags().String("log-level", "", "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, time.Second, cfg.DownloadRetryBase)
	assert.False(t, cfg.Offline)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"relative url", func(c *Config) { c.ServerURL = "localhost:8080" }},
		{"unsupported scheme", func(c *Config) { c.ServerURL = "ftp://shop.example" }},
		{"empty data dir", func(c *Config) { c.DataDir = "  " }},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"zero retry base", func(c *Config) { c.DownloadRetryBase = 0 }},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPaths(t *testing.T) {
	cfg := Config{DataDir: "/var/lib/skirent"}
	assert.Equal(t, "/var/lib/skirent/replica.db", cfg.ReplicaPath())
	assert.Equal(t, "/var/lib/skirent/session.db", cfg.SessionPath())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, "WARN", level.String())

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `{
		"server_url": "https://pos.example.com/",
		"data_dir": "/tmp/skirent-test",
		"log_level": "debug",
		"download_retry_base": "250ms",
		"request_timeout": "3s"
	}`)

	cfg, err := Load(viper.New(), newCommand(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, "https://pos.example.com", cfg.ServerURL, "trailing slash is trimmed")
	assert.Equal(t, "/tmp/skirent-test", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.DownloadRetryBase)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, path, cfg.Path)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.json")

	cfg, err := Load(viper.New(), newCommand(t, "--config", missing))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.ServerURL, cfg.ServerURL)
	assert.Equal(t, def.DataDir, cfg.DataDir)
	assert.Equal(t, def.RequestTimeout, cfg.RequestTimeout)
}

func TestLoad_BrokenFile(t *testing.T) {
	path := writeConfig(t, `{"server_url": `)

	_, err := Load(viper.New(), newCommand(t, "--config", path))
	assert.Error(t, err)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `{"server_url": "https://file.example", "data_dir": "/from/file"}`)
	t.Setenv("SKIRENT_SERVER_URL", "https://env.example")
	t.Setenv("SKIRENT_DATA_DIR", "/from/env")
	t.Setenv("SKIRENT_OFFLINE", "true")

	// окружение перекрывает файл
	cfg, err := Load(viper.New(), newCommand(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", cfg.ServerURL)
	assert.Equal(t, "/from/env", cfg.DataDir)
	assert.True(t, cfg.Offline)

	// флаги перекрывают окружение
	cfg, err = Load(viper.New(), newCommand(t, "--config", path, "--server", "https://flag.example", "--data-dir", "/from/flag"))
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example", cfg.ServerURL)
	assert.Equal(t, "/from/flag", cfg.DataDir)
}

func TestLoad_InvalidValue(t *testing.T) {
	path := writeConfig(t, `{"log_level": "chatty"}`)

	_, err := Load(viper.New(), newCommand(t, "--config", path))
	assert.Error(t, err)
}
