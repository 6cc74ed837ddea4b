// Package config загружает настройки клиента skirent: файл, переменные окружения и флаги.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "SKIRENT"
	configFileName = "config"
)

var (
	home, _           = os.UserHomeDir()
	DefaultConfigDir  = filepath.Join(home, ".skirent")
	DefaultServerURL  = "http://localhost:8080"
	DefaultLogLevel   = "info"
	DefaultRetryBase  = time.Second
	DefaultReqTimeout = 10 * time.Second
)

// Config keys as they appear in the config file and, upper-cased with the
// SKIRENT_ prefix, in the environment.
const (
	KeyServerURL         = "server_url"
	KeyDataDir           = "data_dir"
	KeyOffline           = "offline"
	KeyLogLevel          = "log_level"
	KeyDownloadRetryBase = "download_retry_base"
	KeyRequestTimeout    = "request_timeout"
)

// Config holds the client settings
type Config struct {
	ServerURL         string
	DataDir           string        // DataDir каталог с replica.db и session.db
	LogLevel          string        // LogLevel debug|info|warn|error
	Path              string        // Path файл, из которого прочитан конфиг, пусто если файла нет
	DownloadRetryBase time.Duration // DownloadRetryBase шаг линейной задержки между попытками загрузки
	RequestTimeout    time.Duration
	Offline           bool // Offline запуск в офлайн режиме без обращения к серверу
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ServerURL:         DefaultServerURL,
		DataDir:           filepath.Join(DefaultConfigDir, "data"),
		LogLevel:          DefaultLogLevel,
		DownloadRetryBase: DefaultRetryBase,
		RequestTimeout:    DefaultReqTimeout,
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", c.ServerURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server url %q: expected http(s)://host", c.ServerURL)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data dir is required")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.DownloadRetryBase <= 0 {
		return fmt.Errorf("download retry base must be positive, got %s", c.DownloadRetryBase)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// ReplicaPath is the sqlite file holding the local replica and the operation queue
func (c *Config) ReplicaPath() string {
	return filepath.Join(c.DataDir, "replica.db")
}

// SessionPath is the bbolt file holding the session and sync metadata
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.db")
}

// ParseLevel converts a log level name into a slog.Level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: use debug, info, warn or error", name)
	}
	return level, nil
}

// Load reads the configuration. Precedence from lowest to highest:
// defaults, config file, SKIRENT_* environment, flags set on the command line.
// Flags the command does not define are skipped.
func Load(v *viper.Viper, cmd *cobra.Command) (*Config, error) {
	def := Default()
	v.SetDefault(KeyServerURL, def.ServerURL)
	v.SetDefault(KeyDataDir, def.DataDir)
	v.SetDefault(KeyOffline, def.Offline)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyDownloadRetryBase, def.DownloadRetryBase)
	v.SetDefault(KeyRequestTimeout, def.RequestTimeout)

	if f := cmd.Flag("config"); f != nil && f.Changed {
		v.SetConfigFile(f.Value.String())
	} else {
		v.AddConfigPath(DefaultConfigDir)
		v.SetConfigName(configFileName)
		v.SetConfigType("json")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	for key, flag := range map[string]string{
		KeyServerURL: "server",
		KeyDataDir:   "data-dir",
		KeyOffline:   "offline",
		KeyLogLevel:  "log-level",
	} {
		if f := cmd.Flag(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	cfg := &Config{
		ServerURL:         strings.TrimRight(v.GetString(KeyServerURL), "/"),
		DataDir:           v.GetString(KeyDataDir),
		LogLevel:          v.GetString(KeyLogLevel),
		DownloadRetryBase: v.GetDuration(KeyDownloadRetryBase),
		RequestTimeout:    v.GetDuration(KeyRequestTimeout),
		Offline:           v.GetBool(KeyOffline),
		Path:              v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
