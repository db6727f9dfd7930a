package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appName = "cellsurf"

// Config holds cellsurf user configuration.
type Config struct {
	Theme   string        `mapstructure:"theme"`
	API     APIConfig     `mapstructure:"api"`
	Pages   PagesConfig   `mapstructure:"pages"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`

	v *viper.Viper
}

// APIConfig configures the OpenCell API client.
type APIConfig struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheSize int           `mapstructure:"cache_size"`
}

// PagesConfig configures the informational pages. An empty RemoteURL
// serves the embedded copies only.
type PagesConfig struct {
	RemoteURL string `mapstructure:"remote_url"`
}

// HistoryConfig bounds the visit history.
type HistoryConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
}

// LogConfig sets the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("theme", "opencell")
	v.SetDefault("api.url", "https://opencell.czbiohub.org/api")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.cache_size", 256)
	v.SetDefault("pages.remote_url", "")
	v.SetDefault("history.max_entries", DefaultMaxVisits)
	v.SetDefault("log.level", "info")
}

// NewViper returns a viper instance with defaults and CELLSURF_* environment
// overrides. Callers may bind flags onto it before LoadConfig.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the config file at path, or config.yaml in the config
// directory when path is empty. A missing file is not an error; the
// defaults apply.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// SetTheme records a theme choice and writes the config file.
func (c *Config) SetTheme(name string) error {
	c.Theme = name
	if c.v == nil {
		return nil
	}
	c.v.Set("theme", name)
	return c.Save()
}

// Save writes the configuration to the file it was loaded from, or to
// config.yaml in the config directory.
func (c *Config) Save() error {
	if c.v == nil {
		return errors.New("config was not loaded")
	}
	path := c.v.ConfigFileUsed()
	if path == "" {
		dir, err := ConfigDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := c.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// DataDir returns the data directory for persistent storage.
func DataDir() (string, error) {
	return platformDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() (string, error) {
	return platformDir("XDG_CONFIG_HOME", ".config")
}

func platformDir(xdgVar, xdgFallback string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return filepath.Join(home, "."+appName), nil
	default: // Linux, BSD, etc.
		if xdg := os.Getenv(xdgVar); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		return filepath.Join(home, xdgFallback, appName), nil
	}
}
