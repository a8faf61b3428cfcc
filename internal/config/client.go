package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig configures the goals terminal client.
type ClientConfig struct {
	RelayURL string        `yaml:"relay_url"`
	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"log_level"`
	Store    StoreConfig   `yaml:"store"`
}

type StoreConfig struct {
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir"`
	RedisURL string `yaml:"redis_url"`
}

func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		RelayURL: fmt.Sprintf("http://localhost:%d", DefaultPort),
		Timeout:  15 * time.Second,
		LogLevel: "warn",
		Store: StoreConfig{
			Backend:  "file",
			DataDir:  defaultDataDir(),
			RedisURL: "redis://localhost:6379/0",
		},
	}
}

// ClientConfigPath is $XDG_CONFIG_HOME/goalplan/config.yaml or the OS user
// config dir equivalent.
func ClientConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "goalplan", "config.yaml")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "goalplan", "config.yaml")
}

func defaultDataDir() string {
	if p := ClientConfigPath(); p != "" {
		return filepath.Dir(p)
	}
	return ".goalplan"
}

// LoadClient reads path (or the default location when empty), then applies
// GOALPLAN_* environment overrides. A missing file is not an error.
func LoadClient(path string) (*ClientConfig, error) {
	cfg := DefaultClientConfig()

	if path == "" {
		path = ClientConfigPath()
	}
	if path != "" {
		if err := loadClientFile(cfg, path); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyClientEnv(cfg)
	return cfg, nil
}

func loadClientFile(cfg *ClientConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyClientEnv(cfg *ClientConfig) {
	if v := os.Getenv("GOALPLAN_RELAY_URL"); v != "" {
		cfg.RelayURL = v
	}
	if v := os.Getenv("GOALPLAN_STORE"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("GOALPLAN_DATA_DIR"); v != "" {
		cfg.Store.DataDir = v
	}
	if v := os.Getenv("GOALPLAN_REDIS_URL"); v != "" {
		cfg.Store.RedisURL = v
	}
	if v := os.Getenv("GOALPLAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
