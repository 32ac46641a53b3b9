package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/refscope/refscope-mcp/internal/resolver"
	"github.com/refscope/refscope-mcp/internal/watcher"
	"github.com/refscope/refscope-mcp/internal/xref"
)

type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

type Config struct {
	LogLevel string                `yaml:"log_level"`
	Engine   resolver.EngineConfig `yaml:"engine"`
	Analysis xref.Config           `yaml:"analysis"`
	Watcher  watcher.Config        `yaml:"watcher"`
	Audit    AuditConfig           `yaml:"audit"`
}

func Load() *Config {
	homeDir, _ := os.UserHomeDir()
	stateDir := filepath.Join(homeDir, ".refscope")

	return &Config{
		LogLevel: "info",
		Engine:   resolver.DefaultEngineConfig(),
		Analysis: xref.DefaultConfig(),
		Watcher:  watcher.DefaultConfig(),
		Audit: AuditConfig{
			Enabled: true,
			DBPath:  filepath.Join(stateDir, "audit.db"),
		},
	}
}

// LoadFile overlays a yaml config file on the defaults. A missing file is
// not an error; the defaults are returned unchanged.
func LoadFile(path string) (*Config, error) {
	cfg := Load()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) EnsureDirectories() error {
	if !c.Audit.Enabled {
		return nil
	}
	return os.MkdirAll(filepath.Dir(c.Audit.DBPath), 0700)
}
