package schema

import (
	"os"
	"path/filepath"
)

// ServiceConfig defines defaults and limits for the workbench service.
type ServiceConfig struct {
	StateDir        string
	ConsoleMaxLines int
	DefaultTheme    ThemeName
	MRUMax          int
}

// DefaultConsoleMaxLines is the default console scrollback limit.
const DefaultConsoleMaxLines = 5000

// DefaultTheme is the fallback console theme.
const DefaultTheme ThemeName = "dark"

const defaultMRUMax = 100

// NormalizeServiceConfig applies defaults and validates the config.
func NormalizeServiceConfig(cfg ServiceConfig) (ServiceConfig, error) {
	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ServiceConfig{}, err
		}
		cfg.StateDir = filepath.Join(home, ".adecon", "state")
	}
	if cfg.ConsoleMaxLines <= 0 {
		cfg.ConsoleMaxLines = DefaultConsoleMaxLines
	}
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = DefaultTheme
	}
	if cfg.MRUMax <= 0 {
		cfg.MRUMax = defaultMRUMax
	}
	return cfg, nil
}
