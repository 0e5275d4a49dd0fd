package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/adecon/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int             `mapstructure:"config_version" yaml:"config_version"`
	StateDir      string          `mapstructure:"state_dir" yaml:"state_dir"`
	API           APIConfig       `mapstructure:"api" yaml:"api"`
	Defaults      DefaultsConfig  `mapstructure:"defaults" yaml:"defaults"`
	Console       ConsoleConfig   `mapstructure:"console" yaml:"console"`
	Workbench     WorkbenchConfig `mapstructure:"workbench" yaml:"workbench"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// APIConfig configures the extraction platform API client.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	Key            string `mapstructure:"key" yaml:"key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// DefaultsConfig names the workspace and config used when flags omit them.
type DefaultsConfig struct {
	Workspace string `mapstructure:"workspace" yaml:"workspace"`
	Config    string `mapstructure:"config" yaml:"config"`
}

// ConsoleConfig controls console scrollback behavior.
type ConsoleConfig struct {
	MaxLines int `mapstructure:"max_lines" yaml:"max_lines"`
}

// WorkbenchConfig controls workbench appearance.
type WorkbenchConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		StateDir:      filepath.Join(home, ".adecon", "state"),
		API: APIConfig{
			BaseURL:        "",
			Key:            "",
			TimeoutSeconds: 60,
		},
		Defaults: DefaultsConfig{
			Workspace: "",
			Config:    "",
		},
		Console: ConsoleConfig{
			MaxLines: schema.DefaultConsoleMaxLines,
		},
		Workbench: WorkbenchConfig{
			Theme: string(schema.DefaultTheme),
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".adecon", "config.yaml"), nil
}

// ServiceConfig maps the application config onto the workbench service
// configuration.
func (c Config) ServiceConfig() schema.ServiceConfig {
	return schema.ServiceConfig{
		StateDir:        c.StateDir,
		ConsoleMaxLines: c.Console.MaxLines,
		DefaultTheme:    schema.ThemeName(c.Workbench.Theme),
	}
}
