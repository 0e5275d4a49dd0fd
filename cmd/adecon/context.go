package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/adecon/apiclient"
	"pkt.systems/adecon/internal/appconfig"
	"pkt.systems/adecon/schema"
	"pkt.systems/pslog"
)

// loadConfig reads the application config honoring --config-file.
func loadConfig(cmd *cobra.Command) (appconfig.Config, error) {
	path, _ := cmd.Flags().GetString("config-file")
	if path == "" {
		path, _ = cmd.Root().PersistentFlags().GetString("config-file")
	}
	return appconfig.Load(path)
}

// sessionKey resolves the workspace/config pair from flags and config
// defaults.
func sessionKey(cmd *cobra.Command, cfg appconfig.Config) (schema.SessionKey, error) {
	workspace, _ := cmd.Flags().GetString("workspace")
	if workspace == "" {
		workspace, _ = cmd.Root().PersistentFlags().GetString("workspace")
	}
	if workspace == "" {
		workspace = cfg.Defaults.Workspace
	}
	pkg, _ := cmd.Flags().GetString("package")
	if pkg == "" {
		pkg, _ = cmd.Root().PersistentFlags().GetString("package")
	}
	if pkg == "" {
		pkg = cfg.Defaults.Config
	}
	if workspace == "" {
		return schema.SessionKey{}, errors.New("workspace is required (--workspace or defaults.workspace)")
	}
	if pkg == "" {
		return schema.SessionKey{}, errors.New("config package is required (--package or defaults.config)")
	}
	return schema.SessionKey{
		Workspace: schema.WorkspaceID(workspace),
		Config:    schema.ConfigID(pkg),
	}, nil
}

// newAPIClient builds a platform client from the config.
func newAPIClient(cfg appconfig.Config, logger pslog.Logger) (*apiclient.Client, error) {
	if cfg.API.BaseURL == "" {
		return nil, errors.New("api.base_url is required; run `adecon config init` and set it")
	}
	return apiclient.New(apiclient.Options{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		Logger:  logger,
	})
}
