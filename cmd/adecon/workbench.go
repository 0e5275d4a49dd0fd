package main

import (
	"github.com/spf13/cobra"

	"pkt.systems/adecon"
	"pkt.systems/adecon/tui"
	"pkt.systems/pslog"
)

func newWorkbenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "workbench",
		Aliases: []string{"wb"},
		Short:   "Open the interactive workbench",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			key, err := sessionKey(cmd, cfg)
			if err != nil {
				return err
			}
			wb, err := adecon.New(cfg, adecon.WithLogger(pslog.Ctx(cmd.Context())))
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), wb, key)
		},
	}
}
