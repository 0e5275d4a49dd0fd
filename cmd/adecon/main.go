package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("adecon command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "adecon",
		Short:         "Terminal console for the ADE document-extraction platform",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().String("config-file", "", "path to adecon config.yaml")
	root.PersistentFlags().StringP("workspace", "w", "", "workspace id (overrides config default)")
	root.PersistentFlags().StringP("package", "c", "", "config package id (overrides config default)")

	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newFilesCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newWorkbenchCmd())
	root.AddCommand(newAdminCmd())

	return root
}
