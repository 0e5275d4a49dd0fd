package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/adecon/apiclient"
	"pkt.systems/adecon/internal/format"
	"pkt.systems/adecon/schema"
	"pkt.systems/pslog"
)

func newBuildCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the config package and stream engine output",
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamCommand(cmd, plain, func(ctx context.Context, client *apiclient.Client, key schema.SessionKey) (<-chan schema.StreamEvent, error) {
				return client.StreamBuild(ctx, key)
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "disable styled output")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the config package and stream findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamCommand(cmd, plain, func(ctx context.Context, client *apiclient.Client, key schema.SessionKey) (<-chan schema.StreamEvent, error) {
				return client.StreamValidation(ctx, key)
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "disable styled output")
	return cmd
}

func newRunCmd() *cobra.Command {
	var plain bool
	var document string
	var worksheets []string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an extraction against a document and stream progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if document == "" {
				return fmt.Errorf("--document is required")
			}
			return streamCommand(cmd, plain, func(ctx context.Context, client *apiclient.Client, key schema.SessionKey) (<-chan schema.StreamEvent, error) {
				return client.StreamRun(ctx, key, apiclient.RunOptions{
					DocumentID: schema.DocumentID(document),
					Worksheets: worksheets,
				})
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "disable styled output")
	cmd.Flags().StringVarP(&document, "document", "d", "", "document id to process")
	cmd.Flags().StringSliceVar(&worksheets, "worksheet", nil, "limit processing to these worksheets")
	return cmd
}

type streamStarter func(ctx context.Context, client *apiclient.Client, key schema.SessionKey) (<-chan schema.StreamEvent, error)

// streamCommand wires an NDJSON stream to stdout through the console
// renderer. A run that emits a failure event exits non-zero.
func streamCommand(cmd *cobra.Command, plain bool, start streamStarter) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	key, err := sessionKey(cmd, cfg)
	if err != nil {
		return err
	}
	client, err := newAPIClient(cfg, pslog.Ctx(cmd.Context()))
	if err != nil {
		return err
	}
	events, err := start(cmd.Context(), client, key)
	if err != nil {
		return err
	}

	var renderer interface {
		RenderLine(schema.ConsoleLine) []string
	}
	if plain {
		renderer = format.NewPlainRenderer()
	} else {
		renderer = format.NewColorRenderer()
	}

	failed := false
	for line := range apiclient.ConsoleLines(events) {
		for _, out := range renderer.RenderLine(line) {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		if line.Raw != nil {
			switch line.Raw.Event {
			case schema.EventBuildFailed, schema.EventRunFailed:
				failed = true
			}
		}
	}
	if failed {
		return fmt.Errorf("engine reported failure")
	}
	return nil
}
