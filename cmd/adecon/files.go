package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/adecon/core"
	"pkt.systems/adecon/schema"
	"pkt.systems/pslog"
)

func newFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Inspect and edit config package files",
	}
	cmd.AddCommand(newFilesLsCmd())
	cmd.AddCommand(newFilesTreeCmd())
	cmd.AddCommand(newFilesCatCmd())
	cmd.AddCommand(newFilesPutCmd())
	return cmd
}

func newFilesLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List files in the config package",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			entries, err := client.ListFiles(cmd.Context(), key)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				marker := " "
				if entry.Kind == schema.FileKindDir {
					marker = "/"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", entry.Path, marker)
			}
			return nil
		},
	}
}

func newFilesTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the config package file tree",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			entries, err := client.ListFiles(cmd.Context(), key)
			if err != nil {
				return err
			}
			root := core.BuildFileTree(entries, "")
			printTree(cmd.OutOrStdout(), root, 0)
			return nil
		},
	}
}

func printTree(w io.Writer, node *schema.FileNode, depth int) {
	if node == nil {
		return
	}
	if depth > 0 {
		name := node.Name
		if node.IsDir() {
			name += "/"
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth-1), name)
	}
	for _, child := range node.Children {
		printTree(w, child, depth+1)
	}
}

func newFilesCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print one file's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			content, err := client.LoadFile(cmd.Context(), key, schema.TabID(args[0]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), content.Content)
			return err
		},
	}
}

func newFilesPutCmd() *cobra.Command {
	var from string
	var etag string
	cmd := &cobra.Command{
		Use:   "put <path>",
		Short: "Write one file from stdin or --from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			var data []byte
			if from != "" {
				data, err = os.ReadFile(from)
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			meta, err := client.SaveFile(cmd.Context(), key, schema.TabID(args[0]), string(data), etag)
			if err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("file written", "path", args[0], "etag", meta.ETag, "bytes", meta.Size)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "read content from a local file instead of stdin")
	cmd.Flags().StringVar(&etag, "etag", "", "require this version token (If-Match)")
	return cmd
}
