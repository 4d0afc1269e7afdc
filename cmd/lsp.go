// Copyright © 2025 The MON authors

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/mon-lang/mon/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd(g *globals) *cobra.Command {
	var (
		stdio   bool
		port    int
		metrics time.Duration
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the MON Language Server Protocol server",
		Long: `Start an LSP server for MON files.

The language server provides real-time IDE features including diagnostics,
hover, go-to-definition, find references, completion of anchors and enum
variants, document and workspace symbols, folding, formatting, code
actions and rename.

Documents are linted with the same configuration "mon lint" uses in the
working directory and formatted with the "mon fmt" configuration.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  mon lsp                           Start with stdio transport
  mon lsp --stdio                   Same as above (explicit)
  mon lsp --port 7998               Start with TCP on port 7998
  mon lsp -v --metrics 1m           Log analysis metrics every minute

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "mon lsp --stdio" for .mon files.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			lintCfg, err := g.lintConfig("", nil, nil)
			if err != nil {
				return usageError(err)
			}
			formatCfg, err := g.formatConfig("", formatOverrides{})
			if err != nil {
				return usageError(err)
			}
			opts := []lsp.Option{
				lsp.WithLintConfig(lintCfg),
				lsp.WithFormatConfig(formatCfg),
			}
			if wd, err := os.Getwd(); err == nil {
				opts = append(opts, lsp.WithRoot(wd))
			}
			if metrics > 0 {
				stop, err := exportMetrics(metrics)
				if err != nil {
					return err
				}
				defer stop()
			}
			srv := lsp.New(opts...)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				log.Noticef("MON LSP server listening on %s", addr)
				err = srv.RunTCP(addr)
			} else {
				err = srv.RunStdio()
			}
			if err != nil {
				return fmt.Errorf("lsp server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().DurationVar(&metrics, "metrics", 0,
		"Log analysis metrics at this interval (requires -v; 0 disables)")

	return cmd
}
