// Copyright © 2025 The MON authors

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mon-lang/mon/bundle"
	"github.com/mon-lang/mon/formatter"
	"github.com/mon-lang/mon/lint"
	"github.com/spf13/cobra"
)

func newBundleCmd(g *globals) *cobra.Command {
	var (
		output      string
		projectFile string
		overrides   formatOverrides
	)
	cmd := &cobra.Command{
		Use:   "bundle [flags] ENTRY",
		Short: "Verify the import graph of a MON file and write it out formatted",
		Long: `Resolve every file imported from ENTRY, transitively, and fail if the
imports form a cycle. The entry file is then formatted and written to
stdout, or to the file given with -o.

Progress is reported on stderr so stdout carries only the bundle.

Examples:
  mon bundle app.mon                 Print the bundle
  mon bundle app.mon -o dist/app.mon Write the bundle to a file
  mon bundle --style=rust app.mon    Format with a preset style`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := args[0]
			stderr := cmd.ErrOrStderr()
			fmt.Fprintf(stderr, "Bundling %s\n", entry) //nolint:errcheck // best-effort output to stderr

			cfg, err := g.formatConfig(projectFile, overrides)
			if err != nil {
				return usageError(err)
			}
			src, err := os.ReadFile(entry) //nolint:gosec // CLI tool reads user-specified files
			if err != nil {
				return usageError(fmt.Errorf("entry file not found: %s", entry))
			}

			fmt.Fprintln(stderr, "  → Checking imports...") //nolint:errcheck
			graph, err := bundle.Build(entry, nil)
			if err != nil {
				g.renderParseError(stderr, entry, string(src), err)
				return exitWith(ExitParse)
			}
			for _, path := range graph.Files() {
				if n := graph.Node(path); n.Err != nil {
					fmt.Fprintf(stderr, "  ! could not load import %s: %v\n", path, n.Err) //nolint:errcheck
				}
			}
			if err := graph.Cycle(); err != nil {
				var cerr *bundle.CycleError
				if !errors.As(err, &cerr) {
					return err
				}
				n := graph.Node(cerr.File)
				g.renderLintDiagnostics(stderr, cerr.File, n.Source, []lint.Diagnostic{cerr.Diagnostic()})
				return exitWith(ExitLintErrors)
			}
			root := graph.Node(graph.Entry)
			fmt.Fprintf(stderr, "  ✓ %d import(s) verified\n", len(root.Document.Imports)) //nolint:errcheck
			log.Debugf("bundle of %s spans %d file(s), import depth %d", entry, len(graph.Files()), graph.Depth())

			out, err := formatter.FormatFile(src, entry, cfg)
			if err != nil {
				return usageError(err)
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil { //nolint:gosec // bundles are not secret
				return usageError(err)
			}
			fmt.Fprintf(stderr, "  ✓ Wrote bundle to %s\n", output) //nolint:errcheck
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "Write the bundle to this file instead of stdout.")
	f.StringVar(&overrides.style, "style", "",
		"Style preset to format the bundle with.")
	f.StringVar(&projectFile, "format-config", "",
		"MON format configuration file (default is "+formatProjectFile+" in the working directory).")
	return cmd
}
