// Copyright © 2025 The MON authors

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mon-lang/mon/bundle"
	"github.com/mon-lang/mon/lint"
	"github.com/mon-lang/mon/parser"
	"github.com/spf13/cobra"
)

func newCheckCmd(g *globals) *cobra.Command {
	var (
		withLint    bool
		asJSON      bool
		projectFile string
	)
	cmd := &cobra.Command{
		Use:   "check [flags] FILE",
		Short: "Check a MON file for syntax errors and import cycles",
		Long: `Check that a MON file parses and that its imports do not form a cycle.

With --lint the file is also linted and a summary of the findings is
printed. Only error severity findings make the check fail.

Examples:
  mon check config.mon              Syntax and import check
  mon check --lint config.mon       Also run the linter
  mon check --lint --json app.mon   Print the lint result as JSON`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
			fmt.Fprintf(stderr, "Checking %s...\n", file) //nolint:errcheck // best-effort output to stderr

			src, err := os.ReadFile(file) //nolint:gosec // CLI tool reads user-specified files
			if err != nil {
				return usageError(err)
			}
			source := string(src)
			if _, err := parser.Parse(source, file); err != nil {
				g.renderParseError(stderr, file, source, err)
				return exitWith(ExitParse)
			}
			cycle, err := importCycle(file)
			if err != nil {
				return usageError(err)
			}

			if !withLint {
				if cycle != nil {
					g.renderLintDiagnostics(stderr, file, source, []lint.Diagnostic{*cycle})
					return exitWith(ExitLintErrors)
				}
				if asJSON {
					fmt.Fprintln(stdout, `{"status":"ok","message":"Syntax OK"}`) //nolint:errcheck
				} else {
					fmt.Fprintln(stdout, "Syntax OK") //nolint:errcheck
				}
				return nil
			}

			cfg, err := g.lintConfig(projectFile, nil, nil)
			if err != nil {
				return usageError(err)
			}
			res, err := lint.New(cfg).LintSource(source, file)
			if err != nil {
				return usageError(err)
			}
			if cycle != nil && cfg.Enabled(lint.CircularDependency) {
				res.Diagnostics = append(res.Diagnostics, lint.FilterSuppressed([]lint.Diagnostic{*cycle}, source)...)
			}
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				printCheckSummary(stdout, file, res)
			}
			if res.HasErrors() {
				return exitWith(ExitLintErrors)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&withLint, "lint", false, "Also run the linter.")
	f.BoolVar(&asJSON, "json", false, "Print the result as JSON.")
	f.StringVar(&projectFile, "lint-config", "",
		"MON lint configuration file (default is "+lintProjectFile+" in the working directory).")
	return cmd
}

// importCycle returns a LINT4002 diagnostic when the import graph rooted at
// file has a cycle.  The diagnostic carries a range only when the import
// statement starting the cycle is in file itself.
func importCycle(file string) (*lint.Diagnostic, error) {
	_, err := bundle.Check(file, nil)
	var cerr *bundle.CycleError
	if errors.As(err, &cerr) {
		d := cerr.Diagnostic()
		if cerr.File != filepath.Clean(file) {
			d.Range = nil
		}
		return &d, nil
	}
	return nil, err
}

func printCheckSummary(w io.Writer, file string, res *lint.Result) {
	fmt.Fprintf(w, "Linting  %s\n\n", file) //nolint:errcheck
	if !res.HasIssues() {
		fmt.Fprintln(w, "  ✓ No issues found") //nolint:errcheck
		return
	}
	errs, warnings, infos := res.Errors(), res.Warnings(), res.Infos()
	for _, group := range [][]lint.Diagnostic{errs, warnings, infos} {
		for _, d := range group {
			fmt.Fprintf(w, "  %s\n", d) //nolint:errcheck
		}
	}
	fmt.Fprintf(w, "\nSummary: %d errors, %d warnings, %d hints\n", //nolint:errcheck
		len(errs), len(warnings), len(infos))
	if len(errs) > 0 || len(warnings) > 0 {
		fmt.Fprintf(w, "\nRun 'mon explain <CODE>' for detailed information\nConfigure rules in %s\n", //nolint:errcheck
			lintProjectFile)
	}
}
