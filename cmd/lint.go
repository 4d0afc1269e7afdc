// Copyright © 2025 The MON authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mon-lang/mon/lint"
	"github.com/mon-lang/mon/parser"
	"github.com/muesli/reflow/padding"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Lint output formats.
const (
	formatText   = "text"
	formatPretty = "pretty"
	formatJSON   = "json"
	formatSARIF  = "sarif"
)

type lintOptions struct {
	rules         []string
	noRules       []string
	format        string
	followImports bool
	watch         bool
	list          bool
	excludes      []string
	projectFile   string
}

// fileResult is the outcome of linting one file.  Exactly one of result
// and err is set.
type fileResult struct {
	path   string
	source string
	result *lint.Result
	err    error
	// parseFailed distinguishes a parse failure from an unreadable file.
	parseFailed bool
}

func newLintCmd(g *globals) *cobra.Command {
	var o lintOptions
	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Run static analysis checks on MON files",
		Long: `Run static analysis checks on MON files.

The linter reports structures that are legal MON but likely mistakes or
hard to maintain: excessive nesting, duplicate keys, unused anchors and
imports, magic numbers, mixed naming styles and more. Each finding has a
stable code; use "mon explain CODE" for details.

With no files, reads from stdin. Directories and patterns ending in "/..."
are expanded to the .mon files below them.

Exit codes:
  0  No problems found
  1  Only warnings or infos were reported
  2  Bad invocation (invalid flags, configuration or unreadable files)
  3  A file could not be parsed
  4  At least one error severity diagnostic was reported

To suppress diagnostics on a line, add a comment on that line:
  port: 8080, // nolint:LINT2004
  port: 8080, // nolint

Examples:
  mon lint config.mon                        Lint a single file
  mon lint ./...                             Lint every .mon file below .
  mon lint --format=sarif ./... > out.sarif  Produce a SARIF log
  mon lint --rules=LINT2002,MagicNumber f.mon Report only these rules
  mon lint --no-rules=EmptyObject f.mon      Never report empty objects
  mon lint --follow-imports app.mon          Also report circular imports
  mon lint --list                            List all diagnostic codes
  cat config.mon | mon lint                  Lint from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.list {
				listCodes(cmd.OutOrStdout())
				return nil
			}
			switch o.format {
			case formatText, formatPretty, formatJSON, formatSARIF:
			default:
				return usageError(fmt.Errorf("unknown output format %q", o.format))
			}
			cfg, err := g.lintConfig(o.projectFile, o.rules, o.noRules)
			if err != nil {
				return usageError(err)
			}
			l := lint.New(cfg)

			if len(args) == 0 {
				src, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return usageError(fmt.Errorf("reading stdin: %w", err))
				}
				r := lintSource(l, "<stdin>", string(src))
				return exitWith(g.reportLint(cmd, o, []*fileResult{r}))
			}

			paths, err := expandArgs(args, o.excludes)
			if err != nil {
				return usageError(err)
			}
			results, err := lintFiles(cmd.Context(), l, paths, o.followImports)
			if err != nil {
				return err
			}
			code := g.reportLint(cmd, o, results)
			if !o.watch {
				return exitWith(code)
			}
			return watchFiles(cmd.Context(), args, func(path string) {
				g.reportLint(cmd, o, []*fileResult{lintFile(l, path, o.followImports)})
			})
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&o.rules, "rules", nil,
		"Comma-separated codes or names of the only rules to report.")
	f.StringSliceVar(&o.noRules, "no-rules", nil,
		"Comma-separated codes or names of rules never to report.")
	f.StringVar(&o.format, "format", formatText,
		`Output format: "text", "pretty", "json" or "sarif".`)
	f.BoolVar(&o.followImports, "follow-imports", false,
		"Resolve imports and report circular dependencies (LINT4002).")
	f.BoolVar(&o.watch, "watch", false,
		"Lint files again whenever they change.")
	f.BoolVar(&o.list, "list", false,
		"List the diagnostic codes and exit.")
	f.StringArrayVar(&o.excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	f.StringVar(&o.projectFile, "lint-config", "",
		"MON lint configuration file (default is "+lintProjectFile+" in the working directory).")
	return cmd
}

// listCodes prints one line per diagnostic code.
func listCodes(w io.Writer) {
	for _, c := range lint.AllCodes() {
		fmt.Fprintf(w, "%s  %s %s %s\n", c, //nolint:errcheck // best-effort output to writer
			padding.String(c.Name(), 24),
			padding.String(c.DefaultSeverity().String(), 8),
			c.Title())
	}
}

// lintFiles lints paths concurrently and returns the results in the order
// of paths.
func lintFiles(ctx context.Context, l *lint.Linter, paths []string, followImports bool) ([]*fileResult, error) {
	results := make([]*fileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = lintFile(l, path, followImports)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func lintFile(l *lint.Linter, path string, followImports bool) *fileResult {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return &fileResult{path: path, err: err}
	}
	r := lintSource(l, path, string(src))
	if followImports && r.result != nil {
		checkImportCycle(l.Config, r)
	}
	return r
}

func lintSource(l *lint.Linter, path, source string) *fileResult {
	res, err := l.LintSource(source, path)
	if err != nil {
		var perr *parser.ParseError
		return &fileResult{path: path, source: source, err: err, parseFailed: errors.As(err, &perr)}
	}
	return &fileResult{path: path, source: source, result: res}
}

// checkImportCycle adds a LINT4002 diagnostic to r when the import graph
// rooted at its file has a cycle.
func checkImportCycle(cfg lint.Config, r *fileResult) {
	if !cfg.Enabled(lint.CircularDependency) {
		return
	}
	d, err := importCycle(r.path)
	if err != nil {
		log.Debugf("%s: %v", r.path, err)
		return
	}
	if d != nil {
		r.result.Diagnostics = append(r.result.Diagnostics, lint.FilterSuppressed([]lint.Diagnostic{*d}, r.source)...)
	}
}

// reportLint writes the results in the selected format and returns the
// exit code they amount to.
func (g *globals) reportLint(cmd *cobra.Command, o lintOptions, results []*fileResult) int {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	code := ExitOK
	var linted []*lint.Result
	for _, r := range results {
		switch {
		case r.parseFailed:
			g.renderParseError(stderr, r.path, r.source, r.err)
			code = max(code, ExitParse)
		case r.err != nil:
			fmt.Fprintf(stderr, "mon lint: %v\n", r.err) //nolint:errcheck // best-effort output to stderr
			code = max(code, ExitUsage)
		default:
			linted = append(linted, r.result)
			if r.result.HasErrors() {
				code = max(code, ExitLintErrors)
			} else if r.result.HasIssues() {
				code = max(code, ExitFindings)
			}
		}
	}

	var err error
	switch o.format {
	case formatJSON:
		err = lint.FormatJSON(stdout, linted)
	case formatSARIF:
		err = lint.FormatSARIF(stdout, linted, Version)
	case formatPretty:
		for _, r := range results {
			if r.result != nil {
				g.renderLintDiagnostics(stderr, r.path, r.source, r.result.Diagnostics)
			}
		}
	default:
		if len(linted) > 0 {
			lint.FormatText(stdout, linted)
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "mon lint: %v\n", err) //nolint:errcheck
		code = max(code, ExitUsage)
	}
	log.Debugf("linted %d file(s): %s", len(results), exitName(code))
	return code
}

func exitName(code int) string {
	switch code {
	case ExitOK:
		return "clean"
	case ExitFindings:
		return "findings"
	case ExitParse:
		return "parse failure"
	case ExitLintErrors:
		return "errors"
	default:
		return "failed"
	}
}
