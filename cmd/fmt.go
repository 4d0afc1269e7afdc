// Copyright © 2025 The MON authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mon-lang/mon/formatter"
	"github.com/mon-lang/mon/parser"
	"github.com/spf13/cobra"
)

type fmtOptions struct {
	check       bool
	write       bool
	diff        bool
	list        bool
	watch       bool
	excludes    []string
	projectFile string
	formatOverrides
}

func newFmtCmd(g *globals) *cobra.Command {
	var o fmtOptions
	cmd := &cobra.Command{
		Use:   "fmt [flags] [files...]",
		Short: "Format MON files",
		Long: `Format MON files, similar to gofmt for Go.

Normalizes indentation and spacing, expands or collapses objects and
arrays according to the configured style, and preserves comments. The
formatter is idempotent.

With no files, reads from stdin and writes to stdout.
With files, prints formatted output to stdout unless -w is given.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -c          Check only; exit 1 if any file needs formatting
  -d          Display a diff of changes
  -l          List files that would be changed

Styles: ` + strings.Join(formatter.Styles, ", ") + `

Examples:
  mon fmt config.mon               Print formatted output
  mon fmt -w config.mon            Format in place
  mon fmt -w ./...                 Format every .mon file below .
  mon fmt -c ./...                 Verify formatting in CI
  mon fmt -d config.mon            Show what would change
  mon fmt --style=rust config.mon  Use a preset style
  mon fmt -w --watch conf/         Format files as they are saved
  cat config.mon | mon fmt         Format from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.formatConfig(o.projectFile, o.formatOverrides)
			if err != nil {
				return usageError(err)
			}
			if len(args) == 0 {
				return g.fmtStdin(cmd, cfg)
			}

			paths, err := expandArgs(args, o.excludes)
			if err != nil {
				return usageError(err)
			}
			code := ExitOK
			for _, path := range paths {
				code = max(code, g.fmtFile(cmd, o, path, cfg))
			}
			if !o.watch {
				return exitWith(code)
			}
			return watchFiles(cmd.Context(), args, func(path string) {
				g.fmtFile(cmd, o, path, cfg)
			})
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&o.check, "check", "c", false,
		"Report files that need formatting without changing them.")
	f.BoolVarP(&o.write, "write", "w", false,
		"Write result to (source) file instead of stdout.")
	f.BoolVarP(&o.diff, "diff", "d", false,
		"Display diffs instead of rewriting files.")
	f.BoolVarP(&o.list, "list", "l", false,
		"List files whose formatting differs from mon fmt's.")
	f.BoolVar(&o.watch, "watch", false,
		"Format files again whenever they change.")
	f.StringVar(&o.style, "style", "",
		"Style preset to start from ("+strings.Join(formatter.Styles, ", ")+").")
	f.IntVar(&o.indentSize, "indent-size", 0,
		"Number of spaces per indentation level.")
	f.BoolVar(&o.useTabs, "use-tabs", false,
		"Indent with tabs.")
	f.StringArrayVar(&o.excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	f.StringVar(&o.projectFile, "format-config", "",
		"MON format configuration file (default is "+formatProjectFile+" in the working directory).")
	return cmd
}

func (g *globals) fmtStdin(cmd *cobra.Command, cfg *formatter.Config) error {
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return usageError(fmt.Errorf("reading stdin: %w", err))
	}
	out, err := formatter.FormatFile(src, "<stdin>", cfg)
	if err != nil {
		return exitWith(g.fmtError(cmd, "<stdin>", string(src), err))
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// fmtError reports a formatting failure and returns its exit code.
func (g *globals) fmtError(cmd *cobra.Command, path, source string, err error) int {
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		g.renderParseError(cmd.ErrOrStderr(), path, source, err)
		return ExitParse
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "mon fmt: %s: %v\n", path, err) //nolint:errcheck // best-effort output to stderr
	return ExitUsage
}

// fmtFile formats one file in the selected mode and returns its exit code.
func (g *globals) fmtFile(cmd *cobra.Command, o fmtOptions, path string, cfg *formatter.Config) int {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		fmt.Fprintf(stderr, "mon fmt: %v\n", err) //nolint:errcheck // best-effort output to stderr
		return ExitUsage
	}
	out, err := formatter.FormatFile(src, path, cfg)
	if err != nil {
		return g.fmtError(cmd, path, string(src), err)
	}
	changed := string(src) != string(out)
	log.Debugf("%s: changed=%t", path, changed)

	switch {
	case o.check:
		if changed {
			fmt.Fprintf(stdout, "✗ %s needs formatting\n", path) //nolint:errcheck
			return ExitFindings
		}
		fmt.Fprintf(stdout, "✓ %s is formatted correctly\n", path) //nolint:errcheck
	case o.list:
		if changed {
			fmt.Fprintln(stdout, path) //nolint:errcheck
			return ExitFindings
		}
	case o.diff:
		if changed {
			printUnifiedDiff(stdout, path, src, out)
		}
	case o.write:
		if !changed {
			return ExitOK
		}
		info, err := os.Stat(path)
		if err == nil {
			err = os.WriteFile(path, out, info.Mode().Perm())
		}
		if err != nil {
			fmt.Fprintf(stderr, "mon fmt: %v\n", err) //nolint:errcheck
			return ExitUsage
		}
		fmt.Fprintf(stdout, "✓ Formatted %s\n", path) //nolint:errcheck
	default:
		if _, err := stdout.Write(out); err != nil {
			return ExitUsage
		}
	}
	return ExitOK
}

// printUnifiedDiff writes a line-by-line comparison of the original and
// formatted text.
func printUnifiedDiff(w io.Writer, path string, original, formatted []byte) {
	fmt.Fprintf(w, "--- %s\n", path) //nolint:errcheck
	fmt.Fprintf(w, "+++ %s\n", path) //nolint:errcheck

	origLines := splitLines(original)
	fmtLines := splitLines(formatted)

	i, j := 0, 0
	for i < len(origLines) || j < len(fmtLines) {
		switch {
		case i < len(origLines) && j < len(fmtLines) && origLines[i] == fmtLines[j]:
			fmt.Fprintf(w, " %s\n", origLines[i]) //nolint:errcheck
			i++
			j++
		case i < len(origLines):
			fmt.Fprintf(w, "-%s\n", origLines[i]) //nolint:errcheck
			i++
		default:
			fmt.Fprintf(w, "+%s\n", fmtLines[j]) //nolint:errcheck
			j++
		}
	}
}

func splitLines(data []byte) []string {
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, string(data[start:i]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}
