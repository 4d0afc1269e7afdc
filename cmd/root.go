// Copyright © 2025 The MON authors

package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"

	// Registers the stderr/file logging backend.
	_ "github.com/tliron/commonlog/simple"
)

// Version is reported by --version and in SARIF output.
const Version = "0.1.0"

var log = commonlog.GetLogger("mon.cmd")

// globals holds the persistent flags shared by every command and the
// configuration loaded from them before a command runs.
type globals struct {
	cmdConfig

	cfgFile string
	color   string
	verbose int
	logFile string

	v *viper.Viper
}

// NewRootCommand builds the mon command tree.  Embedders may pass options
// to change the base lint and format configuration.
func NewRootCommand(opts ...Option) *cobra.Command {
	g := &globals{}
	for _, o := range opts {
		o(&g.cmdConfig)
	}

	root := &cobra.Command{
		Use:     "mon",
		Short:   "MON (Mycel Object Notation) tooling",
		Version: Version,
		Long: `mon lints, formats and checks MON configuration files and serves
them to editors over the Language Server Protocol.

Getting started:
  mon check config.mon          Check syntax and import cycles
  mon lint ./...                Lint every .mon file below the current directory
  mon fmt -w config.mon         Format a file in place
  mon explain LINT2002          Describe a diagnostic code
  mon bundle app.mon -o out.mon Verify the import graph and write the entry file
  mon lsp                       Start the language server on stdio

Configuration:
  Global settings are read from .mon.yaml, .mon.toml or .mon.json in the
  working directory or $HOME (or the file given with --config). The "lint"
  and "format" sections take the same keys as the project files, and every
  key can be set from the environment, e.g. MON_LINT_MAX_NESTING_DEPTH=6.

  Project files written in MON itself are picked up from the working
  directory: .moncfg.mon for the linter and .monconfig.mon for the
  formatter. Command line flags override project files, which override
  the global settings.

Exit codes:
  0  success
  1  lint findings (warnings or infos only), or a file needs formatting
  2  bad invocation, invalid configuration or unreadable file
  3  parse failure
  4  at least one error severity diagnostic`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return g.setup()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&g.cfgFile, "config", "",
		"config file (default is .mon.yaml in the working directory or $HOME)")
	pf.StringVar(&g.color, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	pf.CountVarP(&g.verbose, "verbose", "v",
		"Increase log verbosity (may be repeated).")
	pf.StringVar(&g.logFile, "log-file", "",
		"Write logs to this file instead of stderr.")

	root.AddCommand(
		newLintCmd(g),
		newFmtCmd(g),
		newCheckCmd(g),
		newBundleCmd(g),
		newExplainCmd(g),
		newLSPCmd(g),
	)
	return root
}

// Execute runs the command line and exits the process with its exit code.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// Run executes the command tree with args and returns the process exit
// code.
func Run(ctx context.Context, args []string, opts ...Option) int {
	root := NewRootCommand(opts...)
	root.SetArgs(args)
	return exitCode(root.ExecuteContext(ctx), root.ErrOrStderr())
}
