// Copyright © 2025 The MON authors

package cmd

import (
	"fmt"

	"github.com/mon-lang/mon/lint"
	"github.com/spf13/cobra"
)

func newExplainCmd(_ *globals) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "explain CODE",
		Short: "Describe a diagnostic code",
		Long: `Print the documentation of a lint diagnostic: its name, default severity,
the configuration key controlling it and a description of the problem.

CODE is either the code (LINT2002) or the rule name (DuplicateKey).

Examples:
  mon explain LINT2002
  mon explain MagicNumber`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := lint.LookupCode(args[0])
			if !ok {
				return usageError(fmt.Errorf("unknown diagnostic code %q; run 'mon lint --list' to see all codes", args[0]))
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), lint.CodeDoc(c, width))
			return err
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "Wrap the description at this column.")
	return cmd
}
