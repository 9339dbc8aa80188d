// Command validate checks a case directory for structural errors before
// it is shipped. A case that fails validation will refuse to start in the
// engine; this surfaces the full aggregated report at authoring time.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/halloway/gumshoe/pkg/casefile"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "validate <case-dir>",
		Short:        "Validate mystery case documents",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, dir string) error {
	c, err := casefile.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load case: %w", err)
	}

	if err := c.Validate(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Case %q is invalid:\n", c.Name)
		for _, e := range flatten(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %v\n", e)
		}
		return fmt.Errorf("%d validation error(s)", len(flatten(err)))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Case %q is valid: %d clues, %d characters, %d suspects\n",
		c.Name, len(c.Clues), len(c.Characters), len(c.Accusation.Suspects))
	return nil
}

// flatten unwraps an errors.Join result into its parts.
func flatten(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
