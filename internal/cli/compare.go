package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/storysort/pkg/config"
)

// Results printed by the compare command.
const (
	CompareBefore = "before"
	CompareAfter  = "after"
	CompareEqual  = "equal"
)

func NewCompareCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <kind> <kind>",
		Short: "Print whether the first kind sorts before or after the second",
		Example: `  # Compare two kinds using the nearest configuration.
  storysort compare Forms/Button Overlays/Dialog`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := config.Resolve(".", ra.ConfigPath, config.WithColor(isTerminal(cmd.ErrOrStderr())))
			if err != nil {
				return fmt.Errorf("resolve preview configuration: %w", err)
			}

			c, err := res.Preview.Comparator()
			if err != nil {
				return err //nolint:wrapcheck // Already descriptive.
			}

			n, err := c.Compare(args[0], args[1])
			if err != nil {
				return fmt.Errorf("compare %q and %q: %w", args[0], args[1], err)
			}

			result := CompareEqual
			switch {
			case n < 0:
				result = CompareBefore
			case n > 0:
				result = CompareAfter
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
			if err != nil {
				return fmt.Errorf("write result: %w", err)
			}

			return nil
		},
	}
}
