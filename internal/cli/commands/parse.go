package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovelabs/chparse/internal/cli/config"
)

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	var showDiagnostics bool

	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Parse SQL and print the syntax tree",
		Long: `Parse SQL files (or stdin) and print the lossless syntax tree.

Every token of the input appears in the tree; recovered syntax errors
show up as ErrorTree nodes rather than aborting the parse.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := config.GetLogger(cmd.Context())

			inputs, err := readInputs(cmd, args)
			if err != nil {
				return err
			}

			for _, in := range inputs {
				tree, diags, err := safeParse(in.SQL, parseOptions(cmd.Context())...)
				if err != nil {
					return fmt.Errorf("%s: %w", in.Name, err)
				}

				if len(inputs) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "-- %s\n", in.Name)
				}
				fmt.Fprint(cmd.OutOrStdout(), tree.Print())

				logger.Debug("parsed input",
					"name", in.Name,
					"diagnostics", len(diags))

				if showDiagnostics {
					for _, d := range diags {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s:%s\n", in.Name, d)
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiagnostics, "diagnostics", false, "Print recovery diagnostics to stderr")

	return cmd
}
