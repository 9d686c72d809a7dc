package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/grovelabs/chparse/pkg/lexer"
	"github.com/grovelabs/chparse/pkg/parser"
	"github.com/grovelabs/chparse/pkg/token"
)

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	var includeTrivia bool

	cmd := &cobra.Command{
		Use:   "tokens [files...]",
		Short: "Tokenize SQL and print the token table",
		Long: `Tokenize SQL files (or stdin) and print one row per token.

Lexical errors are shown as error-kind tokens; the scan itself never
fails. Reserved marks bare words that match a ClickHouse reserved word.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readInputs(cmd, args)
			if err != nil {
				return err
			}

			for _, in := range inputs {
				if len(inputs) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "-- %s\n", in.Name)
				}

				var tokens []token.Token
				if includeTrivia {
					tokens = lexer.TokenizeWithWhitespace(in.SQL)
				} else {
					tokens = lexer.Tokenize(in.SQL)
				}

				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"#", "Kind", "Text", "Line", "Col", "Reserved"})

				for i, tok := range tokens {
					reserved := ""
					if tok.Kind == token.BareWord && parser.IsReservedWord(tok.Text) {
						reserved = "yes"
					}
					t.AppendRow(table.Row{i, tok.Kind.Name(), tok.Text, tok.Line, tok.Column, reserved})
				}

				t.Render()
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&includeTrivia, "trivia", false, "Include whitespace and comment tokens")

	return cmd
}
