// Package commands implements the chparse subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/grovelabs/chparse/internal/cli/config"
	"github.com/grovelabs/chparse/pkg/cst"
	"github.com/grovelabs/chparse/pkg/parser"
)

// input is one piece of SQL to process, from a file or stdin.
type input struct {
	Name string
	SQL  string
}

// readInputs collects SQL from the given file paths, or from stdin when
// no paths were given.
func readInputs(cmd *cobra.Command, args []string) ([]input, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []input{{Name: "<stdin>", SQL: string(data)}}, nil
	}

	inputs := make([]input, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		inputs = append(inputs, input{Name: path, SQL: string(data)})
	}
	return inputs, nil
}

// parseOptions builds parser options from the loaded configuration.
func parseOptions(ctx context.Context) []parser.Option {
	cfg := config.GetCurrentConfig()
	if cfg != nil && cfg.Trace {
		return []parser.Option{parser.WithTraceLogger(config.GetLogger(ctx))}
	}
	return nil
}

// safeParse parses sql, converting a parser panic into an error so one
// bad file does not take down a multi-file run.
func safeParse(sql string, opts ...parser.Option) (tree *cst.Tree, diags []parser.Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse failed: %v", r)
		}
	}()
	tree, diags = parser.ParseWithDiagnostics(sql, opts...)
	return tree, diags, nil
}

// outputFormat resolves the configured output format.
func outputFormat() string {
	if cfg := config.GetCurrentConfig(); cfg != nil && cfg.Output != "" {
		return cfg.Output
	}
	return config.DefaultOutput
}
