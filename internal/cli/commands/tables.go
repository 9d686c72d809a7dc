package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/grovelabs/chparse/internal/cli/config"
	"github.com/grovelabs/chparse/internal/state"
	"github.com/grovelabs/chparse/pkg/analyzer"
)

// fileReport is the per-input result of table extraction.
type fileReport struct {
	Name        string   `json:"name" yaml:"name"`
	Tables      []string `json:"tables" yaml:"tables"`
	Diagnostics int      `json:"diagnostics" yaml:"diagnostics"`
}

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "tables [files...]",
		Short: "Extract referenced tables from SQL",
		Long: `Parse SQL files (or stdin) and report the tables referenced by their
SELECT statements. Files are processed in parallel. With --save, the run
is recorded in the state database for later inspection.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := config.GetLogger(cmd.Context())

			inputs, err := readInputs(cmd, args)
			if err != nil {
				return err
			}

			opts := parseOptions(cmd.Context())
			reports := make([]fileReport, len(inputs))

			g := new(errgroup.Group)
			g.SetLimit(runtime.NumCPU())
			for i, in := range inputs {
				g.Go(func() error {
					tree, diags, err := safeParse(in.SQL, opts...)
					if err != nil {
						return fmt.Errorf("%s: %w", in.Name, err)
					}
					report := analyzer.Analyze(tree)
					reports[i] = fileReport{
						Name:        in.Name,
						Tables:      report.Tables,
						Diagnostics: len(diags),
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if save {
				if err := saveRun(reports); err != nil {
					return fmt.Errorf("failed to save run: %w", err)
				}
				logger.Debug("run saved", "files", len(reports))
			}

			return renderReports(cmd, reports)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Record the run in the state database")

	return cmd
}

func renderReports(cmd *cobra.Command, reports []fileReport) error {
	switch outputFormat() {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer func() { _ = enc.Close() }()
		return enc.Encode(reports)
	default:
		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"File", "Table", "Diagnostics"})
		for _, r := range reports {
			if len(r.Tables) == 0 {
				t.AppendRow(table.Row{r.Name, "(none)", r.Diagnostics})
				continue
			}
			for _, name := range r.Tables {
				t.AppendRow(table.Row{r.Name, name, r.Diagnostics})
			}
		}
		t.Render()
		return nil
	}
}

// saveRun persists the extraction results to the state database.
func saveRun(reports []fileReport) error {
	cfg := config.GetCurrentConfig()
	statePath := config.DefaultStateFile
	if cfg != nil && cfg.StatePath != "" {
		statePath = cfg.StatePath
	}

	if dir := filepath.Dir(statePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(statePath); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(); err != nil {
		return err
	}

	run, err := store.CreateRun()
	if err != nil {
		return err
	}

	tables := 0
	for _, r := range reports {
		for pos, name := range r.Tables {
			if err := store.RecordExtraction(run.ID, r.Name, name, pos); err != nil {
				return err
			}
			tables++
		}
	}

	return store.CompleteRun(run.ID, len(reports), tables)
}
