package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/grovelabs/chparse/internal/cli/config"
	"github.com/grovelabs/chparse/pkg/analyzer"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-parse SQL files on change",
		Long: `Watch a directory tree and re-parse .sql files as they change,
logging the referenced tables and any recovery diagnostics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := config.GetLogger(cmd.Context())
			dir := args[0]

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer func() { _ = watcher.Close() }()

			if err := watchDir(watcher, dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}

			debounce := config.DefaultDebounceMillis
			if cfg := config.GetCurrentConfig(); cfg != nil {
				debounce = cfg.Watch.DebounceMillis
			}

			logger.Info("watching for changes", "dir", dir)
			watchLoop(cmd.Context(), logger, watcher, time.Duration(debounce)*time.Millisecond, func(path string) {
				reparse(cmd, path)
			})
			return nil
		},
	}
}

// watchDir recursively adds a directory tree to the watcher, skipping
// hidden directories.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); len(name) > 1 && name[0] == '.' {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

// watchLoop dispatches debounced change events until the context ends.
func watchLoop(ctx context.Context, logger *slog.Logger, watcher *fsnotify.Watcher, debounce time.Duration, onChange func(path string)) {
	var timer *time.Timer
	var pending string

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".sql") {
				continue
			}

			pending = event.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				onChange(pending)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Error("watch error", "error", err)
		}
	}
}

// reparse parses one changed file and logs the result.
func reparse(cmd *cobra.Command, path string) {
	logger := config.GetLogger(cmd.Context())

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read changed file", "path", path, "error", err)
		return
	}

	tree, diags, err := safeParse(string(data), parseOptions(cmd.Context())...)
	if err != nil {
		logger.Error("parse failed", "path", path, "error", err)
		return
	}

	report := analyzer.Analyze(tree)
	logger.Info("parsed",
		"path", path,
		"tables", strings.Join(report.Tables, ","),
		"diagnostics", len(diags))

	for _, d := range diags {
		logger.Warn("diagnostic", "path", path, "pos", fmt.Sprintf("%d:%d", d.Line, d.Column), "message", d.Message)
	}
}
