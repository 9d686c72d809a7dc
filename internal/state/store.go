// Package state records table-extraction runs in a SQLite database.
package state

import "time"

// Run is one recorded invocation of table extraction.
type Run struct {
	ID          string
	StartedAt   time.Time
	CompletedAt *time.Time
	Files       int
	Tables      int
}

// Extraction is one table name extracted from one file during a run.
type Extraction struct {
	ID        string
	RunID     string
	Path      string
	TableName string
	Position  int
}

// Store persists extraction runs.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	CreateRun() (*Run, error)
	CompleteRun(id string, files, tables int) error
	GetRun(id string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)

	RecordExtraction(runID, path, tableName string, position int) error
	ExtractionsForRun(runID string) ([]Extraction, error)
}
