package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovelabs/chparse/internal/cli"
	"github.com/grovelabs/chparse/internal/cli/config"
)

// runCommand executes the root command with the given args and stdin,
// returning stdout and stderr.
func runCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeSQLFile(t *testing.T, name, sql string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(sql), 0o600))
	return path
}

func TestParseCommandStdin(t *testing.T) {
	out, _, err := runCommand(t, "SELECT a FROM t", "parse")
	require.NoError(t, err)

	assert.Contains(t, out, "SelectStatement")
	assert.Contains(t, out, "SelectClause")
	assert.Contains(t, out, "FromClause")
	assert.Contains(t, out, "TableIdentifier")
	assert.Contains(t, out, "'t'")
}

func TestParseCommandFile(t *testing.T) {
	path := writeSQLFile(t, "query.sql", "SELECT id, name FROM users")

	out, _, err := runCommand(t, "", "parse", path)
	require.NoError(t, err)

	assert.Contains(t, out, "ColumnList")
	assert.Contains(t, out, "'users'")
	assert.NotContains(t, out, "ErrorTree")
}

func TestParseCommandDiagnostics(t *testing.T) {
	path := writeSQLFile(t, "bad.sql", "FROM t SELECT a FROM u")

	out, errOut, err := runCommand(t, "", "parse", "--diagnostics", path)
	require.NoError(t, err)

	assert.Contains(t, out, "ErrorTree")
	assert.Contains(t, errOut, "duplicate FROM")
	assert.Contains(t, errOut, path)
}

func TestParseCommandMissingFile(t *testing.T) {
	_, _, err := runCommand(t, "", "parse", "no-such-file.sql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-file.sql")
}

func TestTokensCommand(t *testing.T) {
	out, _, err := runCommand(t, "SELECT a FROM t", "tokens")
	require.NoError(t, err)

	assert.Contains(t, out, "BareWord")
	assert.Contains(t, out, "SELECT")
	assert.Contains(t, out, "yes", "SELECT and FROM are reserved words")
	assert.NotContains(t, out, "Whitespace")
}

func TestTokensCommandTrivia(t *testing.T) {
	out, _, err := runCommand(t, "SELECT a -- note\n", "tokens", "--trivia")
	require.NoError(t, err)

	assert.Contains(t, out, "Whitespace")
	assert.Contains(t, out, "Comment")
}

func TestTablesCommand(t *testing.T) {
	out, _, err := runCommand(t, "SELECT a FROM my_table; SELECT b FROM db.events", "tables")
	require.NoError(t, err)

	assert.Contains(t, out, "my_table")
	assert.Contains(t, out, "events")
	assert.Contains(t, out, "<stdin>")
}

func TestTablesCommandJSON(t *testing.T) {
	out, _, err := runCommand(t, "SELECT a FROM my_table", "tables", "--output", "json")
	require.NoError(t, err)

	var reports []struct {
		Name        string   `json:"name"`
		Tables      []string `json:"tables"`
		Diagnostics int      `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "<stdin>", reports[0].Name)
	assert.Equal(t, []string{"my_table"}, reports[0].Tables)
	assert.Equal(t, 0, reports[0].Diagnostics)
}

func TestTablesCommandYAML(t *testing.T) {
	out, _, err := runCommand(t, "SELECT a FROM my_table", "tables", "-o", "yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "name: <stdin>")
	assert.Contains(t, out, "- my_table")
}

func TestTablesCommandSave(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state", "chparse.db")
	path := writeSQLFile(t, "query.sql", "SELECT a FROM users")

	out, _, err := runCommand(t, "", "tables", "--save", "--state", statePath, path)
	require.NoError(t, err)

	assert.Contains(t, out, "users")
	assert.FileExists(t, statePath)
}

func TestTablesCommandMultipleFiles(t *testing.T) {
	first := writeSQLFile(t, "a.sql", "SELECT x FROM alpha")
	second := writeSQLFile(t, "b.sql", "FROM beta SELECT y")

	out, _, err := runCommand(t, "", "tables", first, second)
	require.NoError(t, err)

	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "beta")
}
