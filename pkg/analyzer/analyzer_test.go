package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovelabs/chparse/pkg/parser"
)

func TestAnalyzeSimpleSelect(t *testing.T) {
	report := Analyze(parser.Parse("SELECT a FROM my_table"))

	assert.Equal(t, []string{"my_table"}, report.Tables)
}

func TestAnalyzeQualifiedTable(t *testing.T) {
	report := Analyze(parser.Parse("SELECT a FROM db.tbl"))

	assert.Equal(t, []string{"tbl"}, report.Tables)
}

func TestAnalyzeMultipleStatements(t *testing.T) {
	report := Analyze(parser.Parse("SELECT a FROM t1; SELECT b FROM t2;"))

	assert.Equal(t, []string{"t1", "t2"}, report.Tables)
}

func TestAnalyzeSkipsStatementWithoutFrom(t *testing.T) {
	report := Analyze(parser.Parse("SELECT 1; SELECT a FROM t"))

	assert.Equal(t, []string{"t"}, report.Tables)
}

func TestAnalyzeSkipsQuotedTableName(t *testing.T) {
	report := Analyze(parser.Parse(`SELECT a FROM "quoted"`))

	assert.Empty(t, report.Tables)
}

func TestAnalyzeFromBeforeSelect(t *testing.T) {
	report := Analyze(parser.Parse("FROM system.numbers SELECT number"))

	assert.Equal(t, []string{"numbers"}, report.Tables)
}

func TestAnalyzeColumnCounts(t *testing.T) {
	report := Analyze(parser.Parse("SELECT a, b AS c, d FROM t"))

	require.Len(t, report.Statements, 1)
	stmt := report.Statements[0]
	assert.Equal(t, "t", stmt.Table)
	assert.Equal(t, 3, stmt.Columns)
}

func TestAnalyzeEmptyTree(t *testing.T) {
	report := Analyze(parser.Parse(""))

	assert.Empty(t, report.Tables)
	assert.Empty(t, report.Statements)
}
