package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovelabs/chparse/internal/testutil"
	"github.com/grovelabs/chparse/pkg/cst"
	"github.com/grovelabs/chparse/pkg/token"
)

func TestParseSimpleSelect(t *testing.T) {
	want := `File
  SelectStatement
    SelectClause
      'SELECT'
      ColumnList
        ColumnReference
          'a'
    FromClause
      'FROM'
      TableIdentifier
        'my_table'
`
	assert.Equal(t, want, GetTree("SELECT a FROM my_table"))
}

func TestParseFromBeforeSelect(t *testing.T) {
	want := `File
  SelectStatement
    FromClause
      'FROM'
      TableIdentifier
        't'
    SelectClause
      'SELECT'
      ColumnList
        ColumnReference
          'x'
`
	tree, diags := ParseWithDiagnostics("FROM t SELECT x")
	assert.Equal(t, want, tree.Print())
	assert.Empty(t, diags)
}

func TestParseDuplicateFromRecovers(t *testing.T) {
	tree, diags := ParseWithDiagnostics("FROM t1 SELECT x FROM t2")

	stmt := tree.FirstTree(cst.SelectStatement)
	require.NotNil(t, stmt)
	assert.Len(t, stmt.Trees(cst.FromClause), 2)
	require.NotNil(t, stmt.FirstTree(cst.ErrorTree))

	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "duplicate FROM")
}

func TestParseClauses(t *testing.T) {
	tree := Parse("SELECT a FROM t WHERE x > 1 ORDER BY a LIMIT 10")

	stmt := tree.FirstTree(cst.SelectStatement)
	require.NotNil(t, stmt)

	assert.NotNil(t, stmt.FirstTree(cst.SelectClause))
	assert.NotNil(t, stmt.FirstTree(cst.FromClause))
	assert.NotNil(t, stmt.FirstTree(cst.WhereClause))

	orderBy := stmt.FirstTree(cst.OrderByClause)
	require.NotNil(t, orderBy)
	assert.NotNil(t, orderBy.FirstTree(cst.OrderByItem))

	assert.NotNil(t, stmt.FirstTree(cst.LimitClause))
	assert.Nil(t, stmt.FirstTree(cst.ErrorTree))
}

func TestParseWithClause(t *testing.T) {
	tree := Parse("WITH a, b SELECT c")

	stmt := tree.FirstTree(cst.SelectStatement)
	require.NotNil(t, stmt)

	with := stmt.FirstTree(cst.WithClause)
	require.NotNil(t, with)

	list := with.FirstTree(cst.ColumnList)
	require.NotNil(t, list)
	assert.Len(t, list.Trees(cst.ColumnReference), 2)
}

func TestParseColumnAliases(t *testing.T) {
	tree := Parse(`SELECT a, b AS c, d e, f "g" FROM t`)

	list := tree.FirstTree(cst.SelectStatement).
		FirstTree(cst.SelectClause).
		FirstTree(cst.ColumnList)
	require.NotNil(t, list)

	assert.Len(t, list.Trees(cst.ColumnReference), 4)
	assert.Len(t, list.Trees(cst.ColumnAlias), 3)
}

func TestParseMultipleStatements(t *testing.T) {
	tree, diags := ParseWithDiagnostics("SELECT a; SELECT b;")

	assert.Len(t, tree.Trees(cst.SelectStatement), 2)
	assert.Empty(t, diags)
}

func TestParseDottedTableReference(t *testing.T) {
	tree := Parse("SELECT x FROM db.tbl")

	ident := tree.FirstTree(cst.SelectStatement).
		FirstTree(cst.FromClause).
		FirstTree(cst.TableIdentifier)
	require.NotNil(t, ident)

	// Trivia scanned while looking for the table name attaches to the
	// identifier node, so trim before comparing the reconstructed text.
	assert.Equal(t, "db.tbl", strings.TrimSpace(ident.Text()))

	names := ident.Tokens()
	var words []string
	for _, tok := range names {
		if tok.Kind == token.BareWord {
			words = append(words, tok.Text)
		}
	}
	assert.Equal(t, []string{"db", "tbl"}, words)
}

func TestParseMissingTableReference(t *testing.T) {
	tree, diags := ParseWithDiagnostics("SELECT a FROM")

	ident := tree.FirstTree(cst.SelectStatement).
		FirstTree(cst.FromClause).
		FirstTree(cst.TableIdentifier)
	require.NotNil(t, ident)
	assert.NotNil(t, ident.FirstTree(cst.ErrorTree))

	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0].Message, "expected table reference")
}

func TestParseRecoversFromGarbage(t *testing.T) {
	tree, diags := ParseWithDiagnostics("garbage ! SELECT a")

	// Non-statement tokens become ErrorTree nodes; the statement after
	// them still parses.
	assert.NotEmpty(t, tree.Trees(cst.ErrorTree))
	assert.NotNil(t, tree.FirstTree(cst.SelectStatement))
	assert.NotEmpty(t, diags)
}

func TestParseIsLossless(t *testing.T) {
	inputs := []string{
		"SELECT a, b FROM t WHERE x = 1 ORDER BY a LIMIT 5",
		"  FROM db.tbl  SELECT *  ",
		"SELECT a -- comment\nFROM t",
		"WITH a SELECT b; SELECT c;",
		"garbage ! tokens here",
		"SELECT a FROM",
		"",
	}

	for _, input := range inputs {
		tree := Parse(input)
		assert.Equal(t, input, tree.Text(), "input %q", input)
	}
}

func TestParseEmptyInput(t *testing.T) {
	tree, diags := ParseWithDiagnostics("   \n  -- just a comment\n")

	assert.Equal(t, cst.File, tree.Kind)
	assert.Empty(t, tree.Trees(cst.SelectStatement))
	assert.Empty(t, diags)
}

func TestParsePanicsWhenStuck(t *testing.T) {
	// A clause keyword inside an argument list can never be consumed, so
	// the fuel guard trips rather than looping forever.
	assert.PanicsWithValue(t, "parser is stuck", func() {
		Parse("SELECT f(WHERE")
	})
}

func TestParseWithTraceLogger(t *testing.T) {
	tree := Parse("SELECT a FROM t", WithTraceLogger(testutil.NewTestLogger(t)))

	require.NotNil(t, tree.FirstTree(cst.SelectStatement))
	assert.Equal(t, "SELECT a FROM t", tree.Text())
}

func TestParseIntegrationQuery(t *testing.T) {
	sql := `
            WITH
                a,
                b
            SELECT
                column_a,
                column_b,
                "column c",
                json.nested.path "jsonNestedPath",
                (SELECT sub_a FROM sub_table),
                (column_d + column_e) + column_f,
                testFunc(5)(column_g) + 5,
                (SELECT 1) + (SELECT 2 FROM system."numbers") as subquery_result,
                my_int::Array(Tuple(Array(Int64), String)) casted_tuple,
                arrayMap((x, y) -> x + 1, (u, v) -> v + 1, [6, 7, 8, 9, (10), (SELECT 1 FROM system.numbers)]) "array thing"
            FROM table
            ORDER BY b;

            SELECT column_1;
            SELECT column, "quoted column", 'test', 3.14, 123;
            SELECT column_3 as c3, json.nested.path "jsonNestedPath" FROM table3;
            FROM system.numbers SELECT number WHERE number > 1 OR number < 5 AND 1=1 LIMIT 1;
        `

	tree := Parse(sql)

	assert.Equal(t, sql, tree.Text())
	assert.Len(t, tree.Trees(cst.SelectStatement), 5)

	dump := tree.Print()
	for _, node := range []string{
		"WithClause", "SubqueryExpression", "FunctionCall",
		"LambdaExpression", "CastExpression", "TupleExpression",
		"ArrayExpression", "DataTypeParameters", "OrderByClause",
		"LimitClause", "WhereClause", "ColumnAlias",
	} {
		assert.Contains(t, dump, node)
	}
	assert.NotContains(t, dump, "ErrorTree")
}

func TestDiagnosticPositions(t *testing.T) {
	_, diags := ParseWithDiagnostics("SELECT a FROM 123")

	require.Len(t, diags, 1)
	first := diags[0]
	assert.Equal(t, 14, first.Offset)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, 15, first.Column)
	assert.Equal(t, "1:15: expected table reference", first.String())
}
