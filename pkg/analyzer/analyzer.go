// Package analyzer extracts table usage from parsed syntax trees.
//
// The analyzer is deliberately tolerant: statements that are missing the
// pieces it needs (a SELECT clause, a FROM clause, a bare table name) are
// skipped silently, because recovered error trees are a normal part of
// the input.
package analyzer

import (
	"github.com/grovelabs/chparse/pkg/cst"
	"github.com/grovelabs/chparse/pkg/token"
)

// StatementReport describes one SELECT statement that referenced a table.
type StatementReport struct {
	Table   string
	Columns int
}

// Report summarizes table usage across a whole tree.
type Report struct {
	// Tables lists extracted table names in source order. Qualified
	// references contribute the table part only, so db.tbl yields tbl.
	Tables []string

	Statements []StatementReport
}

// Analyze walks the tree and reports the tables referenced by its SELECT
// statements.
func Analyze(tree *cst.Tree) Report {
	var r Report
	analyzeTree(&r, tree)
	return r
}

func analyzeTree(r *Report, t *cst.Tree) {
	if t.Kind == cst.SelectStatement {
		analyzeSelectStatement(r, t)
		return
	}
	for _, c := range t.Children {
		if c.Tree != nil {
			analyzeTree(r, c.Tree)
		}
	}
}

func analyzeSelectStatement(r *Report, stmt *cst.Tree) {
	selectClause := stmt.FirstTree(cst.SelectClause)
	if selectClause == nil {
		return
	}

	fromClause := stmt.FirstTree(cst.FromClause)
	if fromClause == nil {
		return
	}

	ident := fromClause.FirstTree(cst.TableIdentifier)
	if ident == nil {
		return
	}

	// The last bare name wins: db.tbl extracts tbl.
	name := ident.LastToken(token.BareWord)
	if name == nil {
		return
	}

	r.Tables = append(r.Tables, name.Text)
	r.Statements = append(r.Statements, StatementReport{
		Table:   name.Text,
		Columns: countColumns(selectClause),
	})
}

// countColumns counts the selected expressions, aliases excluded.
func countColumns(selectClause *cst.Tree) int {
	list := selectClause.FirstTree(cst.ColumnList)
	if list == nil {
		return 0
	}
	n := 0
	for _, c := range list.Children {
		if c.Tree != nil && c.Tree.Kind != cst.ColumnAlias {
			n++
		}
	}
	return n
}
