package parser

import (
	"github.com/grovelabs/chparse/pkg/cst"
	"github.com/grovelabs/chparse/pkg/token"
)

// atSelectStatement reports whether the cursor can start a SELECT
// statement. ClickHouse allows the FROM clause before SELECT, so FROM is
// a valid statement opener.
func atSelectStatement(p *Parser) bool {
	return p.atKeyword(KeywordWith) || p.atKeyword(KeywordSelect) || p.atKeyword(KeywordFrom)
}

// atEndOfColumnList reports whether the cursor sits on a keyword that
// terminates a WITH or SELECT column list.
func atEndOfColumnList(p *Parser) bool {
	return p.atKeyword(KeywordSelect) ||
		p.atKeyword(KeywordFrom) ||
		p.atKeyword(KeywordWhere) ||
		p.atKeyword(KeywordOrder) ||
		p.atKeyword(KeywordLimit)
}

func parseSelectStatement(p *Parser) {
	m := p.open()

	if p.atKeyword(KeywordWith) {
		parseWithClause(p)
	}

	// FROM may come first (FROM t SELECT x). A second FROM after the
	// SELECT clause is then a recovered error, not a parse failure.
	parsedEarlyFrom := false
	if p.atKeyword(KeywordFrom) {
		parseFromClause(p)
		parsedEarlyFrom = true
	}

	parseSelectClause(p)

	if p.atKeyword(KeywordFrom) {
		parseFromClause(p)

		if parsedEarlyFrom {
			p.recoverWithError("duplicate FROM clause")
		}
	}

	if p.atKeyword(KeywordWhere) {
		m := p.open()
		p.expectKeyword(KeywordWhere)
		parseExpression(p)
		p.close(m, cst.WhereClause)
	}

	if p.atKeyword(KeywordOrder) {
		m := p.open()
		p.expectKeyword(KeywordOrder)
		p.expectKeyword(KeywordBy)
		item := p.open()
		parseExpression(p)
		p.close(item, cst.OrderByItem)
		p.close(m, cst.OrderByClause)
	}

	if p.atKeyword(KeywordLimit) {
		m := p.open()
		p.expectKeyword(KeywordLimit)
		parseExpression(p)
		p.close(m, cst.LimitClause)
	}

	p.close(m, cst.SelectStatement)
}

func parseWithClause(p *Parser) {
	m := p.open()
	p.expectKeyword(KeywordWith)
	parseColumnList(p)
	p.close(m, cst.WithClause)
}

func parseSelectClause(p *Parser) {
	m := p.open()
	p.expectKeyword(KeywordSelect)
	parseColumnList(p)
	p.close(m, cst.SelectClause)
}

// parseColumnList parses a comma-separated list of column expressions
// with optional aliases, stopping at the next clause keyword or the end
// of the statement.
func parseColumnList(p *Parser) {
	m := p.open()

	first := true
	for !atEndOfColumnList(p) && !p.endOfStatement() {
		if !first {
			p.expect(token.Comma)
		}
		first = false

		parseExpression(p)

		// An alias is AS plus a name, or a bare/quoted name directly
		// after the expression. A clause keyword is never an alias.
		if p.atKeyword(KeywordAs) ||
			(!atEndOfColumnList(p) && p.at(token.BareWord)) ||
			p.at(token.QuotedIdentifier) {
			m := p.open()
			if p.atKeyword(KeywordAs) {
				p.expectKeyword(KeywordAs)
			}

			if !atEndOfColumnList(p) {
				p.advance()
			} else {
				p.recoverWithError("expected column alias")
			}

			p.close(m, cst.ColumnAlias)
		}
	}

	p.close(m, cst.ColumnList)
}

func parseFromClause(p *Parser) {
	m := p.open()
	p.expectKeyword(KeywordFrom)
	parseTableReference(p)
	p.close(m, cst.FromClause)
}

// parseTableReference parses a table name with optional database
// qualification (db.table). Missing parts are recovered in place.
func parseTableReference(p *Parser) {
	m := p.open()

	if p.atAny(token.BareWord, token.QuotedIdentifier) {
		p.advance()

		if p.at(token.Dot) {
			p.advance()

			if p.atAny(token.BareWord, token.QuotedIdentifier) {
				p.advance()
			} else {
				p.advanceWithError("expected table name after dot")
			}
		}
	} else {
		p.advanceWithError("expected table reference")
	}

	p.close(m, cst.TableIdentifier)
}
