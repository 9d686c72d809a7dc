package parser

import (
	"github.com/grovelabs/chparse/pkg/cst"
	"github.com/grovelabs/chparse/pkg/token"
)

// precedenceTable lists binding levels from loosest to tightest. AND/OR
// are pseudo token kinds substituted for the matching BareWords.
var precedenceTable = [][]token.Kind{
	{token.And, token.Or},
	{token.GreaterOrEquals, token.LessOrEquals},
	{token.Equals, token.NotEquals},
	{token.Greater, token.Less},
	{token.Plus, token.Minus},
	{token.Asterisk, token.Slash},
}

func tightness(kind token.Kind) (int, bool) {
	for level, kinds := range precedenceTable {
		for _, k := range kinds {
			if k == kind {
				return level, true
			}
		}
	}
	return 0, false
}

// rightBindsTighter decides whether the upcoming operator should take the
// current expression as its left operand. The EndOfStream seed has no
// binding power, so the first operator always wins against it.
func rightBindsTighter(left, right token.Kind) bool {
	rightLevel, ok := tightness(right)
	if !ok {
		return false
	}
	leftLevel, ok := tightness(left)
	if !ok {
		if left != token.EndOfStream {
			panic("parser: non-operator left context")
		}
		return true
	}
	return rightLevel > leftLevel
}

func parseExpression(p *Parser) {
	parseExpressionRec(p, token.EndOfStream)
}

func parseExpressionRec(p *Parser, left token.Kind) {
	lhs, ok := exprDelimited(p)
	if !ok {
		p.advanceWithError("expected expression")
		return
	}

	// Call suffixes chain, so f(a)(b) wraps twice.
	for p.at(token.OpeningRoundBracket) {
		m := p.openBefore(lhs)
		argList(p)
		lhs = p.close(m, cst.FunctionCall)
	}

	// A cast can follow a call chain: f(a)::Int64.
	if p.at(token.DoubleColon) {
		m := p.openBefore(lhs)
		p.expect(token.DoubleColon)
		parseColumnType(p)
		lhs = p.close(m, cst.CastExpression)
	}

	for {
		right := p.nth(0)

		// Keyword operators enter the table as pseudo kinds.
		if p.atKeyword(KeywordAnd) {
			right = token.And
		} else if p.atKeyword(KeywordOr) {
			right = token.Or
		}

		if !rightBindsTighter(left, right) {
			break
		}

		m := p.openBefore(lhs)
		p.advance()
		parseExpressionRec(p, right)
		lhs = p.close(m, cst.BinaryExpression)
	}
}

// exprDelimited parses one delimited primary expression and returns its
// mark, or ok=false when the current token cannot start an expression.
func exprDelimited(p *Parser) (MarkClosed, bool) {
	var result MarkClosed

	switch p.nth(0) {
	case token.Asterisk:
		m := p.open()
		p.advance()
		result = p.close(m, cst.Asterisk)

	case token.StringLiteral:
		m := p.open()
		p.advance()
		result = p.close(m, cst.StringLiteral)

	case token.Number:
		m := p.open()
		p.advance()
		result = p.close(m, cst.NumberLiteral)

	case token.BareWord, token.QuotedIdentifier:
		m := p.open()
		switch {
		case atSelectStatement(p):
			parseSelectStatement(p)
			result = p.close(m, cst.SubqueryExpression)
		case !atEndOfColumnList(p):
			p.advance()
			// Dotted path: json.nested.path, t.1.1.
			for p.at(token.Dot) && !p.eof() {
				p.advance()
				exprDelimited(p)
			}
			result = p.close(m, cst.ColumnReference)
		default:
			p.recoverWithError("expected column identifier")
			result = p.close(m, cst.ColumnReference)
		}

	case token.OpeningRoundBracket:
		m := p.open()
		p.expect(token.OpeningRoundBracket)
		parseExpression(p)
		commas := 0
		for p.at(token.Comma) && !p.eof() {
			p.advance()
			parseExpression(p)
			commas++
		}
		p.expect(token.ClosingRoundBracket)
		if commas > 0 {
			result = p.close(m, cst.TupleExpression)
		} else {
			result = p.close(m, cst.Expression)
		}

	case token.OpeningSquareBracket:
		m := p.open()
		p.expect(token.OpeningSquareBracket)
		parseExpression(p)
		for p.at(token.Comma) && !p.eof() {
			p.advance()
			parseExpression(p)
		}
		p.expect(token.ClosingSquareBracket)
		result = p.close(m, cst.ArrayExpression)

	default:
		return MarkClosed{}, false
	}

	if p.at(token.DoubleColon) {
		m := p.openBefore(result)
		p.expect(token.DoubleColon)
		parseColumnType(p)
		return p.close(m, cst.CastExpression), true
	}

	return result, true
}

func argList(p *Parser) {
	m := p.open()

	first := true
	p.expect(token.OpeningRoundBracket)
	for !p.at(token.ClosingRoundBracket) && !p.eof() {
		if !first {
			p.expect(token.Comma)
		}
		arg(p)
		first = false
	}
	p.expect(token.ClosingRoundBracket)

	p.close(m, cst.ExpressionList)
}

// arg parses one call argument, which may be a lambda (params -> body).
func arg(p *Parser) {
	m := p.open()
	parseExpression(p)

	if p.at(token.Arrow) {
		p.advance()
		parseExpression(p)
		p.close(m, cst.LambdaExpression)
		return
	}

	p.close(m, cst.Expression)
}
