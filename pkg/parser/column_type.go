package parser

import (
	"github.com/grovelabs/chparse/pkg/cst"
	"github.com/grovelabs/chparse/pkg/token"
)

// parseColumnType parses the type side of a :: cast. Types nest through
// parameter lists, so Array(Tuple(Array(Int64), String)) is a DataType
// containing DataTypeParameters containing further DataTypes.
func parseColumnType(p *Parser) {
	m := p.open()

	if p.at(token.BareWord) {
		p.advance()
	} else {
		p.advanceWithError("expected type for cast operator")
	}

	if p.at(token.OpeningRoundBracket) {
		m := p.open()
		p.expect(token.OpeningRoundBracket)
		parseColumnType(p)

		for p.at(token.Comma) && !p.eof() {
			p.expect(token.Comma)
			parseColumnType(p)
		}

		p.expect(token.ClosingRoundBracket)
		p.close(m, cst.DataTypeParameters)
	}

	p.close(m, cst.DataType)
}
