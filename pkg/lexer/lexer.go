// Package lexer tokenizes ClickHouse SQL input.
//
// The lexer never fails: malformed input is represented by dedicated
// error token kinds that flow through the parser like any other token.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/grovelabs/chparse/pkg/token"
)

// MaxQuerySize is the maximum input length in bytes. Longer inputs
// short-circuit to a single ErrorMaxQuerySizeExceeded token.
const MaxQuerySize = 1_000_000

// Lexer scans SQL input into tokens.
type Lexer struct {
	input string
	pos   int // byte offset of the next rune
	start int // byte offset where the current token began
	line  int // 1-based line of the next rune
	col   int // 1-based column of the next rune, counted in runes

	startLine int // line where the current token began
	startCol  int // column where the current token began

	includeWhitespace bool
}

// New creates a Lexer for the given input. Whitespace and comment tokens
// are included by default.
func New(input string) *Lexer {
	return &Lexer{
		input:             input,
		line:              1,
		col:               1,
		includeWhitespace: true,
	}
}

// SetIncludeWhitespace controls whether whitespace and comment tokens are
// emitted by Tokenize and TokenizeUpTo.
func (l *Lexer) SetIncludeWhitespace(include bool) *Lexer {
	l.includeWhitespace = include
	return l
}

// Tokenize scans the entire input. The result is terminated by exactly one
// EndOfStream token.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token

	if len(l.input) > MaxQuerySize {
		tokens = append(tokens, l.errorToken(token.ErrorMaxQuerySizeExceeded))
		tokens = append(tokens, l.eofToken())
		return tokens
	}

	for {
		tok := l.NextToken()
		if !l.includeWhitespace && tok.Kind.IsTrivia() {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EndOfStream {
			return tokens
		}
	}
}

// TokenizeUpTo scans tokens until the cursor reaches or passes the given
// byte position. Used by interactive callers probing partial input.
func (l *Lexer) TokenizeUpTo(position int) []token.Token {
	var tokens []token.Token

	if len(l.input) > MaxQuerySize {
		tokens = append(tokens, l.errorToken(token.ErrorMaxQuerySizeExceeded))
		tokens = append(tokens, l.eofToken())
		return tokens
	}

	for !l.isAtEnd() && l.pos < position {
		tok := l.NextToken()
		if !l.includeWhitespace && tok.Kind.IsTrivia() {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EndOfStream {
			break
		}
	}

	return tokens
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.start = l.pos
	l.startLine = l.line
	l.startCol = l.col

	if l.isAtEnd() {
		return l.eofToken()
	}

	c := l.advance()

	if unicode.IsSpace(c) {
		return l.readWhitespace()
	}

	if c == '-' && l.match('-') {
		return l.readSingleLineComment()
	}
	if c == '/' && l.match('*') {
		return l.readMultiLineComment()
	}

	switch {
	case c >= '0' && c <= '9':
		return l.readNumber()
	case isWordStart(c):
		return l.readBareWord()
	}

	switch c {
	case '\'':
		return l.readQuoted('\'', token.StringLiteral, token.ErrorSingleQuoteIsNotClosed)
	case '"':
		return l.readQuoted('"', token.QuotedIdentifier, token.ErrorDoubleQuoteIsNotClosed)
	case '`':
		return l.readQuoted('`', token.QuotedIdentifier, token.ErrorBackQuoteIsNotClosed)

	case '(':
		return l.makeToken(token.OpeningRoundBracket)
	case ')':
		return l.makeToken(token.ClosingRoundBracket)
	case '[':
		return l.makeToken(token.OpeningSquareBracket)
	case ']':
		return l.makeToken(token.ClosingSquareBracket)
	case '{':
		return l.makeToken(token.OpeningCurlyBrace)
	case '}':
		return l.makeToken(token.ClosingCurlyBrace)

	case ',':
		return l.makeToken(token.Comma)
	case ';':
		return l.makeToken(token.Semicolon)
	case '.':
		return l.makeToken(token.Dot)

	case '*':
		return l.makeToken(token.Asterisk)
	case '$':
		return l.makeToken(token.DollarSign)
	case '+':
		return l.makeToken(token.Plus)
	case '-':
		if l.match('>') {
			return l.makeToken(token.Arrow)
		}
		return l.makeToken(token.Minus)
	case '/':
		return l.makeToken(token.Slash)
	case '%':
		return l.makeToken(token.Percent)
	case '?':
		return l.makeToken(token.QuestionMark)
	case ':':
		if l.match(':') {
			return l.makeToken(token.DoubleColon)
		}
		return l.makeToken(token.Colon)
	case '^':
		return l.makeToken(token.Caret)
	case '=':
		return l.makeToken(token.Equals)
	case '!':
		if l.match('=') {
			return l.makeToken(token.NotEquals)
		}
		return l.makeToken(token.ErrorSingleExclamationMark)
	case '<':
		if l.match('=') {
			if l.match('>') {
				return l.makeToken(token.Spaceship)
			}
			return l.makeToken(token.LessOrEquals)
		}
		if l.match('>') {
			return l.makeToken(token.NotEquals)
		}
		return l.makeToken(token.Less)
	case '>':
		if l.match('=') {
			return l.makeToken(token.GreaterOrEquals)
		}
		return l.makeToken(token.Greater)
	case '|':
		if l.match('|') {
			return l.makeToken(token.Concatenation)
		}
		return l.makeToken(token.ErrorSinglePipeMark)
	case '@':
		if l.match('@') {
			return l.makeToken(token.DoubleAt)
		}
		return l.makeToken(token.At)

	case '\\':
		// ClickHouse terminal shorthand for vertical output.
		if l.match('G') || l.match('g') {
			return l.makeToken(token.VerticalDelimiter)
		}
		return l.makeToken(token.Error)
	}

	return l.makeToken(token.Error)
}

// ---------- scanners ----------

func (l *Lexer) readWhitespace() token.Token {
	for !l.isAtEnd() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
	return l.makeToken(token.Whitespace)
}

func (l *Lexer) readSingleLineComment() token.Token {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
	return l.makeToken(token.Comment)
}

// readMultiLineComment scans a /* ... */ comment, which may nest.
func (l *Lexer) readMultiLineComment() token.Token {
	depth := 1
	for depth > 0 {
		if l.isAtEnd() {
			return l.makeToken(token.ErrorMultilineCommentIsNotClosed)
		}
		switch l.advance() {
		case '/':
			if l.match('*') {
				depth++
			}
		case '*':
			if l.match('/') {
				depth--
			}
		}
	}
	return l.makeToken(token.Comment)
}

// readNumber scans a numeric literal. The first digit has been consumed.
func (l *Lexer) readNumber() token.Token {
	// A digit run directly after a dot is a tuple index access (x.1.1);
	// it must not swallow the following dots as a fractional part.
	prevWasDot := l.start > 0 && l.input[l.start-1] == '.'

	if prevWasDot {
		l.readDigits(false)
	} else {
		hex := false

		if l.pos-l.start == 1 && l.input[l.start] == '0' {
			switch l.peek() {
			case 'x', 'X':
				if isHexDigit(l.peekNext()) {
					l.advance()
					hex = true
				}
			case 'b', 'B':
				// The prefix is recognized, but the digits after it are
				// still read in decimal mode.
				if next := l.peekNext(); next == '0' || next == '1' {
					l.advance()
				}
			}
		}

		if hex {
			l.readHexDigits()
		} else {
			// The digit consumed in NextToken counts as a preceding digit,
			// so 1_000 is a valid grouped number.
			l.readDigits(false)
		}

		if l.peek() == '.' {
			l.advance()
			if hex {
				l.readHexDigits()
			} else {
				l.readDigits(true)
			}
		}

		// Hex numbers use a p/P exponent, decimal numbers e/E. The
		// exponent's digits are always decimal and must be present.
		if c := l.peek(); (hex && (c == 'p' || c == 'P')) || (!hex && (c == 'e' || c == 'E')) {
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			if !isDigit(l.peek()) {
				return l.makeToken(token.ErrorWrongNumber)
			}
			l.readDigits(true)
		}
	}

	if c := l.peek(); !l.isAtEnd() && (unicode.IsLetter(c) || c == '_') {
		return l.readIdentifierStartingWithNumber()
	}

	return l.makeToken(token.Number)
}

// readDigits consumes decimal digits with underscore group separators.
// A separator is valid only when flanked by digits on both sides;
// startOfBlock is false when the caller already consumed a digit of the
// current run.
func (l *Lexer) readDigits(startOfBlock bool) {
	for {
		c := l.peek()
		switch {
		case isDigit(c):
			l.advance()
			startOfBlock = false
		case c == '_' && !startOfBlock:
			if !isDigit(l.peekNext()) {
				return
			}
			l.advance()
			startOfBlock = true
		default:
			return
		}
	}
}

// readHexDigits consumes hex digits with underscore group separators.
func (l *Lexer) readHexDigits() {
	startOfBlock := true
	for {
		c := l.peek()
		switch {
		case isHexDigit(c):
			l.advance()
			startOfBlock = false
		case c == '_' && !startOfBlock:
			if !isHexDigit(l.peekNext()) {
				return
			}
			l.advance()
			startOfBlock = true
		default:
			return
		}
	}
}

// readIdentifierStartingWithNumber re-reads a number-then-letters span as
// an identifier (like 1name) and validates it.
func (l *Lexer) readIdentifierStartingWithNumber() token.Token {
	for {
		c := l.peek()
		if c == 0 || (!unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '$') {
			break
		}
		l.advance()
	}

	lexeme := l.input[l.start:l.pos]
	for _, c := range lexeme {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '$' {
			return l.makeToken(token.ErrorWrongNumber)
		}
	}
	return l.makeToken(token.BareWord)
}

// readQuoted scans a quoted form. All three quote styles share the same
// algorithm: backslash escapes one character, a doubled quote is an
// escaped quote, any other quote closes the token. Running off the end of
// input yields the kind-specific "not closed" error.
func (l *Lexer) readQuoted(quote rune, success, unterminated token.Kind) token.Token {
	escaped := false
	for {
		if l.isAtEnd() {
			return l.makeToken(unterminated)
		}
		c := l.peek()
		switch {
		case c == quote && !escaped:
			if l.peekNext() == quote {
				l.advance()
				l.advance()
				continue
			}
			l.advance()
			return l.makeToken(success)
		case c == '\\' && !escaped:
			l.advance()
			escaped = true
		default:
			l.advance()
			escaped = false
		}
	}
}

func (l *Lexer) readBareWord() token.Token {
	for {
		c := l.peek()
		if c == 0 || (!unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_') {
			break
		}
		l.advance()
	}
	return l.makeToken(token.BareWord)
}

// ---------- cursor primitives ----------

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.input)
}

// advance consumes and returns the next rune.
func (l *Lexer) advance() rune {
	c, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

// peek returns the next rune without advancing, or 0 at end of input.
func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	c, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return c
}

// peekNext returns the rune after the next one, or 0 past end of input.
func (l *Lexer) peekNext() rune {
	if l.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if l.pos+size >= len(l.input) {
		return 0
	}
	c, _ := utf8.DecodeRuneInString(l.input[l.pos+size:])
	return c
}

// match consumes the next rune if it equals expected.
func (l *Lexer) match(expected rune) bool {
	if l.peek() != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) makeToken(kind token.Kind) token.Token {
	return token.New(kind, l.input[l.start:l.pos], l.start, l.pos, l.startLine, l.startCol)
}

func (l *Lexer) errorToken(kind token.Kind) token.Token {
	return token.New(kind, "", l.pos, l.pos, l.line, l.col)
}

func (l *Lexer) eofToken() token.Token {
	return token.New(token.EndOfStream, "", l.pos, l.pos, l.line, l.col)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// isWordStart reports whether c can start a bare word. Only ASCII letters
// and underscore start identifiers; continuation characters may be any
// unicode letter or digit.
func isWordStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// ---------- package-level entry points ----------

// Tokenize scans sql excluding whitespace and comments.
func Tokenize(sql string) []token.Token {
	return New(sql).SetIncludeWhitespace(false).Tokenize()
}

// TokenizeWithWhitespace scans sql keeping every trivia token, so that the
// concatenated token texts reproduce the input exactly.
func TokenizeWithWhitespace(sql string) []token.Token {
	return New(sql).Tokenize()
}

// TokenizeUpTo scans sql, excluding trivia, stopping once the cursor
// reaches or passes the given byte position.
func TokenizeUpTo(sql string, position int) []token.Token {
	return New(sql).SetIncludeWhitespace(false).TokenizeUpTo(position)
}

// Reconstruct concatenates token texts in order. For a trivia-inclusive
// token sequence this reproduces the original input.
func Reconstruct(tokens []token.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}
