// Package token defines the lexical token model for ClickHouse SQL.
//
// Keywords are not resolved at this level: identifiers and keywords are
// both emitted as BareWord, and the parser decides keyword-ness by a
// case-insensitive text comparison at the position where a keyword is
// grammatically possible.
package token

import "fmt"

// Kind represents the type of a lexical token.
type Kind int32

const (
	// Trivia
	Whitespace Kind = iota
	Comment

	// Literals
	BareWord         // identifier or keyword
	Number           // 123, 45.67, 1e10, 0xFF
	StringLiteral    // 'text'
	QuotedIdentifier // "name" or `name`

	// Brackets
	OpeningRoundBracket
	ClosingRoundBracket
	OpeningSquareBracket
	ClosingSquareBracket
	OpeningCurlyBrace
	ClosingCurlyBrace

	// Punctuation
	Comma
	Semicolon
	VerticalDelimiter // \G
	Dot

	// Operators and special symbols
	Asterisk
	HereDoc
	DollarSign
	Plus
	Minus
	Slash
	Percent
	Arrow // ->
	QuestionMark
	Colon
	Caret
	DoubleColon // ::
	Equals
	NotEquals // != or <>
	Less
	Greater
	LessOrEquals
	GreaterOrEquals
	Spaceship // <=>
	PipeMark
	Concatenation // ||

	// MySQL-style variables
	At
	DoubleAt

	// End of stream
	EndOfStream

	// Error tokens
	Error
	ErrorMultilineCommentIsNotClosed
	ErrorSingleQuoteIsNotClosed
	ErrorDoubleQuoteIsNotClosed
	ErrorBackQuoteIsNotClosed
	ErrorSingleExclamationMark
	ErrorSinglePipeMark
	ErrorWrongNumber
	ErrorMaxQuerySizeExceeded

	// Pseudo kinds for the AND/OR keyword operators. The lexer never
	// produces these; the expression parser substitutes them for BareWord
	// tokens so keyword operators fit the precedence table.
	And
	Or
)

// kindNames maps token kinds to their debug names.
var kindNames = map[Kind]string{
	Whitespace:                       "Whitespace",
	Comment:                          "Comment",
	BareWord:                         "BareWord",
	Number:                           "Number",
	StringLiteral:                    "StringLiteral",
	QuotedIdentifier:                 "QuotedIdentifier",
	OpeningRoundBracket:              "OpeningRoundBracket",
	ClosingRoundBracket:              "ClosingRoundBracket",
	OpeningSquareBracket:             "OpeningSquareBracket",
	ClosingSquareBracket:             "ClosingSquareBracket",
	OpeningCurlyBrace:                "OpeningCurlyBrace",
	ClosingCurlyBrace:                "ClosingCurlyBrace",
	Comma:                            "Comma",
	Semicolon:                        "Semicolon",
	VerticalDelimiter:                "VerticalDelimiter",
	Dot:                              "Dot",
	Asterisk:                         "Asterisk",
	HereDoc:                          "HereDoc",
	DollarSign:                       "DollarSign",
	Plus:                             "Plus",
	Minus:                            "Minus",
	Slash:                            "Slash",
	Percent:                          "Percent",
	Arrow:                            "Arrow",
	QuestionMark:                     "QuestionMark",
	Colon:                            "Colon",
	Caret:                            "Caret",
	DoubleColon:                      "DoubleColon",
	Equals:                           "Equals",
	NotEquals:                        "NotEquals",
	Less:                             "Less",
	Greater:                          "Greater",
	LessOrEquals:                     "LessOrEquals",
	GreaterOrEquals:                  "GreaterOrEquals",
	Spaceship:                        "Spaceship",
	PipeMark:                         "PipeMark",
	Concatenation:                    "Concatenation",
	At:                               "At",
	DoubleAt:                         "DoubleAt",
	EndOfStream:                      "EndOfStream",
	Error:                            "Error",
	ErrorMultilineCommentIsNotClosed: "ErrorMultilineCommentIsNotClosed",
	ErrorSingleQuoteIsNotClosed:      "ErrorSingleQuoteIsNotClosed",
	ErrorDoubleQuoteIsNotClosed:      "ErrorDoubleQuoteIsNotClosed",
	ErrorBackQuoteIsNotClosed:        "ErrorBackQuoteIsNotClosed",
	ErrorSingleExclamationMark:       "ErrorSingleExclamationMark",
	ErrorSinglePipeMark:              "ErrorSinglePipeMark",
	ErrorWrongNumber:                 "ErrorWrongNumber",
	ErrorMaxQuerySizeExceeded:        "ErrorMaxQuerySizeExceeded",
	And:                              "And",
	Or:                               "Or",
}

// String returns a human-readable representation of the token kind.
func (k Kind) String() string {
	switch k {
	case BareWord:
		return "identifier or keyword"
	case Number:
		return "number"
	case StringLiteral:
		return "string literal"
	case QuotedIdentifier:
		return "quoted identifier"
	case OpeningRoundBracket:
		return "("
	case ClosingRoundBracket:
		return ")"
	}
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Name returns the kind's debug name (the enum spelling, never a symbol).
func (k Kind) Name() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsTrivia reports whether the kind is whitespace or a comment.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment
}

// IsError reports whether the kind is one of the lexical error kinds.
func (k Kind) IsError() bool {
	return k >= Error && k <= ErrorMaxQuerySizeExceeded
}

// Token represents one lexical unit with its exact source span.
//
// Concatenating the Text of every token produced for an input, in order,
// reconstructs the input exactly.
type Token struct {
	Kind   Kind
	Text   string // exact source slice, case preserved
	Start  int    // byte offset of the first byte
	End    int    // byte offset one past the last byte
	Line   int    // 1-based line of the first character
	Column int    // 1-based column of the first character, counted in runes
}

// New creates a token.
func New(kind Kind, text string, start, end, line, column int) Token {
	return Token{Kind: kind, Text: text, Start: start, End: end, Line: line, Column: column}
}
