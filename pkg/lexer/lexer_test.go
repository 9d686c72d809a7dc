package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovelabs/chparse/pkg/token"
)

// kindsOf strips texts for compact expectations.
func kindsOf(tokens []token.Token) []token.Kind {
	kinds := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		kinds[i] = t.Kind
	}
	return kinds
}

func TestTokenizeBasic(t *testing.T) {
	tokens := Tokenize("SELECT 1")

	require.Len(t, tokens, 3)
	assert.Equal(t, token.BareWord, tokens[0].Kind)
	assert.Equal(t, "SELECT", tokens[0].Text)
	assert.Equal(t, token.Number, tokens[1].Kind)
	assert.Equal(t, "1", tokens[1].Text)
	assert.Equal(t, token.EndOfStream, tokens[2].Kind)
}

func TestTokenizeWithWhitespaceIsLossless(t *testing.T) {
	inputs := []string{
		"SELECT a, b FROM t WHERE x = 1",
		"select\n\t  *  from db.tbl -- trailing\n",
		"/* multi\nline */ SELECT 'str''esc' AS \"q\"",
		"broken 'unclosed",
		"x <=> y != z <> w",
		"",
	}

	for _, input := range inputs {
		tokens := TokenizeWithWhitespace(input)
		assert.Equal(t, input, Reconstruct(tokens), "input %q", input)
		require.NotEmpty(t, tokens)
		assert.Equal(t, token.EndOfStream, tokens[len(tokens)-1].Kind)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  token.Kind
		text  string
	}{
		{"integer", "123", token.Number, "123"},
		{"float", "45.67", token.Number, "45.67"},
		{"exponent", "1e10", token.Number, "1e10"},
		{"signed exponent", "2.5E-3", token.Number, "2.5E-3"},
		{"hex", "0xFF", token.Number, "0xFF"},
		{"hex float exponent", "0x1.8p3", token.Number, "0x1.8p3"},
		{"underscore groups", "1_000_000", token.Number, "1_000_000"},
		{"underscore after leading digit", "1_0", token.Number, "1_0"},
		{"underscore groups with fraction", "1_000.000_1", token.Number, "1_000.000_1"},
		{"underscore in exponent digits", "1e1_0", token.Number, "1e1_0"},
		{"missing exponent digits", "1e", token.ErrorWrongNumber, "1e"},
		{"missing exponent digits after sign", "1e+", token.ErrorWrongNumber, "1e+"},
		{"identifier starting with digit", "1name", token.BareWord, "1name"},
		{"trailing underscore becomes word", "1_", token.BareWord, "1_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.kind, tokens[0].Kind)
			assert.Equal(t, tt.text, tokens[0].Text)
		})
	}
}

func TestTokenizeTupleIndexAccess(t *testing.T) {
	// Digits directly after a dot never swallow a fractional part, so
	// x.1.1 stays four separate accesses rather than x followed by 1.1.
	tokens := Tokenize("x.1.1")

	want := []token.Kind{
		token.BareWord, token.Dot, token.Number, token.Dot, token.Number,
		token.EndOfStream,
	}
	assert.Equal(t, want, kindsOf(tokens))
}

func TestTokenizeStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  token.Kind
	}{
		{"single quoted", "'hello'", token.StringLiteral},
		{"doubled quote escape", "'it''s'", token.StringLiteral},
		{"backslash escape", `'a\'b'`, token.StringLiteral},
		{"double quoted identifier", `"name"`, token.QuotedIdentifier},
		{"backquoted identifier", "`name`", token.QuotedIdentifier},
		{"unterminated single", "'abc", token.ErrorSingleQuoteIsNotClosed},
		{"unterminated double", `"abc`, token.ErrorDoubleQuoteIsNotClosed},
		{"unterminated backquote", "`abc", token.ErrorBackQuoteIsNotClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.kind, tokens[0].Kind)
			assert.Equal(t, tt.input, tokens[0].Text)
		})
	}
}

func TestTokenizeComments(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		tokens := TokenizeWithWhitespace("-- note\nx")
		want := []token.Kind{
			token.Comment, token.Whitespace, token.BareWord, token.EndOfStream,
		}
		require.Equal(t, want, kindsOf(tokens))
		assert.Equal(t, "-- note", tokens[0].Text)
	})

	t.Run("nested block", func(t *testing.T) {
		tokens := Tokenize("/* a /* b */ c */ x")
		require.Len(t, tokens, 2)
		assert.Equal(t, token.BareWord, tokens[0].Kind)
	})

	t.Run("unterminated block", func(t *testing.T) {
		tokens := Tokenize("/* open")
		require.Len(t, tokens, 2)
		assert.Equal(t, token.ErrorMultilineCommentIsNotClosed, tokens[0].Kind)
	})
}

func TestTokenizeOperators(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"=", token.Equals},
		{"!=", token.NotEquals},
		{"<>", token.NotEquals},
		{"<", token.Less},
		{">", token.Greater},
		{"<=", token.LessOrEquals},
		{">=", token.GreaterOrEquals},
		{"<=>", token.Spaceship},
		{"->", token.Arrow},
		{"::", token.DoubleColon},
		{":", token.Colon},
		{"||", token.Concatenation},
		{"@", token.At},
		{"@@", token.DoubleAt},
		{"!", token.ErrorSingleExclamationMark},
		{"|", token.ErrorSinglePipeMark},
		{`\G`, token.VerticalDelimiter},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.kind, tokens[0].Kind)
			assert.Equal(t, tt.input, tokens[0].Text)
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens := TokenizeWithWhitespace("ab\ncd")

	require.Len(t, tokens, 4)

	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 1, tokens[0].Column)
	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, 2, tokens[0].End)

	assert.Equal(t, 2, tokens[2].Line)
	assert.Equal(t, 1, tokens[2].Column)
	assert.Equal(t, 3, tokens[2].Start)
	assert.Equal(t, 5, tokens[2].End)
}

func TestTokenizeUpTo(t *testing.T) {
	tokens := TokenizeUpTo("SELECT a FROM t", 8)

	require.Len(t, tokens, 2)
	assert.Equal(t, "SELECT", tokens[0].Text)
	assert.Equal(t, "a", tokens[1].Text)
}

func TestTokenizeMaxQuerySize(t *testing.T) {
	huge := strings.Repeat("x", MaxQuerySize+1)
	tokens := TokenizeWithWhitespace(huge)

	require.Len(t, tokens, 2)
	assert.Equal(t, token.ErrorMaxQuerySizeExceeded, tokens[0].Kind)
	assert.Equal(t, token.EndOfStream, tokens[1].Kind)
}

func TestTokenizeUpToMaxQuerySize(t *testing.T) {
	// The bounded variant enforces the size cap too; the position does not
	// carve an acceptable prefix out of an oversized input.
	huge := strings.Repeat("x", MaxQuerySize+1)
	tokens := TokenizeUpTo(huge, 10)

	require.Len(t, tokens, 2)
	assert.Equal(t, token.ErrorMaxQuerySizeExceeded, tokens[0].Kind)
	assert.Equal(t, token.EndOfStream, tokens[1].Kind)
}

func TestTokenizeGarbage(t *testing.T) {
	tokens := Tokenize("#")

	require.Len(t, tokens, 2)
	assert.Equal(t, token.Error, tokens[0].Kind)
	assert.Equal(t, "#", tokens[0].Text)
}
