// Package parser builds lossless concrete syntax trees for ClickHouse SQL.
//
// Parsing is split into two phases. The grammar functions walk the token
// stream and record a flat log of Open/Close/Advance events; build time
// then replays the log once into a cst.Tree. The indirection lets the
// grammar retroactively wrap an already-closed node (openBefore), which
// is how left-recursive shapes like call chains and binary operators are
// produced without backtracking.
package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/grovelabs/chparse/pkg/cst"
	"github.com/grovelabs/chparse/pkg/lexer"
	"github.com/grovelabs/chparse/pkg/token"
)

// maxFuel bounds the number of lookaheads between advances. A grammar
// function that inspects tokens 256 times without consuming one is stuck
// in a loop; that is a defect in the grammar, not a property of the
// input, so it panics instead of producing a tree.
const maxFuel = 256

type eventKind int

const (
	eventOpen eventKind = iota
	eventClose
	eventAdvance
)

type event struct {
	kind eventKind
	tree cst.TreeKind // set for eventOpen only
}

// MarkOpened identifies a pending open event awaiting its close.
type MarkOpened struct {
	index int
}

// MarkClosed identifies a completed node; openBefore can wrap it.
type MarkClosed struct {
	index int
}

// Diagnostic is a non-fatal parse problem. The parser always produces a
// tree; diagnostics describe where it had to recover.
type Diagnostic struct {
	Offset  int
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// Parser consumes a token stream and records tree-building events.
type Parser struct {
	tokens []token.Token
	pos    int
	fuel   int
	events []event
	diags  []Diagnostic
	trace  *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithTraceLogger logs every consumed token at debug level. Intended for
// grammar debugging; nil disables tracing.
func WithTraceLogger(logger *slog.Logger) Option {
	return func(p *Parser) { p.trace = logger }
}

// newParser wraps a trivia-inclusive token stream. The stream must not
// contain the EndOfStream sentinel; past-the-end lookahead reports
// EndOfStream implicitly.
func newParser(tokens []token.Token, opts ...Option) *Parser {
	p := &Parser{tokens: tokens, fuel: maxFuel}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses text into a lossless syntax tree. It never returns an
// error: lexical and syntactic problems surface as error tokens and
// ErrorTree nodes inside the result. It panics only on a grammar defect
// (a parse loop that stops consuming input).
func Parse(text string, opts ...Option) *cst.Tree {
	tree, _ := ParseWithDiagnostics(text, opts...)
	return tree
}

// ParseWithDiagnostics parses text and also returns the recovery
// diagnostics collected along the way, in source order.
func ParseWithDiagnostics(text string, opts ...Option) (*cst.Tree, []Diagnostic) {
	tokens := lexer.TokenizeWithWhitespace(text)
	// The event log covers real tokens only; drop the sentinel.
	if n := len(tokens); n > 0 && tokens[n-1].Kind == token.EndOfStream {
		tokens = tokens[:n-1]
	}

	p := newParser(tokens, opts...)
	parseFile(p)
	return p.buildTree(), p.diags
}

// GetTree parses sql and renders the tree dump.
func GetTree(sql string) string {
	return Parse(sql).Print()
}

// parseFile is the entry production: a sequence of statements separated
// by semicolons. Tokens that cannot start a statement are consumed into
// ErrorTree nodes so the loop always makes progress.
func parseFile(p *Parser) {
	m := p.open()

	for !p.eof() {
		if atSelectStatement(p) {
			parseSelectStatement(p)
		}

		if p.at(token.Semicolon) {
			p.expect(token.Semicolon)
			continue
		}

		if !p.eof() && !atSelectStatement(p) {
			p.advanceWithError("expected a statement")
		}
	}

	p.skipTrivia()

	p.close(m, cst.File)
}

// ---------- event log ----------

// open starts a new node. The kind is fixed at close time; until then
// the slot holds ErrorTree so an abandoned mark is visible in the output.
func (p *Parser) open() MarkOpened {
	m := MarkOpened{index: len(p.events)}
	p.events = append(p.events, event{kind: eventOpen, tree: cst.ErrorTree})
	return m
}

// openBefore starts a new node that will contain an already-closed one.
func (p *Parser) openBefore(m MarkClosed) MarkOpened {
	p.events = append(p.events, event{})
	copy(p.events[m.index+1:], p.events[m.index:])
	p.events[m.index] = event{kind: eventOpen, tree: cst.ErrorTree}
	return MarkOpened{index: m.index}
}

func (p *Parser) close(m MarkOpened, kind cst.TreeKind) MarkClosed {
	p.events[m.index] = event{kind: eventOpen, tree: kind}
	p.events = append(p.events, event{kind: eventClose})
	return MarkClosed{index: m.index}
}

// advance consumes the current token into the innermost open node.
func (p *Parser) advance() {
	if p.eof() {
		panic("parser: advance past end of input")
	}
	p.fuel = maxFuel
	p.events = append(p.events, event{kind: eventAdvance})
	if p.trace != nil {
		p.trace.Debug("advance",
			slog.String("kind", p.tokens[p.pos].Kind.Name()),
			slog.String("text", p.tokens[p.pos].Text))
	}
	p.pos++
}

// buildTree replays the event log into a tree. The log must be balanced
// and must account for every token; anything else is a defect in the
// grammar functions.
func (p *Parser) buildTree() *cst.Tree {
	events := p.events
	if len(events) == 0 || events[len(events)-1].kind != eventClose {
		panic("parser: event log does not end with a close")
	}
	events = events[:len(events)-1]

	var stack []*cst.Tree
	next := 0

	for _, e := range events {
		switch e.kind {
		case eventOpen:
			stack = append(stack, &cst.Tree{Kind: e.tree})
		case eventClose:
			if len(stack) < 2 {
				panic("parser: close without matching open")
			}
			tree := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, cst.TreeChild(tree))
		case eventAdvance:
			if next >= len(p.tokens) {
				panic("parser: more advances than tokens")
			}
			top := stack[len(stack)-1]
			top.Children = append(top.Children, cst.TokenChild(p.tokens[next]))
			next++
		}
	}

	if len(stack) != 1 {
		panic("parser: unbalanced event log")
	}
	if next != len(p.tokens) {
		panic("parser: tokens left unconsumed")
	}
	return stack[0]
}

// ---------- lookahead ----------

func (p *Parser) eof() bool {
	return p.pos == len(p.tokens)
}

// endOfStatement reports whether the cursor sits where a statement must
// stop: a closing bracket (subquery boundary), a semicolon, or the end
// of input.
func (p *Parser) endOfStatement() bool {
	return p.at(token.ClosingRoundBracket) || p.at(token.Semicolon) || p.eof()
}

// skipTrivia consumes whitespace and comments into the innermost open
// node. Lookahead calls it first, so trivia attaches to whichever node
// is being built when the next real token is inspected.
func (p *Parser) skipTrivia() {
	for !p.eof() && p.tokens[p.pos].Kind.IsTrivia() {
		p.advance()
	}
}

func (p *Parser) burnFuel() {
	if p.fuel == 0 {
		panic("parser is stuck")
	}
	p.fuel--
}

// nth returns the kind of the lookahead-th upcoming non-trivia token,
// or EndOfStream past the end of input.
func (p *Parser) nth(lookahead int) token.Kind {
	p.skipTrivia()
	p.burnFuel()
	if i := p.pos + lookahead; i < len(p.tokens) {
		return p.tokens[i].Kind
	}
	return token.EndOfStream
}

func (p *Parser) nthWithTrivia(lookahead int) token.Kind {
	p.burnFuel()
	if i := p.pos + lookahead; i < len(p.tokens) {
		return p.tokens[i].Kind
	}
	return token.EndOfStream
}

func (p *Parser) nthText(lookahead int) string {
	p.skipTrivia()
	p.burnFuel()
	if i := p.pos + lookahead; i < len(p.tokens) {
		return p.tokens[i].Text
	}
	return ""
}

func (p *Parser) at(kind token.Kind) bool {
	return p.nth(0) == kind
}

func (p *Parser) atWithTrivia(kind token.Kind) bool {
	return p.nthWithTrivia(0) == kind
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	current := p.nth(0)
	for _, k := range kinds {
		if current == k {
			return true
		}
	}
	return false
}

func (p *Parser) eat(kind token.Kind) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind token.Kind) {
	if p.eat(kind) {
		return
	}
	p.errorf("expected %s", kind)
}

// ---------- keywords ----------

// Keywords are not distinguished by the lexer; a keyword is a BareWord
// whose text matches case-insensitively at a position where the grammar
// wants one.
func (p *Parser) atKeyword(kw Keyword) bool {
	return p.nth(0) == token.BareWord && strings.EqualFold(p.nthText(0), kw.String())
}

func (p *Parser) eatKeyword(kw Keyword) bool {
	if p.atKeyword(kw) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expectKeyword(kw Keyword) {
	if p.eatKeyword(kw) {
		return
	}
	p.errorf("expected %s", kw)
}

// ---------- recovery ----------

// recoverWithError records a diagnostic and an empty ErrorTree at the
// current position without consuming anything.
func (p *Parser) recoverWithError(msg string) {
	m := p.open()
	p.errorf("%s", msg)
	p.close(m, cst.ErrorTree)
}

// advanceWithError records a diagnostic and consumes one token into an
// ErrorTree, guaranteeing progress.
func (p *Parser) advanceWithError(msg string) {
	m := p.open()
	p.errorf("%s", msg)
	if !p.eof() {
		p.advance()
	}
	p.close(m, cst.ErrorTree)
}

func (p *Parser) errorf(format string, args ...any) {
	d := Diagnostic{Message: fmt.Sprintf(format, args...), Line: 1, Column: 1}
	if p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		d.Offset, d.Line, d.Column = t.Start, t.Line, t.Column
	} else if n := len(p.tokens); n > 0 {
		t := p.tokens[n-1]
		d.Offset, d.Line, d.Column = t.End, t.Line, t.Column
	}
	p.diags = append(p.diags, d)
}
