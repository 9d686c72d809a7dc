// Package cst defines the lossless concrete syntax tree produced by the
// parser. Every token of the input, including comments and whitespace,
// appears in the tree, so concatenating the token texts of a tree in
// order reproduces the parsed text exactly.
package cst

import (
	"fmt"
	"strings"

	"github.com/grovelabs/chparse/pkg/token"
)

// TreeKind classifies a CST node.
//
// The enumeration is deliberately wider than what the grammar currently
// produces so node kinds stay stable as statement coverage grows.
type TreeKind int32

const (
	// Error handling
	ErrorTree TreeKind = iota

	// Root and container nodes
	File
	QueryList

	// Statements
	SelectStatement
	InsertStatement
	UpdateStatement
	DeleteStatement
	CreateStatement
	AlterStatement
	DropStatement
	TruncateStatement
	RenameStatement
	ShowStatement
	UseStatement
	SetStatement
	OptimizeStatement
	SystemStatement

	// SELECT statement components
	WithClause
	SelectClause
	FromClause
	JoinClause
	ArrayJoinClause
	PrewhereClause
	WhereClause
	GroupByClause
	HavingClause
	OrderByClause
	LimitByClause
	LimitClause
	SettingsClause

	// CREATE statement components
	TableDefinition
	DatabaseDefinition
	ViewDefinition
	MaterializedViewDefinition
	DictionaryDefinition

	// Column definition components
	ColumnDefinition
	ColumnTypeDefinition
	ColumnConstraint
	TableConstraint

	// Table components
	TableIdentifier // database.table
	TableExpression // table or subquery
	TableFunction   // table function like merge()

	// Expressions
	Expression
	Asterisk
	ColumnReference
	ColumnAlias
	QualifiedName
	FunctionCall
	AggregateFunction
	CastExpression
	CaseExpression
	BinaryExpression
	UnaryExpression
	BetweenExpression
	InExpression
	TupleExpression
	ArrayExpression
	MapExpression
	SubqueryExpression
	LambdaExpression

	// Literals
	NumberLiteral
	StringLiteral
	DateLiteral
	BooleanLiteral
	NullLiteral

	// Lists and collections
	ColumnList
	ExpressionList
	OrderByList
	GroupByList
	SettingList

	// Join specific
	JoinType
	JoinConstraint

	// Items that are part of larger constructs
	OrderByItem
	WithExpressionItem

	// Data type definitions
	DataType
	DataTypeParameters
	NestedDataType
	EnumValue

	// ClickHouse specific
	PartitionExpression
	SampleExpression

	// Trivia
	Whitespace
	LineComment
	BlockComment
)

var treeKindNames = map[TreeKind]string{
	ErrorTree:                  "ErrorTree",
	File:                       "File",
	QueryList:                  "QueryList",
	SelectStatement:            "SelectStatement",
	InsertStatement:            "InsertStatement",
	UpdateStatement:            "UpdateStatement",
	DeleteStatement:            "DeleteStatement",
	CreateStatement:            "CreateStatement",
	AlterStatement:             "AlterStatement",
	DropStatement:              "DropStatement",
	TruncateStatement:          "TruncateStatement",
	RenameStatement:            "RenameStatement",
	ShowStatement:              "ShowStatement",
	UseStatement:               "UseStatement",
	SetStatement:               "SetStatement",
	OptimizeStatement:          "OptimizeStatement",
	SystemStatement:            "SystemStatement",
	WithClause:                 "WithClause",
	SelectClause:               "SelectClause",
	FromClause:                 "FromClause",
	JoinClause:                 "JoinClause",
	ArrayJoinClause:            "ArrayJoinClause",
	PrewhereClause:             "PrewhereClause",
	WhereClause:                "WhereClause",
	GroupByClause:              "GroupByClause",
	HavingClause:               "HavingClause",
	OrderByClause:              "OrderByClause",
	LimitByClause:              "LimitByClause",
	LimitClause:                "LimitClause",
	SettingsClause:             "SettingsClause",
	TableDefinition:            "TableDefinition",
	DatabaseDefinition:         "DatabaseDefinition",
	ViewDefinition:             "ViewDefinition",
	MaterializedViewDefinition: "MaterializedViewDefinition",
	DictionaryDefinition:       "DictionaryDefinition",
	ColumnDefinition:           "ColumnDefinition",
	ColumnTypeDefinition:       "ColumnTypeDefinition",
	ColumnConstraint:           "ColumnConstraint",
	TableConstraint:            "TableConstraint",
	TableIdentifier:            "TableIdentifier",
	TableExpression:            "TableExpression",
	TableFunction:              "TableFunction",
	Expression:                 "Expression",
	Asterisk:                   "Asterisk",
	ColumnReference:            "ColumnReference",
	ColumnAlias:                "ColumnAlias",
	QualifiedName:              "QualifiedName",
	FunctionCall:               "FunctionCall",
	AggregateFunction:          "AggregateFunction",
	CastExpression:             "CastExpression",
	CaseExpression:             "CaseExpression",
	BinaryExpression:           "BinaryExpression",
	UnaryExpression:            "UnaryExpression",
	BetweenExpression:          "BetweenExpression",
	InExpression:               "InExpression",
	TupleExpression:            "TupleExpression",
	ArrayExpression:            "ArrayExpression",
	MapExpression:              "MapExpression",
	SubqueryExpression:         "SubqueryExpression",
	LambdaExpression:           "LambdaExpression",
	NumberLiteral:              "NumberLiteral",
	StringLiteral:              "StringLiteral",
	DateLiteral:                "DateLiteral",
	BooleanLiteral:             "BooleanLiteral",
	NullLiteral:                "NullLiteral",
	ColumnList:                 "ColumnList",
	ExpressionList:             "ExpressionList",
	OrderByList:                "OrderByList",
	GroupByList:                "GroupByList",
	SettingList:                "SettingList",
	JoinType:                   "JoinType",
	JoinConstraint:             "JoinConstraint",
	OrderByItem:                "OrderByItem",
	WithExpressionItem:         "WithExpressionItem",
	DataType:                   "DataType",
	DataTypeParameters:         "DataTypeParameters",
	NestedDataType:             "NestedDataType",
	EnumValue:                  "EnumValue",
	PartitionExpression:        "PartitionExpression",
	SampleExpression:           "SampleExpression",
	Whitespace:                 "Whitespace",
	LineComment:                "LineComment",
	BlockComment:               "BlockComment",
}

func (k TreeKind) String() string {
	if name, ok := treeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TreeKind(%d)", k)
}

// Child is one slot of a tree node: either a token or a subtree.
// Exactly one of the two fields is set.
type Child struct {
	Token *token.Token
	Tree  *Tree
}

// TokenChild wraps a token as a child.
func TokenChild(t token.Token) Child {
	return Child{Token: &t}
}

// TreeChild wraps a subtree as a child.
func TreeChild(t *Tree) Child {
	return Child{Tree: t}
}

func (c Child) IsToken() bool { return c.Token != nil }
func (c Child) IsTree() bool  { return c.Tree != nil }

// Tree is a CST node: a kind and an ordered list of children.
type Tree struct {
	Kind     TreeKind
	Children []Child
}

// FirstTree returns the first direct child subtree of the given kind.
func (t *Tree) FirstTree(kind TreeKind) *Tree {
	for _, c := range t.Children {
		if c.Tree != nil && c.Tree.Kind == kind {
			return c.Tree
		}
	}
	return nil
}

// FirstToken returns the first direct child token of the given kind.
func (t *Tree) FirstToken(kind token.Kind) *token.Token {
	for _, c := range t.Children {
		if c.Token != nil && c.Token.Kind == kind {
			return c.Token
		}
	}
	return nil
}

// LastToken returns the last direct child token of the given kind.
func (t *Tree) LastToken(kind token.Kind) *token.Token {
	for i := len(t.Children) - 1; i >= 0; i-- {
		if c := t.Children[i]; c.Token != nil && c.Token.Kind == kind {
			return c.Token
		}
	}
	return nil
}

// Trees returns all direct child subtrees of the given kind.
func (t *Tree) Trees(kind TreeKind) []*Tree {
	var out []*Tree
	for _, c := range t.Children {
		if c.Tree != nil && c.Tree.Kind == kind {
			out = append(out, c.Tree)
		}
	}
	return out
}

// Tokens collects every token in the subtree in source order, trivia
// included.
func (t *Tree) Tokens() []token.Token {
	var out []token.Token
	t.collectTokens(&out)
	return out
}

func (t *Tree) collectTokens(out *[]token.Token) {
	for _, c := range t.Children {
		switch {
		case c.Token != nil:
			*out = append(*out, *c.Token)
		case c.Tree != nil:
			c.Tree.collectTokens(out)
		}
	}
}

// Text reconstructs the exact source text covered by the subtree.
func (t *Tree) Text() string {
	var b strings.Builder
	for _, tok := range t.Tokens() {
		b.WriteString(tok.Text)
	}
	return b.String()
}

// Print renders the tree as an indented dump. Each node contributes one
// line with its kind, each non-whitespace token one quoted line, nested
// two spaces per level. Comments are kept; whitespace tokens are omitted
// for readability.
func (t *Tree) Print() string {
	var b strings.Builder
	t.print(&b, 0)
	return b.String()
}

func (t *Tree) print(b *strings.Builder, level int) {
	indent := strings.Repeat("  ", level)
	b.WriteString(indent)
	b.WriteString(t.Kind.String())
	b.WriteByte('\n')

	for _, c := range t.Children {
		switch {
		case c.Token != nil:
			if c.Token.Kind == token.Whitespace {
				continue
			}
			b.WriteString(indent)
			b.WriteString("  '")
			b.WriteString(c.Token.Text)
			b.WriteString("'\n")
		case c.Tree != nil:
			c.Tree.print(b, level+1)
		}
	}
}

// String implements fmt.Stringer using the Print dump.
func (t *Tree) String() string {
	return t.Print()
}
