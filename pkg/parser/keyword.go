package parser

import "strings"

// Keyword enumerates the keywords the grammar currently matches.
type Keyword int

const (
	KeywordWith Keyword = iota
	KeywordSelect
	KeywordFrom
	KeywordOrder
	KeywordBy
	KeywordAs
	KeywordWhere
	KeywordAnd
	KeywordOr
	KeywordLimit
)

var keywordNames = [...]string{
	KeywordWith:   "WITH",
	KeywordSelect: "SELECT",
	KeywordFrom:   "FROM",
	KeywordOrder:  "ORDER",
	KeywordBy:     "BY",
	KeywordAs:     "AS",
	KeywordWhere:  "WHERE",
	KeywordAnd:    "AND",
	KeywordOr:     "OR",
	KeywordLimit:  "LIMIT",
}

// String returns the canonical uppercase spelling.
func (k Keyword) String() string {
	if int(k) < len(keywordNames) {
		return keywordNames[k]
	}
	return "UNKNOWN"
}

// reservedWords is the broader ClickHouse reserved-word set, beyond what
// the grammar matches today. Built once at init and never mutated, so it
// is safe for concurrent lookups.
var reservedWords = func() map[string]struct{} {
	words := []string{
		"ALL", "ALTER", "AND", "ANTI", "ANY", "ARRAY", "AS", "ASCENDING",
		"ASOF", "BETWEEN", "BOTH", "BY", "CASE", "CAST", "CREATE", "CROSS",
		"CUBE", "CURRENT", "DATABASE", "DATABASES", "DEFAULT", "DELETE",
		"DESCENDING", "DESCRIBE", "DETACH", "DISTINCT", "DROP", "ELSE",
		"END", "EXISTS", "FINAL", "FIRST", "FOLLOWING", "FORMAT", "FROM",
		"FULL", "GLOBAL", "GROUP", "HAVING", "IF", "ILIKE", "IN", "INNER",
		"INSERT", "INTERVAL", "INTO", "IS", "JOIN", "LAST", "LEADING",
		"LEFT", "LIKE", "LIMIT", "NOT", "NULL", "NULLS", "OFFSET", "ON",
		"OPTIMIZE", "OR", "ORDER", "OUTER", "OVER", "PARTITION",
		"PRECEDING", "PREWHERE", "RENAME", "RIGHT", "ROLLUP", "SAMPLE",
		"SELECT", "SEMI", "SET", "SETTINGS", "SHOW", "SYSTEM", "TABLE",
		"TABLES", "THEN", "TIES", "TO", "TOP", "TOTALS", "TRAILING",
		"TRUNCATE", "UNBOUNDED", "UNION", "UPDATE", "USE", "USING",
		"VALUES", "VIEW", "WHEN", "WHERE", "WINDOW", "WITH",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()

// IsReservedWord reports whether name matches a ClickHouse reserved word,
// case-insensitively. Used for diagnostics and identifier annotation; the
// grammar itself matches keywords positionally.
func IsReservedWord(name string) bool {
	_, ok := reservedWords[strings.ToUpper(name)]
	return ok
}
