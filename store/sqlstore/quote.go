package sqlstore

import (
	"regexp"
	"strings"
)

// QuoteIdentifier returns name double quoted if it is not a plain identifier
// or collides with a reserved word. Embedded quotes are doubled.
func QuoteIdentifier(name string) string {
	if plainIdentifier.MatchString(name) && !reservedWords[name] {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteTable quotes every part of a possibly schema qualified table name.
func QuoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

// plainIdentifier matches names that survive case folding unchanged.
var plainIdentifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// reservedWords are the key words DuckDB and PostgreSQL refuse as bare
// column or table names.
var reservedWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`
		all analyse analyze and any array as asc asymmetric authorization
		binary both case cast check collate collation column concurrently
		constraint create cross current_catalog current_date current_role
		current_schema current_time current_timestamp current_user default
		deferrable desc distinct do else end except false fetch for foreign
		freeze from full grant group having ilike in initially inner intersect
		into is isnull join lateral leading left like limit localtime
		localtimestamp natural not notnull null offset on only or order outer
		overlaps pivot placing primary qualify references returning right
		select session_user similar some symmetric table tablesample then to
		trailing true union unique unpivot user using variadic verbose when
		where window with`) {
		reservedWords[w] = true
	}
}
