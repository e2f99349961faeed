package catalog

import (
	"strings"
)

// Index returns the fields keyed by name.
// Later duplicates overwrite earlier ones.
func Index(fields []Field) map[string]Field {
	m := make(map[string]Field, len(fields))
	for _, f := range fields {
		m[f.Name] = f
	}
	return m
}

// GlobalFields returns the fields eligible for the global filter, in order.
func GlobalFields(fields []Field) []Field {
	result := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.Global {
			result = append(result, f)
		}
	}
	return result
}

// KindFromSQLType maps a SQL type name as reported by information_schema
// (DuckDB or PostgreSQL spelling) to a field kind.
// For DuckDB enum types (ENUM('a', 'b')) the constant names are returned too.
//
// Example:
//
//	kind, _ := catalog.KindFromSQLType("BIGINT")           // KindInt64
//	kind, vals := catalog.KindFromSQLType("ENUM('a', 'b')") // KindEnum, [a b]
func KindFromSQLType(dataType string) (Kind, []string) {
	t := strings.ToUpper(strings.TrimSpace(dataType))
	if strings.HasPrefix(t, "ENUM(") {
		return KindEnum, parseEnumValues(strings.TrimSpace(dataType)[len("ENUM("):])
	}
	// Drop length/precision modifiers: VARCHAR(20), DECIMAL(10,2), TIMESTAMP(3) WITH TIME ZONE
	if i := strings.IndexByte(t, '('); i >= 0 {
		rest := ""
		if j := strings.IndexByte(t[i:], ')'); j >= 0 {
			rest = t[i+j+1:]
		}
		t = strings.TrimSpace(t[:i] + rest)
	}

	switch {
	case strings.HasSuffix(t, "[]"):
		return KindOther, nil
	case strings.HasPrefix(t, "TIMESTAMP"), t == "DATE", t == "DATETIME":
		return KindTime, nil
	}

	switch t {
	case "VARCHAR", "TEXT", "STRING", "CHAR", "BPCHAR", "CHARACTER", "CHARACTER VARYING", "UUID", "NAME":
		return KindString, nil
	case "TINYINT", "SMALLINT", "INT2", "SHORT", "UTINYINT":
		return KindInt16, nil
	case "INTEGER", "INT", "INT4", "SIGNED", "USMALLINT":
		return KindInt32, nil
	case "BIGINT", "INT8", "LONG", "UINTEGER", "UBIGINT", "HUGEINT":
		return KindInt64, nil
	case "FLOAT", "FLOAT4", "REAL":
		return KindFloat32, nil
	case "DOUBLE", "FLOAT8", "DOUBLE PRECISION", "DECIMAL", "NUMERIC":
		return KindFloat64, nil
	case "BOOLEAN", "BOOL", "LOGICAL":
		return KindBool, nil
	}
	return KindOther, nil
}

// parseEnumValues parses the body of "ENUM('a', 'b')" after the opening parenthesis.
func parseEnumValues(body string) []string {
	var values []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\'' && inQuote && i+1 < len(body) && body[i+1] == '\'':
			cur.WriteByte('\'')
			i++
		case c == '\'':
			if inQuote {
				values = append(values, cur.String())
				cur.Reset()
			}
			inQuote = !inQuote
		case inQuote:
			cur.WriteByte(c)
		case c == ')':
			return values
		}
	}
	return values
}

// isTrue reports whether a metadata or tag flag value is set.
func isTrue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}
