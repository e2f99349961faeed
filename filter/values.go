package filter

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hugr-lab/listing/catalog"
)

// Value patterns per kind. The digit widths bound what a kind accepts;
// values that match but overflow the Go type fail to parse and render nothing.
const (
	patternLong  = `[-+]?\d{1,37}`
	patternInt   = `[-+]?\d{1,10}`
	patternShort = `[-+]?\d{1,5}`
	patternFloat = `[-+]?\d*[.,]?\d+`
	patternDate  = `((\d{1,2})\D)?((\d{1,2})\D)?(\d{2,})`
)

var (
	validLong  = anchored(patternLong)
	validInt   = anchored(patternInt)
	validShort = anchored(patternShort)
	validFloat = anchored(patternFloat)
	validDate  = anchored(patternDate)
	findDate   = regexp.MustCompile(patternDate)
)

func anchored(p string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + p + `)$`)
}

// patterns holds the operator dependent range expressions, compiled once per
// operator table.
type patterns struct {
	rangeLong  *regexp.Regexp
	rangeInt   *regexp.Regexp
	rangeShort *regexp.Regexp
	rangeFloat *regexp.Regexp
	rangeDate  *regexp.Regexp
}

func compilePatterns(ops Operators) *patterns {
	return &patterns{
		rangeLong:  rangePattern(patternLong, ops),
		rangeInt:   rangePattern(patternInt, ops),
		rangeShort: rangePattern(patternShort, ops),
		rangeFloat: rangePattern(patternFloat, ops),
		rangeDate:  rangePattern(patternDate, ops),
	}
}

// rangePattern builds ^(V)(TO|" TO ")(V)$. The first value is always group 1;
// the second value is the group right after the separator group.
func rangePattern(value string, ops Operators) *regexp.Regexp {
	sep := regexp.QuoteMeta(ops.To)
	if w := ops.toInfix(); w != "" {
		sep += "|" + regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`^(` + value + `)(` + sep + `)(` + value + `)$`)
}

// splitRange returns the two sides of a range expression.
func splitRange(re *regexp.Regexp, text string) (string, string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	// ^(V)(SEP)(V)$: V has k inner groups, so the second value is group k+3
	k := (re.NumSubexp() - 3) / 2
	return m[1], m[k+3], true
}

// isQuoted reports whether text is wrapped in double quotes.
func isQuoted(text string) bool {
	return len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`)
}

// unquote removes one leading and one trailing double quote.
func unquote(text string) string {
	text = strings.TrimPrefix(text, `"`)
	return strings.TrimSuffix(text, `"`)
}

// likeValue returns a lowercased contains pattern with the wildcard tokens
// translated to LIKE syntax.
func likeValue(text string, ops Operators) string {
	if ops.WildcardMany != "" {
		text = strings.ReplaceAll(text, ops.WildcardMany, "%")
	}
	if ops.WildcardOne != "" {
		text = strings.ReplaceAll(text, ops.WildcardOne, "_")
	}
	return "%" + strings.ToLower(text) + "%"
}

// stripOperator removes a leading symbol or word operator.
// Returns the trimmed rest and whether an operator was found.
func stripOperator(text, symbol, word string) (string, bool) {
	if symbol != "" && strings.HasPrefix(text, symbol) {
		return strings.TrimSpace(text[len(symbol):]), true
	}
	if word != "" && strings.HasPrefix(text, word) {
		return strings.TrimSpace(text[len(word):]), true
	}
	return text, false
}

// validNumber reports whether text matches the value pattern of a numeric kind.
func validNumber(kind catalog.Kind, text string) bool {
	switch kind {
	case catalog.KindInt16:
		return validShort.MatchString(text)
	case catalog.KindInt32:
		return validInt.MatchString(text)
	case catalog.KindInt64:
		return validLong.MatchString(text)
	case catalog.KindFloat32, catalog.KindFloat64:
		return validFloat.MatchString(text)
	}
	return false
}

func (p *patterns) numberRange(kind catalog.Kind) *regexp.Regexp {
	switch kind {
	case catalog.KindInt16:
		return p.rangeShort
	case catalog.KindInt32:
		return p.rangeInt
	case catalog.KindInt64:
		return p.rangeLong
	}
	return p.rangeFloat
}

// parseNumber converts text to the Go type of a numeric kind:
// int16, int32, int64, float32 or float64. Decimal commas are accepted.
func parseNumber(kind catalog.Kind, text string) (any, bool) {
	text = strings.TrimPrefix(text, "+")
	switch kind {
	case catalog.KindInt16:
		v, err := strconv.ParseInt(text, 10, 16)
		return int16(v), err == nil
	case catalog.KindInt32:
		v, err := strconv.ParseInt(text, 10, 32)
		return int32(v), err == nil
	case catalog.KindInt64:
		v, err := strconv.ParseInt(text, 10, 64)
		return v, err == nil
	case catalog.KindFloat32:
		v, err := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 32)
		if err != nil || math.IsInf(v, 0) {
			return float32(0), false
		}
		return float32(v), true
	case catalog.KindFloat64:
		v, err := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 64)
		if err != nil || math.IsInf(v, 0) {
			return float64(0), false
		}
		return v, true
	}
	return nil, false
}

// formatNumber returns the canonical textual form of a parsed number.
func formatNumber(v any) string {
	switch n := v.(type) {
	case int16:
		return strconv.FormatInt(int64(n), 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

// parseBool accepts "true" and "false" in any case.
func parseBool(text string) (bool, bool) {
	switch strings.ToLower(text) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
