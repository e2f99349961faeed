package filter

import (
	"errors"
	"fmt"
)

// Operators is the table of filter operator tokens.
// Each operator has a symbolic form and a word form. Word forms are matched
// with blanks: NOT, LIKE, LT and GT as "<WORD> " prefixes, OR and TO as
// " <WORD> " infixes.
//
// An Operators value is immutable once handed to a Compiler or Renderer;
// pass a different value to use different tokens.
type Operators struct {
	Not      string
	NotWord  string
	Or       string
	OrWord   string
	Like     string
	LikeWord string
	LT       string
	LTWord   string
	GT       string
	GTWord   string
	To       string
	ToWord   string

	// Null is matched case-sensitively against the whole filter value.
	Null string

	WildcardMany string
	WildcardOne  string

	SortAsc  string
	SortDesc string

	// DisjunctionKey switches a set of attribute filters from AND to OR when
	// present as a key.
	DisjunctionKey string

	// OrToInLimit is the number of OR'd values above which an attribute
	// filter is rendered as a single IN test.
	OrToInLimit int
}

// DefaultOperators returns the default operator tokens.
func DefaultOperators() Operators {
	return Operators{
		Not:            "!",
		NotWord:        "NOT",
		Or:             "|",
		OrWord:         "OR",
		Like:           "~",
		LikeWord:       "LIKE",
		LT:             "<",
		LTWord:         "LT",
		GT:             ">",
		GTWord:         "GT",
		To:             "-",
		ToWord:         "TO",
		Null:           "NULL",
		WildcardMany:   "*",
		WildcardOne:    "?",
		SortAsc:        "+",
		SortDesc:       "-",
		DisjunctionKey: "Filter-Type-Disjunction",
		OrToInLimit:    10,
	}
}

// Standard errors returned by filter package.
var (
	// ErrNilFields indicates the renderer was called without field descriptors.
	ErrNilFields = errors.New("filter: nil field catalog")

	// ErrNegativeThreshold indicates a negative OR to IN threshold.
	ErrNegativeThreshold = errors.New("filter: negative OR to IN threshold")

	// ErrInvalidOperators indicates an unusable operator table.
	ErrInvalidOperators = errors.New("filter: invalid operators")

	// ErrInvalidToken indicates a predicate token that cannot be decoded.
	ErrInvalidToken = errors.New("filter: invalid predicate token")
)

// Validate checks that the operator table can drive the compiler and renderer.
func (o Operators) Validate() error {
	if o.OrToInLimit < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeThreshold, o.OrToInLimit)
	}
	required := []struct {
		name, value string
	}{
		{"not", o.Not},
		{"or", o.Or},
		{"like", o.Like},
		{"lt", o.LT},
		{"gt", o.GT},
		{"to", o.To},
		{"null", o.Null},
		{"sort asc", o.SortAsc},
		{"sort desc", o.SortDesc},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: empty %s operator", ErrInvalidOperators, r.name)
		}
	}
	if o.SortAsc == o.SortDesc {
		return fmt.Errorf("%w: sort asc and desc operators are both %q", ErrInvalidOperators, o.SortAsc)
	}
	return nil
}

func (o Operators) notPrefix() string  { return prefixWord(o.NotWord) }
func (o Operators) likePrefix() string { return prefixWord(o.LikeWord) }
func (o Operators) ltPrefix() string   { return prefixWord(o.LTWord) }
func (o Operators) gtPrefix() string   { return prefixWord(o.GTWord) }
func (o Operators) orInfix() string    { return infixWord(o.OrWord) }
func (o Operators) toInfix() string    { return infixWord(o.ToWord) }

func prefixWord(w string) string {
	if w == "" {
		return ""
	}
	return w + " "
}

func infixWord(w string) string {
	if w == "" {
		return ""
	}
	return " " + w + " "
}
