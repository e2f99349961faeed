// Package rest binds listings to HTTP: query-string parameters in, JSON
// listing results out.
//
// Query-string keys:
//
//	index, page, limit   pagination (integers)
//	sort                 sort expression, e.g. -age;name
//	filter               global filter text
//	filter-<attribute>   filter text of one attribute
//	terms-<attribute>    terms aggregation, value is the bucket count
//	stats-<attribute>    stats aggregation
//	predicate            predicate token (see filter.Codec)
//
// Repeated keys use their first value.
package rest

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/hugr-lab/listing"
	"github.com/hugr-lab/listing/filter"
)

// Query-string keys and key prefixes.
const (
	KeyIndex     = "index"
	KeyPage      = "page"
	KeyLimit     = "limit"
	KeySort      = "sort"
	KeyFilter    = "filter"
	KeyPredicate = "predicate"

	PrefixFilter = "filter-"
	PrefixTerms  = "terms-"
	PrefixStats  = "stats-"
)

// ErrInvalidParameter indicates a query-string value that cannot be used:
// a malformed integer or predicate token.
var ErrInvalidParameter = errors.New("invalid listing parameter")

// ParseParameters builds listing parameters from query-string values.
// codec decodes the predicate parameter; if nil, a predicate parameter is
// rejected. Filter text is never validated here.
func ParseParameters(values url.Values, cfg listing.Config, codec *filter.Codec) (*listing.Parameters, error) {
	p := cfg.NewParameters()

	for _, key := range []string{KeyIndex, KeyPage, KeyLimit} {
		raw := strings.TrimSpace(values.Get(key))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidParameter, key, raw)
		}
		switch key {
		case KeyIndex:
			p.SetIndex(n)
		case KeyPage:
			p.SetPage(n)
		case KeyLimit:
			p.SetLimit(n)
		}
	}

	p.SetSort(values.Get(KeySort))
	p.SetFilter(values.Get(KeyFilter))

	// sorted for a stable attribute order
	for _, key := range slices.Sorted(maps.Keys(values)) {
		switch {
		case strings.HasPrefix(key, PrefixFilter):
			p.AddFilterAttribute(strings.TrimPrefix(key, PrefixFilter), values.Get(key))
		case strings.HasPrefix(key, PrefixTerms):
			size := 0
			if raw := strings.TrimSpace(values.Get(key)); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil {
					return nil, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidParameter, key, raw)
				}
				size = n
			}
			p.AddTermsAttribute(strings.TrimPrefix(key, PrefixTerms), size)
		case strings.HasPrefix(key, PrefixStats):
			p.AddStatsAttribute(strings.TrimPrefix(key, PrefixStats))
		}
	}

	if token := strings.TrimSpace(values.Get(KeyPredicate)); token != "" {
		if codec == nil {
			return nil, fmt.Errorf("%w: predicate tokens are not accepted", ErrInvalidParameter)
		}
		pred, err := codec.Decode(token)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
		}
		p.SetPredicate(pred)
	}
	return p, nil
}

// Values encodes p back into query-string values. Predicates are encoded
// with codec; if codec is nil the predicate is left out.
func Values(p *listing.Parameters, codec *filter.Codec) (url.Values, error) {
	v := url.Values{}
	v.Set(KeyPage, strconv.Itoa(p.Page()))
	v.Set(KeyLimit, strconv.Itoa(p.Limit()))
	if s := p.Sort(); s != "" {
		v.Set(KeySort, s)
	}
	if f := p.Filter(); f != "" {
		v.Set(KeyFilter, f)
	}
	for _, af := range p.FilterAttributes() {
		v.Set(PrefixFilter+af.Attribute, af.Filter)
	}
	for _, t := range p.TermsAttributes() {
		v.Set(PrefixTerms+t.Attribute, strconv.Itoa(t.Size))
	}
	for _, attr := range p.StatsAttributes() {
		v.Set(PrefixStats+attr, "true")
	}
	if pred := p.Predicate(); pred != nil && codec != nil {
		token, err := codec.Encode(pred)
		if err != nil {
			return nil, err
		}
		v.Set(KeyPredicate, token)
	}
	return v, nil
}
