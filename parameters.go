package listing

import (
	"slices"
	"strings"

	"github.com/hugr-lab/listing/filter"
	"github.com/hugr-lab/listing/store"
)

// Parameters holds the paging, sorting and filtering request of one listing.
//
// Index, page and limit are optional; the getters derive missing values from
// the others and fall back to the configured defaults. The zero value is
// usable and falls back to DefaultConfig().
type Parameters struct {
	index *int
	page  *int
	limit *int

	sort   string
	filter string

	attributes []filter.AttributeFilter
	terms      []TermsRequest
	stats      []string
	predicate  *filter.Predicate

	defaults *defaults
}

// TermsRequest asks for the Size most frequent values of Attribute.
type TermsRequest struct {
	Attribute string
	Size      int
}

type defaults struct {
	index int
	page  int
	limit int
	ops   filter.Operators
}

// NewParameters returns empty parameters using the default configuration.
func NewParameters() *Parameters {
	return DefaultConfig().NewParameters()
}

func (p *Parameters) def() defaults {
	if p.defaults == nil {
		return *DefaultConfig().NewParameters().defaults
	}
	return *p.defaults
}

// SetIndex sets the explicit start index. Returns p for chaining.
func (p *Parameters) SetIndex(index int) *Parameters {
	p.index = &index
	return p
}

// ClearIndex removes the explicit index so that it is derived from the page.
func (p *Parameters) ClearIndex() *Parameters {
	p.index = nil
	return p
}

// SetPage sets the explicit page (1-based). Returns p for chaining.
func (p *Parameters) SetPage(page int) *Parameters {
	p.page = &page
	return p
}

// SetLimit sets the page size. A limit of 0 means no limit.
// Returns p for chaining.
func (p *Parameters) SetLimit(limit int) *Parameters {
	p.limit = &limit
	return p
}

// SetSort sets the sort expression: attribute names separated by ';', each
// optionally prefixed by the ascending or descending operator.
func (p *Parameters) SetSort(sort string) *Parameters {
	p.sort = sort
	return p
}

// SetFilter sets the global filter text.
func (p *Parameters) SetFilter(text string) *Parameters {
	p.filter = text
	return p
}

// SetPredicate sets an additional predicate tree combined with the filters.
func (p *Parameters) SetPredicate(pred *filter.Predicate) *Parameters {
	p.predicate = pred
	return p
}

// Limit returns the page size: the explicit limit, or the default if none
// is set. 0 means no limit.
func (p *Parameters) Limit() int {
	if p.limit == nil {
		return p.def().limit
	}
	return *p.limit
}

// Index returns the 0-based start index.
//
// An explicit non-negative index wins. Without one the index is derived
// from the page and the limit; otherwise the default is used.
func (p *Parameters) Index() int {
	if p.index == nil && p.page != nil {
		if idx := (p.Page() - 1) * p.Limit(); idx >= 0 {
			return idx
		}
	}
	if p.index == nil || *p.index < 0 {
		return p.def().index
	}
	return *p.index
}

// Page returns the 1-based page.
//
// An explicit page of at least 1 wins. Without one the page is derived
// from a positive index and a positive explicit limit; otherwise the
// default is used. Page and index round-trip: deriving the page from the
// index derived from a page yields that page again.
func (p *Parameters) Page() int {
	if p.page == nil && p.limit != nil && p.index != nil && *p.index > 0 && *p.limit > 0 {
		// index is 0-based: rows [0, limit) are page 1
		return *p.index / *p.limit + 1
	}
	if p.page == nil || *p.page < 1 {
		return p.def().page
	}
	return *p.page
}

// Sort returns the trimmed sort expression as given, "" if blank.
func (p *Parameters) Sort() string {
	return strings.TrimSpace(p.sort)
}

// Filter returns the trimmed global filter text, "" if blank.
func (p *Parameters) Filter() string {
	return strings.TrimSpace(p.filter)
}

// Predicate returns the additional predicate tree, or nil.
func (p *Parameters) Predicate() *filter.Predicate {
	return p.predicate
}

// SortAttribute returns the first sort attribute without its direction
// prefix, "" if no sort is set.
func (p *Parameters) SortAttribute() string {
	orders := p.Sorts()
	if len(orders) == 0 {
		return ""
	}
	return orders[0].Column
}

// SortAsc reports whether the first sort attribute sorts ascending.
// Returns true if no sort is set.
func (p *Parameters) SortAsc() bool {
	orders := p.Sorts()
	return len(orders) == 0 || orders[0].Asc
}

// Sorts splits the sort expression into attribute orders. Blank entries
// are skipped; an entry without direction prefix sorts ascending.
// The returned Column holds the attribute name.
func (p *Parameters) Sorts() []store.Order {
	ops := p.def().ops
	sort := p.Sort()
	if sort == "" {
		return nil
	}
	var orders []store.Order
	for _, entry := range strings.Split(sort, ";") {
		entry = strings.TrimSpace(entry)
		asc := true
		switch {
		case ops.SortDesc != "" && strings.HasPrefix(entry, ops.SortDesc):
			entry = strings.TrimPrefix(entry, ops.SortDesc)
			asc = false
		case ops.SortAsc != "" && strings.HasPrefix(entry, ops.SortAsc):
			entry = strings.TrimPrefix(entry, ops.SortAsc)
		}
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		orders = append(orders, store.Order{Column: entry, Asc: asc})
	}
	return orders
}

// AddFilterAttribute sets the filter text of an attribute. The text is
// trimmed; blank text is ignored. Setting an attribute again replaces its
// text but keeps its position.
func (p *Parameters) AddFilterAttribute(attribute, text string) *Parameters {
	text = strings.TrimSpace(text)
	if text == "" {
		return p
	}
	for i := range p.attributes {
		if p.attributes[i].Attribute == attribute {
			p.attributes[i].Filter = text
			return p
		}
	}
	p.attributes = append(p.attributes, filter.AttributeFilter{Attribute: attribute, Filter: text})
	return p
}

// FilterAttributes returns the attribute filters in insertion order.
func (p *Parameters) FilterAttributes() []filter.AttributeFilter {
	return slices.Clone(p.attributes)
}

// AddTermsAttribute requests a terms aggregation over attribute.
// A size of 0 or less returns every term.
func (p *Parameters) AddTermsAttribute(attribute string, size int) *Parameters {
	attribute = strings.TrimSpace(attribute)
	if attribute == "" {
		return p
	}
	for i := range p.terms {
		if p.terms[i].Attribute == attribute {
			p.terms[i].Size = size
			return p
		}
	}
	p.terms = append(p.terms, TermsRequest{Attribute: attribute, Size: size})
	return p
}

// TermsAttributes returns the requested terms aggregations.
func (p *Parameters) TermsAttributes() []TermsRequest {
	return slices.Clone(p.terms)
}

// AddStatsAttribute requests count, min, max, avg and sum of attribute.
func (p *Parameters) AddStatsAttribute(attribute string) *Parameters {
	attribute = strings.TrimSpace(attribute)
	if attribute == "" || slices.Contains(p.stats, attribute) {
		return p
	}
	p.stats = append(p.stats, attribute)
	return p
}

// StatsAttributes returns the attributes stats are requested for.
func (p *Parameters) StatsAttributes() []string {
	return slices.Clone(p.stats)
}

// clone returns a copy of p that can be changed independently of p.
func (p *Parameters) clone() *Parameters {
	cp := *p
	cp.attributes = slices.Clone(p.attributes)
	cp.terms = slices.Clone(p.terms)
	cp.stats = slices.Clone(p.stats)
	return &cp
}
