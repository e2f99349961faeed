package listing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hugr-lab/listing/catalog"
	"github.com/hugr-lab/listing/filter"
	"github.com/hugr-lab/listing/store"
)

// Result is one page of a listing with its metadata and the requested
// aggregations.
type Result struct {
	Metadata Metadata                `json:"metadata"`
	Results  []store.Row             `json:"results"`
	Terms    map[string][]store.Term `json:"terms,omitempty"`
	Stats    map[string]store.Stats  `json:"stats,omitempty"`
}

// Service runs listings of catalog entities against stores with
// constraint type C.
// A Service is immutable and safe for concurrent use.
type Service[C any] struct {
	cfg      Config
	catalog  catalog.Catalog
	compiler *filter.Compiler
	renderer *filter.Renderer
	logger   *slog.Logger
}

// NewService creates a listing service.
// Returns error if the config is invalid or the catalog is nil.
func NewService[C any](cfg Config, cat catalog.Catalog) (*Service[C], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, ErrNilCatalog
	}

	logger := cfg.logger()
	compiler, err := filter.NewCompiler(cfg.Operators)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	renderer, err := filter.NewRenderer(cfg.Operators,
		filter.WithDateParser(filter.DateParser{Location: cfg.location()}),
		filter.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Service[C]{
		cfg:      cfg,
		catalog:  cat,
		compiler: compiler,
		renderer: renderer,
		logger:   logger,
	}, nil
}

// Config returns the configuration of the service.
func (s *Service[C]) Config() Config {
	return s.cfg
}

// Catalog returns the field catalog of the service.
func (s *Service[C]) Catalog() catalog.Catalog {
	return s.catalog
}

// NewParameters returns empty parameters using the service defaults.
func (s *Service[C]) NewParameters() *Parameters {
	return s.cfg.NewParameters()
}

// params binds p to the service defaults, whatever config created it.
func (s *Service[C]) params(p *Parameters) *Parameters {
	if p == nil {
		return s.NewParameters()
	}
	cp := p.clone()
	cp.defaults = s.NewParameters().defaults
	return cp
}

// Fields returns the field descriptors of entity.
// Returns ErrEntityNotFound if the catalog does not know entity.
func (s *Service[C]) Fields(ctx context.Context, entity string) ([]catalog.Field, error) {
	fields, err := s.catalog.Fields(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("fields of %s: %w", entity, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entity)
	}
	return fields, nil
}

// Query builds the store query for p: sort orders, the rendered global
// filter, attribute filters and predicate, offset and limit.
func (s *Service[C]) Query(ctx context.Context, b store.Builder[C], entity string, p *Parameters) (store.Query[C], error) {
	p = s.params(p)
	if b == nil {
		return store.Query[C]{}, ErrNilStore
	}
	fields, err := s.Fields(ctx, entity)
	if err != nil {
		return store.Query[C]{}, err
	}
	where, err := s.where(b, fields, p)
	if err != nil {
		return store.Query[C]{}, err
	}
	return s.query(entity, fields, where, p), nil
}

// List returns the page of entity rows selected by p.
// A nil p selects the first page with the default limit.
//
// If the page is empty and not the first one, the listing steps back one
// page at a time (at most MaxBackoff pages) until a page has rows or page 1
// is reached. p itself is not changed.
func (s *Service[C]) List(ctx context.Context, st store.Store[C], entity string, p *Parameters) ([]store.Row, error) {
	p = s.params(p)
	fields, where, err := s.prepare(ctx, st, entity, p)
	if err != nil {
		return nil, err
	}
	rows, _, err := s.list(ctx, st, entity, fields, where, p)
	return rows, err
}

// Count returns the number of entity rows matching the filters of p.
func (s *Service[C]) Count(ctx context.Context, st store.Store[C], entity string, p *Parameters) (int64, error) {
	p = s.params(p)
	_, where, err := s.prepare(ctx, st, entity, p)
	if err != nil {
		return 0, err
	}
	return st.Count(ctx, where)
}

// Result returns the page selected by p with its metadata.
// Terms and stats are computed when requested in p and st implements
// store.Aggregator; requests for unknown attributes are skipped.
func (s *Service[C]) Result(ctx context.Context, st store.Store[C], entity string, p *Parameters) (*Result, error) {
	p = s.params(p)
	fields, where, err := s.prepare(ctx, st, entity, p)
	if err != nil {
		return nil, err
	}
	rows, effective, err := s.list(ctx, st, entity, fields, where, p)
	if err != nil {
		return nil, err
	}
	count, err := st.Count(ctx, where)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Metadata: Paginate(count, effective),
		Results:  rows,
	}
	if err := s.aggregate(ctx, st, fields, where, effective, res); err != nil {
		return nil, err
	}
	return res, nil
}

// prepare resolves the fields of entity and renders the filters of p.
func (s *Service[C]) prepare(ctx context.Context, st store.Store[C], entity string, p *Parameters) ([]catalog.Field, []C, error) {
	if st == nil {
		return nil, nil, ErrNilStore
	}
	fields, err := s.Fields(ctx, entity)
	if err != nil {
		return nil, nil, err
	}
	where, err := s.where(st, fields, p)
	if err != nil {
		return nil, nil, err
	}
	return fields, where, nil
}

// list runs the paged query, stepping back over empty pages.
// Returns the rows and the parameters of the page they belong to.
func (s *Service[C]) list(ctx context.Context, st store.Store[C], entity string, fields []catalog.Field, where []C, p *Parameters) ([]store.Row, *Parameters, error) {
	current := p
	for step := 0; ; step++ {
		rows, err := st.List(ctx, s.query(entity, fields, where, current))
		if err != nil {
			return nil, nil, err
		}
		page := current.Page()
		if len(rows) > 0 || page <= 1 || step >= s.cfg.MaxBackoff {
			return rows, current, nil
		}

		current = current.clone().SetPage(page - 1).ClearIndex()
		s.logger.Debug("Empty listing page, stepping back",
			"entity", entity,
			"page", page-1)
	}
}

// where renders the filters of p into the store's where constraints.
func (s *Service[C]) where(b store.Builder[C], fields []catalog.Field, p *Parameters) ([]C, error) {
	c, ok, err := filter.Compile(s.compiler, s.renderer, b, fields,
		p.Filter(), p.FilterAttributes(), p.Predicate())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return []C{c}, nil
}

func (s *Service[C]) query(entity string, fields []catalog.Field, where []C, p *Parameters) store.Query[C] {
	return store.Query[C]{
		Where:   where,
		OrderBy: s.orderBy(entity, fields, p),
		Offset:  p.Index(),
		Limit:   p.Limit(),
	}
}

// orderBy maps the sort attributes of p to columns.
// Unknown attributes are skipped.
func (s *Service[C]) orderBy(entity string, fields []catalog.Field, p *Parameters) []store.Order {
	sorts := p.Sorts()
	if len(sorts) == 0 {
		return nil
	}
	byName := catalog.Index(fields)
	orders := make([]store.Order, 0, len(sorts))
	for _, o := range sorts {
		f, ok := byName[o.Column]
		if !ok {
			s.logger.Debug("Unknown sort attribute skipped",
				"entity", entity,
				"attribute", o.Column)
			continue
		}
		orders = append(orders, store.Order{Column: f.ColumnName(), Asc: o.Asc})
	}
	return orders
}

func (s *Service[C]) aggregate(ctx context.Context, st store.Store[C], fields []catalog.Field, where []C, p *Parameters, res *Result) error {
	terms, stats := p.TermsAttributes(), p.StatsAttributes()
	if len(terms) == 0 && len(stats) == 0 {
		return nil
	}
	agg, ok := st.(store.Aggregator[C])
	if !ok {
		s.logger.Debug("Store does not support aggregations", "store", fmt.Sprintf("%T", st))
		return nil
	}

	byName := catalog.Index(fields)
	for _, t := range terms {
		f, ok := byName[t.Attribute]
		if !ok {
			s.logger.Debug("Unknown terms attribute skipped", "attribute", t.Attribute)
			continue
		}
		buckets, err := agg.Terms(ctx, where, f.ColumnName(), t.Size)
		if err != nil {
			return fmt.Errorf("terms of %s: %w", t.Attribute, err)
		}
		if res.Terms == nil {
			res.Terms = make(map[string][]store.Term)
		}
		res.Terms[t.Attribute] = buckets
	}

	for _, attr := range stats {
		f, ok := byName[attr]
		if !ok || !f.Kind.IsNumeric() {
			s.logger.Debug("Stats attribute skipped", "attribute", attr)
			continue
		}
		summary, err := agg.Stats(ctx, where, f.ColumnName())
		if err != nil {
			return fmt.Errorf("stats of %s: %w", attr, err)
		}
		if res.Stats == nil {
			res.Stats = make(map[string]store.Stats)
		}
		res.Stats[attr] = summary
	}
	return nil
}
