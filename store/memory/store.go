package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/hugr-lab/listing/store"
)

// ErrNotNumeric indicates Stats on a column holding non-numeric values.
var ErrNotNumeric = errors.New("memory: column is not numeric")

// Store is a goroutine-safe in-memory listing store.
type Store struct {
	Builder

	mu   sync.RWMutex
	rows []store.Row
}

var (
	_ store.Store[Condition]      = (*Store)(nil)
	_ store.Aggregator[Condition] = (*Store)(nil)
)

// New creates a store holding copies of rows.
func New(rows ...store.Row) *Store {
	s := &Store{}
	s.Insert(rows...)
	return s
}

// Insert appends copies of rows.
func (s *Store) Insert(rows ...store.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.rows = append(s.rows, maps.Clone(r))
	}
}

// Len returns the number of rows held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// matching returns the rows for which every condition is true.
// Caller must hold the read lock.
func (s *Store) matching(ctx context.Context, where []Condition) ([]store.Row, error) {
	var result []store.Row
	for i, row := range s.rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if accepts(where, row) {
			result = append(result, row)
		}
	}
	return result, nil
}

func accepts(where []Condition, row store.Row) bool {
	for _, c := range where {
		if c(row) != True {
			return false
		}
	}
	return true
}

// List returns copies of the matching rows, ordered and paged as q asks.
// NULL values sort last in both directions.
func (s *Store) List(ctx context.Context, q store.Query[Condition]) ([]store.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.matching(ctx, q.Where)
	if err != nil {
		return nil, err
	}
	if len(q.OrderBy) > 0 {
		slices.SortStableFunc(rows, func(a, b store.Row) int {
			return compareRows(a, b, q.OrderBy)
		})
	}

	offset := max(q.Offset, 0)
	if offset >= len(rows) {
		return []store.Row{}, nil
	}
	rows = rows[offset:]
	if q.Limit > 0 && q.Limit < len(rows) {
		rows = rows[:q.Limit]
	}

	result := make([]store.Row, len(rows))
	for i, r := range rows {
		result[i] = maps.Clone(r)
	}
	return result, nil
}

func compareRows(a, b store.Row, order []store.Order) int {
	for _, o := range order {
		av, bv := a[o.Column], b[o.Column]
		var c int
		switch {
		case av == nil && bv == nil:
			continue
		case av == nil:
			return 1
		case bv == nil:
			return -1
		default:
			c, _ = compare(av, bv)
		}
		if !o.Asc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// Count returns the number of matching rows.
func (s *Store) Count(ctx context.Context, where []Condition) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.matching(ctx, where)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// Terms returns the most frequent non-NULL values of column among the
// matching rows.
func (s *Store) Terms(ctx context.Context, where []Condition, column string, size int) ([]store.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.matching(ctx, where)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var terms []store.Term
	for _, row := range rows {
		v := row[column]
		if v == nil {
			continue
		}
		key := fmt.Sprintf("%T\x00%v", v, v)
		if i, ok := index[key]; ok {
			terms[i].Count++
			continue
		}
		index[key] = len(terms)
		terms = append(terms, store.Term{Value: v, Count: 1})
	}

	slices.SortStableFunc(terms, func(a, b store.Term) int {
		if a.Count != b.Count {
			if a.Count > b.Count {
				return -1
			}
			return 1
		}
		c, _ := compare(a.Value, b.Value)
		return c
	})
	if size > 0 && len(terms) > size {
		terms = terms[:size]
	}
	if terms == nil {
		terms = []store.Term{}
	}
	return terms, nil
}

// Stats summarises a numeric column over the matching rows.
// Returns ErrNotNumeric if a non-NULL value is not a number.
func (s *Store) Stats(ctx context.Context, where []Condition, column string) (store.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.matching(ctx, where)
	if err != nil {
		return store.Stats{}, err
	}

	var st store.Stats
	for _, row := range rows {
		v := row[column]
		if v == nil {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			return store.Stats{}, fmt.Errorf("%w: %s holds %T", ErrNotNumeric, column, v)
		}
		if st.Count == 0 || f < st.Min {
			st.Min = f
		}
		if st.Count == 0 || f > st.Max {
			st.Max = f
		}
		st.Sum += f
		st.Count++
	}
	if st.Count > 0 {
		st.Avg = st.Sum / float64(st.Count)
	}
	return st, nil
}
