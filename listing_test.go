package listing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugr-lab/listing/catalog"
	"github.com/hugr-lab/listing/filter"
	"github.com/hugr-lab/listing/store"
	"github.com/hugr-lab/listing/store/memory"
)

type personStatus string

func (personStatus) EnumValues() []string { return []string{"ACTIVE", "BLOCKED"} }

type person struct {
	ID     int64        `json:"id" listing:",id"`
	Name   string       `json:"name"`
	City   string       `json:"city"`
	Age    int32        `json:"age"`
	Status personStatus `json:"status"`
}

// countingStore counts List calls.
type countingStore struct {
	*memory.Store
	lists int
}

func (s *countingStore) List(ctx context.Context, q store.Query[memory.Condition]) ([]store.Row, error) {
	s.lists++
	return s.Store.List(ctx, q)
}

// plainStore hides the aggregations of the wrapped store.
type plainStore struct {
	store.Store[memory.Condition]
}

var errBoom = errors.New("boom")

type failingStore struct {
	*memory.Store
}

func (failingStore) List(context.Context, store.Query[memory.Condition]) ([]store.Row, error) {
	return nil, errBoom
}

// peopleStore holds 25 people; city cycles Berlin, Hamburg, Munich by
// id%3, status ACTIVE/BLOCKED by id%2, age is 20+id.
func peopleStore() *memory.Store {
	cities := []string{"Berlin", "Hamburg", "Munich"}
	statuses := []string{"ACTIVE", "BLOCKED"}
	s := memory.New()
	for i := 1; i <= 25; i++ {
		s.Insert(store.Row{
			"id":     int64(i),
			"name":   fmt.Sprintf("Person %02d", i),
			"city":   cities[i%3],
			"age":    int32(20 + i),
			"status": statuses[i%2],
		})
	}
	return s
}

func newTestService(t *testing.T, cfg Config) *Service[memory.Condition] {
	t.Helper()
	cat, err := NewCatalogBuilder().
		Entity("people").
		Struct(person{}).
		Build()
	require.NoError(t, err)

	svc, err := NewService[memory.Condition](cfg, cat)
	require.NoError(t, err)
	return svc
}

func ids(rows []store.Row) []int64 {
	result := make([]int64, 0, len(rows))
	for _, r := range rows {
		result = append(result, r["id"].(int64))
	}
	return result
}

func TestNewService(t *testing.T) {
	cat, err := NewCatalogBuilder().Entity("people").Struct(person{}).Build()
	require.NoError(t, err)

	_, err = NewService[memory.Condition](DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrNilCatalog)

	cfg := DefaultConfig()
	cfg.DefaultPage = 0
	_, err = NewService[memory.Condition](cfg, cat)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Operators.OrToInLimit = -1
	_, err = NewService[memory.Condition](cfg, cat)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestServiceListPaging(t *testing.T) {
	svc := newTestService(t, DefaultConfig())
	ctx := context.Background()
	people := peopleStore()

	rows, err := svc.List(ctx, people, "people", svc.NewParameters().SetPage(2).SetSort("-age"))
	require.NoError(t, err)
	assert.Equal(t, []int64{15, 14, 13, 12, 11, 10, 9, 8, 7, 6}, ids(rows))

	rows, err = svc.List(ctx, people, "people", svc.NewParameters().SetIndex(22).SetLimit(5).SetSort("id"))
	require.NoError(t, err)
	assert.Equal(t, []int64{23, 24, 25}, ids(rows))

	rows, err = svc.List(ctx, people, "people", svc.NewParameters().SetLimit(0))
	require.NoError(t, err)
	assert.Len(t, rows, 25)

	rows, err = svc.List(ctx, people, "people", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 10)
}

func TestServiceAppliesOwnDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLimit = 4
	cfg.Operators.SortDesc = "!"
	svc := newTestService(t, cfg)
	ctx := context.Background()
	people := peopleStore()

	rows, err := svc.List(ctx, people, "people", NewParameters().SetSort("!age"))
	require.NoError(t, err)
	assert.Equal(t, []int64{25, 24, 23, 22}, ids(rows))

	rows, err = svc.List(ctx, people, "people", &Parameters{})
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	p := NewParameters()
	_, err = svc.List(ctx, people, "people", p)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().DefaultLimit, p.Limit())
}

func TestServiceSort(t *testing.T) {
	svc := newTestService(t, DefaultConfig())
	ctx := context.Background()
	people := peopleStore()

	rows, err := svc.List(ctx, people, "people", svc.NewParameters().SetLimit(6).SetSort("city;-id"))
	require.NoError(t, err)
	assert.Equal(t, []int64{24, 21, 18, 15, 12, 9}, ids(rows))

	known, err := svc.List(ctx, people, "people", svc.NewParameters().SetSort("-age"))
	require.NoError(t, err)
	withUnknown, err := svc.List(ctx, people, "people", svc.NewParameters().SetSort("nope;-age"))
	require.NoError(t, err)
	assert.Equal(t, ids(known), ids(withUnknown))
}

func TestServiceFilters(t *testing.T) {
	svc := newTestService(t, DefaultConfig())
	ctx := context.Background()
	people := peopleStore()

	tests := []struct {
		name  string
		p     *Parameters
		count int64
	}{
		{"no filter", svc.NewParameters(), 25},
		{"global", svc.NewParameters().SetFilter("person 0"), 9},
		{"attribute", svc.NewParameters().AddFilterAttribute("city", "Berlin"), 8},
		{"attributes are combined with AND", svc.NewParameters().
			AddFilterAttribute("city", "Berlin").
			AddFilterAttribute("status", "BLOCKED"), 4},
		{"disjunction key", svc.NewParameters().
			AddFilterAttribute("city", "Berlin").
			AddFilterAttribute("age", "<23").
			AddFilterAttribute(DefaultConfig().Operators.DisjunctionKey, "true"), 10},
		{"range", svc.NewParameters().AddFilterAttribute("age", "30-34"), 5},
		{"negation", svc.NewParameters().AddFilterAttribute("city", "!Berlin"), 17},
		{"global and attribute", svc.NewParameters().
			SetFilter("person 1").
			AddFilterAttribute("status", "\"ACTIVE\""), 5},
		{"predicate", svc.NewParameters().SetPredicate(filter.Or(
			filter.Leaf("age", "<22"),
			filter.Leaf("age", ">44"),
		)), 2},
		{"unfit filter text", svc.NewParameters().AddFilterAttribute("age", "abc"), 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := svc.Count(ctx, people, "people", tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.count, count)

			tt.p.SetLimit(0)
			rows, err := svc.List(ctx, people, "people", tt.p)
			require.NoError(t, err)
			assert.Len(t, rows, int(tt.count))
		})
	}
}

func TestServiceUnknownAttributeDoesNotChangeResult(t *testing.T) {
	svc := newTestService(t, DefaultConfig())
	ctx := context.Background()
	people := peopleStore()

	base := svc.NewParameters().SetLimit(0).
		AddFilterAttribute("city", "Munich").
		AddFilterAttribute("age", ">30")
	withBogus := svc.NewParameters().SetLimit(0).
		AddFilterAttribute("city", "Munich").
		AddFilterAttribute("nope", "x").
		AddFilterAttribute("age", ">30")

	want, err := svc.List(ctx, people, "people", base)
	require.NoError(t, err)
	got, err := svc.List(ctx, people, "people", withBogus)
	require.NoError(t, err)
	require.NotEmpty(t, want)
	assert.Equal(t, ids(want), ids(got))
}

func TestServiceEmptyPageBackoff(t *testing.T) {
	svc := newTestService(t, DefaultConfig())
	ctx := context.Background()
	people := &countingStore{Store: peopleStore()}

	p := svc.NewParameters().
		SetPage(3).
		SetLimit(10).
		SetSort("id").
		AddFilterAttribute("city", "Berlin")

	res, err := svc.Result(ctx, people, "people", p)
	require.NoError(t, err)
	assert.Equal(t, 3, people.lists)
	assert.Equal(t, []int64{3, 6, 9, 12, 15, 18, 21, 24}, ids(res.Results))
	assert.Equal(t, Metadata{
		Count:       8,
		CurrentPage: 1,
		NumPages:    1,
		Limit:       10,
		Sort:        "id",
		StartIndex:  1,
		EndIndex:    8,
	}, res.Metadata)

	// the caller's parameters are unchanged
	assert.Equal(t, 3, p.Page())
}

func TestServiceBackoffFromIndex(t *testing.T) {
	svc := newTestService(t, DefaultConfig())
	people := peopleStore()

	p := svc.NewParameters().SetIndex(30).SetLimit(10).SetSort("id")
	res, err := svc.Result(context.Background(), people, "people", p)
	require.NoError(t, err)
	assert.Equal(t, []int64{21, 22, 23, 24, 25}, ids(res.Results))
	assert.Equal(t, 3, res.Metadata.CurrentPage)
	assert.Equal(t, 21, res.Metadata.StartIndex)
	assert.Equal(t, 25, res.Metadata.EndIndex)
}

func TestServiceBackoffIsCapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBackoff = 1
	svc := newTestService(t, cfg)
	people := &countingStore{Store: peopleStore()}

	p := svc.NewParameters().SetPage(9).SetLimit(10)
	rows, err := svc.List(context.Background(), people, "people", p)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 2, people.lists)

	cfg.MaxBackoff = 0
	svc = newTestService(t, cfg)
	people.lists = 0
	rows, err = svc.List(context.Background(), people, "people", p)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 1, people.lists)
}

func TestServiceResultAggregations(t *testing.T) {
	svc := newTestService(t, DefaultConfig())
	ctx := context.Background()

	p := svc.NewParameters().
		AddFilterAttribute("city", "Berlin").
		AddTermsAttribute("status", 0).
		AddTermsAttribute("nope", 3).
		AddStatsAttribute("age").
		AddStatsAttribute("name")

	res, err := svc.Result(ctx, peopleStore(), "people", p)
	require.NoError(t, err)

	require.Contains(t, res.Terms, "status")
	assert.NotContains(t, res.Terms, "nope")
	assert.Equal(t, []store.Term{
		{Value: "ACTIVE", Count: 4},
		{Value: "BLOCKED", Count: 4},
	}, res.Terms["status"])

	require.Contains(t, res.Stats, "age")
	assert.NotContains(t, res.Stats, "name")
	assert.Equal(t, store.Stats{Count: 8, Min: 23, Max: 44, Avg: 33.5, Sum: 268}, res.Stats["age"])

	res, err = svc.Result(ctx, plainStore{peopleStore()}, "people", p)
	require.NoError(t, err)
	assert.Nil(t, res.Terms)
	assert.Nil(t, res.Stats)
	assert.Equal(t, int64(8), res.Metadata.Count)
}

func TestServiceErrors(t *testing.T) {
	svc := newTestService(t, DefaultConfig())
	ctx := context.Background()

	_, err := svc.List(ctx, nil, "people", nil)
	assert.ErrorIs(t, err, ErrNilStore)

	_, err = svc.Count(ctx, peopleStore(), "nope", nil)
	assert.ErrorIs(t, err, ErrEntityNotFound)

	_, err = svc.Result(ctx, failingStore{peopleStore()}, "people", nil)
	assert.ErrorIs(t, err, errBoom)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.List(cctx, peopleStore(), "people", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServiceQuery(t *testing.T) {
	svc := newTestService(t, DefaultConfig())

	q, err := svc.Query(context.Background(), memory.Builder{}, "people",
		svc.NewParameters().SetPage(2).SetLimit(5).SetSort("-age;nope").AddFilterAttribute("city", "x"))
	require.NoError(t, err)
	assert.Len(t, q.Where, 1)
	assert.Equal(t, []store.Order{{Column: "age", Asc: false}}, q.OrderBy)
	assert.Equal(t, 5, q.Offset)
	assert.Equal(t, 5, q.Limit)

	q, err = svc.Query(context.Background(), memory.Builder{}, "people", nil)
	require.NoError(t, err)
	assert.Empty(t, q.Where)
	assert.Empty(t, q.OrderBy)

	fields, err := svc.Fields(context.Background(), "people")
	require.NoError(t, err)
	assert.Equal(t, catalog.KindEnum, catalog.Index(fields)["status"].Kind)
}
