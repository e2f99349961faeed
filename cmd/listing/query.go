package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hugr-lab/listing"
	"github.com/hugr-lab/listing/catalog"
	"github.com/hugr-lab/listing/filter"
	"github.com/hugr-lab/listing/rest"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <table>",
		Short: "List one page of a table",
		Long: `List one page of a table.

Filters use the listing filter syntax, for example:

  listing query people --attr city='Berlin|Hamburg' --attr age='30-40' --sort=-age
  listing query people --filter smith --terms city --stats age`,
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().String("filter", "", "global filter applied to every eligible field")
	cmd.Flags().StringArray("attr", nil, "attribute filter name=text (repeatable)")
	cmd.Flags().Bool("or", false, "combine attribute filters with OR instead of AND")
	cmd.Flags().String("sort", "", "sort expression, e.g. -age;name")
	cmd.Flags().Int("page", 0, "page number (1 based)")
	cmd.Flags().Int("index", 0, "row offset (0 based), overrides --page")
	cmd.Flags().Int("limit", 0, "rows per page, 0 lists every row")
	cmd.Flags().String("predicate", "", "predicate token created by the token command")
	cmd.Flags().StringArray("terms", nil, "terms aggregation name[=size] (repeatable)")
	cmd.Flags().StringArray("stats", nil, "stats aggregation over a numeric field (repeatable)")
	cmd.Flags().StringP("output", "o", "table", "output format: table or json")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	table := args[0]
	ctx := cmd.Context()

	e, err := openEnv(ctx, cmd, []string{table})
	if err != nil {
		return err
	}
	defer e.Close()

	values, err := queryValues(cmd, e.cfg.Operators)
	if err != nil {
		return err
	}

	var codec *filter.Codec
	if values.Has(rest.KeyPredicate) {
		if codec, err = filter.NewCodec(); err != nil {
			return err
		}
		defer codec.Close()
	}

	params, err := rest.ParseParameters(values, e.cfg, codec)
	if err != nil {
		return err
	}
	res, err := e.service.Result(ctx, e.stores[table], table, params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format, _ := cmd.Flags().GetString("output"); format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fields, err := e.service.Fields(ctx, table)
	if err != nil {
		return err
	}
	printResult(out, fields, res)
	return nil
}

// queryValues translates the query flags into the query-string form read by
// rest.ParseParameters.
func queryValues(cmd *cobra.Command, ops filter.Operators) (url.Values, error) {
	flags := cmd.Flags()
	values := url.Values{}

	for _, name := range []string{rest.KeyIndex, rest.KeyPage, rest.KeyLimit} {
		if flags.Changed(name) {
			n, _ := flags.GetInt(name)
			values.Set(name, strconv.Itoa(n))
		}
	}
	for _, name := range []string{rest.KeySort, rest.KeyFilter, rest.KeyPredicate} {
		if s, _ := flags.GetString(name); s != "" {
			values.Set(name, s)
		}
	}

	attrs, _ := flags.GetStringArray("attr")
	for _, a := range attrs {
		name, text, ok := strings.Cut(a, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --attr %q: expected name=text", a)
		}
		values.Add(rest.PrefixFilter+strings.TrimSpace(name), text)
	}
	if or, _ := flags.GetBool("or"); or {
		values.Set(rest.PrefixFilter+ops.DisjunctionKey, "true")
	}

	terms, _ := flags.GetStringArray("terms")
	for _, t := range terms {
		name, size, _ := strings.Cut(t, "=")
		values.Set(rest.PrefixTerms+strings.TrimSpace(name), size)
	}
	stats, _ := flags.GetStringArray("stats")
	for _, s := range stats {
		values.Set(rest.PrefixStats+strings.TrimSpace(s), "true")
	}
	return values, nil
}

func printResult(w io.Writer, fields []catalog.Field, res *listing.Result) {
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}

	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	for _, r := range res.Results {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = formatValue(r[f.ColumnName()])
		}
		t.Append(row)
	}
	t.Render()

	m := res.Metadata
	if m.Count == 0 {
		fmt.Fprintln(w, "No rows")
	} else {
		fmt.Fprintf(w, "Page %d of %d, rows %d-%d of %d\n", m.CurrentPage, m.NumPages, m.StartIndex, m.EndIndex, m.Count)
	}

	for _, attr := range slices.Sorted(maps.Keys(res.Terms)) {
		t := tablewriter.NewWriter(w)
		t.SetHeader([]string{attr, "count"})
		t.SetAutoFormatHeaders(false)
		for _, term := range res.Terms[attr] {
			t.Append([]string{formatValue(term.Value), strconv.FormatInt(term.Count, 10)})
		}
		t.Render()
	}

	if len(res.Stats) > 0 {
		t := tablewriter.NewWriter(w)
		t.SetHeader([]string{"field", "count", "min", "max", "avg", "sum"})
		t.SetAutoFormatHeaders(false)
		for _, attr := range slices.Sorted(maps.Keys(res.Stats)) {
			s := res.Stats[attr]
			t.Append([]string{
				attr,
				strconv.FormatInt(s.Count, 10),
				formatFloat(s.Min),
				formatFloat(s.Max),
				formatFloat(s.Avg),
				formatFloat(s.Sum),
			})
		}
		t.Render()
	}
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return v.Format(time.DateTime)
	case float64:
		return formatFloat(v)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
