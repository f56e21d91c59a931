package ops

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/value"
)

// FilterOperators are the comparisons accepted by filter_records.
var FilterOperators = []string{"==", ">", "<", ">=", "<=", "in"}

// Aggregations are the reductions accepted by aggregate.
var Aggregations = []string{"sum", "count", "average", "max", "min"}

type filterParams struct {
	Records  []domain.Record `mapstructure:"records"`
	Field    string          `mapstructure:"field"`
	Operator string          `mapstructure:"operator"`
	Value    value.Value     `mapstructure:"value"`
}

type fieldParams struct {
	Records []domain.Record `mapstructure:"records"`
	Field   string          `mapstructure:"field"`
}

type sortParams struct {
	Records    []domain.Record `mapstructure:"records"`
	Field      string          `mapstructure:"field"`
	Descending bool            `mapstructure:"descending"`
}

type aggregateParams struct {
	Records   []domain.Record `mapstructure:"records"`
	Field     string          `mapstructure:"field"`
	Operation string          `mapstructure:"operation"`
}

type selectParams struct {
	Records []domain.Record `mapstructure:"records"`
	Fields  []string        `mapstructure:"fields"`
}

type recordsParams struct {
	Records []domain.Record `mapstructure:"records"`
}

// records is a keyword-only override of the table's dataset.
var records = Param{Name: "records", KeywordOnly: true}

type tabular struct {
	dataset []domain.Record
}

// Tabular builds the tabular operation table over ds. Every operation also accepts a
// records keyword argument that replaces the dataset for that call.
func Tabular(ds domain.Dataset) *Table {
	tb := &tabular{dataset: ds.Records}
	t := NewTable(domain.Tabular)

	t.Register(Operation{
		Name:        "filter_records",
		Description: "Filter records",
		Params: []Param{
			{Name: "field", Required: true},
			{Name: "operator"},
			{Name: "value", Required: true},
			records,
		},
		Fn: tb.filter,
	})
	t.Register(Operation{
		Name:        "group_by",
		Description: "Group records",
		Params:      []Param{{Name: "field", Required: true}, records},
		Fn:          tb.groupBy,
	})
	t.Register(Operation{
		Name:        "sort_records",
		Description: "Sort records",
		Params:      []Param{{Name: "field", Required: true}, {Name: "descending"}, records},
		Fn:          tb.sort,
	})
	t.Register(Operation{
		Name:        "aggregate",
		Description: "Aggregate data",
		Params:      []Param{{Name: "field", Required: true}, {Name: "operation", Required: true}, records},
		Fn:          tb.aggregate,
	})
	t.Register(Operation{
		Name:        "select_fields",
		Description: "Select fields",
		Params:      []Param{{Name: "fields", Required: true}, records},
		Fn:          tb.selectFields,
	})
	t.Register(Operation{
		Name:        "count_records",
		Description: "Count records",
		Params:      []Param{records},
		Fn:          tb.count,
	})
	t.Register(Operation{
		Name:        "unique_values",
		Description: "Get unique values",
		Params:      []Param{{Name: "field", Required: true}, records},
		Fn:          tb.unique,
	})
	return t
}

func (tb *tabular) source(args Args, supplied []domain.Record) []domain.Record {
	if args.Has("records") {
		return supplied
	}
	return tb.dataset
}

func (tb *tabular) filter(ctx context.Context, args Args) (value.Value, error) {
	var p filterParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}
	if p.Operator == "" {
		p.Operator = "=="
	}
	match, err := comparison(p.Operator, p.Value)
	if err != nil {
		return value.Null(), err
	}

	out := []value.Value{}
	for _, rec := range tb.source(args, p.Records) {
		field, ok := rec[p.Field]
		if !ok {
			continue
		}
		keep, err := match(field)
		if err != nil {
			return value.Null(), fmt.Errorf("%w: field %q: %v", domain.ErrInvalidArgument, p.Field, err)
		}
		if keep {
			out = append(out, recordValue(rec))
		}
	}
	return value.List(out...), nil
}

func comparison(operator string, want value.Value) (func(value.Value) (bool, error), error) {
	ordered := func(accept func(int) bool) func(value.Value) (bool, error) {
		return func(got value.Value) (bool, error) {
			c, err := value.Compare(got, want)
			if err != nil {
				return false, err
			}
			return accept(c), nil
		}
	}

	switch operator {
	case "==":
		return func(got value.Value) (bool, error) { return value.Equal(got, want), nil }, nil
	case ">":
		return ordered(func(c int) bool { return c > 0 }), nil
	case "<":
		return ordered(func(c int) bool { return c < 0 }), nil
	case ">=":
		return ordered(func(c int) bool { return c >= 0 }), nil
	case "<=":
		return ordered(func(c int) bool { return c <= 0 }), nil
	case "in":
		return func(got value.Value) (bool, error) { return contains(want, got) }, nil
	}
	return nil, fmt.Errorf("%w: unsupported operator %q (want one of %s)",
		domain.ErrInvalidArgument, operator, strings.Join(FilterOperators, ", "))
}

// contains checks list membership, or substring when both sides are strings.
func contains(container, item value.Value) (bool, error) {
	if items, ok := container.AsList(); ok {
		for _, candidate := range items {
			if value.Equal(candidate, item) {
				return true, nil
			}
		}
		return false, nil
	}
	if haystack, ok := container.AsString(); ok {
		needle, ok := item.AsString()
		if !ok {
			return false, fmt.Errorf("cannot look for %s in a string", item.Kind())
		}
		return strings.Contains(haystack, needle), nil
	}
	return false, fmt.Errorf("'in' needs a list or string, got %s", container.Kind())
}

func (tb *tabular) groupBy(ctx context.Context, args Args) (value.Value, error) {
	var p fieldParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}

	groups := map[string][]value.Value{}
	for _, rec := range tb.source(args, p.Records) {
		field, ok := rec[p.Field]
		if !ok {
			continue
		}
		key := field.Text()
		groups[key] = append(groups[key], recordValue(rec))
	}

	out := make(map[string]value.Value, len(groups))
	for key, members := range groups {
		out[key] = value.List(members...)
	}
	return value.Map(out), nil
}

func (tb *tabular) sort(ctx context.Context, args Args) (value.Value, error) {
	var p sortParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}

	src := tb.source(args, p.Records)
	sorted := make([]domain.Record, len(src))
	copy(sorted, src)

	key := func(rec domain.Record) value.Value {
		if v, ok := rec[p.Field]; ok {
			return v
		}
		return value.Int(0)
	}

	var cmpErr error
	sort.SliceStable(sorted, func(i, j int) bool {
		c, err := value.Compare(key(sorted[i]), key(sorted[j]))
		if err != nil {
			if cmpErr == nil {
				cmpErr = err
			}
			return false
		}
		if p.Descending {
			return c > 0
		}
		return c < 0
	})
	if cmpErr != nil {
		return value.Null(), fmt.Errorf("%w: field %q: %v", domain.ErrInvalidArgument, p.Field, cmpErr)
	}

	out := make([]value.Value, len(sorted))
	for i, rec := range sorted {
		out[i] = recordValue(rec)
	}
	return value.List(out...), nil
}

func (tb *tabular) aggregate(ctx context.Context, args Args) (value.Value, error) {
	var p aggregateParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}
	switch p.Operation {
	case "sum", "count", "average", "max", "min":
	default:
		return value.Null(), fmt.Errorf("%w: unsupported aggregation %q (want one of %s)",
			domain.ErrInvalidArgument, p.Operation, strings.Join(Aggregations, ", "))
	}

	var values []value.Value
	for _, rec := range tb.source(args, p.Records) {
		if v, ok := rec[p.Field]; ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return value.Null(), nil
	}

	switch p.Operation {
	case "count":
		return value.Int(len(values)), nil
	case "max", "min":
		best := values[0]
		for _, v := range values[1:] {
			c, err := value.Compare(v, best)
			if err != nil {
				return value.Null(), fmt.Errorf("%w: field %q: %v", domain.ErrInvalidArgument, p.Field, err)
			}
			if (p.Operation == "max" && c > 0) || (p.Operation == "min" && c < 0) {
				best = v
			}
		}
		return best, nil
	}

	total := 0.0
	for _, v := range values {
		n, ok := v.AsNumber()
		if !ok {
			return value.Null(), fmt.Errorf("%w: field %q holds non-numeric %s", domain.ErrInvalidArgument, p.Field, v.Kind())
		}
		total += n
	}
	if p.Operation == "average" {
		return finite(total / float64(len(values)))
	}
	return finite(total)
}

func (tb *tabular) selectFields(ctx context.Context, args Args) (value.Value, error) {
	var p selectParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}

	src := tb.source(args, p.Records)
	out := make([]value.Value, len(src))
	for i, rec := range src {
		selected := make(map[string]value.Value, len(p.Fields))
		for _, f := range p.Fields {
			if v, ok := rec[f]; ok {
				selected[f] = v
			}
		}
		out[i] = value.Map(selected)
	}
	return value.List(out...), nil
}

func (tb *tabular) count(ctx context.Context, args Args) (value.Value, error) {
	var p recordsParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}
	return value.Int(len(tb.source(args, p.Records))), nil
}

func (tb *tabular) unique(ctx context.Context, args Args) (value.Value, error) {
	var p fieldParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}

	seen := map[string]struct{}{}
	for _, rec := range tb.source(args, p.Records) {
		if v, ok := rec[p.Field]; ok {
			seen[v.Text()] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return value.Strings(keys), nil
}

// recordValue copies rec so results never alias the dataset.
func recordValue(rec domain.Record) value.Value {
	m := make(map[string]value.Value, len(rec))
	for k, v := range rec {
		m[k] = v
	}
	return value.Map(m)
}
