package ops

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/value"
)

// Func implements one operation. It receives the arguments already bound to
// parameter names.
type Func func(ctx context.Context, args Args) (value.Value, error)

// Param declares one named parameter of an operation.
type Param struct {
	Name     string
	Required bool
	// KeywordOnly parameters are never filled from positional arguments.
	KeywordOnly bool
}

// Operation is one entry of a table.
type Operation struct {
	Name        string
	Description string
	Params      []Param
	Fn          Func
}

// Table maps operation names to implementations for a single domain.
// It is built once and is safe for concurrent use afterwards.
type Table struct {
	domain domain.Domain
	ops    map[string]Operation
	order  []string
}

// NewTable creates an empty table for d.
func NewTable(d domain.Domain) *Table {
	return &Table{
		domain: d,
		ops:    make(map[string]Operation),
	}
}

// Register adds an operation. Registering the same name twice replaces the
// implementation but keeps its first listing position.
func (t *Table) Register(op Operation) {
	if _, exists := t.ops[op.Name]; !exists {
		t.order = append(t.order, op.Name)
	}
	t.ops[op.Name] = op
}

// Subset returns a table holding only the named operations. Unknown names are ignored.
func (t *Table) Subset(names ...string) *Table {
	sub := NewTable(t.domain)
	for _, name := range names {
		if op, ok := t.ops[name]; ok {
			sub.Register(op)
		}
	}
	return sub
}

// Domain returns the domain the table serves.
func (t *Table) Domain() domain.Domain { return t.domain }

// Has reports whether name is in the table.
func (t *Table) Has(name string) bool {
	_, ok := t.ops[name]
	return ok
}

// Names lists operation names in registration order.
func (t *Table) Names() []string {
	return append([]string(nil), t.order...)
}

// Tools lists the table for discovery, in registration order.
func (t *Table) Tools() []domain.Tool {
	tools := make([]domain.Tool, 0, len(t.order))
	for _, name := range t.order {
		tools = append(tools, domain.Tool{Name: name, Description: t.ops[name].Description})
	}
	return tools
}

// Execute runs the named operation. An absent name is ErrUnknownOperation; binding
// and argument errors are ErrInvalidArgument. A panicking operation is reported as
// ErrInvalidArgument rather than propagated.
func (t *Table) Execute(ctx context.Context, req domain.Request) (out value.Value, err error) {
	op, ok := t.ops[req.Operation]
	if !ok {
		return value.Null(), fmt.Errorf("%w: %s", domain.ErrUnknownOperation, req.Operation)
	}

	args, err := bind(op.Params, req.Args, req.Kwargs)
	if err != nil {
		return value.Null(), fmt.Errorf("%s: %w", op.Name, err)
	}

	defer func() {
		if r := recover(); r != nil {
			out = value.Null()
			err = fmt.Errorf("%w: %s: %v", domain.ErrInvalidArgument, op.Name, r)
		}
	}()

	out, err = op.Fn(ctx, args)
	if err != nil {
		return value.Null(), fmt.Errorf("%s: %w", op.Name, err)
	}
	return out, nil
}

// Args holds bound arguments as plain decoded JSON values.
type Args map[string]any

// Has reports whether the caller supplied name.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Decode copies the arguments into a parameter struct.
func (a Args) Decode(out any) error {
	return decode(a, out)
}

func bind(params []Param, args []value.Value, kwargs map[string]value.Value) (Args, error) {
	positional := make([]Param, 0, len(params))
	for _, p := range params {
		if !p.KeywordOnly {
			positional = append(positional, p)
		}
	}
	if len(args) > len(positional) {
		return nil, fmt.Errorf("%w: takes %d positional arguments but %d were given",
			domain.ErrInvalidArgument, len(positional), len(args))
	}

	bound := make(Args, len(args)+len(kwargs))
	for i, arg := range args {
		bound[positional[i].Name] = arg.ToAny()
	}

	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !declared(params, k) {
			return nil, fmt.Errorf("%w: unexpected keyword argument %q", domain.ErrInvalidArgument, k)
		}
		if _, dup := bound[k]; dup {
			return nil, fmt.Errorf("%w: got multiple values for argument %q", domain.ErrInvalidArgument, k)
		}
		bound[k] = kwargs[k].ToAny()
	}

	for _, p := range params {
		if p.Required && !bound.Has(p.Name) {
			return nil, fmt.Errorf("%w: missing required argument %q", domain.ErrInvalidArgument, p.Name)
		}
	}
	return bound, nil
}

func declared(params []Param, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// ForDomain builds the table for d. The dataset is only used by the tabular domain.
func ForDomain(d domain.Domain, ds domain.Dataset) (*Table, error) {
	switch d {
	case domain.Numeric:
		return Numeric(), nil
	case domain.Tabular:
		return Tabular(ds), nil
	case domain.Textual:
		return Textual(), nil
	}
	return nil, fmt.Errorf("no operation table for domain %q", d)
}
