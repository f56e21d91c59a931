package agent

import (
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ops"
)

// localTextual are the textual operations computed in process. The rest of the
// textual table is served remotely only.
var localTextual = []string{"word_count", "summarize", "extract_entities", "classify"}

// LocalOperations builds the table an agent may run in process.
// Numeric and tabular agents carry their whole table; the tabular one runs over ds.
func LocalOperations(d domain.Domain, ds domain.Dataset) *ops.Table {
	switch d {
	case domain.Numeric:
		return ops.Numeric()
	case domain.Tabular:
		return ops.Tabular(ds)
	case domain.Textual:
		return ops.Textual().Subset(localTextual...)
	}
	return nil
}

// Defaults returns the options that reproduce each domain's standard behaviour:
// numeric asks the service first and is healthy when the service answers; tabular
// runs locally and is healthy while it has data; textual runs locally and is always healthy.
// A tabular agent without records has nothing to compute locally and goes to the service.
func Defaults(d domain.Domain, ds domain.Dataset) []Option {
	local := LocalOperations(d, ds)
	if d == domain.Tabular && ds.Len() == 0 {
		local = nil
	}
	opts := []Option{WithLocal(local)}
	switch d {
	case domain.Numeric:
		opts = append(opts, WithStrategy(RemoteFirst), WithHealthPolicy(HealthProbe))
	case domain.Tabular:
		opts = append(opts, WithStrategy(LocalFirst), WithHealthPolicy(HealthDataset), WithDataset(ds))
	case domain.Textual:
		opts = append(opts, WithStrategy(LocalFirst), WithHealthPolicy(HealthAlways))
	}
	return opts
}
