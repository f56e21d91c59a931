package agent

import (
	"github.com/aretw0/switchboard/pkg/ops"
	"github.com/aretw0/switchboard/pkg/value"
)

// ReshapeNumeric puts numeric arguments into the shape each operation expects.
// Variadic operations get a single list: loose numbers are folded into one and a
// lone list is left as is. Fixed-arity operations get separate positional
// arguments, so a lone list is spread out.
func ReshapeNumeric(operation string, args []value.Value) []value.Value {
	lone := len(args) == 1 && args[0].Kind() == value.KindList
	if !ops.VariadicNumeric[operation] {
		if !lone {
			return args
		}
		items, _ := args[0].AsList()
		spread := make([]value.Value, len(items))
		copy(spread, items)
		return spread
	}
	if lone {
		return args
	}
	items := make([]value.Value, len(args))
	copy(items, args)
	return []value.Value{value.List(items...)}
}
