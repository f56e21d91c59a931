package ops

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/value"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// VariadicNumeric lists the numeric operations that take a single sequence argument.
// The remaining numeric operations take fixed positional arguments.
var VariadicNumeric = map[string]bool{
	"add":         true,
	"multiply":    true,
	"average":     true,
	"median":      true,
	"sum_numbers": true,
	"max_value":   true,
	"min_value":   true,
}

type numbersParams struct {
	Numbers []float64 `mapstructure:"numbers"`
}

type pairParams struct {
	A float64 `mapstructure:"a"`
	B float64 `mapstructure:"b"`
}

type powerParams struct {
	Base     float64 `mapstructure:"base"`
	Exponent float64 `mapstructure:"exponent"`
}

type sqrtParams struct {
	Number float64 `mapstructure:"number"`
}

type secondsParams struct {
	TotalSeconds value.Value `mapstructure:"total_seconds"`
}

// Numeric builds the numeric operation table.
func Numeric() *Table {
	t := NewTable(domain.Numeric)

	seq := []Param{{Name: "numbers", Required: true}}
	pair := []Param{{Name: "a", Required: true}, {Name: "b", Required: true}}

	t.Register(Operation{Name: "add", Description: "Add numbers", Params: seq, Fn: overNumbers(sum)})
	t.Register(Operation{Name: "subtract", Description: "Subtract", Params: pair, Fn: subtract})
	t.Register(Operation{Name: "multiply", Description: "Multiply numbers", Params: seq, Fn: overNumbers(product)})
	t.Register(Operation{Name: "divide", Description: "Divide", Params: pair, Fn: divide})
	t.Register(Operation{Name: "average", Description: "Calculate average", Params: seq, Fn: overNumbers(mean)})
	t.Register(Operation{Name: "median", Description: "Calculate median", Params: seq, Fn: overNumbers(median)})
	t.Register(Operation{Name: "sum_numbers", Description: "Sum a sequence of numbers", Params: seq, Fn: overNumbers(sum)})
	t.Register(Operation{Name: "max_value", Description: "Find maximum", Params: seq, Fn: overNumbers(maximum)})
	t.Register(Operation{Name: "min_value", Description: "Find minimum", Params: seq, Fn: overNumbers(minimum)})
	t.Register(Operation{
		Name:        "power",
		Description: "Power operation",
		Params:      []Param{{Name: "base", Required: true}, {Name: "exponent", Required: true}},
		Fn:          power,
	})
	t.Register(Operation{
		Name:        "square_root",
		Description: "Square root",
		Params:      []Param{{Name: "number", Required: true}},
		Fn:          squareRoot,
	})
	t.Register(Operation{
		Name:        "convert_seconds",
		Description: "Convert seconds to hours, minutes, seconds",
		Params:      []Param{{Name: "total_seconds", Required: true}},
		Fn:          convertSeconds,
	})
	return t
}

func overNumbers(fn func([]float64) (float64, error)) Func {
	return func(ctx context.Context, args Args) (value.Value, error) {
		var p numbersParams
		if err := args.Decode(&p); err != nil {
			return value.Null(), err
		}
		out, err := fn(p.Numbers)
		if err != nil {
			return value.Null(), err
		}
		return finite(out)
	}
}

func finite(f float64) (value.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return value.Null(), fmt.Errorf("%w: result is not a finite number", domain.ErrInvalidArgument)
	}
	return value.Number(f), nil
}

func sum(xs []float64) (float64, error) { return floats.Sum(xs), nil }

func product(xs []float64) (float64, error) { return floats.Prod(xs), nil }

func mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, fmt.Errorf("%w: cannot average empty list", domain.ErrEmptyInput)
	}
	return stat.Mean(xs, nil), nil
}

func median(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, fmt.Errorf("%w: cannot find median of empty list", domain.ErrEmptyInput)
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], nil
	}
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}

func maximum(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, fmt.Errorf("%w: cannot find max of empty list", domain.ErrEmptyInput)
	}
	return floats.Max(xs), nil
}

func minimum(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, fmt.Errorf("%w: cannot find min of empty list", domain.ErrEmptyInput)
	}
	return floats.Min(xs), nil
}

func subtract(ctx context.Context, args Args) (value.Value, error) {
	var p pairParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}
	return finite(p.A - p.B)
}

func divide(ctx context.Context, args Args) (value.Value, error) {
	var p pairParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}
	if p.B == 0 {
		return value.Null(), domain.ErrDivisionByZero
	}
	return finite(p.A / p.B)
}

func power(ctx context.Context, args Args) (value.Value, error) {
	var p powerParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}
	return finite(math.Pow(p.Base, p.Exponent))
}

func squareRoot(ctx context.Context, args Args) (value.Value, error) {
	var p sqrtParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}
	if p.Number < 0 {
		return value.Null(), fmt.Errorf("%w: cannot take square root of negative number", domain.ErrNegativeInput)
	}
	return finite(math.Sqrt(p.Number))
}

func convertSeconds(ctx context.Context, args Args) (value.Value, error) {
	var p secondsParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}
	total, err := wholeSeconds(p.TotalSeconds)
	if err != nil {
		return value.Null(), err
	}
	return SecondsBreakdown(total), nil
}

// wholeSeconds accepts an integral number or a string holding one.
func wholeSeconds(v value.Value) (int, error) {
	var n int
	switch v.Kind() {
	case value.KindNumber:
		f, _ := v.AsNumber()
		if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return 0, fmt.Errorf("%w: total_seconds must be an integer, got %v", domain.ErrInvalidArgument, f)
		}
		n = int(f)
	case value.KindString:
		s, _ := v.AsString()
		parsed, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("%w: total_seconds must be an integer, got %q", domain.ErrInvalidArgument, s)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("%w: total_seconds must be an integer, got %s", domain.ErrInvalidArgument, v.Kind())
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: total_seconds must not be negative", domain.ErrNegativeInput)
	}
	return n, nil
}

// SecondsBreakdown divides total by 60 twice and records each step.
func SecondsBreakdown(total int) value.Value {
	totalMinutes := total / 60
	seconds := total % 60
	hours := totalMinutes / 60
	minutes := totalMinutes % 60

	steps := []string{
		"Step 1: Divide total seconds by 60",
		fmt.Sprintf("%d / 60 = %d minutes with remainder %d seconds", total, totalMinutes, seconds),
		"Step 2: Divide total minutes by 60 to get hours",
		fmt.Sprintf("%d / 60 = %d hours with remainder %d minutes", totalMinutes, hours, minutes),
		"Step 3: Final remaining values",
		fmt.Sprintf("Hours: %d", hours),
		fmt.Sprintf("Minutes: %d", minutes),
		fmt.Sprintf("Seconds: %d", seconds),
	}

	return value.Map(map[string]value.Value{
		"total_seconds": value.Int(total),
		"steps":         value.Strings(steps),
		"result":        value.String(fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)),
		"breakdown": value.Map(map[string]value.Value{
			"hours":   value.Int(hours),
			"minutes": value.Int(minutes),
			"seconds": value.Int(seconds),
		}),
	})
}
