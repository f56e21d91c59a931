package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/switchboard/pkg/value"
)

// Result is the outcome of one operation: either a Success carrying a value
// or a Failure carrying a kind and message. The zero Result is not valid.
type Result struct {
	operation string
	value     value.Value
	failed    bool
	kind      ErrorKind
	message   string
}

// Success builds a successful result.
func Success(operation string, v value.Value) Result {
	return Result{operation: operation, value: v}
}

// Failure builds a failed result from err, classifying it with KindOf.
func Failure(operation string, err error) Result {
	if err == nil {
		err = errors.New("unspecified failure")
	}
	return Result{operation: operation, failed: true, kind: KindOf(err), message: err.Error()}
}

// FailureMessage builds a failed result with an explicit kind.
func FailureMessage(operation string, kind ErrorKind, message string) Result {
	return Result{operation: operation, failed: true, kind: kind, message: message}
}

func (r Result) Operation() string  { return r.operation }
func (r Result) OK() bool           { return !r.failed }
func (r Result) Value() value.Value { return r.value }
func (r Result) Kind() ErrorKind    { return r.kind }
func (r Result) Message() string    { return r.message }

// Err returns nil for a Success, and an error matching the failure kind otherwise.
func (r Result) Err() error {
	if !r.failed {
		return nil
	}
	if s := r.kind.sentinel(); s != nil {
		return &resultError{sentinel: s, message: r.message}
	}
	return errors.New(r.message)
}

type resultError struct {
	sentinel error
	message  string
}

func (e *resultError) Error() string { return e.message }
func (e *resultError) Unwrap() error { return e.sentinel }

type resultJSON struct {
	Operation string       `json:"operation"`
	Result    *value.Value `json:"result,omitempty"`
	Error     string       `json:"error,omitempty"`
	Kind      ErrorKind    `json:"kind,omitempty"`
	Status    string       `json:"status"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// MarshalJSON writes {"operation","result","status":"success"} or
// {"operation","error","kind","status":"error"}.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{Operation: r.operation, Status: StatusSuccess}
	if r.failed {
		out.Status = StatusError
		out.Error = r.message
		out.Kind = r.kind
	} else {
		v := r.value
		out.Result = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts both shapes written by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Status {
	case StatusSuccess:
		v := value.Null()
		if in.Result != nil {
			v = *in.Result
		}
		*r = Success(in.Operation, v)
	case StatusError:
		*r = FailureMessage(in.Operation, in.Kind, in.Error)
	default:
		return fmt.Errorf("unknown result status %q", in.Status)
	}
	return nil
}
