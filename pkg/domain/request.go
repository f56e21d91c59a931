package domain

import "github.com/aretw0/switchboard/pkg/value"

// Request is an operation invocation as sent to an operation service.
type Request struct {
	Operation string                 `json:"operation"`
	Args      []value.Value          `json:"args"`
	Kwargs    map[string]value.Value `json:"kwargs"`
}

// NewRequest builds a request with non-nil argument containers.
func NewRequest(operation string, args []value.Value, kwargs map[string]value.Value) Request {
	if args == nil {
		args = []value.Value{}
	}
	if kwargs == nil {
		kwargs = map[string]value.Value{}
	}
	return Request{Operation: operation, Args: args, Kwargs: kwargs}
}
