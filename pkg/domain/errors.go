package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownOperation is returned when an operation name is not in a domain's table.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrInvalidArgument covers wrong arity, wrong types and values an operation rejects.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrConnectivity is returned when an operation service cannot be reached in time.
var ErrConnectivity = errors.New("service unreachable")

// ErrUpstream is returned when a service was reached but answered with a failure body.
var ErrUpstream = errors.New("upstream failure")

// ErrExtractionParse is returned when language model output does not match the expected shape.
var ErrExtractionParse = errors.New("extraction parse error")

// ErrUnavailable is returned when an agent reports unhealthy and is skipped.
var ErrUnavailable = errors.New("agent unavailable")

var (
	ErrDivisionByZero = fmt.Errorf("%w: division by zero", ErrInvalidArgument)
	ErrEmptyInput     = fmt.Errorf("%w: empty input", ErrInvalidArgument)
	ErrNegativeInput  = fmt.Errorf("%w: negative input", ErrInvalidArgument)
)

// ErrorKind is the taxonomy bucket carried by a Failure.
type ErrorKind string

const (
	KindNone             ErrorKind = ""
	KindUnknownOperation ErrorKind = "unknown_operation"
	KindInvalidArgument  ErrorKind = "invalid_argument"
	KindConnectivity     ErrorKind = "connectivity"
	KindUpstream         ErrorKind = "upstream"
	KindExtractionParse  ErrorKind = "extraction_parse"
	KindUnavailable      ErrorKind = "unavailable"
	KindInternal         ErrorKind = "internal"
)

// KindOf classifies err. Unclassified errors are KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnknownOperation):
		return KindUnknownOperation
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrConnectivity):
		return KindConnectivity
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	case errors.Is(err, ErrExtractionParse):
		return KindExtractionParse
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	}
	return KindInternal
}

// sentinel returns the error a kind was derived from.
func (k ErrorKind) sentinel() error {
	switch k {
	case KindUnknownOperation:
		return ErrUnknownOperation
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindConnectivity:
		return ErrConnectivity
	case KindUpstream:
		return ErrUpstream
	case KindExtractionParse:
		return ErrExtractionParse
	case KindUnavailable:
		return ErrUnavailable
	}
	return nil
}
