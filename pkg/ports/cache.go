package ports

import (
	"context"

	"github.com/aretw0/switchboard/pkg/value"
)

// ResultCache stores successful operation results by key.
// Operations are pure, so a cached value stays valid until it expires.
type ResultCache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (value.Value, bool, error)

	// Set stores v under key.
	Set(ctx context.Context, key string, v value.Value) error
}
