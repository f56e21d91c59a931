package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/switchboard/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunResultCacheContract runs a suite of tests to verify that a ResultCache implementation
// adheres to the defined interface contract.
func RunResultCacheContract(t *testing.T, cache ResultCache) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		key := prefix + ":structured"
		v := value.MustFromAny(map[string]any{
			"result":    "1h 1m 5s",
			"breakdown": map[string]any{"hours": 1, "minutes": 1, "seconds": 5},
			"steps":     []any{"a", "b"},
		})

		require.NoError(t, cache.Set(ctx, key, v), "Set should not return error")

		got, ok, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		require.True(t, ok, "value should be present after Set")
		assert.True(t, value.Equal(v, got), "round trip changed value: %s", got)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, ok, err := cache.Get(ctx, prefix+":missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Overwrite", func(t *testing.T) {
		key := prefix + ":overwrite"
		require.NoError(t, cache.Set(ctx, key, value.Int(1)))
		require.NoError(t, cache.Set(ctx, key, value.Int(2)))

		got, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, value.Equal(value.Int(2), got))
	})

	t.Run("Scalars", func(t *testing.T) {
		for i, v := range []value.Value{value.Null(), value.Bool(false), value.Number(2.5), value.String("")} {
			key := fmt.Sprintf("%s:scalar:%d", prefix, i)
			require.NoError(t, cache.Set(ctx, key, v))
			got, ok, err := cache.Get(ctx, key)
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, value.Equal(v, got), "scalar %d", i)
		}
	})
}
