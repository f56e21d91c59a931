package value

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"name":   "Alice",
		"age":    30,
		"active": true,
		"tags":   []any{"a", 1.5, nil},
	})
	require.NoError(t, err)
	assert.Equal(t, KindMap, v.Kind())

	name, ok := v.Get("name")
	require.True(t, ok)
	s, _ := name.AsString()
	assert.Equal(t, "Alice", s)

	tags, _ := v.Get("tags")
	items, ok := tags.AsList()
	require.True(t, ok)
	require.Len(t, items, 3)
	assert.True(t, items[2].IsNull())

	_, err = FromAny(struct{}{})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestNilContainersAreEmpty(t *testing.T) {
	data, err := json.Marshal(List())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = json.Marshal(Map(nil))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestJSONRoundTrip(t *testing.T) {
	in := `{"b":[1,2.5,"x"],"a":{"nested":true},"c":null}`

	var v Value
	require.NoError(t, json.Unmarshal([]byte(in), &v))

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"nested":true},"b":[1,2.5,"x"],"c":null}`, string(out))
}

func TestMarshalRejectsNonFinite(t *testing.T) {
	_, err := json.Marshal(Number(math.Inf(1)))
	assert.ErrorIs(t, err, ErrNotFinite)

	_, err = json.Marshal(List(Number(math.NaN())))
	assert.ErrorIs(t, err, ErrNotFinite)
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"integral number", Number(95000), "95000"},
		{"fraction", Number(2.5), "2.5"},
		{"string", String("Engineering"), "Engineering"},
		{"bool", Bool(true), "true"},
		{"null", Null(), "null"},
		{"list", List(Int(1), String("a")), `[1,"a"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Text())
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Int(3), Number(3.0)))
	assert.False(t, Equal(Int(1), String("1")))
	assert.True(t, Equal(
		MustFromAny(map[string]any{"a": []any{1, "x"}}),
		MustFromAny(map[string]any{"a": []any{1.0, "x"}}),
	))
	assert.False(t, Equal(List(Int(1)), List(Int(1), Int(2))))
}

func TestCompare(t *testing.T) {
	c, err := Compare(Int(1), Int(2))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(String("b"), String("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = Compare(Bool(false), Bool(true))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	_, err = Compare(Int(1), String("1"))
	assert.ErrorIs(t, err, ErrIncomparable)

	_, err = Compare(List(), List())
	assert.ErrorIs(t, err, ErrIncomparable)
}
