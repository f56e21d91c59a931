package ops

import (
	"strings"
	"testing"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strs(t *testing.T, v value.Value) []string {
	t.Helper()
	items, ok := v.AsList()
	require.True(t, ok)
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Text()
	}
	return out
}

func TestSummarize(t *testing.T) {
	tb := Textual()

	short, err := run(t, tb, "summarize", args("only a few words"), nil)
	require.NoError(t, err)
	assert.Equal(t, "only a few words", short.Text())

	cut, err := run(t, tb, "summarize", args("one two three four", 2), nil)
	require.NoError(t, err)
	assert.Equal(t, "one two...", cut.Text())

	long := strings.Repeat("word ", 150)
	got, err := run(t, tb, "summarize", args(long), nil)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(got.Text()), 100)
	assert.True(t, strings.HasSuffix(got.Text(), "..."))

	_, err = run(t, tb, "summarize", args("x", -1), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = run(t, tb, "summarize", args("one two three four", 2.7), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = run(t, tb, "summarize", args("one two three four", "2"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	whole, err := run(t, tb, "summarize", args("one two three four", 2.0), nil)
	require.NoError(t, err)
	assert.Equal(t, "one two...", whole.Text())
}

func TestExtractEntities(t *testing.T) {
	tb := Textual()
	text := "The NASA budget rose 12 percent to 25 BILLION in 2024"

	tests := []struct {
		kind string
		want []string
	}{
		{"numbers", []string{"12", "25", "2024"}},
		{"uppercase", []string{"NASA", "BILLION"}},
		{"words", strings.Fields(text)},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, err := run(t, tb, "extract_entities", args(text, tt.kind), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strs(t, got))
		})
	}

	none, err := run(t, tb, "extract_entities", args("no digits", "numbers"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, none.Len())

	_, err = run(t, tb, "extract_entities", args(text, "people"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestIsUpper(t *testing.T) {
	assert.True(t, isUpper("NASA"))
	assert.True(t, isUpper("A1"))
	assert.False(t, isUpper("123"))
	assert.False(t, isUpper("NaSA"))
}

func TestClassify(t *testing.T) {
	tb := Textual()

	tests := []struct {
		text       string
		sentiment  string
		confidence float64
	}{
		{"This is a great and amazing product", "positive", 2.0 / 3.0},
		{"terrible service and bad food", "negative", 2.0 / 3.0},
		{"good but bad", "neutral", 0.5 / 1.5},
		{"nothing to see here", "neutral", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := run(t, tb, "classify", args(tt.text), nil)
			require.NoError(t, err)
			sentiment, _ := got.Get("sentiment")
			confidence, _ := got.Get("confidence")
			assert.Equal(t, tt.sentiment, sentiment.Text())
			c := number(t, confidence)
			assert.InDelta(t, tt.confidence, c, 1e-9)
			assert.GreaterOrEqual(t, c, 0.0)
			assert.Less(t, c, 1.0)
		})
	}
}

func TestWordCount(t *testing.T) {
	got, err := run(t, Textual(), "word_count", args("The cat saw the dog"), nil)
	require.NoError(t, err)

	field := func(k string) float64 {
		v, ok := got.Get(k)
		require.True(t, ok, k)
		return number(t, v)
	}
	assert.Equal(t, 5.0, field("word_count"))
	assert.Equal(t, 19.0, field("character_count"))
	assert.Equal(t, 4.0, field("unique_words"))
	assert.InDelta(t, 3.8, field("average_word_length"), 1e-9)

	empty, err := run(t, Textual(), "word_count", args(""), nil)
	require.NoError(t, err)
	avg, _ := empty.Get("average_word_length")
	assert.Equal(t, 0.0, number(t, avg))
}

func TestFormatText(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"uppercase", "HELLO WORLD"},
		{"lowercase", "hello world"},
		{"title", "Hello World"},
		{"capitalize", "Hello world"},
		{"sarcastic", "hELLO wORLD"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := run(t, Textual(), "format_text", args("hELLO wORLD", tt.format), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Text())
		})
	}
}

func TestSplitJoin(t *testing.T) {
	tb := Textual()

	parts, err := run(t, tb, "split_text", args("a,b,,c", ","), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "", "c"}, strs(t, parts))

	joined, err := run(t, tb, "join_text", args([]any{"a", "b", "", "c"}, ","), nil)
	require.NoError(t, err)
	assert.Equal(t, "a,b,,c", joined.Text())

	spaced, err := run(t, tb, "join_text", args([]any{"x", "y"}), nil)
	require.NoError(t, err)
	assert.Equal(t, "x y", spaced.Text())

	_, err = run(t, tb, "split_text", args("abc", ""), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	glued, err := run(t, tb, "join_text", args([]any{"a", "b"}, ""), nil)
	require.NoError(t, err)
	assert.Equal(t, "ab", glued.Text())
}

func TestSplitJoin_RoundTrip(t *testing.T) {
	tb := Textual()
	for _, s := range []string{"", "plain", "a b c", "  padded  "} {
		parts, err := run(t, tb, "split_text", args(s), nil)
		require.NoError(t, err)
		items, _ := parts.AsList()
		joined, err := run(t, tb, "join_text", []value.Value{value.List(items...)}, nil)
		require.NoError(t, err)
		assert.Equal(t, s, joined.Text())
	}
}

func TestRemoveDuplicates(t *testing.T) {
	got, err := run(t, Textual(), "remove_duplicates", args([]any{"b", "a", "b", "c", "a"}), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, strs(t, got))

	again, err := run(t, Textual(), "remove_duplicates", []value.Value{got}, nil)
	require.NoError(t, err)
	assert.True(t, value.Equal(got, again))
}
