package ops

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/value"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const defaultSummaryWords = 100

var (
	digitRun = regexp.MustCompile(`\d+`)

	positiveWords = map[string]bool{"good": true, "great": true, "excellent": true, "amazing": true, "wonderful": true}
	negativeWords = map[string]bool{"bad": true, "poor": true, "terrible": true, "awful": true, "horrible": true}
)

type summarizeParams struct {
	Text      string      `mapstructure:"text"`
	MaxLength value.Value `mapstructure:"max_length"`
}

type entityParams struct {
	Text       string `mapstructure:"text"`
	EntityType string `mapstructure:"entity_type"`
}

type textParams struct {
	Text string `mapstructure:"text"`
}

type formatParams struct {
	Text       string `mapstructure:"text"`
	FormatType string `mapstructure:"format_type"`
}

type splitParams struct {
	Text      string  `mapstructure:"text"`
	Delimiter *string `mapstructure:"delimiter"`
}

type joinParams struct {
	Texts     []string `mapstructure:"texts"`
	Delimiter *string  `mapstructure:"delimiter"`
}

type textsParams struct {
	Texts []string `mapstructure:"texts"`
}

// Textual builds the textual operation table.
func Textual() *Table {
	t := NewTable(domain.Textual)
	text := Param{Name: "text", Required: true}
	texts := Param{Name: "texts", Required: true}

	t.Register(Operation{Name: "summarize", Description: "Summarize text", Params: []Param{text, {Name: "max_length"}}, Fn: summarize})
	t.Register(Operation{
		Name:        "extract_entities",
		Description: "Extract entities",
		Params:      []Param{text, {Name: "entity_type", Required: true}},
		Fn:          extractEntities,
	})
	t.Register(Operation{Name: "classify", Description: "Classify text sentiment", Params: []Param{text}, Fn: classify})
	t.Register(Operation{Name: "word_count", Description: "Count words", Params: []Param{text}, Fn: wordCount})
	t.Register(Operation{
		Name:        "format_text",
		Description: "Format text",
		Params:      []Param{text, {Name: "format_type", Required: true}},
		Fn:          formatText,
	})
	t.Register(Operation{Name: "split_text", Description: "Split text", Params: []Param{text, {Name: "delimiter"}}, Fn: splitText})
	t.Register(Operation{Name: "join_text", Description: "Join text", Params: []Param{texts, {Name: "delimiter"}}, Fn: joinText})
	t.Register(Operation{Name: "remove_duplicates", Description: "Remove duplicates", Params: []Param{texts}, Fn: removeDuplicates})
	return t
}

func summarize(ctx context.Context, args Args) (value.Value, error) {
	var p summarizeParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}
	limit := defaultSummaryWords
	if !p.MaxLength.IsNull() {
		n, ok := p.MaxLength.AsNumber()
		if !ok || n != math.Trunc(n) {
			return value.Null(), fmt.Errorf("%w: max_length must be an integer, got %s", domain.ErrInvalidArgument, p.MaxLength)
		}
		if n < 0 {
			return value.Null(), fmt.Errorf("%w: max_length must not be negative", domain.ErrInvalidArgument)
		}
		limit = int(math.Min(n, math.MaxInt32))
	}

	words := strings.Fields(p.Text)
	if len(words) <= limit {
		return value.String(p.Text), nil
	}
	summary := strings.Join(words[:limit], " ")
	if len(p.Text) > len(summary) {
		summary += "..."
	}
	return value.String(summary), nil
}

func extractEntities(ctx context.Context, args Args) (value.Value, error) {
	var p entityParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}

	switch p.EntityType {
	case "numbers":
		found := digitRun.FindAllString(p.Text, -1)
		if found == nil {
			found = []string{}
		}
		return value.Strings(found), nil
	case "words":
		return value.Strings(strings.Fields(p.Text)), nil
	case "uppercase":
		upper := []string{}
		for _, w := range strings.Fields(p.Text) {
			if isUpper(w) {
				upper = append(upper, w)
			}
		}
		return value.Strings(upper), nil
	}
	return value.Null(), fmt.Errorf("%w: unsupported entity type %q (want numbers, words or uppercase)",
		domain.ErrInvalidArgument, p.EntityType)
}

// isUpper holds when w has at least one cased letter and none of them is lower case.
func isUpper(w string) bool {
	cased := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

func classify(ctx context.Context, args Args) (value.Value, error) {
	var p textParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}

	var pos, neg int
	for _, w := range strings.Fields(strings.ToLower(p.Text)) {
		switch {
		case positiveWords[w]:
			pos++
		case negativeWords[w]:
			neg++
		}
	}

	sentiment := "neutral"
	switch {
	case pos > neg:
		sentiment = "positive"
	case neg > pos:
		sentiment = "negative"
	}

	return value.Map(map[string]value.Value{
		"sentiment":      value.String(sentiment),
		"confidence":     value.Number(float64(max(pos, neg)) / float64(pos+neg+1)),
		"positive_words": value.Int(pos),
		"negative_words": value.Int(neg),
	}), nil
}

func wordCount(ctx context.Context, args Args) (value.Value, error) {
	var p textParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}

	words := strings.Fields(p.Text)
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	chars := utf8.RuneCountInString(p.Text)
	avg := 0.0
	if len(words) > 0 {
		avg = float64(chars) / float64(len(words))
	}

	return value.Map(map[string]value.Value{
		"word_count":          value.Int(len(words)),
		"character_count":     value.Int(chars),
		"unique_words":        value.Int(len(unique)),
		"average_word_length": value.Number(avg),
	}), nil
}

func formatText(ctx context.Context, args Args) (value.Value, error) {
	var p formatParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}

	// Casers keep state, so each call gets its own.
	switch p.FormatType {
	case "uppercase":
		return value.String(cases.Upper(language.Und).String(p.Text)), nil
	case "lowercase":
		return value.String(cases.Lower(language.Und).String(p.Text)), nil
	case "title":
		return value.String(cases.Title(language.Und).String(p.Text)), nil
	case "capitalize":
		return value.String(capitalize(p.Text)), nil
	}
	return value.String(p.Text), nil
}

func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(first)) + cases.Lower(language.Und).String(s[size:])
}

func delimiterOf(d *string) string {
	if d == nil {
		return " "
	}
	return *d
}

func splitText(ctx context.Context, args Args) (value.Value, error) {
	var p splitParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}
	sep := delimiterOf(p.Delimiter)
	if sep == "" {
		return value.Null(), fmt.Errorf("%w: empty delimiter", domain.ErrInvalidArgument)
	}
	return value.Strings(strings.Split(p.Text, sep)), nil
}

func joinText(ctx context.Context, args Args) (value.Value, error) {
	var p joinParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}
	return value.String(strings.Join(p.Texts, delimiterOf(p.Delimiter))), nil
}

func removeDuplicates(ctx context.Context, args Args) (value.Value, error) {
	var p textsParams
	if err := args.Decode(&p); err != nil {
		return value.Null(), err
	}
	seen := make(map[string]struct{}, len(p.Texts))
	out := make([]string, 0, len(p.Texts))
	for _, s := range p.Texts {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return value.Strings(out), nil
}
