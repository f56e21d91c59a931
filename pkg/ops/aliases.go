package ops

import "github.com/aretw0/switchboard/pkg/domain"

// Models tend to paraphrase operation names. These are the paraphrases seen often
// enough to map back onto a real operation.
var aliases = map[domain.Domain]map[string]string{
	domain.Numeric: {
		"max":  "max_value",
		"min":  "min_value",
		"sqrt": "square_root",
		"sum":  "sum_numbers",
	},
	domain.Tabular: {
		"group_records":     "group_by",
		"aggregate_records": "aggregate",
	},
	domain.Textual: {
		"count_words":      "word_count",
		"summarize_text":   "summarize",
		"classify_text":    "classify",
		"extract_keywords": "extract_entities",
	},
}

// Canonical maps an alias onto the operation it names. Unknown names are returned as is.
func Canonical(d domain.Domain, name string) string {
	if target, ok := aliases[d][name]; ok {
		return target
	}
	return name
}
