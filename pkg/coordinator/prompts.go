package coordinator

import "fmt"

// Call settings per step. Classification and extraction want deterministic JSON;
// composition is allowed more room.
var (
	classifyCall = callSettings{Temperature: 0.3, MaxTokens: 200}
	extractCall  = callSettings{Temperature: 0.3, MaxTokens: 300}
	composeCall  = callSettings{Temperature: 0.7, MaxTokens: 800}
)

type callSettings struct {
	Temperature float64
	MaxTokens   int
}

// StepByStep are the operations whose answers are rendered as a worked breakdown.
var StepByStep = map[string]bool{
	"convert_seconds": true,
	"power":           true,
	"divide":          true,
}

func classifyPrompt(query string) string {
	return fmt.Sprintf(`Analyze this query and determine which agent (math, data, text) is needed.

Query: %s

- math: arithmetic, statistics over numbers, converting seconds
- data: counting, filtering, grouping, sorting or aggregating dataset records
- text: counting words, summarizing, extracting entities, classifying or formatting text

Respond with JSON:
{"agent": "math|data|text", "reason": "brief explanation"}

Only respond with valid JSON, nothing else.`, query)
}

func extractPrompt(query string) string {
	return fmt.Sprintf(`You are an expert at understanding data queries. Extract the OPERATION and NUMERIC PARAMETERS.

User Query: %s

STEP 1: Identify the intent:
- Is this about COUNTING records, filtering, grouping, sorting, or aggregating DATA?
- Is this about MATH operations (add, divide, convert time)?
- Is this about TEXT operations (counting words, summarizing)?

STEP 2: Choose the correct OPERATION:

DATA OPERATIONS:
- count_records, filter_records, group_by, sort_records, aggregate, select_fields, unique_values

MATH OPERATIONS:
- add, subtract, multiply, divide, power, square_root, convert_seconds, average, median, max_value, min_value, sum_numbers

TEXT OPERATIONS:
- word_count, summarize, extract_entities, classify, format_text, split_text, join_text, remove_duplicates

STEP 3: Respond ONLY with valid JSON (no extra text):
{
  "operation": "single_operation_name",
  "parameters": [numbers_only, not_text],
  "description": "brief explanation"
}

Examples:
- "How many records?" -> {"operation": "count_records", "parameters": []}
- "Add 50 and 75" -> {"operation": "add", "parameters": [50, 75]}
- "Convert 3600 seconds" -> {"operation": "convert_seconds", "parameters": [3600]}
- "Count words in this text" -> {"operation": "word_count", "parameters": []}`, query)
}

func composePrompt(query, operation, results string) string {
	if StepByStep[operation] {
		return fmt.Sprintf(`Based on the query and agent results, provide a STEP-BY-STEP answer.

Query: %s
Operation: %s

Agent Results:
%s

IMPORTANT: Show EACH STEP clearly with calculations and results. Do not skip any steps.
Format each step on a new line with clear explanations.`, query, operation, results)
	}
	return fmt.Sprintf(`Based on the query and agent results, provide a clear answer.

Query: %s

Agent Results:
%s

Provide a concise answer that directly answers the query. If the results contain an error, explain it plainly.`, query, results)
}
