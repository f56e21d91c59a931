package coordinator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/switchboard/pkg/domain"
)

// stripFences removes a surrounding markdown code fence, with or without a language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// decodeFirstObject decodes the first JSON object found in model output into out.
// Prose before or after the object is ignored.
func decodeFirstObject(raw string, out any) error {
	s := stripFences(raw)
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		var obj json.RawMessage
		if json.NewDecoder(strings.NewReader(s[i:])).Decode(&obj) != nil {
			continue
		}
		if err := json.Unmarshal(obj, out); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrExtractionParse, err)
		}
		return nil
	}
	return fmt.Errorf("%w: no JSON object in %q", domain.ErrExtractionParse, truncate(raw, 120))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
