package llm

import (
	"encoding/json"
	"log"
	"strings"
)

// ParseJSONObject extracts and parses the JSON object in an LLM response.
// Models wrap their output in markdown code fences or prose often enough
// that we just take the span from the first '{' to the last '}'.
func ParseJSONObject(text string) map[string]any {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &result); err != nil {
		log.Printf("Failed to parse LLM response as JSON: %v", err)
		return nil
	}
	return result
}
