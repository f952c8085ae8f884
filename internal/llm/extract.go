package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

// ExtractJSONObject recovers a JSON object from free-form model output.
// It tries a fenced ```json block first, then the span from the first '{' to
// the last '}'. It returns nil when neither yields an object.
func ExtractJSONObject(raw string) map[string]any {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	if m := fencedJSON.FindStringSubmatch(raw); m != nil && m[1] != "" {
		if obj := decodeObject(m[1]); obj != nil {
			return obj
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return decodeObject(raw[start : end+1])
	}

	return nil
}

func decodeObject(s string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil
	}
	return obj
}
