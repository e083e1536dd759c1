package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParseBundle decodes a summary bundle from raw model output, tolerating the
// usual formatting quirks: markdown code fences, prose around the JSON
// object, and fields emitted as arrays or nested objects instead of strings.
func ParseBundle(content string) (Bundle, error) {
	trimmed := strings.TrimSpace(stripCodeFence(content))
	if trimmed == "" {
		return Bundle{}, errors.New("empty payload")
	}

	raw, err := extractObject(trimmed)
	if err != nil {
		return Bundle{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Bundle{}, fmt.Errorf("decode summary payload: %w", err)
	}

	bundle := Bundle{
		ShortSummary:         coerceField(fields["short_summary"]),
		ComprehensiveSummary: coerceField(fields["comprehensive_summary"]),
	}
	if bundle.ShortSummary == "" || bundle.ComprehensiveSummary == "" {
		return Bundle{}, errors.New("summary payload is missing required fields")
	}
	return bundle, nil
}

// extractObject returns the first top-level JSON object in the input.
func extractObject(content string) ([]byte, error) {
	start := strings.Index(content, "{")
	if start < 0 {
		return nil, errors.New("no JSON object in payload")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		b := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return []byte(content[start : i+1]), nil
			}
		}
	}
	return nil, errors.New("JSON object in payload is truncated")
}

// coerceField flattens a summary field to a string. Models occasionally emit
// arrays of sentences or a nested object instead of a plain string.
func coerceField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var asList []json.RawMessage
	if err := json.Unmarshal(raw, &asList); err == nil {
		parts := make([]string, 0, len(asList))
		for _, item := range asList {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				s = strings.TrimSpace(s)
			} else {
				s = strings.TrimSpace(string(item))
			}
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}

	var asObject map[string]any
	if err := json.Unmarshal(raw, &asObject); err == nil {
		encoded, err := json.MarshalIndent(asObject, "", "  ")
		if err == nil {
			return string(encoded)
		}
	}

	// Remaining scalars (numbers, booleans) read fine as their literal text.
	if text := strings.TrimSpace(string(raw)); text != "" && text != "null" {
		return text
	}
	return ""
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
