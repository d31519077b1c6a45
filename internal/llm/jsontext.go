package llm

import (
	"bytes"
	"encoding/json"
)

// ExtractJSON returns the first JSON object or array found in raw model
// output. Markdown code fences and prose around the JSON are dropped.
// When no balanced JSON value is found, raw is returned trimmed.
func ExtractJSON(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}

	start := bytes.IndexAny(trimmed, "{[")
	if start < 0 {
		return json.RawMessage(trimmed)
	}
	open, close := trimmed[start], byte('}')
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(trimmed); i++ {
		c := trimmed[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return json.RawMessage(trimmed[start : i+1])
			}
		}
	}
	return json.RawMessage(trimmed)
}

// ValidateJSON checks raw against schema and returns *ErrInvalidResponse
// on failure.
func ValidateJSON(schema *Schema, raw json.RawMessage) error {
	return validateResponse(schema, raw)
}

// structuredContent post-processes a reply to a request that carried a
// Schema: the JSON is pulled out of any surrounding text and validated.
// A reply cut off at the token limit is reported as truncated rather than
// malformed, since retrying it unchanged cannot help.
func structuredContent(req Request, raw json.RawMessage, stop string) (json.RawMessage, error) {
	if req.Schema == nil {
		return raw, nil
	}
	content := ExtractJSON(raw)
	if err := validateResponse(req.Schema, content); err != nil {
		if stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: raw}
		}
		return nil, err
	}
	return content, nil
}
