package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"plain array", ` [1,2] `, `[1,2]`},
		{"fenced", "```json\n{\"a\":\"b\"}\n```", `{"a":"b"}`},
		{"prose around", `Sure! Here it is: {"a":{"b":[1]}} hope it helps`, `{"a":{"b":[1]}}`},
		{"braces in strings", `x {"a":"}{"} y`, `{"a":"}{"}`},
		{"escaped quote", `x {"a":"say \"hi\" }"} y`, `{"a":"say \"hi\" }"}`},
		{"array of objects", `result: [{"a":1},{"b":2}]`, `[{"a":1},{"b":2}]`},
		{"no json", `nothing here`, `nothing here`},
		{"unbalanced", `{"a":1`, `{"a":1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(ExtractJSON([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStructuredContent(t *testing.T) {
	schema := &Schema{
		Name: "structured-content-updates",
		Definition: map[string]any{
			"type":     "object",
			"required": []any{"updates"},
			"properties": map[string]any{
				"updates": map[string]any{"type": "array"},
			},
		},
	}

	t.Run("text passes through without schema", func(t *testing.T) {
		got, err := structuredContent(Request{}, json.RawMessage("הצעה"), "end")
		if err != nil || string(got) != "הצעה" {
			t.Fatalf("got %q, %v", got, err)
		}
	})

	t.Run("fenced json is extracted", func(t *testing.T) {
		got, err := structuredContent(Request{Schema: schema}, json.RawMessage("```json\n{\"updates\":[]}\n```"), "end")
		if err != nil || string(got) != `{"updates":[]}` {
			t.Fatalf("got %q, %v", got, err)
		}
	})

	t.Run("truncated reply", func(t *testing.T) {
		_, err := structuredContent(Request{Schema: schema}, json.RawMessage(`{"updates":[{"fieldTo`), "max_tokens")
		var maxTok *ErrMaxTokensExceeded
		if !errors.As(err, &maxTok) {
			t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
		}
	})

	t.Run("malformed reply", func(t *testing.T) {
		_, err := structuredContent(Request{Schema: schema}, json.RawMessage(`{"changes":[]}`), "end")
		var inv *ErrInvalidResponse
		if !errors.As(err, &inv) {
			t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
		}
	})
}
