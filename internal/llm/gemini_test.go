package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-flash-lite", "gemini-2.5-flash-lite"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"age":   map[string]any{"type": "integer"},
			"grade": map[string]any{"type": "string", "enum": []any{"A", "B", "C"}},
			"scores": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
		},
		"required": []any{"name", "age"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["name"].Type != "STRING" {
		t.Fatalf("expected STRING for name, got %s", schema.Properties["name"].Type)
	}
	if schema.Properties["age"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for age, got %s", schema.Properties["age"].Type)
	}
	if len(schema.Properties["grade"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["grade"].Enum))
	}
	if schema.Properties["scores"].Type != "ARRAY" {
		t.Fatalf("expected ARRAY for scores, got %s", schema.Properties["scores"].Type)
	}
	if schema.Properties["scores"].Items.Type != "INTEGER" {
		t.Fatalf("expected INTEGER for scores items, got %s", schema.Properties["scores"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestGenerateConfig(t *testing.T) {
	conf := generateConfig(Request{System: "מערכת", Temperature: 0.3, Schema: suggestionTypeSchema()})
	if conf.MaxOutputTokens != defaultCompletionTokens {
		t.Errorf("MaxOutputTokens = %d, want default %d", conf.MaxOutputTokens, defaultCompletionTokens)
	}
	if conf.Temperature == nil || *conf.Temperature != float32(0.3) {
		t.Errorf("Temperature = %v", conf.Temperature)
	}
	if conf.SystemInstruction == nil || conf.SystemInstruction.Parts[0].Text != "מערכת" {
		t.Error("system prompt not carried")
	}
	if conf.ResponseMIMEType != "application/json" || conf.ResponseSchema.Properties["type"].Type != genai.TypeString {
		t.Errorf("schema not carried: %+v", conf.ResponseSchema)
	}

	plain := generateConfig(Request{MaxTokens: 64})
	if plain.MaxOutputTokens != 64 || plain.Temperature != nil || plain.ResponseSchema != nil {
		t.Errorf("unexpected plain config %+v", plain)
	}
}

func TestGeminiStopReason(t *testing.T) {
	tests := []struct {
		finish string
		want   string
	}{
		{"STOP", StopEnd},
		{"MAX_TOKENS", StopMaxTokens},
		{"SAFETY", stopBlocked},
		{"BLOCKLIST", stopBlocked},
		{"PROHIBITED_CONTENT", stopBlocked},
		{"OTHER", StopEnd},
	}
	if got := geminiStop(&genai.GenerateContentResponse{}); got != StopEnd {
		t.Errorf("no candidates: got %q", got)
	}
	for _, tt := range tests {
		res := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReason(tt.finish)}},
		}
		if got := geminiStop(res); got != tt.want {
			t.Errorf("geminiStop(%s) = %q, want %q", tt.finish, got, tt.want)
		}
	}
}
