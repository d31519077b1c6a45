package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTextCompleter_GenerateCompletion(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage("  מחזור המים בטבע \n")})
	c := NewCompleter(mock, CompletionOptions{})

	got, err := c.GenerateCompletion(context.Background(), "הצע נושא")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "מחזור המים בטבע" {
		t.Fatalf("unexpected completion %q", got)
	}

	req := mock.Calls[0]
	if req.System != DefaultSystemPrompt {
		t.Fatalf("expected default system prompt, got %q", req.System)
	}
	if req.MaxTokens != 500 || req.Temperature != 0.7 {
		t.Fatalf("unexpected defaults: max=%d temp=%v", req.MaxTokens, req.Temperature)
	}
	if len(req.Messages) != 1 || req.Messages[0].Content != "הצע נושא" {
		t.Fatalf("unexpected messages: %+v", req.Messages)
	}
}

func TestTextCompleter_EmptyReply(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage("   ")})
	c := NewCompleter(mock, CompletionOptions{MaxTokens: 800})

	_, err := c.GenerateCompletion(context.Background(), "x")
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if mock.Calls[0].MaxTokens != 800 {
		t.Fatalf("expected custom max tokens, got %d", mock.Calls[0].MaxTokens)
	}
}

func TestTextOf(t *testing.T) {
	if got := TextOf(json.RawMessage(`"שלום"`)); got != "שלום" {
		t.Fatalf("expected unquoted string, got %q", got)
	}
	if got := TextOf(json.RawMessage(`plain text`)); got != "plain text" {
		t.Fatalf("expected raw text, got %q", got)
	}
}

func TestPing(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage("pong")})
	if err := Ping(context.Background(), mock, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.Calls[0].MaxTokens != 5 {
		t.Fatalf("expected a 5-token ping, got %d", mock.Calls[0].MaxTokens)
	}

	if err := Ping(context.Background(), NewMockProvider(), time.Second); err == nil {
		t.Fatal("expected error from an empty mock")
	}
}
