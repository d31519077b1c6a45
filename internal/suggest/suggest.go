// Package suggest manages an AI suggestion for a single plan field: request,
// edit, accept into the plan, or discard.
package suggest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/lessonroom/internal/assistant"
	"github.com/abhisek/lessonroom/internal/plan"
)

// Messages shown to the teacher.
const (
	MsgNoSuggestion  = "לא התקבלה הצעה מהמערכת"
	MsgRequestFailed = "שגיאה בקבלת הצעה"
)

// Target identifies the field a suggestion is for. Path is a field path as
// accepted by plan.ParseUpdate.
type Target struct {
	Path    string `json:"path"`
	Context string `json:"context"`
	Type    string `json:"type"`
}

// TypeFor picks the suggestion type for a field path.
func TypeFor(path string) string {
	switch {
	case path == string(plan.FieldTopic):
		return "topic"
	case path == string(plan.FieldDuration):
		return "duration"
	case path == string(plan.FieldContentGoals), path == string(plan.FieldSkillGoals):
		return "goals"
	case strings.HasSuffix(path, "."+string(plan.SectionContent)):
		return "activity"
	}
	return "content"
}

// Editor is the part of the plan manager a suggestion session uses.
type Editor interface {
	FieldValues() map[string]string
	ApplyUpdates(updates ...plan.Update) error
	Save(ctx context.Context) error
}

// Session holds the current suggestion for one field.
type Session struct {
	tools  assistant.Invoker
	editor Editor
	target Target

	mu         sync.Mutex
	suggestion string
	loading    bool
	errMsg     string
}

// NewSession creates a session for target. An empty Type is derived from
// the path.
func NewSession(tools assistant.Invoker, editor Editor, target Target) *Session {
	if target.Type == "" {
		target.Type = TypeFor(target.Path)
	}
	return &Session{tools: tools, editor: editor, target: target}
}

// State is a snapshot of the session.
type State struct {
	Target     Target `json:"target"`
	Suggestion string `json:"suggestion"`
	Loading    bool   `json:"loading"`
	Error      string `json:"error,omitempty"`
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Target: s.target, Suggestion: s.suggestion, Loading: s.loading, Error: s.errMsg}
}

// Suggestion returns the current suggestion text.
func (s *Session) Suggestion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestion
}

// Request asks for a new suggestion. message is an optional follow-up
// request. The suggestion being refined, if any, is sent as the current
// value; otherwise the field's value is.
func (s *Session) Request(ctx context.Context, message string) (string, error) {
	s.mu.Lock()
	current := s.suggestion
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	if current == "" {
		current = s.editor.FieldValues()[s.target.Path]
	}

	args := map[string]any{
		"context":      s.target.Context,
		"currentValue": current,
		"type":         s.target.Type,
	}
	if m := strings.TrimSpace(message); m != "" {
		args["message"] = m
	}
	res := s.tools.InvokeTool(ctx, assistant.ServerName, assistant.ToolGenerateSuggestion, args)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	switch {
	case res.IsError():
		s.errMsg = MsgRequestFailed
		return "", fmt.Errorf("%s: %s", res.Code, res.Error)
	case strings.TrimSpace(res.Text()) == "":
		s.errMsg = MsgNoSuggestion
		return "", fmt.Errorf("empty suggestion")
	}
	s.suggestion = res.Text()
	return s.suggestion, nil
}

// Edit replaces the suggestion text with the teacher's adjustment.
func (s *Session) Edit(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestion = text
}

// Accept writes the suggestion into the target field and saves the plan.
// The suggestion is cleared once it has been applied.
func (s *Session) Accept(ctx context.Context) error {
	s.mu.Lock()
	text := s.suggestion
	s.mu.Unlock()
	if text == "" {
		return fmt.Errorf("no suggestion to accept")
	}

	u, err := plan.ParseUpdate(s.target.Path, text)
	if err != nil {
		return err
	}
	if err := s.editor.ApplyUpdates(u); err != nil {
		return err
	}
	s.Discard()
	return s.editor.Save(ctx)
}

// Discard clears the suggestion and any error.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestion = ""
	s.errMsg = ""
}
