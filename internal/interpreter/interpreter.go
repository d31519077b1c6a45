// Package interpreter turns free-text chat instructions into lesson plan
// field updates through the update_lesson_field tool.
package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/lessonroom/internal/assistant"
	"github.com/abhisek/lessonroom/internal/llm"
	"github.com/abhisek/lessonroom/internal/logger"
	"github.com/abhisek/lessonroom/internal/plan"
)

// Messages shown to the teacher.
const (
	MsgNoResponse      = "לא התקבלה תשובה מהמערכת"
	MsgInvalidResponse = "תשובת המערכת לא תקינה"
	MsgSendFailed      = "שגיאה בשליחת ההודעה"
	MsgRateLimited     = "המערכת עמוסה כרגע, נסו שוב בעוד מספר רגעים"
	MsgQuotaExceeded   = "מכסת השימוש בשירות הבינה המלאכותית נוצלה"
	MsgUnavailable     = "שירות הבינה המלאכותית אינו זמין כרגע"
	MsgSaveFailed      = "שגיאה בשמירת השינויים"
)

var (
	// ErrBusy is returned by Send while a previous message is pending.
	ErrBusy = errors.New("a message is already being processed")

	// ErrEmptyMessage is returned by Send for a blank message.
	ErrEmptyMessage = errors.New("message is empty")
)

// Sender identifies who wrote a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is one transcript entry.
type Message struct {
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// PlanEditor is the part of the plan manager the interpreter drives.
type PlanEditor interface {
	FieldLabels() map[string]string
	FieldValues() map[string]string
	ApplyUpdates(updates ...plan.Update) error
	Save(ctx context.Context) error
}

// Reply is the outcome of one Send.
type Reply struct {
	Messages []Message      `json:"messages"`
	Applied  []string       `json:"applied,omitempty"`
	Error    string         `json:"error,omitempty"`
	Code     assistant.Code `json:"code,omitempty"`
}

// Interpreter keeps the chat transcript for one client.
type Interpreter struct {
	tools  assistant.Invoker
	editor PlanEditor
	log    *logger.Logger
	now    func() time.Time

	mu         sync.Mutex
	transcript []Message
	pending    bool
}

// New creates an interpreter. log may be nil.
func New(tools assistant.Invoker, editor PlanEditor, log *logger.Logger) *Interpreter {
	if log == nil {
		log = logger.Nop()
	}
	return &Interpreter{
		tools:  tools,
		editor: editor,
		log:    log.With("component", "interpreter"),
		now:    time.Now,
	}
}

// Pending reports whether a message is being processed.
func (in *Interpreter) Pending() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pending
}

// Transcript returns a copy of the conversation so far.
func (in *Interpreter) Transcript() []Message {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]Message, len(in.transcript))
	copy(out, in.transcript)
	return out
}

func (in *Interpreter) appendMessage(sender Sender, text string) Message {
	m := Message{Text: text, Sender: sender, Timestamp: in.now()}
	in.mu.Lock()
	in.transcript = append(in.transcript, m)
	in.mu.Unlock()
	return m
}

// Send interprets one instruction. Tool and validation failures do not
// return an error: they are translated into a Hebrew reply that is also
// added to the transcript, and the plan is left unchanged.
func (in *Interpreter) Send(ctx context.Context, message string) (*Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	in.mu.Lock()
	if in.pending {
		in.mu.Unlock()
		return nil, ErrBusy
	}
	in.pending = true
	in.mu.Unlock()
	defer func() {
		in.mu.Lock()
		in.pending = false
		in.mu.Unlock()
	}()

	in.appendMessage(SenderUser, message)

	labels := in.editor.FieldLabels()
	res := in.tools.InvokeTool(ctx, assistant.ServerName, assistant.ToolUpdateLessonField, map[string]any{
		"message":       message,
		"fieldLabels":   labels,
		"currentValues": in.editor.FieldValues(),
	})
	if res.IsError() {
		in.log.Warn("field update tool failed", "code", res.Code, "error", res.Error)
		return in.fail(toolErrorMessage(res.Code), res.Code), nil
	}

	text := res.Text()
	if strings.TrimSpace(text) == "" {
		return in.fail(MsgNoResponse, assistant.CodeInvalidResponse), nil
	}

	proposed, err := parseUpdates(text, labels)
	if err != nil {
		in.log.Warn("rejected field updates", "error", err)
		return in.fail(MsgInvalidResponse, assistant.CodeInvalidResponse), nil
	}

	updates := make([]plan.Update, 0, len(proposed))
	for _, p := range proposed {
		u, err := plan.ParseUpdate(p.FieldToUpdate, p.NewValue)
		if err != nil {
			in.log.Warn("unparseable field path", "field", p.FieldToUpdate, "error", err)
			return in.fail(MsgInvalidResponse, assistant.CodeInvalidResponse), nil
		}
		updates = append(updates, u)
	}

	reply := &Reply{}
	if len(updates) > 0 {
		if err := in.editor.ApplyUpdates(updates...); err != nil {
			in.log.Warn("apply field updates failed", "error", err)
			return in.fail(MsgInvalidResponse, assistant.CodeInvalidResponse), nil
		}
		if err := in.editor.Save(ctx); err != nil {
			in.log.Warn("save after field update failed", "error", err)
			reply.Error = MsgSaveFailed
		}
		for _, u := range updates {
			reply.Applied = append(reply.Applied, u.Path())
		}
	}

	for _, p := range proposed {
		text := p.UserResponse
		if text == "" {
			text = fmt.Sprintf("עודכן השדה \"%s\" לערך החדש", labels[p.FieldToUpdate])
		}
		reply.Messages = append(reply.Messages, in.appendMessage(SenderAI, text))
	}
	if reply.Error != "" {
		reply.Messages = append(reply.Messages, in.appendMessage(SenderAI, reply.Error))
	}
	return reply, nil
}

func (in *Interpreter) fail(text string, code assistant.Code) *Reply {
	m := in.appendMessage(SenderAI, text)
	return &Reply{Messages: []Message{m}, Error: text, Code: code}
}

func toolErrorMessage(code assistant.Code) string {
	switch code {
	case assistant.CodeRateLimited:
		return MsgRateLimited
	case assistant.CodeQuotaExceeded:
		return MsgQuotaExceeded
	case assistant.CodeUnavailable:
		return MsgUnavailable
	case assistant.CodeInvalidResponse:
		return MsgInvalidResponse
	}
	return MsgSendFailed
}

// parseUpdates decodes one update object or an array of them and checks
// every entry against the known field paths.
func parseUpdates(text string, labels map[string]string) ([]assistant.FieldUpdate, error) {
	raw := llm.ExtractJSON([]byte(text))

	var items []map[string]any
	switch {
	case len(raw) > 0 && raw[0] == '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode updates: %w", err)
		}
	case len(raw) > 0 && raw[0] == '{':
		var one map[string]any
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, fmt.Errorf("decode update: %w", err)
		}
		items = []map[string]any{one}
	default:
		return nil, fmt.Errorf("no JSON in response")
	}

	out := make([]assistant.FieldUpdate, 0, len(items))
	for i, item := range items {
		field, ok1 := item["fieldToUpdate"].(string)
		resp, ok2 := item["userResponse"].(string)
		value, ok3 := item["newValue"].(string)
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("update %d: fieldToUpdate, userResponse and newValue must be strings", i)
		}
		if _, known := labels[field]; !known {
			return nil, fmt.Errorf("update %d: %w: %q", i, plan.ErrUnknownField, field)
		}
		out = append(out, assistant.FieldUpdate{FieldToUpdate: field, UserResponse: resp, NewValue: value})
	}
	return out, nil
}
