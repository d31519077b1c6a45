package suggest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lessonroom/internal/assistant"
	"github.com/abhisek/lessonroom/internal/plan"
	"github.com/abhisek/lessonroom/internal/planner"
	"github.com/abhisek/lessonroom/internal/resume"
)

type scriptedTools struct {
	results []assistant.Result
	calls   []map[string]any
}

func (s *scriptedTools) InvokeTool(_ context.Context, _, toolName string, args any) assistant.Result {
	s.calls = append(s.calls, args.(map[string]any))
	if toolName != assistant.ToolGenerateSuggestion {
		return assistant.Result{Error: "unexpected tool", Code: assistant.CodeUnknownTool}
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r
}

func text(s string) assistant.Result {
	return assistant.Result{Content: []assistant.Content{{Type: "text", Text: s}}}
}

func loadedManager(t *testing.T) *planner.Manager {
	t.Helper()
	m := planner.New(planner.NewMemoryRepo(), resume.Scope(resume.NewMemory(), "c"))
	require.NoError(t, m.Load(context.Background(), "u"))
	return m
}

func TestTypeFor(t *testing.T) {
	assert.Equal(t, "topic", TypeFor("topic"))
	assert.Equal(t, "duration", TypeFor("duration"))
	assert.Equal(t, "goals", TypeFor("skillGoals"))
	assert.Equal(t, "activity", TypeFor("main.2.content"))
	assert.Equal(t, "content", TypeFor("priorKnowledge"))
}

func TestRequestRefineAccept(t *testing.T) {
	ctx := context.Background()
	m := loadedManager(t)
	require.NoError(t, m.SetField(plan.FieldTopic, "חלל"))

	tools := &scriptedTools{results: []assistant.Result{text("מסע לירח"), text("מסע לירח ובחזרה")}}
	s := NewSession(tools, m, Target{Path: "topic", Context: "נושא היחידה"})

	got, err := s.Request(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "מסע לירח", got)
	assert.Equal(t, "חלל", tools.calls[0]["currentValue"], "first request refines the field value")
	assert.Equal(t, "topic", tools.calls[0]["type"])
	assert.NotContains(t, tools.calls[0], "message")

	_, err = s.Request(ctx, "הוסף חזרה")
	require.NoError(t, err)
	assert.Equal(t, "מסע לירח", tools.calls[1]["currentValue"], "follow-up refines the suggestion")
	assert.Equal(t, "הוסף חזרה", tools.calls[1]["message"])

	s.Edit("מסע לירח ובחזרה!")
	require.NoError(t, s.Accept(ctx))
	assert.Equal(t, "מסע לירח ובחזרה!", m.Plan().Topic)
	assert.False(t, m.State().Dirty)
	assert.Empty(t, s.Suggestion())
}

func TestRequestErrors(t *testing.T) {
	m := loadedManager(t)
	tools := &scriptedTools{results: []assistant.Result{
		{Error: "quota", Code: assistant.CodeRateLimited},
		text(" "),
	}}
	s := NewSession(tools, m, Target{Path: "contentGoals", Context: "מטרות"})

	_, err := s.Request(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, MsgRequestFailed, s.State().Error)

	_, err = s.Request(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, MsgNoSuggestion, s.State().Error)
	assert.False(t, s.State().Loading)
}

func TestAcceptSectionContentAndDiscard(t *testing.T) {
	ctx := context.Background()
	m := loadedManager(t)
	require.NoError(t, m.AddSection(plan.PhaseOpening))

	tools := &scriptedTools{results: []assistant.Result{text("סיור וירטואלי במוזיאון")}}
	s := NewSession(tools, m, Target{Path: "opening.0.content", Context: "פתיחה"})
	_, err := s.Request(ctx, "")
	require.NoError(t, err)
	require.NoError(t, s.Accept(ctx))
	assert.Equal(t, "סיור וירטואלי במוזיאון", m.Plan().Sections.Opening[0].Content)

	s.Edit("x")
	s.Discard()
	assert.Error(t, s.Accept(ctx))
}
