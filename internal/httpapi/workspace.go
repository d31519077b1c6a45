package httpapi

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/lessonroom/internal/assistant"
	"github.com/abhisek/lessonroom/internal/interpreter"
	"github.com/abhisek/lessonroom/internal/logger"
	"github.com/abhisek/lessonroom/internal/plan"
	"github.com/abhisek/lessonroom/internal/planner"
	"github.com/abhisek/lessonroom/internal/resume"
	"github.com/abhisek/lessonroom/internal/suggest"
)

// Workspace is the editing state of one (user, client) pair.
type Workspace struct {
	Manager     *planner.Manager
	Interpreter *interpreter.Interpreter

	tools assistant.Invoker

	mu          sync.Mutex
	suggestions map[string]*suggest.Session
	lastUsed    time.Time
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastUsed = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

// Suggestion returns the session for target.Path, creating it on first
// use. Context and type are taken from the first request for the path.
func (w *Workspace) Suggestion(target suggest.Target) *suggest.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.suggestions[target.Path]
	if !ok {
		s = suggest.NewSession(w.tools, w.Manager, target)
		w.suggestions[target.Path] = s
	}
	return s
}

// ExistingSuggestion returns the session for path, if any.
func (w *Workspace) ExistingSuggestion(path string) (*suggest.Session, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.suggestions[path]
	return s, ok
}

// DropSectionSuggestions forgets the sessions of every section path in
// phases. Section indices shift when a phase changes, so a pending
// suggestion would otherwise be applied to the wrong activity.
func (w *Workspace) DropSectionSuggestions(phases ...plan.Phase) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path := range w.suggestions {
		for _, ph := range phases {
			if strings.HasPrefix(path, string(ph)+".") {
				delete(w.suggestions, path)
				break
			}
		}
	}
}

// Workspaces keeps one Workspace per (user, client).
type Workspaces struct {
	plans  planner.PlanRepo
	resume resume.Backend
	tools  assistant.Invoker
	log    *logger.Logger
	now    func() time.Time

	mu    sync.Mutex
	items map[workspaceKey]*Workspace
}

type workspaceKey struct {
	user   string
	client string
}

// NewWorkspaces creates an empty registry.
func NewWorkspaces(plans planner.PlanRepo, rb resume.Backend, tools assistant.Invoker, log *logger.Logger) *Workspaces {
	if log == nil {
		log = logger.Nop()
	}
	return &Workspaces{
		plans:  plans,
		resume: rb,
		tools:  tools,
		log:    log,
		now:    time.Now,
		items:  make(map[workspaceKey]*Workspace),
	}
}

// Get returns the workspace of (userID, clientID), creating it on first use.
func (ws *Workspaces) Get(userID, clientID string) *Workspace {
	key := workspaceKey{user: userID, client: clientID}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if w, ok := ws.items[key]; ok {
		w.touch(ws.now())
		return w
	}

	log := ws.log.With("user_id", userID, "client_id", clientID)
	mgr := planner.New(ws.plans, resume.Scope(ws.resume, clientID), planner.WithLogger(log))
	w := &Workspace{
		Manager:     mgr,
		Interpreter: interpreter.New(ws.tools, mgr, log),
		tools:       ws.tools,
		suggestions: make(map[string]*suggest.Session),
		lastUsed:    ws.now(),
	}
	ws.items[key] = w
	return w
}

// Len returns the number of open workspaces.
func (ws *Workspaces) Len() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.items)
}

// EvictIdle drops workspaces unused for longer than idle. Workspaces with
// unsaved or in-flight changes are kept. It returns the number removed.
func (ws *Workspaces) EvictIdle(idle time.Duration) int {
	cutoff := ws.now().Add(-idle)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	n := 0
	for key, w := range ws.items {
		if w.idleSince().After(cutoff) {
			continue
		}
		st := w.Manager.State()
		if st.Dirty || st.Saving || w.Interpreter.Pending() {
			continue
		}
		delete(ws.items, key)
		n++
	}
	return n
}

// Janitor evicts idle workspaces every interval until ctx is done.
func (ws *Workspaces) Janitor(ctx context.Context, interval, idle time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := ws.EvictIdle(idle); n > 0 {
				ws.log.Info("evicted idle workspaces", "count", n, "open", ws.Len())
			}
		}
	}
}
