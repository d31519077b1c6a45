// Package resume keeps the small amount of per-client state that lets a
// browser profile or terminal resume its last plan and wizard step.
package resume

import (
	"context"
	"sync"
)

// Keys stored per client.
const (
	KeyPlanID = "lessonPlanId"
	KeyStep   = "currentStep"
)

// Backend stores values per client id.
type Backend interface {
	Get(ctx context.Context, clientID, key string) (string, bool, error)
	Set(ctx context.Context, clientID, key, value string) error
	Delete(ctx context.Context, clientID, key string) error
}

// Scoped binds a Backend to one client.
type Scoped struct {
	backend  Backend
	clientID string
}

// Scope returns a store for clientID.
func Scope(b Backend, clientID string) *Scoped {
	return &Scoped{backend: b, clientID: clientID}
}

func (s *Scoped) Load(ctx context.Context, key string) (string, bool, error) {
	return s.backend.Get(ctx, s.clientID, key)
}

func (s *Scoped) Save(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.clientID, key, value)
}

func (s *Scoped) Forget(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, s.clientID, key)
}

// Memory is an in-process Backend, used by tests and by `serve` when no
// persistent backend is configured.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, clientID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[clientID][key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, clientID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[clientID] == nil {
		m.data[clientID] = make(map[string]string)
	}
	m.data[clientID][key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, clientID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[clientID], key)
	return nil
}
