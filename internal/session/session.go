// Package session provides an optional, pluggable conversation-history
// store. The pipeline is stateless per turn; layering a Store on top lets
// multi-turn conversations carry context. Only message fields are
// persisted.
package session

import (
	"context"
	"sync"

	"github.com/calenhq/calen/internal/llm"
)

// Store persists per-owner conversation history between turns.
type Store interface {
	History(ctx context.Context, ownerID string) ([]llm.Message, error)
	Replace(ctx context.Context, ownerID string, messages []llm.Message) error
	Clear(ctx context.Context, ownerID string) error
}

// Memory is the in-process Store implementation.
type Memory struct {
	mu       sync.Mutex
	sessions map[string][]llm.Message
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string][]llm.Message)}
}

func (m *Memory) History(_ context.Context, ownerID string) ([]llm.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.sessions[ownerID]
	out := make([]llm.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (m *Memory) Replace(_ context.Context, ownerID string, messages []llm.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]llm.Message, len(messages))
	copy(stored, messages)
	m.sessions[ownerID] = stored
	return nil
}

func (m *Memory) Clear(_ context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, ownerID)
	return nil
}
