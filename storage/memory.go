package storage

import (
	"context"
	"sync"

	"github.com/agentrt/hostcore/convo"
)

// MemoryProvider is an in-process StorageProvider, primarily for tests
// and for agents that don't need durability across restarts.
type MemoryProvider struct {
	mu       sync.Mutex
	locks    *keyLocks
	histories map[string]convo.History
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{locks: newKeyLocks(), histories: make(map[string]convo.History)}
}

func (m *MemoryProvider) Load(ctx context.Context, agentName, sessionKey string) (convo.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.histories[key(agentName, sessionKey)]
	if !ok {
		return convo.History{AgentName: agentName, SessionKey: sessionKey}, nil
	}
	return h, nil
}

func (m *MemoryProvider) Append(ctx context.Context, agentName, sessionKey string, messages ...convo.Message) (convo.History, error) {
	lock := m.locks.lockFor(key(agentName, sessionKey))
	lock.Lock()
	defer lock.Unlock()

	m.mu.Lock()
	h, ok := m.histories[key(agentName, sessionKey)]
	if !ok {
		h = convo.History{AgentName: agentName, SessionKey: sessionKey}
	}
	m.mu.Unlock()

	h.Messages = append(h.Messages, messages...)

	m.mu.Lock()
	m.histories[key(agentName, sessionKey)] = h
	m.mu.Unlock()
	return h, nil
}

func (m *MemoryProvider) Delete(ctx context.Context, agentName, sessionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.histories, key(agentName, sessionKey))
	return nil
}
