// Package storage implements StorageProvider: optional, pluggable
// persistence for agent conversation history keyed by
// (agent_name, session_key), with per-key write serialization so
// concurrent run_agent calls against the same key serialize at this
// boundary rather than at the agent-loop boundary, leaving unrelated keys
// fully concurrent.
package storage

import (
	"context"
	"sync"

	"github.com/agentrt/hostcore/convo"
	"github.com/agentrt/hostcore/errs"
)

// Provider is the StorageProvider contract.
type Provider interface {
	Load(ctx context.Context, agentName, sessionKey string) (convo.History, error)
	// Append atomically loads the history, adds messages to it and saves
	// it, serialized per (agentName, sessionKey).
	Append(ctx context.Context, agentName, sessionKey string, messages ...convo.Message) (convo.History, error)
	Delete(ctx context.Context, agentName, sessionKey string) error
}

func key(agentName, sessionKey string) string { return agentName + "\x00" + sessionKey }

// keyLocks hands out one *sync.Mutex per (agentName, sessionKey), shared
// across Provider implementations so every backend gets the same
// serialization guarantee without duplicating the sharding logic.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLocks() *keyLocks { return &keyLocks{locks: make(map[string]*sync.Mutex)} }

func (k *keyLocks) lockFor(k2 string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[k2]
	if !ok {
		l = &sync.Mutex{}
		k.locks[k2] = l
	}
	return l
}

var errNotFound = errs.New(errs.NotFound, "storage", nil)
