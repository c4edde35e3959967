// Package router holds the RoutingTable that maps a component name (tool,
// prompt, or resource) to the session(s) that expose it, and resolves
// ambiguity deterministically when more than one session offers the same
// name.
package router

import (
	"sort"
	"sync"

	"github.com/agentrt/hostcore/errs"
)

// Component is a single routable entry: one tool/prompt/resource exposed
// by one session.
type Component struct {
	Name      string
	SessionID string
	Weight    int // higher wins ties; defaults to 0
	seq       uint64
}

// RoutingTable indexes Components by name. When multiple sessions expose
// the same name, Resolve picks the highest Weight, breaking further ties
// by earliest registration order (ascending seq) — never arbitrarily.
type RoutingTable struct {
	mu      sync.RWMutex
	byName  map[string][]Component
	counter uint64
}

func New() *RoutingTable {
	return &RoutingTable{byName: make(map[string][]Component)}
}

// Register adds a component to the table. Safe for concurrent use.
func (t *RoutingTable) Register(c Component) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counter++
	c.seq = t.counter
	t.byName[c.Name] = append(t.byName[c.Name], c)
}

// Deregister removes every entry previously registered for sessionID.
func (t *RoutingTable) Deregister(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, comps := range t.byName {
		kept := comps[:0]
		for _, c := range comps {
			if c.SessionID != sessionID {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			delete(t.byName, name)
		} else {
			t.byName[name] = kept
		}
	}
}

// Candidates returns every registered component for name, in no
// particular order.
func (t *RoutingTable) Candidates(name string) []Component {
	t.mu.RLock()
	defer t.mu.RUnlock()
	comps := t.byName[name]
	out := make([]Component, len(comps))
	copy(out, comps)
	return out
}

// Resolve returns the single component that should handle a call to name.
// Tie-break order: highest Weight first, then earliest registration
// (lowest seq) first. Returns errs.NotFound if nothing is registered.
func (t *RoutingTable) Resolve(name string) (Component, error) {
	comps := t.Candidates(name)
	if len(comps) == 0 {
		return Component{}, errs.New(errs.NotFound, "router.Resolve", nil)
	}
	sort.SliceStable(comps, func(i, j int) bool {
		if comps[i].Weight != comps[j].Weight {
			return comps[i].Weight > comps[j].Weight
		}
		return comps[i].seq < comps[j].seq
	})
	return comps[0], nil
}
