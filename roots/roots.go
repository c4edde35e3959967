// Package roots implements URI-prefix based resource access control: a
// session or agent may only read resources whose URI falls under one of
// its configured roots.
package roots

import "strings"

// Manager holds the set of allowed URI prefixes ("roots") for a session.
type Manager struct {
	roots []string
}

// New builds a Manager from a list of root URI prefixes. An empty list
// means unrestricted access (no roots configured).
func New(rootURIs []string) *Manager {
	m := &Manager{roots: make([]string, len(rootURIs))}
	copy(m.roots, rootURIs)
	return m
}

// Allowed reports whether uri falls under any configured root. With no
// roots configured, every URI is allowed.
func (m *Manager) Allowed(uri string) bool {
	if len(m.roots) == 0 {
		return true
	}
	for _, r := range m.roots {
		if uri == r || strings.HasPrefix(uri, strings.TrimSuffix(r, "/")+"/") {
			return true
		}
	}
	return false
}

// Roots returns a copy of the configured root list.
func (m *Manager) Roots() []string {
	out := make([]string, len(m.roots))
	copy(out, m.roots)
	return out
}
