// Package filtering holds stateless policy functions that decide whether a
// component name is visible to a session and what name it should be
// exposed under. Filters never hold state beyond their own configuration;
// the same Rule applied to the same name always yields the same result.
package filtering

import "strings"

// Rule configures inclusion/exclusion/renaming for one session's view of
// the Host's components.
type Rule struct {
	Include []string          // if non-empty, only these names (or prefixes ending in "*") pass
	Exclude []string          // names (or prefixes ending in "*") that never pass, checked after Include
	Rename  map[string]string // original name -> exposed name
}

// Allows reports whether name passes r's include/exclude policy.
func Allows(r Rule, name string) bool {
	if len(r.Include) > 0 && !matchesAny(r.Include, name) {
		return false
	}
	if matchesAny(r.Exclude, name) {
		return false
	}
	return true
}

// Expose returns the name a component should be presented as under r,
// applying Rename if configured.
func Expose(r Rule, name string) string {
	if alias, ok := r.Rename[name]; ok {
		return alias
	}
	return name
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if strings.HasSuffix(p, "*") {
			if strings.HasPrefix(name, strings.TrimSuffix(p, "*")) {
				return true
			}
			continue
		}
		if p == name {
			return true
		}
	}
	return false
}
