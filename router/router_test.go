package router

import "testing"

func TestResolve_WeightBreaksTies(t *testing.T) {
	rt := New()
	rt.Register(Component{Name: "search", SessionID: "low", Weight: 1})
	rt.Register(Component{Name: "search", SessionID: "high", Weight: 5})

	got, err := rt.Resolve("search")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.SessionID != "high" {
		t.Fatalf("expected high-weight session to win, got %q", got.SessionID)
	}
}

func TestResolve_RegistrationOrderBreaksEqualWeight(t *testing.T) {
	rt := New()
	rt.Register(Component{Name: "search", SessionID: "first", Weight: 0})
	rt.Register(Component{Name: "search", SessionID: "second", Weight: 0})

	got, err := rt.Resolve("search")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.SessionID != "first" {
		t.Fatalf("expected earliest-registered session to win a tie, got %q", got.SessionID)
	}
}

func TestResolve_NotFound(t *testing.T) {
	rt := New()
	if _, err := rt.Resolve("missing"); err == nil {
		t.Fatal("expected an error for an unregistered name")
	}
}

func TestDeregister_RemovesAllEntriesForSession(t *testing.T) {
	rt := New()
	rt.Register(Component{Name: "a", SessionID: "s1"})
	rt.Register(Component{Name: "b", SessionID: "s1"})
	rt.Register(Component{Name: "a", SessionID: "s2"})

	rt.Deregister("s1")

	if _, err := rt.Resolve("b"); err == nil {
		t.Fatal("expected b to be gone after deregistering its only session")
	}
	got, err := rt.Resolve("a")
	if err != nil || got.SessionID != "s2" {
		t.Fatalf("expected a to still resolve to s2, got %+v, err=%v", got, err)
	}
}
