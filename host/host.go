// Package host implements MCPHost: it owns the set of live MCP sessions,
// drives each through its State machine, and fans registration/dispatch
// out to the capability and filtering packages. Session supervision
// follows a structured-concurrency rule: a session's transport is closed
// either by RegisterSession itself when registration fails, or by that
// session's own watcher goroutine once its context is cancelled; Host
// shutdown and DeregisterSession cancel that context rather than calling
// Close themselves.
package host

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agentrt/hostcore/capability"
	"github.com/agentrt/hostcore/errs"
	"github.com/agentrt/hostcore/filtering"
	"github.com/agentrt/hostcore/transport"
	"golang.org/x/sync/errgroup"
)

// Session is one registered MCP connection and its supervision handle.
type Session struct {
	ID    string
	Spec  transport.Spec
	Rule  filtering.Rule
	Weight int

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	tr     transport.Transport
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !CanTransition(s.state, next) {
		return errs.New(errs.ValidationError, "Session.setState",
			fmt.Errorf("illegal transition %s -> %s", s.state, next))
	}
	s.state = next
	return nil
}

// Host owns every registered Session and the aggregated capability index.
type Host struct {
	log      *slog.Logger
	caps     *capability.Manager
	mu       sync.Mutex
	sessions map[string]*Session
}

// New constructs an empty Host. log may be nil, in which case
// slog.Default() is used so callers never have to construct a logger.
func New(log *slog.Logger) *Host {
	if log == nil {
		log = slog.Default()
	}
	return &Host{
		log:      log,
		caps:     capability.NewManager(),
		sessions: make(map[string]*Session),
	}
}

// Capabilities exposes the aggregated tool/prompt/resource manager for
// agents and the facade to call through.
func (h *Host) Capabilities() *capability.Manager { return h.caps }

// RegisterSession dials spec's transport, runs it through
// proposed->initializing->ready, discovers its capabilities, and indexes
// it in the RoutingTable under rule/weight. The supplied ctx governs the
// session's entire lifetime: cancelling it tears the session down exactly
// once, from this same call's goroutine tree, never from another.
func (h *Host) RegisterSession(ctx context.Context, id string, spec transport.Spec, rule filtering.Rule, weight int) (*Session, error) {
	h.mu.Lock()
	if _, exists := h.sessions[id]; exists {
		h.mu.Unlock()
		return nil, errs.New(errs.ValidationError, "Host.RegisterSession", fmt.Errorf("session %q already registered", id))
	}
	h.mu.Unlock()

	sessCtx, cancel := context.WithCancel(ctx)
	s := &Session{ID: id, Spec: spec, Rule: rule, Weight: weight, state: Proposed, cancel: cancel}

	if err := s.setState(Initializing); err != nil {
		cancel()
		return nil, err
	}

	tr, err := transport.Dial(sessCtx, spec)
	if err != nil {
		_ = s.setState(Terminated)
		cancel()
		h.log.Error("session dial failed", "session", id, "error", err)
		return nil, errs.New(errs.SessionTransportError, "Host.RegisterSession", err)
	}
	s.tr = tr

	if err := h.caps.RegisterSession(sessCtx, id, tr, rule, weight); err != nil {
		_ = s.setState(Terminated)
		_ = tr.Close()
		cancel()
		return nil, err
	}

	if err := s.setState(Ready); err != nil {
		h.caps.DeregisterSession(id)
		_ = tr.Close()
		cancel()
		return nil, err
	}

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()
	h.log.Info("session ready", "session", id)

	// Watch for transport-scope cancellation (parent ctx cancel, or an
	// explicit DeregisterSession) and tear down from the same scope that
	// opened it — never a cross-scope close().
	go func() {
		<-sessCtx.Done()
		h.teardown(s)
	}()

	return s, nil
}

func (h *Host) teardown(s *Session) {
	s.mu.Lock()
	if s.state == Terminated {
		s.mu.Unlock()
		return
	}
	if s.state == Ready {
		s.mu.Unlock()
		_ = s.setState(ShuttingDown)
	} else {
		s.mu.Unlock()
	}
	_ = s.tr.Close()
	_ = s.setState(Terminated)
	h.caps.DeregisterSession(s.ID)
	h.mu.Lock()
	delete(h.sessions, s.ID)
	h.mu.Unlock()
	h.log.Info("session terminated", "session", s.ID)
}

// DeregisterSession cancels the session's scope, which tears it down
// exactly once via the goroutine started in RegisterSession.
func (h *Host) DeregisterSession(id string) error {
	h.mu.Lock()
	s, ok := h.sessions[id]
	h.mu.Unlock()
	if !ok {
		return errs.New(errs.NotFound, "Host.DeregisterSession", nil)
	}
	s.cancel()
	return nil
}

// Session returns the session registered under id, if any.
func (h *Host) Session(id string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Shutdown cancels every session's scope concurrently and returns once
// each cancellation has been issued. It does not wait for the teardown
// goroutines to close their transports, and ctx does not affect it.
func (h *Host) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	ids := make([]string, 0, len(h.sessions))
	for id := range h.sessions {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return h.DeregisterSession(id)
		})
	}
	return g.Wait()
}
