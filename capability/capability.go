// Package capability implements ToolManager, PromptManager and
// ResourceManager: per-Host registries that aggregate what every
// registered session exposes, validate tool-call arguments against JSON
// Schema, and dispatch calls through the router to the owning session's
// transport.
package capability

import (
	"context"
	"encoding/json"

	"github.com/agentrt/hostcore/errs"
	"github.com/agentrt/hostcore/filtering"
	"github.com/agentrt/hostcore/router"
	"github.com/agentrt/hostcore/transport"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Tool is a capability-manager-visible tool: its exposed name, original
// session, and optional compiled JSON Schema for argument validation.
type Tool struct {
	Name        string
	Description string
	SessionID   string
	Schema      *jsonschema.Schema
}

// Manager aggregates tools/prompts/resources across sessions and routes
// calls through a RoutingTable, applying each session's filtering.Rule on
// registration.
type Manager struct {
	routes    *router.RoutingTable
	sessions  map[string]transport.Transport
	toolMeta  map[string]Tool // keyed by exposed name
	promptSrc map[string]string
	resSrc    map[string]string
}

func NewManager() *Manager {
	return &Manager{
		routes:    router.New(),
		sessions:  make(map[string]transport.Transport),
		toolMeta:  make(map[string]Tool),
		promptSrc: make(map[string]string),
		resSrc:    make(map[string]string),
	}
}

// RegisterSession discovers a session's tools/prompts/resources and adds
// the ones rule.Allows through to the manager's indexes.
func (m *Manager) RegisterSession(ctx context.Context, sessionID string, t transport.Transport, rule filtering.Rule, weight int) error {
	m.sessions[sessionID] = t

	tools, err := t.ListTools(ctx)
	if err != nil {
		return errs.New(errs.SessionTransportError, "capability.RegisterSession", err)
	}
	for _, ts := range tools {
		if !filtering.Allows(rule, ts.Name) {
			continue
		}
		exposed := filtering.Expose(rule, ts.Name)
		var compiled *jsonschema.Schema
		if len(ts.InputSchema) > 0 {
			compiled, _ = compileSchema(exposed, ts.InputSchema)
		}
		m.toolMeta[exposed] = Tool{Name: exposed, Description: ts.Description, SessionID: sessionID, Schema: compiled}
		m.routes.Register(router.Component{Name: exposed, SessionID: sessionID, Weight: weight})
	}

	if prompts, err := t.ListPrompts(ctx); err == nil {
		for _, p := range prompts {
			if !filtering.Allows(rule, p.Name) {
				continue
			}
			exposed := filtering.Expose(rule, p.Name)
			m.promptSrc[exposed] = sessionID
			m.routes.Register(router.Component{Name: "prompt:" + exposed, SessionID: sessionID, Weight: weight})
		}
	}

	if resources, err := t.ListResources(ctx); err == nil {
		for _, r := range resources {
			if !filtering.Allows(rule, r.URI) {
				continue
			}
			m.resSrc[r.URI] = sessionID
			m.routes.Register(router.Component{Name: "resource:" + r.URI, SessionID: sessionID, Weight: weight})
		}
	}
	return nil
}

// DeregisterSession removes every entry sourced from sessionID.
func (m *Manager) DeregisterSession(sessionID string) {
	m.routes.Deregister(sessionID)
	delete(m.sessions, sessionID)
	for k, v := range m.toolMeta {
		if v.SessionID == sessionID {
			delete(m.toolMeta, k)
		}
	}
	for k, v := range m.promptSrc {
		if v == sessionID {
			delete(m.promptSrc, k)
		}
	}
	for k, v := range m.resSrc {
		if v == sessionID {
			delete(m.resSrc, k)
		}
	}
}

// CallTool resolves name through the RoutingTable, validates args against
// its schema if one was discovered, and dispatches to the owning
// session's transport.
func (m *Manager) CallTool(ctx context.Context, name string, args map[string]any) (json.RawMessage, bool, error) {
	comp, err := m.routes.Resolve(name)
	if err != nil {
		return nil, false, errs.New(errs.ToolNotFound, "capability.CallTool", err)
	}
	meta, ok := m.toolMeta[name]
	if ok && meta.Schema != nil {
		raw, _ := json.Marshal(args)
		var v any
		_ = json.Unmarshal(raw, &v)
		if err := meta.Schema.Validate(v); err != nil {
			return nil, false, errs.New(errs.SchemaValidationFailed, "capability.CallTool", err)
		}
	}
	t, ok := m.sessions[comp.SessionID]
	if !ok {
		return nil, false, errs.New(errs.SessionTransportError, "capability.CallTool", nil)
	}
	return t.CallTool(ctx, name, args)
}

// GetPrompt resolves and fetches a prompt by its exposed name.
func (m *Manager) GetPrompt(ctx context.Context, name string, args map[string]string) (json.RawMessage, error) {
	sessionID, ok := m.promptSrc[name]
	if !ok {
		return nil, errs.New(errs.NotFound, "capability.GetPrompt", nil)
	}
	t, ok := m.sessions[sessionID]
	if !ok {
		return nil, errs.New(errs.SessionTransportError, "capability.GetPrompt", nil)
	}
	return t.GetPrompt(ctx, name, args)
}

// ReadResource resolves and reads a resource by URI.
func (m *Manager) ReadResource(ctx context.Context, uri string) (json.RawMessage, error) {
	sessionID, ok := m.resSrc[uri]
	if !ok {
		return nil, errs.New(errs.NotFound, "capability.ReadResource", nil)
	}
	t, ok := m.sessions[sessionID]
	if !ok {
		return nil, errs.New(errs.SessionTransportError, "capability.ReadResource", nil)
	}
	return t.ReadResource(ctx, uri)
}

// ListTools returns every currently visible tool's metadata, for building
// an LLM's tool-use prompt.
func (m *Manager) ListTools() []Tool {
	out := make([]Tool, 0, len(m.toolMeta))
	for _, t := range m.toolMeta {
		out = append(out, t)
	}
	return out
}

func compileSchema(id string, raw json.RawMessage) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(id, jsonMustReader(raw)); err != nil {
		return nil, err
	}
	return c.Compile(id)
}
