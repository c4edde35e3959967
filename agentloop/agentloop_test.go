package agentloop

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agentrt/hostcore/capability"
	"github.com/agentrt/hostcore/convo"
	"github.com/agentrt/hostcore/filtering"
	"github.com/agentrt/hostcore/llms"
	"github.com/agentrt/hostcore/storage"
	"github.com/agentrt/hostcore/transport"
)

type fakeTransport struct {
	tools []transport.ToolSpec
	calls []string
}

func (f *fakeTransport) ListTools(ctx context.Context) ([]transport.ToolSpec, error) { return f.tools, nil }
func (f *fakeTransport) CallTool(ctx context.Context, name string, args map[string]any) (json.RawMessage, bool, error) {
	f.calls = append(f.calls, name)
	return json.RawMessage(`"ok:` + name + `"`), false, nil
}
func (f *fakeTransport) ListPrompts(ctx context.Context) ([]transport.PromptSpec, error) { return nil, nil }
func (f *fakeTransport) GetPrompt(ctx context.Context, name string, args map[string]string) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakeTransport) ListResources(ctx context.Context) ([]transport.ResourceSpec, error) {
	return nil, nil
}
func (f *fakeTransport) ReadResource(ctx context.Context, uri string) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakeTransport) Close() error { return nil }

func newTestManager(t *testing.T, toolNames ...string) *capability.Manager {
	t.Helper()
	specs := make([]transport.ToolSpec, 0, len(toolNames))
	for _, n := range toolNames {
		specs = append(specs, transport.ToolSpec{Name: n})
	}
	ft := &fakeTransport{tools: specs}
	m := capability.NewManager()
	if err := m.RegisterSession(context.Background(), "s1", ft, filtering.Rule{}, 0); err != nil {
		t.Fatalf("RegisterSession: %v", err)
	}
	return m
}

func TestRun_NoToolCalls_ReturnsImmediately(t *testing.T) {
	provider := llms.NewMock(convo.Message{Role: convo.RoleAssistant, Content: "hello"})
	caps := newTestManager(t)
	ag := New(Config{Name: "a"}, provider, caps, nil)

	msg, err := ag.Run(context.Background(), "", "hi")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if msg.Content != "hello" {
		t.Fatalf("expected %q, got %q", "hello", msg.Content)
	}
}

func TestRun_ExecutesToolCallsThenFinalAnswer(t *testing.T) {
	provider := llms.NewMock(
		convo.Message{
			Role: convo.RoleAssistant,
			ToolCalls: []convo.ToolCall{
				{ID: "1", Name: "alpha", Arguments: json.RawMessage(`{}`)},
				{ID: "2", Name: "beta", Arguments: json.RawMessage(`{}`)},
			},
		},
		convo.Message{Role: convo.RoleAssistant, Content: "final"},
	)
	caps := newTestManager(t, "alpha", "beta")
	ag := New(Config{Name: "a"}, provider, caps, nil)

	msg, err := ag.Run(context.Background(), "", "do work")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if msg.Content != "final" {
		t.Fatalf("expected final answer, got %q", msg.Content)
	}
}

func TestRun_MaxIterationsReached(t *testing.T) {
	loop := convo.Message{
		Role:      convo.RoleAssistant,
		ToolCalls: []convo.ToolCall{{ID: "1", Name: "alpha", Arguments: json.RawMessage(`{}`)}},
	}
	// The mock provider falls back to a plain "done" message with no tool
	// calls once its script is exhausted, so it cannot keep the loop going;
	// alwaysToolCallProvider asks for another tool call on every turn, which
	// with MaxIterations=1 forces the limit.
	provider := &alwaysToolCallProvider{}
	caps := newTestManager(t, "alpha")
	ag := New(Config{Name: "a", MaxIterations: 1}, provider, caps, nil)

	_, err := ag.Run(context.Background(), "", "loop forever")
	if err == nil {
		t.Fatal("expected MaxIterationsReached error")
	}
	_ = loop
}

type alwaysToolCallProvider struct{}

func (p *alwaysToolCallProvider) ModelName() string { return "always-tool" }
func (p *alwaysToolCallProvider) Close() error      { return nil }
func (p *alwaysToolCallProvider) Generate(ctx context.Context, messages []convo.Message, tools []llms.ToolDef) (convo.Message, error) {
	return convo.Message{
		Role:      convo.RoleAssistant,
		ToolCalls: []convo.ToolCall{{ID: "x", Name: "alpha", Arguments: json.RawMessage(`{}`)}},
	}, nil
}
func (p *alwaysToolCallProvider) GenerateStreaming(ctx context.Context, messages []convo.Message, tools []llms.ToolDef) (<-chan convo.StreamEvent, error) {
	ch := make(chan convo.StreamEvent)
	close(ch)
	return ch, nil
}

func TestRun_PersistsHistoryWhenEnabled(t *testing.T) {
	provider := llms.NewMock(convo.Message{Role: convo.RoleAssistant, Content: "hello"})
	caps := newTestManager(t)
	store := storage.NewMemoryProvider()
	ag := New(Config{Name: "a", HistoryEnabled: true}, provider, caps, store)

	if _, err := ag.Run(context.Background(), "session-1", "hi"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	h, err := store.Load(context.Background(), "a", "session-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(h.Messages) == 0 {
		t.Fatal("expected history to have been persisted")
	}
}
