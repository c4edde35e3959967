package llms

import (
	"context"

	"github.com/agentrt/hostcore/convo"
)

// mockProvider gives tests a deterministic Provider with no network
// dependency. Scripted responses are consumed in order; once exhausted
// it returns a plain "done" assistant message.
type mockProvider struct {
	cfg       *Config
	responses []convo.Message
	calls     int
}

// NewMock constructs a mock Provider with a scripted sequence of
// responses, for use directly from tests (bypassing the Registry).
func NewMock(responses ...convo.Message) Provider {
	return &mockProvider{cfg: &Config{Type: "mock", Model: "mock-1"}, responses: responses}
}

func newMockProvider(cfg *Config) Provider {
	return &mockProvider{cfg: cfg}
}

func (p *mockProvider) ModelName() string { return p.cfg.Model }
func (p *mockProvider) Close() error      { return nil }

func (p *mockProvider) Generate(ctx context.Context, messages []convo.Message, tools []ToolDef) (convo.Message, error) {
	if p.calls < len(p.responses) {
		msg := p.responses[p.calls]
		p.calls++
		return msg, nil
	}
	return convo.Message{Role: convo.RoleAssistant, Content: "done"}, nil
}

func (p *mockProvider) GenerateStreaming(ctx context.Context, messages []convo.Message, tools []ToolDef) (<-chan convo.StreamEvent, error) {
	msg, err := p.Generate(ctx, messages, tools)
	if err != nil {
		return nil, err
	}
	ch := make(chan convo.StreamEvent, len(msg.ToolCalls)+2)
	if msg.Content != "" {
		ch <- convo.StreamEvent{Kind: convo.EventToken, Token: msg.Content}
	}
	for i := range msg.ToolCalls {
		ch <- convo.StreamEvent{Kind: convo.EventToolCall, ToolCall: &msg.ToolCalls[i]}
	}
	ch <- convo.StreamEvent{Kind: convo.EventDone}
	close(ch)
	return ch, nil
}
