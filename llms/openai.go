package llms

import (
	"context"
	"encoding/json"

	"github.com/agentrt/hostcore/convo"
	"github.com/agentrt/hostcore/errs"
	openai "github.com/sashabaranov/go-openai"
)

// openAIProvider wraps sashabaranov/go-openai, the OpenAI-compatible
// adapter, delegating to the official client library instead of a
// bespoke HTTP body.
type openAIProvider struct {
	client *openai.Client
	cfg    *Config
}

func newOpenAIProvider(cfg *Config) (Provider, error) {
	oaCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Host != "" {
		oaCfg.BaseURL = cfg.Host
	}
	return &openAIProvider{client: openai.NewClientWithConfig(oaCfg), cfg: cfg}, nil
}

func (p *openAIProvider) ModelName() string { return p.cfg.Model }
func (p *openAIProvider) Close() error      { return nil }

func toOpenAIMessages(messages []convo.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case convo.RoleSystem:
			out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: m.Content})
		case convo.RoleUser:
			out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: m.Content})
		case convo.RoleAssistant:
			msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: m.Content}
			for _, tc := range m.ToolCalls {
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Name,
						Arguments: string(tc.Arguments),
					},
				})
			}
			out = append(out, msg)
		case convo.RoleTool:
			if m.ToolResult != nil {
				out = append(out, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Content:    m.ToolResult.Content,
					ToolCallID: m.ToolResult.CallID,
				})
			}
		}
	}
	return out
}

func toOpenAITools(tools []ToolDef) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.InputSchema,
			},
		})
	}
	return out
}

func (p *openAIProvider) Generate(ctx context.Context, messages []convo.Message, tools []ToolDef) (convo.Message, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		Messages:    toOpenAIMessages(messages),
		Tools:       toOpenAITools(tools),
		Temperature: float32(p.cfg.Temperature),
		MaxTokens:   p.cfg.MaxTokens,
	})
	if err != nil {
		return convo.Message{}, errs.New(errs.LLMProviderError, "openAIProvider.Generate", err)
	}
	if len(resp.Choices) == 0 {
		return convo.Message{}, errs.New(errs.LLMProviderError, "openAIProvider.Generate", nil)
	}
	choice := resp.Choices[0].Message
	out := convo.Message{Role: convo.RoleAssistant, Content: choice.Content}
	for _, tc := range choice.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, convo.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return out, nil
}

func (p *openAIProvider) GenerateStreaming(ctx context.Context, messages []convo.Message, tools []ToolDef) (<-chan convo.StreamEvent, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		Messages:    toOpenAIMessages(messages),
		Tools:       toOpenAITools(tools),
		Temperature: float32(p.cfg.Temperature),
		MaxTokens:   p.cfg.MaxTokens,
	})
	if err != nil {
		return nil, errs.New(errs.LLMProviderError, "openAIProvider.GenerateStreaming", err)
	}
	ch := make(chan convo.StreamEvent)
	go func() {
		defer close(ch)
		defer stream.Close()
		for {
			resp, err := stream.Recv()
			if err != nil {
				if err.Error() == "EOF" {
					ch <- convo.StreamEvent{Kind: convo.EventDone}
					return
				}
				ch <- convo.StreamEvent{Kind: convo.EventError, Err: err}
				return
			}
			if len(resp.Choices) > 0 {
				delta := resp.Choices[0].Delta.Content
				if delta != "" {
					ch <- convo.StreamEvent{Kind: convo.EventToken, Token: delta}
				}
			}
		}
	}()
	return ch, nil
}
