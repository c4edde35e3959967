package llms

import (
	"context"
	"encoding/json"

	"github.com/agentrt/hostcore/convo"
	"github.com/agentrt/hostcore/errs"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicProvider wraps anthropics/anthropic-sdk-go, translating
// convo.Message/ToolDef to the SDK's message/tool param shapes and its
// tool_use content blocks back into convo.ToolCall.
type anthropicProvider struct {
	client *anthropic.Client
	cfg    *Config
}

func newAnthropicProvider(cfg *Config) (Provider, error) {
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return &anthropicProvider{client: &client, cfg: cfg}, nil
}

func (p *anthropicProvider) ModelName() string { return p.cfg.Model }
func (p *anthropicProvider) Close() error      { return nil }

func toAnthropicMessages(messages []convo.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case convo.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case convo.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		case convo.RoleTool:
			if m.ToolResult != nil {
				out = append(out, anthropic.NewUserMessage(
					anthropic.NewToolResultBlock(m.ToolResult.CallID, m.ToolResult.Content, m.ToolResult.IsError)))
			}
		}
	}
	return out
}

func toAnthropicTools(tools []ToolDef) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		schema := anthropic.ToolInputSchemaParam{}
		if props, ok := t.InputSchema["properties"]; ok {
			schema.Properties = props
		}
		out = append(out, anthropic.ToolUnionParamOfTool(schema, t.Name))
	}
	return out
}

func (p *anthropicProvider) Generate(ctx context.Context, messages []convo.Message, tools []ToolDef) (convo.Message, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.cfg.Model),
		MaxTokens: int64(p.cfg.MaxTokens),
		Messages:  toAnthropicMessages(messages),
		Tools:     toAnthropicTools(tools),
	})
	if err != nil {
		return convo.Message{}, errs.New(errs.LLMProviderError, "anthropicProvider.Generate", err)
	}
	return fromAnthropicResponse(resp), nil
}

func fromAnthropicResponse(resp *anthropic.Message) convo.Message {
	out := convo.Message{Role: convo.RoleAssistant}
	for _, block := range resp.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			out.Content += variant.Text
		case anthropic.ToolUseBlock:
			args, _ := json.Marshal(variant.Input)
			out.ToolCalls = append(out.ToolCalls, convo.ToolCall{
				ID:        variant.ID,
				Name:      variant.Name,
				Arguments: args,
			})
		}
	}
	return out
}

func (p *anthropicProvider) GenerateStreaming(ctx context.Context, messages []convo.Message, tools []ToolDef) (<-chan convo.StreamEvent, error) {
	ch := make(chan convo.StreamEvent)
	stream := p.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.cfg.Model),
		MaxTokens: int64(p.cfg.MaxTokens),
		Messages:  toAnthropicMessages(messages),
		Tools:     toAnthropicTools(tools),
	})
	go func() {
		defer close(ch)
		for stream.Next() {
			event := stream.Current()
			if delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent); ok {
				if textDelta, ok := delta.Delta.AsAny().(anthropic.TextDelta); ok {
					ch <- convo.StreamEvent{Kind: convo.EventToken, Token: textDelta.Text}
				}
			}
		}
		if err := stream.Err(); err != nil {
			ch <- convo.StreamEvent{Kind: convo.EventError, Err: err}
			return
		}
		ch <- convo.StreamEvent{Kind: convo.EventDone}
	}()
	return ch, nil
}
