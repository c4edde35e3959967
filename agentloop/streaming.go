package agentloop

import (
	"context"

	"github.com/agentrt/hostcore/convo"
	"github.com/agentrt/hostcore/errs"
)

// RunStreaming is the incremental form of Run, pushing convo.StreamEvent
// values as the turn progresses. The channel is closed exactly once, on
// every exit path, so callers can always range over it to completion.
func (a *Agent) RunStreaming(ctx context.Context, sessionKey, input string) (<-chan convo.StreamEvent, error) {
	out := make(chan convo.StreamEvent)

	go func() {
		defer close(out)

		messages, err := a.buildHistory(ctx, sessionKey, input)
		if err != nil {
			out <- convo.StreamEvent{Kind: convo.EventError, Err: err}
			return
		}
		tools := a.toolDefs()

		for iter := 0; iter < a.cfg.MaxIterations; iter++ {
			select {
			case <-ctx.Done():
				out <- convo.StreamEvent{Kind: convo.EventError, Err: errs.New(errs.Cancelled, "Agent.RunStreaming", ctx.Err())}
				return
			default:
			}

			events, err := a.provider.GenerateStreaming(ctx, messages, tools)
			if err != nil {
				out <- convo.StreamEvent{Kind: convo.EventError, Err: errs.New(errs.LLMProviderError, "Agent.RunStreaming", err)}
				return
			}

			assistantMsg := convo.Message{Role: convo.RoleAssistant}
			for ev := range events {
				switch ev.Kind {
				case convo.EventToken:
					assistantMsg.Content += ev.Token
					out <- ev
				case convo.EventToolCall:
					if ev.ToolCall != nil {
						assistantMsg.ToolCalls = append(assistantMsg.ToolCalls, *ev.ToolCall)
					}
					out <- ev
				case convo.EventError:
					out <- ev
					return
				}
			}
			messages = append(messages, assistantMsg)

			if len(assistantMsg.ToolCalls) == 0 {
				if err := a.validateOutput(assistantMsg.Content); err != nil {
					out <- convo.StreamEvent{Kind: convo.EventError, Err: err}
					return
				}
				a.persist(ctx, sessionKey, input, messages)
				out <- convo.StreamEvent{Kind: convo.EventDone}
				return
			}

			results, err := a.executeToolCalls(ctx, assistantMsg.ToolCalls)
			if err != nil {
				out <- convo.StreamEvent{Kind: convo.EventError, Err: err}
				return
			}
			for i := range results {
				r := results[i]
				out <- convo.StreamEvent{Kind: convo.EventToolResult, ToolResult: &r}
				messages = append(messages, convo.Message{Role: convo.RoleTool, ToolResult: &r})
			}
		}

		out <- convo.StreamEvent{Kind: convo.EventError, Err: errs.New(errs.MaxIterationsReached, "Agent.RunStreaming", nil)}
	}()

	return out, nil
}
