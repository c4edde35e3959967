// Package agentloop implements the Agent execution loop: bounded
// iteration, concurrent bounded-parallel tool-call execution within a
// turn with call-index-ordered history append, optional JSON Schema
// validation of final output, and StorageProvider-backed history.
//
// Tool calls within a turn run concurrently via golang.org/x/sync/errgroup,
// bounded by MaxConcurrentTools, with results re-assembled by original
// call index rather than completion order so history stays deterministic
// regardless of which call finishes first.
package agentloop

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentrt/hostcore/capability"
	"github.com/agentrt/hostcore/convo"
	"github.com/agentrt/hostcore/errs"
	"github.com/agentrt/hostcore/llms"
	"github.com/agentrt/hostcore/storage"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/sync/errgroup"
)

// Config is the subset of config.AgentConfig the loop needs, decoupled
// from the config package so agentloop has no import-cycle risk and can
// be driven directly from tests.
type Config struct {
	Name               string
	SystemPrompt       string
	MaxIterations      int
	MaxConcurrentTools int
	OutputSchema       *jsonschema.Schema // nil = no validation
	HistoryEnabled     bool
}

// Agent is a bounded tool-calling loop over one LLM provider and the
// Host's aggregated tool set.
type Agent struct {
	cfg      Config
	provider llms.Provider
	caps     *capability.Manager
	store    storage.Provider // nil if HistoryEnabled is false
}

// New constructs an Agent. store may be nil when cfg.HistoryEnabled is
// false.
func New(cfg Config, provider llms.Provider, caps *capability.Manager, store storage.Provider) *Agent {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 10
	}
	if cfg.MaxConcurrentTools <= 0 {
		cfg.MaxConcurrentTools = 4
	}
	return &Agent{cfg: cfg, provider: provider, caps: caps, store: store}
}

// Run executes one turn to completion (no streaming) and returns the
// final assistant message. sessionKey identifies the caller's
// conversation for history persistence; it may be empty when
// HistoryEnabled is false.
func (a *Agent) Run(ctx context.Context, sessionKey, input string) (convo.Message, error) {
	messages, err := a.buildHistory(ctx, sessionKey, input)
	if err != nil {
		return convo.Message{}, err
	}

	tools := a.toolDefs()

	for iter := 0; iter < a.cfg.MaxIterations; iter++ {
		select {
		case <-ctx.Done():
			return convo.Message{}, errs.New(errs.Cancelled, "Agent.Run", ctx.Err())
		default:
		}

		assistantMsg, err := a.provider.Generate(ctx, messages, tools)
		if err != nil {
			return convo.Message{}, errs.New(errs.LLMProviderError, "Agent.Run", err)
		}
		messages = append(messages, assistantMsg)

		if len(assistantMsg.ToolCalls) == 0 {
			if err := a.validateOutput(assistantMsg.Content); err != nil {
				return convo.Message{}, err
			}
			a.persist(ctx, sessionKey, input, messages)
			return assistantMsg, nil
		}

		results, err := a.executeToolCalls(ctx, assistantMsg.ToolCalls)
		if err != nil {
			return convo.Message{}, err
		}
		for _, r := range results {
			messages = append(messages, convo.Message{Role: convo.RoleTool, ToolResult: &r})
		}
	}

	return convo.Message{}, errs.New(errs.MaxIterationsReached, "Agent.Run", fmt.Errorf("agent %q exceeded %d iterations", a.cfg.Name, a.cfg.MaxIterations))
}

// executeToolCalls runs calls concurrently, bounded by
// cfg.MaxConcurrentTools, and returns results ordered by original call
// index — never by completion order.
func (a *Agent) executeToolCalls(ctx context.Context, calls []convo.ToolCall) ([]convo.ToolResult, error) {
	results := make([]convo.ToolResult, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.MaxConcurrentTools)

	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			var args map[string]any
			if len(call.Arguments) > 0 {
				if err := json.Unmarshal(call.Arguments, &args); err != nil {
					results[i] = convo.ToolResult{CallID: call.ID, Content: fmt.Sprintf("invalid arguments: %v", err), IsError: true}
					return nil
				}
			}
			content, isError, err := a.caps.CallTool(gctx, call.Name, args)
			if err != nil {
				results[i] = convo.ToolResult{CallID: call.ID, Content: err.Error(), IsError: true}
				return nil
			}
			results[i] = convo.ToolResult{CallID: call.ID, Content: string(content), IsError: isError}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errs.New(errs.ToolExecutionError, "Agent.executeToolCalls", err)
	}
	return results, nil
}

func (a *Agent) toolDefs() []llms.ToolDef {
	tools := a.caps.ListTools()
	out := make([]llms.ToolDef, 0, len(tools))
	for _, t := range tools {
		out = append(out, llms.ToolDef{Name: t.Name, Description: t.Description})
	}
	return out
}

func (a *Agent) buildHistory(ctx context.Context, sessionKey, input string) ([]convo.Message, error) {
	var messages []convo.Message
	if a.cfg.SystemPrompt != "" {
		messages = append(messages, convo.Message{Role: convo.RoleSystem, Content: a.cfg.SystemPrompt})
	}
	if a.cfg.HistoryEnabled && a.store != nil && sessionKey != "" {
		h, err := a.store.Load(ctx, a.cfg.Name, sessionKey)
		if err != nil {
			return nil, errs.New(errs.ToolExecutionError, "Agent.buildHistory", err)
		}
		messages = append(messages, h.Messages...)
	}
	messages = append(messages, convo.Message{Role: convo.RoleUser, Content: input})
	return messages, nil
}

func (a *Agent) persist(ctx context.Context, sessionKey, input string, messages []convo.Message) {
	if !a.cfg.HistoryEnabled || a.store == nil || sessionKey == "" {
		return
	}
	// Persist only the new turn (user input + everything after it); prior
	// history is already stored, and the system prompt is never stored
	// since buildHistory re-adds it from cfg on every run.
	var toAppend []convo.Message
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == convo.RoleUser && messages[i].Content == input {
			toAppend = messages[i:]
			break
		}
	}
	if toAppend == nil {
		toAppend = messages
	}
	_, _ = a.store.Append(ctx, a.cfg.Name, sessionKey, toAppend...)
}

func (a *Agent) validateOutput(content string) error {
	if a.cfg.OutputSchema == nil {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return errs.New(errs.SchemaValidationFailed, "Agent.validateOutput", err)
	}
	if err := a.cfg.OutputSchema.Validate(v); err != nil {
		return errs.New(errs.SchemaValidationFailed, "Agent.validateOutput", err)
	}
	return nil
}
