// Package facade implements ExecutionFacade: a single dispatch surface
// over a closed tagged-variant set {agent, sequential-workflow,
// custom-workflow}, deliberately avoiding open polymorphism — adding a
// new executable kind means adding a case here, not registering an
// arbitrary plugin type.
package facade

import (
	"context"

	"github.com/agentrt/hostcore/agentloop"
	"github.com/agentrt/hostcore/errs"
	"github.com/agentrt/hostcore/workflow"
)

// Kind is the closed set of things a Facade can run.
type Kind string

const (
	KindAgent      Kind = "agent"
	KindSequential Kind = "sequential"
	KindCustom     Kind = "custom"
)

// Entry is one registered executable.
type Entry struct {
	Kind       Kind
	Agent      *agentloop.Agent
	Sequential *workflow.Sequential
	Custom     *workflow.Custom
}

// Facade holds every registered Agent/Sequential/Custom workflow by name
// and dispatches run/stream calls to the right variant.
type Facade struct {
	entries map[string]Entry
}

func New() *Facade {
	return &Facade{entries: make(map[string]Entry)}
}

func (f *Facade) RegisterAgent(name string, a *agentloop.Agent) {
	f.entries[name] = Entry{Kind: KindAgent, Agent: a}
}

func (f *Facade) RegisterSequential(name string, s *workflow.Sequential) {
	f.entries[name] = Entry{Kind: KindSequential, Sequential: s}
}

func (f *Facade) RegisterCustom(name string, c *workflow.Custom) {
	f.entries[name] = Entry{Kind: KindCustom, Custom: c}
}

// RunAgent runs the named entry as an agent, returning errs.NotFound if
// name is not registered or is not an agent.
func (f *Facade) RunAgent(ctx context.Context, name, sessionKey, input string) (string, error) {
	e, ok := f.entries[name]
	if !ok || e.Kind != KindAgent {
		return "", errs.New(errs.NotFound, "Facade.RunAgent", nil)
	}
	msg, err := e.Agent.Run(ctx, sessionKey, input)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

// RunWorkflow dispatches to whichever workflow variant name resolves to.
func (f *Facade) RunWorkflow(ctx context.Context, name, input string) (workflow.Result, error) {
	e, ok := f.entries[name]
	if !ok {
		return workflow.Result{}, errs.New(errs.NotFound, "Facade.RunWorkflow", nil)
	}
	switch e.Kind {
	case KindSequential:
		return e.Sequential.Execute(ctx, input)
	case KindCustom:
		return e.Custom.Execute(ctx, input)
	default:
		return workflow.Result{}, errs.New(errs.ValidationError, "Facade.RunWorkflow", nil)
	}
}

// Dispatch is the single generic entry point: given a name, run whatever
// it is (agent or workflow) and always return a workflow.Result shape,
// wrapping a bare agent run into a one-step Result for callers that
// don't care which kind they invoked.
func (f *Facade) Dispatch(ctx context.Context, name, sessionKey, input string) (workflow.Result, error) {
	e, ok := f.entries[name]
	if !ok {
		return workflow.Result{}, errs.New(errs.NotFound, "Facade.Dispatch", nil)
	}
	switch e.Kind {
	case KindAgent:
		out, err := f.RunAgent(ctx, name, sessionKey, input)
		if err != nil {
			return workflow.Result{WorkflowName: name, Status: workflow.StatusFailed, Errors: []string{err.Error()}}, err
		}
		return workflow.Result{WorkflowName: name, Status: workflow.StatusCompleted, Output: out}, nil
	case KindSequential, KindCustom:
		return f.RunWorkflow(ctx, name, input)
	default:
		return workflow.Result{}, errs.New(errs.ValidationError, "Facade.Dispatch", nil)
	}
}
