package workflow

import (
	"context"
	"time"

	"github.com/agentrt/hostcore/errs"
)

// Runner is the minimal agent contract a workflow step needs: run one
// turn and return its text output. AgentRunner adapts an agentloop.Agent
// to it.
type Runner interface {
	Run(ctx context.Context, sessionKey, input string) (Output, error)
}

// Output is the minimal shape a Runner's result needs for chaining.
type Output struct {
	Content string
}

// Sequential pipes input through a fixed, ordered chain of agents: each
// step's output becomes the next step's input. No branching or merging.
type Sequential struct {
	Name  string
	Steps []NamedRunner
}

// NamedRunner pairs a Runner with the agent name it should be attributed
// to in AgentResult.
type NamedRunner struct {
	AgentName string
	Runner    Runner
}

// Execute runs every step in order against the same ExecutionContext,
// short-circuiting (and marking the run Failed) on the first step error.
func (s *Sequential) Execute(ctx context.Context, input string) (Result, error) {
	ec := NewExecutionContext(s.Name)
	current := input

	for _, step := range s.Steps {
		select {
		case <-ctx.Done():
			ec.AddError(errs.New(errs.Cancelled, "Sequential.Execute", ctx.Err()))
			return s.finish(ec, StatusCancelled, current), errs.New(errs.Cancelled, "Sequential.Execute", ctx.Err())
		default:
		}

		start := time.Now()
		out, err := step.Runner.Run(ctx, s.Name, current)
		dur := time.Since(start)
		if err != nil {
			ec.AddResult(AgentResult{AgentName: step.AgentName, Error: err.Error(), Duration: dur})
			ec.AddError(err)
			return s.finish(ec, StatusFailed, current), errs.New(errs.ToolExecutionError, "Sequential.Execute", err)
		}
		ec.AddResult(AgentResult{AgentName: step.AgentName, Output: out.Content, Duration: dur})
		current = out.Content
	}

	return s.finish(ec, StatusCompleted, current), nil
}

func (s *Sequential) finish(ec *ExecutionContext, status Status, output string) Result {
	return Result{
		WorkflowName: s.Name,
		Status:       status,
		Output:       output,
		AgentResults: ec.CombineResults(),
		Errors:       ec.CombineErrors(),
		Duration:     time.Since(ec.StartTime),
	}
}
