// Package workflow implements SequentialWorkflow (an ordered chain of
// agents piping text forward) and CustomWorkflow (user-supplied code run
// as a separate plugin process). See DESIGN.md for why this package is
// scoped to just these two variants.
package workflow

import (
	"sync"
	"time"
)

// Status is a workflow run's terminal or in-flight state.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// AgentResult is one agent's contribution to a workflow run.
type AgentResult struct {
	AgentName string        `json:"agent_name"`
	Output    string        `json:"output"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Result is the outcome of a full workflow run.
type Result struct {
	WorkflowName string                 `json:"workflow_name"`
	Status       Status                 `json:"status"`
	Output       string                 `json:"output"`
	AgentResults []AgentResult          `json:"agent_results,omitempty"`
	Errors       []string               `json:"errors,omitempty"`
	Duration     time.Duration          `json:"duration"`
}

// ExecutionContext carries the mutable, mutex-protected state of one
// workflow run.
type ExecutionContext struct {
	mu          sync.Mutex
	WorkflowName string
	StartTime   time.Time
	results     []AgentResult
	errors      []error
	sharedState map[string]any
}

// NewExecutionContext starts a fresh context for name.
func NewExecutionContext(name string) *ExecutionContext {
	return &ExecutionContext{
		WorkflowName: name,
		StartTime:    time.Now(),
		sharedState:  make(map[string]any),
	}
}

func (c *ExecutionContext) AddResult(r AgentResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *ExecutionContext) AddError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, err)
}

func (c *ExecutionContext) SetShared(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sharedState[key] = value
}

func (c *ExecutionContext) GetShared(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.sharedState[key]
	return v, ok
}

// CombineResults snapshots every AgentResult recorded so far.
func (c *ExecutionContext) CombineResults() []AgentResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]AgentResult, len(c.results))
	copy(out, c.results)
	return out
}

// CombineErrors snapshots every error recorded so far as strings.
func (c *ExecutionContext) CombineErrors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.errors))
	for i, e := range c.errors {
		out[i] = e.Error()
	}
	return out
}
