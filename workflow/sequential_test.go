package workflow

import (
	"context"
	"fmt"
	"testing"
)

type stubRunner struct {
	suffix string
	err    error
}

func (r stubRunner) Run(ctx context.Context, sessionKey, input string) (Output, error) {
	if r.err != nil {
		return Output{}, r.err
	}
	return Output{Content: input + r.suffix}, nil
}

func TestSequential_ChainsOutputToInput(t *testing.T) {
	s := &Sequential{
		Name: "pipeline",
		Steps: []NamedRunner{
			{AgentName: "a", Runner: stubRunner{suffix: "-a"}},
			{AgentName: "b", Runner: stubRunner{suffix: "-b"}},
		},
	}
	result, err := s.Execute(context.Background(), "start")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Output != "start-a-b" {
		t.Fatalf("expected chained output, got %q", result.Output)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("expected StatusCompleted, got %v", result.Status)
	}
	if len(result.AgentResults) != 2 {
		t.Fatalf("expected 2 agent results, got %d", len(result.AgentResults))
	}
}

func TestSequential_ShortCircuitsOnStepError(t *testing.T) {
	s := &Sequential{
		Name: "pipeline",
		Steps: []NamedRunner{
			{AgentName: "a", Runner: stubRunner{suffix: "-a"}},
			{AgentName: "b", Runner: stubRunner{err: fmt.Errorf("boom")}},
			{AgentName: "c", Runner: stubRunner{suffix: "-c"}},
		},
	}
	result, err := s.Execute(context.Background(), "start")
	if err == nil {
		t.Fatal("expected an error from the failing step")
	}
	if result.Status != StatusFailed {
		t.Fatalf("expected StatusFailed, got %v", result.Status)
	}
	if len(result.AgentResults) != 2 {
		t.Fatalf("expected exactly the attempted steps recorded, got %d", len(result.AgentResults))
	}
}
