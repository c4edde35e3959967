package workflow

import (
	"context"

	"github.com/agentrt/hostcore/agentloop"
)

// AgentRunner adapts an *agentloop.Agent to the Runner interface so
// Sequential can chain agents without depending on convo.Message's full
// shape.
type AgentRunner struct {
	Agent *agentloop.Agent
}

func (r AgentRunner) Run(ctx context.Context, sessionKey, input string) (Output, error) {
	msg, err := r.Agent.Run(ctx, sessionKey, input)
	if err != nil {
		return Output{}, err
	}
	return Output{Content: msg.Content}, nil
}
