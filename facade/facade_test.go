package facade

import (
	"context"
	"testing"

	"github.com/agentrt/hostcore/agentloop"
	"github.com/agentrt/hostcore/capability"
	"github.com/agentrt/hostcore/convo"
	"github.com/agentrt/hostcore/llms"
	"github.com/agentrt/hostcore/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacade_RunAgent(t *testing.T) {
	provider := llms.NewMock(convo.Message{Role: convo.RoleAssistant, Content: "hello there"})
	a := agentloop.New(agentloop.Config{Name: "greeter"}, provider, capability.NewManager(), nil)

	f := New()
	f.RegisterAgent("greeter", a)

	out, err := f.RunAgent(context.Background(), "greeter", "", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
}

func TestFacade_RunAgentUnknownName(t *testing.T) {
	f := New()
	_, err := f.RunAgent(context.Background(), "ghost", "", "hi")
	assert.Error(t, err, "expected an error for an unregistered agent name")
}

func TestFacade_DispatchWrapsAgentIntoResult(t *testing.T) {
	provider := llms.NewMock(convo.Message{Role: convo.RoleAssistant, Content: "done"})
	a := agentloop.New(agentloop.Config{Name: "worker"}, provider, capability.NewManager(), nil)

	f := New()
	f.RegisterAgent("worker", a)

	result, err := f.Dispatch(context.Background(), "worker", "", "go")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusCompleted, result.Status)
	assert.Equal(t, "done", result.Output)
}

func TestFacade_DispatchSequentialWorkflow(t *testing.T) {
	p1 := llms.NewMock(convo.Message{Role: convo.RoleAssistant, Content: "step1 out"})
	p2 := llms.NewMock(convo.Message{Role: convo.RoleAssistant, Content: "step2 out"})
	a1 := agentloop.New(agentloop.Config{Name: "a1"}, p1, capability.NewManager(), nil)
	a2 := agentloop.New(agentloop.Config{Name: "a2"}, p2, capability.NewManager(), nil)

	seq := &workflow.Sequential{Name: "pipeline", Steps: []workflow.NamedRunner{
		{AgentName: "a1", Runner: workflow.AgentRunner{Agent: a1}},
		{AgentName: "a2", Runner: workflow.AgentRunner{Agent: a2}},
	}}

	f := New()
	f.RegisterSequential("pipeline", seq)

	result, err := f.RunWorkflow(context.Background(), "pipeline", "start")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusCompleted, result.Status)
	assert.Equal(t, "step2 out", result.Output)
}
