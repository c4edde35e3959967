package main

import (
	"fmt"

	"github.com/agentrt/hostcore/agentloop"
	"github.com/agentrt/hostcore/config"
	"github.com/agentrt/hostcore/facade"
	"github.com/agentrt/hostcore/workflow"
)

// wireWorkflows builds each configured WorkflowConfig into its concrete
// workflow.Sequential or workflow.Custom and registers it on the facade.
func wireWorkflows(fac *facade.Facade, cfg *config.Config, agents map[string]*agentloop.Agent) error {
	for name, w := range cfg.Workflows {
		switch w.Type {
		case "sequential":
			steps := make([]workflow.NamedRunner, 0, len(w.Agents))
			for _, agentName := range w.Agents {
				ag, ok := agents[agentName]
				if !ok {
					return fmt.Errorf("workflow %q: unknown agent %q", name, agentName)
				}
				steps = append(steps, workflow.NamedRunner{AgentName: agentName, Runner: workflow.AgentRunner{Agent: ag}})
			}
			fac.RegisterSequential(name, &workflow.Sequential{Name: name, Steps: steps})
		case "custom":
			fac.RegisterCustom(name, &workflow.Custom{Name: name, ProjectRoot: ".", PluginPath: w.Plugin})
		}
	}
	return nil
}
