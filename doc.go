// Package hostcore hosts MCP sessions, runs bounded tool-calling agents
// against them, and chains agents into workflows, all driven by a single
// YAML configuration file.
//
// # Quick Start
//
// Install agenthostd:
//
//	go install github.com/agentrt/hostcore/cmd/agenthostd@latest
//
// Describe sessions, LLMs, agents and workflows in one YAML file:
//
//	sessions:
//	  - id: filesystem
//	    transport: stdio
//	    command: mcp-server-filesystem
//	    args: ["/srv/data"]
//
//	llms:
//	  claude:
//	    type: anthropic
//	    model: claude-3-5-sonnet-latest
//	    api_key: "${ANTHROPIC_API_KEY}"
//
//	agents:
//	  assistant:
//	    llm: claude
//	    max_iterations: 8
//
// Start the server:
//
//	agenthostd serve --config agenthostd.yaml
//
// # Using as a Go library
//
//	import (
//	    "github.com/agentrt/hostcore/host"
//	    "github.com/agentrt/hostcore/agentloop"
//	    "github.com/agentrt/hostcore/facade"
//	)
//
// # Architecture
//
//	Client -> Facade -> {Agent | SequentialWorkflow | CustomWorkflow} -> MCPHost -> Transport -> MCP server
//
// Each session is supervised by its own context: once registered, its
// transport is closed only by the goroutine watching that context, and
// Host shutdown cancels every session's context instead of closing
// transports from another goroutine.
package hostcore
