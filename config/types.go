package config

import (
	"fmt"

	"github.com/agentrt/hostcore/errs"
)

// SessionSpec describes one MCP session the Host should register at
// startup, mirroring transport.Spec plus the filtering/weight fields
// needed to wire it into the RoutingTable.
type SessionSpec struct {
	ID        string            `yaml:"id"`
	Transport string            `yaml:"transport"` // "stdio" | "http_stream"
	Command   string            `yaml:"command,omitempty"`
	Args      []string          `yaml:"args,omitempty"`
	Env       []string          `yaml:"env,omitempty"`
	URL       string            `yaml:"url,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
	TimeoutSecs int             `yaml:"timeout_seconds,omitempty"`

	Include []string          `yaml:"include,omitempty"`
	Exclude []string          `yaml:"exclude,omitempty"`
	Rename  map[string]string `yaml:"rename,omitempty"`
	Weight  int               `yaml:"weight,omitempty"`
}

func (s *SessionSpec) SetDefaults() {
	if s.TimeoutSecs == 0 {
		s.TimeoutSecs = 30
	}
}

func (s *SessionSpec) Validate() error {
	if s.ID == "" {
		return errs.New(errs.ValidationError, "SessionSpec.Validate", fmt.Errorf("id required"))
	}
	switch s.Transport {
	case "stdio":
		if s.Command == "" {
			return errs.New(errs.ValidationError, "SessionSpec.Validate", fmt.Errorf("stdio session %q requires command", s.ID))
		}
	case "http_stream":
		if s.URL == "" {
			return errs.New(errs.ValidationError, "SessionSpec.Validate", fmt.Errorf("http_stream session %q requires url", s.ID))
		}
	default:
		return errs.New(errs.ValidationError, "SessionSpec.Validate", fmt.Errorf("session %q: unsupported transport %q", s.ID, s.Transport))
	}
	return nil
}

// LLMConfig mirrors llms.Config with yaml tags, kept as a separate type so
// neither package imports the other: config types stay pure data, and
// cmd/agenthostd copies them into an llms.Config before calling
// llms.Registry.CreateFromConfig.
type LLMConfig struct {
	Type        string  `yaml:"type"`
	Model       string  `yaml:"model,omitempty"`
	APIKey      string  `yaml:"api_key,omitempty"`
	Host        string  `yaml:"host,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
	TimeoutSecs int     `yaml:"timeout_seconds,omitempty"`
}

func (c *LLMConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "ollama"
	}
}

func (c *LLMConfig) Validate() error {
	switch c.Type {
	case "anthropic", "openai", "ollama", "mock":
		return nil
	default:
		return errs.New(errs.ValidationError, "LLMConfig.Validate", fmt.Errorf("unsupported LLM type %q", c.Type))
	}
}

// AgentConfig describes one bounded tool-calling Agent.
type AgentConfig struct {
	Name               string `yaml:"name"`
	Description        string `yaml:"description,omitempty"`
	LLM                string `yaml:"llm"`
	SystemPrompt       string `yaml:"system_prompt,omitempty"`
	MaxIterations      int    `yaml:"max_iterations,omitempty"`
	MaxConcurrentTools int    `yaml:"max_concurrent_tools,omitempty"`
	OutputSchemaPath   string `yaml:"output_schema_path,omitempty"`
	HistoryEnabled     bool   `yaml:"history_enabled,omitempty"`
}

func (c *AgentConfig) SetDefaults() {
	if c.MaxIterations == 0 {
		c.MaxIterations = 10
	}
	if c.MaxConcurrentTools == 0 {
		c.MaxConcurrentTools = 4
	}
}

func (c *AgentConfig) Validate() error {
	if c.Name == "" {
		return errs.New(errs.ValidationError, "AgentConfig.Validate", fmt.Errorf("name required"))
	}
	if c.LLM == "" {
		return errs.New(errs.ValidationError, "AgentConfig.Validate", fmt.Errorf("agent %q requires an llm reference", c.Name))
	}
	return nil
}

// WorkflowConfig describes a SequentialWorkflow or a CustomWorkflow.
type WorkflowConfig struct {
	Name   string   `yaml:"name"`
	Type   string   `yaml:"type"` // "sequential" | "custom"
	Agents []string `yaml:"agents,omitempty"`   // sequential: agent names in order
	Plugin string   `yaml:"plugin,omitempty"`   // custom: path to the plugin binary, project-root relative
}

func (c *WorkflowConfig) SetDefaults() {}

func (c *WorkflowConfig) Validate() error {
	if c.Name == "" {
		return errs.New(errs.ValidationError, "WorkflowConfig.Validate", fmt.Errorf("name required"))
	}
	switch c.Type {
	case "sequential":
		if len(c.Agents) == 0 {
			return errs.New(errs.ValidationError, "WorkflowConfig.Validate", fmt.Errorf("sequential workflow %q requires at least one agent", c.Name))
		}
	case "custom":
		if c.Plugin == "" {
			return errs.New(errs.ValidationError, "WorkflowConfig.Validate", fmt.Errorf("custom workflow %q requires a plugin path", c.Name))
		}
	default:
		return errs.New(errs.ValidationError, "WorkflowConfig.Validate", fmt.Errorf("workflow %q: unsupported type %q", c.Name, c.Type))
	}
	return nil
}

// StorageConfig selects the StorageProvider backend.
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty"` // "memory" | "sqlite"
	Path    string `yaml:"path,omitempty"`    // sqlite file path
}

func (c *StorageConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
}

func (c *StorageConfig) Validate() error {
	if c.Backend == "sqlite" && c.Path == "" {
		return errs.New(errs.ValidationError, "StorageConfig.Validate", fmt.Errorf("sqlite storage requires a path"))
	}
	return nil
}

// Config is the root document agenthostd loads at startup.
type Config struct {
	Sessions []SessionSpec        `yaml:"sessions,omitempty"`
	LLMs     map[string]LLMConfig `yaml:"llms,omitempty"`
	Agents   map[string]AgentConfig `yaml:"agents,omitempty"`
	Workflows map[string]WorkflowConfig `yaml:"workflows,omitempty"`
	Storage  StorageConfig        `yaml:"storage,omitempty"`
}

func (c *Config) SetDefaults() {
	for i := range c.Sessions {
		c.Sessions[i].SetDefaults()
	}
	for k, v := range c.LLMs {
		v.SetDefaults()
		c.LLMs[k] = v
	}
	for k, v := range c.Agents {
		v.SetDefaults()
		c.Agents[k] = v
	}
	for k, v := range c.Workflows {
		v.SetDefaults()
		c.Workflows[k] = v
	}
	c.Storage.SetDefaults()
}

func (c *Config) Validate() error {
	for _, s := range c.Sessions {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	for name, l := range c.LLMs {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("llm %q: %w", name, err)
		}
	}
	for name, a := range c.Agents {
		if a.Name == "" {
			a.Name = name
		}
		if err := a.Validate(); err != nil {
			return err
		}
		if _, ok := c.LLMs[a.LLM]; !ok {
			return errs.New(errs.ValidationError, "Config.Validate", fmt.Errorf("agent %q references unknown llm %q", name, a.LLM))
		}
	}
	for name, w := range c.Workflows {
		if w.Name == "" {
			w.Name = name
		}
		if err := w.Validate(); err != nil {
			return err
		}
		if w.Type == "sequential" {
			for _, agentName := range w.Agents {
				if _, ok := c.Agents[agentName]; !ok {
					return errs.New(errs.ValidationError, "Config.Validate", fmt.Errorf("workflow %q references unknown agent %q", w.Name, agentName))
				}
			}
		}
	}
	return c.Storage.Validate()
}

func (c *Config) GetAgent(name string) (AgentConfig, bool) {
	a, ok := c.Agents[name]
	return a, ok
}

func (c *Config) GetWorkflow(name string) (WorkflowConfig, bool) {
	w, ok := c.Workflows[name]
	return w, ok
}

func (c *Config) ListAgents() []string {
	names := make([]string, 0, len(c.Agents))
	for n := range c.Agents {
		names = append(names, n)
	}
	return names
}

func (c *Config) ListWorkflows() []string {
	names := make([]string, 0, len(c.Workflows))
	for n := range c.Workflows {
		names = append(names, n)
	}
	return names
}
