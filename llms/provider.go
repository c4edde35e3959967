// Package llms implements the LLMAdapter contract and a small registry of
// concrete providers, constructed via a switch on config.Type, generalized
// to the canonical convo.Message/ToolCall shape instead of plain prompt
// strings.
package llms

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentrt/hostcore/convo"
	"github.com/agentrt/hostcore/errs"
)

// ToolDef is the schema an adapter advertises to the provider API for one
// callable tool.
type ToolDef struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Provider is the LLMAdapter contract every concrete provider satisfies.
type Provider interface {
	// Generate produces the next assistant Message given the conversation
	// so far and the tools available to call.
	Generate(ctx context.Context, messages []convo.Message, tools []ToolDef) (convo.Message, error)
	// GenerateStreaming is the incremental form, pushing convo.StreamEvent
	// values as they arrive. The mock adapter reports tool calls as
	// EventToolCall events; the anthropic and openai adapters push text
	// tokens only and do not report tool calls, and the ollama adapter
	// sends the whole reply as one token event.
	GenerateStreaming(ctx context.Context, messages []convo.Message, tools []ToolDef) (<-chan convo.StreamEvent, error)
	ModelName() string
	Close() error
}

// Config describes one LLM provider's construction parameters.
type Config struct {
	Type        string // "anthropic", "openai", "ollama", "mock"
	Model       string
	APIKey      string
	Host        string
	Temperature float64
	MaxTokens   int
	TimeoutSecs int
}

// SetDefaults fills in provider-specific defaults.
func (c *Config) SetDefaults() {
	if c.Type == "" {
		c.Type = "ollama"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = 60
	}
	switch c.Type {
	case "ollama":
		if c.Host == "" {
			c.Host = "http://localhost:11434"
		}
		if c.Model == "" {
			c.Model = "llama3.1"
		}
	case "anthropic":
		if c.Model == "" {
			c.Model = "claude-3-5-sonnet-latest"
		}
	case "openai":
		if c.Model == "" {
			c.Model = "gpt-4o-mini"
		}
	}
}

// Validate reports whether c is usable.
func (c *Config) Validate() error {
	switch c.Type {
	case "anthropic", "openai":
		if c.APIKey == "" {
			return errs.New(errs.ValidationError, "Config.Validate", fmt.Errorf("%s requires an API key", c.Type))
		}
	case "ollama", "mock":
	default:
		return errs.New(errs.ValidationError, "Config.Validate", fmt.Errorf("unsupported LLM type %q", c.Type))
	}
	return nil
}

// Registry holds constructed providers by name behind a plain
// mutex-guarded map.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// CreateFromConfig builds, registers, and returns a provider for name.
func (r *Registry) CreateFromConfig(name string, cfg *Config) (Provider, error) {
	if name == "" {
		return nil, errs.New(errs.ValidationError, "Registry.CreateFromConfig", fmt.Errorf("name required"))
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var provider Provider
	var err error
	switch cfg.Type {
	case "anthropic":
		provider, err = newAnthropicProvider(cfg)
	case "openai":
		provider, err = newOpenAIProvider(cfg)
	case "ollama":
		provider, err = newOllamaProvider(cfg)
	case "mock":
		provider = newMockProvider(cfg)
	default:
		return nil, errs.New(errs.ValidationError, "Registry.CreateFromConfig", fmt.Errorf("unsupported LLM type: %s", cfg.Type))
	}
	if err != nil {
		return nil, errs.New(errs.LLMProviderError, "Registry.CreateFromConfig", err)
	}

	r.mu.Lock()
	r.providers[name] = provider
	r.mu.Unlock()
	return provider, nil
}

func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, errs.New(errs.NotFound, "Registry.Get", fmt.Errorf("LLM provider %q not found", name))
	}
	return p, nil
}

func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	return names
}
