package llms

import (
	"context"
	"testing"

	"github.com/agentrt/hostcore/convo"
)

func TestMockProvider_ScriptedResponsesInOrder(t *testing.T) {
	p := NewMock(
		convo.Message{Role: convo.RoleAssistant, Content: "first"},
		convo.Message{Role: convo.RoleAssistant, Content: "second"},
	)
	m1, err := p.Generate(context.Background(), nil, nil)
	if err != nil || m1.Content != "first" {
		t.Fatalf("expected first scripted response, got %+v, err=%v", m1, err)
	}
	m2, _ := p.Generate(context.Background(), nil, nil)
	if m2.Content != "second" {
		t.Fatalf("expected second scripted response, got %+v", m2)
	}
	m3, _ := p.Generate(context.Background(), nil, nil)
	if m3.Content != "done" {
		t.Fatalf("expected fallback 'done' once scripts are exhausted, got %+v", m3)
	}
}

func TestConfig_ValidateRejectsMissingAPIKey(t *testing.T) {
	cfg := &Config{Type: "anthropic"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected anthropic without an API key to fail validation")
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()
	if cfg.Type != "ollama" {
		t.Fatalf("expected default type ollama, got %q", cfg.Type)
	}
	if cfg.MaxTokens == 0 {
		t.Fatal("expected a nonzero default MaxTokens")
	}
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r := NewRegistry()
	if _, err := r.CreateFromConfig("m", &Config{Type: "mock"}); err != nil {
		t.Fatalf("CreateFromConfig: %v", err)
	}
	p, err := r.Get("m")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.ModelName() == "" {
		t.Fatal("expected a non-empty model name")
	}
}

func TestRegistry_GetUnknownReturnsNotFound(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("missing"); err == nil {
		t.Fatal("expected an error for an unregistered provider name")
	}
}
