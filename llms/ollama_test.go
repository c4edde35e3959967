package llms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentrt/hostcore/convo"
)

func TestOllamaProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Fatalf("expected /api/chat, got %s", r.URL.Path)
		}
		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "llama3.1" {
			t.Fatalf("expected model llama3.1, got %s", req.Model)
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaChatMessage{Role: "assistant", Content: "hi there"},
			Done:    true,
		})
	}))
	defer srv.Close()

	cfg := &Config{Type: "ollama", Model: "llama3.1", Host: srv.URL, TimeoutSecs: 5}
	p, err := newOllamaProvider(cfg)
	if err != nil {
		t.Fatalf("newOllamaProvider: %v", err)
	}

	msg, err := p.Generate(context.Background(), []convo.Message{{Role: convo.RoleUser, Content: "hi"}}, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if msg.Content != "hi there" {
		t.Fatalf("expected 'hi there', got %q", msg.Content)
	}
}

func TestOllamaProvider_GenerateStreamingEmitsTokenThenDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaChatResponse{Message: ollamaChatMessage{Content: "streamed"}})
	}))
	defer srv.Close()

	cfg := &Config{Type: "ollama", Model: "llama3.1", Host: srv.URL, TimeoutSecs: 5}
	p, _ := newOllamaProvider(cfg)

	ch, err := p.GenerateStreaming(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("GenerateStreaming: %v", err)
	}
	first := <-ch
	if first.Kind != convo.EventToken || first.Token != "streamed" {
		t.Fatalf("expected a token event with 'streamed', got %+v", first)
	}
	second := <-ch
	if second.Kind != convo.EventDone {
		t.Fatalf("expected a done event, got %+v", second)
	}
}

func TestOllamaProvider_GenerateErrorStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := &Config{Type: "ollama", Model: "llama3.1", Host: srv.URL, TimeoutSecs: 5}
	p, _ := newOllamaProvider(cfg)

	if _, err := p.Generate(context.Background(), nil, nil); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}
