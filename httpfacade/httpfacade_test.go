package httpfacade

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentrt/hostcore/agentloop"
	"github.com/agentrt/hostcore/capability"
	"github.com/agentrt/hostcore/convo"
	"github.com/agentrt/hostcore/facade"
	"github.com/agentrt/hostcore/llms"
)

func TestRouter_RunAgent(t *testing.T) {
	provider := llms.NewMock(convo.Message{Role: convo.RoleAssistant, Content: "pong"})
	a := agentloop.New(agentloop.Config{Name: "pinger"}, provider, capability.NewManager(), nil)
	fac := facade.New()
	fac.RegisterAgent("pinger", a)

	srv := httptest.NewServer(NewRouter(fac))
	defer srv.Close()

	body, _ := json.Marshal(runRequest{Input: "ping"})
	resp, err := http.Post(srv.URL+"/agents/pinger/run", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["output"] != "pong" {
		t.Fatalf("expected output 'pong', got %q", out["output"])
	}
}

func TestRouter_RunAgentUnknownNameReturnsError(t *testing.T) {
	fac := facade.New()
	srv := httptest.NewServer(NewRouter(fac))
	defer srv.Close()

	body, _ := json.Marshal(runRequest{Input: "ping"})
	resp, err := http.Post(srv.URL+"/agents/ghost/run", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRouter_Healthz(t *testing.T) {
	fac := facade.New()
	srv := httptest.NewServer(NewRouter(fac))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
