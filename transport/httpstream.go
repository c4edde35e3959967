package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/agentrt/hostcore/errs"
	"github.com/google/uuid"
)

// httpStreamTransport is a hand-rolled JSON-RPC-over-HTTP client with SSE
// response draining. It is kept bespoke rather than swapped for a generic
// SSE library since there is no dedicated client for this exact
// session-bearing streamable-HTTP MCP variant.
type httpStreamTransport struct {
	url     string
	headers map[string]string
	client  *http.Client

	sessionMu sync.RWMutex
	sessionID string
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

func dialHTTPStream(ctx context.Context, spec Spec) (Transport, error) {
	timeout := 30 * time.Second
	if spec.Timeout > 0 {
		timeout = time.Duration(spec.Timeout) * time.Second
	}
	t := &httpStreamTransport{
		url:     spec.URL,
		headers: spec.Headers,
		client:  &http.Client{Timeout: timeout},
	}
	initParams, _ := json.Marshal(map[string]any{
		"protocolVersion": "2024-11-05",
		"clientInfo":      map[string]string{"name": "agenthostd", "version": "1.0.0"},
		"capabilities":    map[string]any{},
	})
	// Tolerant of initialize failure: some servers skip a handshake and go
	// straight to tools/list.
	_, _ = t.makeRequest(ctx, "initialize", initParams)
	return t, nil
}

func (t *httpStreamTransport) makeRequest(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, error) {
	req := rpcRequest{JSONRPC: "2.0", ID: uuid.NewString(), Method: method, Params: params}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errs.New(errs.ValidationError, "httpStreamTransport.makeRequest", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return nil, errs.New(errs.TransportUnavailable, "httpStreamTransport.makeRequest", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json, text/event-stream")
	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	t.sessionMu.RLock()
	if t.sessionID != "" {
		httpReq.Header.Set("mcp-session-id", t.sessionID)
	}
	t.sessionMu.RUnlock()

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, errs.New(errs.TransportUnavailable, "httpStreamTransport.makeRequest", err)
	}
	defer resp.Body.Close()

	if sid := resp.Header.Get("mcp-session-id"); sid != "" {
		t.sessionMu.Lock()
		t.sessionID = sid
		t.sessionMu.Unlock()
	}

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return nil, errs.New(errs.ProtocolError, "httpStreamTransport.makeRequest",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(data)))
	}

	var rawResult json.RawMessage
	if strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		rawResult, err = readSSEResponse(ctx, resp.Body, req.ID)
	} else {
		var rpcResp rpcResponse
		if decErr := json.NewDecoder(resp.Body).Decode(&rpcResp); decErr != nil {
			return nil, errs.New(errs.ProtocolError, "httpStreamTransport.makeRequest", decErr)
		}
		if rpcResp.Error != nil {
			return nil, errs.New(errs.ProtocolError, "httpStreamTransport.makeRequest", rpcResp.Error)
		}
		rawResult = rpcResp.Result
	}
	if err != nil {
		return nil, err
	}
	return rawResult, nil
}

// readSSEResponse drains a text/event-stream body for the single
// "data: {...}" JSON-RPC response frame matching wantID, grounded on
// pkg/tools/mcp.go's readSSEResponse goroutine+channel+timeout pattern.
func readSSEResponse(ctx context.Context, body io.Reader, wantID string) (json.RawMessage, error) {
	type result struct {
		resp rpcResponse
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		reader := bufio.NewReader(body)
		for {
			line, err := reader.ReadBytes('\n')
			if bytes.HasPrefix(bytes.TrimSpace(line), []byte("data:")) {
				trimmed := bytes.TrimSpace(bytes.TrimPrefix(bytes.TrimSpace(line), []byte("data:")))
				var rpcResp rpcResponse
				if jsonErr := json.Unmarshal(trimmed, &rpcResp); jsonErr == nil {
					if rpcResp.ID == wantID || wantID == "" {
						ch <- result{resp: rpcResp}
						return
					}
				}
			}
			if err != nil {
				ch <- result{err: errs.New(errs.ProtocolError, "readSSEResponse", err)}
				return
			}
		}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		if r.resp.Error != nil {
			return nil, errs.New(errs.ProtocolError, "readSSEResponse", r.resp.Error)
		}
		return r.resp.Result, nil
	case <-ctx.Done():
		return nil, errs.New(errs.Cancelled, "readSSEResponse", ctx.Err())
	case <-time.After(30 * time.Second):
		return nil, errs.New(errs.Timeout, "readSSEResponse", nil)
	}
}

func (t *httpStreamTransport) ListTools(ctx context.Context) ([]ToolSpec, error) {
	raw, err := t.makeRequest(ctx, "tools/list", nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Tools []ToolSpec `json:"tools"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errs.New(errs.ProtocolError, "httpStreamTransport.ListTools", err)
	}
	return payload.Tools, nil
}

func (t *httpStreamTransport) CallTool(ctx context.Context, name string, args map[string]any) (json.RawMessage, bool, error) {
	params, _ := json.Marshal(map[string]any{"name": name, "arguments": args})
	raw, err := t.makeRequest(ctx, "tools/call", params)
	if err != nil {
		return nil, false, err
	}
	var payload struct {
		Content json.RawMessage `json:"content"`
		IsError bool            `json:"isError"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return raw, false, nil
	}
	return payload.Content, payload.IsError, nil
}

func (t *httpStreamTransport) ListPrompts(ctx context.Context) ([]PromptSpec, error) {
	raw, err := t.makeRequest(ctx, "prompts/list", nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Prompts []PromptSpec `json:"prompts"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errs.New(errs.ProtocolError, "httpStreamTransport.ListPrompts", err)
	}
	return payload.Prompts, nil
}

func (t *httpStreamTransport) GetPrompt(ctx context.Context, name string, args map[string]string) (json.RawMessage, error) {
	params, _ := json.Marshal(map[string]any{"name": name, "arguments": args})
	return t.makeRequest(ctx, "prompts/get", params)
}

func (t *httpStreamTransport) ListResources(ctx context.Context) ([]ResourceSpec, error) {
	raw, err := t.makeRequest(ctx, "resources/list", nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Resources []ResourceSpec `json:"resources"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errs.New(errs.ProtocolError, "httpStreamTransport.ListResources", err)
	}
	return payload.Resources, nil
}

func (t *httpStreamTransport) ReadResource(ctx context.Context, uri string) (json.RawMessage, error) {
	params, _ := json.Marshal(map[string]any{"uri": uri})
	return t.makeRequest(ctx, "resources/read", params)
}

func (t *httpStreamTransport) Close() error {
	return nil
}
