// Package transport implements the wire-level MCP client transports: a
// stdio subprocess transport built on mark3labs/mcp-go, and a hand-rolled
// streamable-HTTP (JSON-RPC + SSE) transport for the same protocol
// variant.
package transport

import (
	"context"
	"encoding/json"

	"github.com/agentrt/hostcore/errs"
)

// RPCError is a JSON-RPC 2.0 error object, surfaced by the http_stream
// transport (the stdio transport gets typed errors from mcp-go directly).
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string { return e.Message }

// ToolSpec, PromptSpec and ResourceSpec are the wire-shaped descriptions
// the Host's capability managers index; they mirror the fields MCP's
// tools/list, prompts/list and resources/list responses carry.
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

type PromptSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ResourceSpec struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Transport is the minimal contract the Host needs from an MCP session's
// wire connection. Both the stdio and http_stream implementations satisfy
// it; the method set follows MCP's own tools/prompts/resources triad
// rather than a single opaque Call, since mark3labs/mcp-go's stdio client
// exposes exactly these typed operations and the http_stream client is
// written to match.
type Transport interface {
	ListTools(ctx context.Context) ([]ToolSpec, error)
	CallTool(ctx context.Context, name string, args map[string]any) (json.RawMessage, bool /*isError*/, error)

	ListPrompts(ctx context.Context) ([]PromptSpec, error)
	GetPrompt(ctx context.Context, name string, args map[string]string) (json.RawMessage, error)

	ListResources(ctx context.Context) ([]ResourceSpec, error)
	ReadResource(ctx context.Context, uri string) (json.RawMessage, error)

	// Close releases the underlying connection/process. Idempotent. Must be
	// called from the same supervision scope that called Dial.
	Close() error
}

// Kind identifies which wire variant a SessionSpec requests.
type Kind string

const (
	Stdio      Kind = "stdio"
	HTTPStream Kind = "http_stream"
)

// Spec describes how to dial one MCP server.
type Spec struct {
	Kind Kind

	// stdio
	Command string
	Args    []string
	Env     []string

	// http_stream
	URL     string
	Headers map[string]string
	Timeout int // seconds, 0 = library default
}

// Dial opens a Transport per the given Spec. The caller owns the
// returned Transport's lifetime and must Close it from the same scope
// that opened it — never across goroutines or sessions.
func Dial(ctx context.Context, spec Spec) (Transport, error) {
	switch spec.Kind {
	case Stdio:
		return dialStdio(ctx, spec)
	case HTTPStream:
		return dialHTTPStream(ctx, spec)
	default:
		return nil, errs.New(errs.ValidationError, "transport.Dial", nil)
	}
}
