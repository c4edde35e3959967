package transport

import (
	"context"
	"encoding/json"

	"github.com/agentrt/hostcore/errs"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// stdioTransport wraps a subprocess MCP server spoken to over
// mark3labs/mcp-go's stdio client, grounded on
// pkg/tool/mcptoolset/mcptoolset.go's connectStdio path.
type stdioTransport struct {
	cli *client.Client
}

func dialStdio(ctx context.Context, spec Spec) (Transport, error) {
	cli, err := client.NewStdioMCPClient(spec.Command, spec.Env, spec.Args...)
	if err != nil {
		return nil, errs.New(errs.TransportUnavailable, "transport.dialStdio", err)
	}
	if err := cli.Start(ctx); err != nil {
		return nil, errs.New(errs.TransportUnavailable, "transport.dialStdio", err)
	}
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = "2024-11-05"
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "agenthostd",
		Version: "1.0.0",
	}
	if _, err := cli.Initialize(ctx, initReq); err != nil {
		_ = cli.Close()
		return nil, errs.New(errs.ProtocolError, "transport.dialStdio", err)
	}
	return &stdioTransport{cli: cli}, nil
}

func (t *stdioTransport) ListTools(ctx context.Context) ([]ToolSpec, error) {
	resp, err := t.cli.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, errs.New(errs.ProtocolError, "stdioTransport.ListTools", err)
	}
	out := make([]ToolSpec, 0, len(resp.Tools))
	for _, tl := range resp.Tools {
		schema, _ := json.Marshal(tl.InputSchema)
		out = append(out, ToolSpec{Name: tl.Name, Description: tl.Description, InputSchema: schema})
	}
	return out, nil
}

func (t *stdioTransport) CallTool(ctx context.Context, name string, args map[string]any) (json.RawMessage, bool, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	resp, err := t.cli.CallTool(ctx, req)
	if err != nil {
		return nil, false, errs.New(errs.ToolExecutionError, "stdioTransport.CallTool", err)
	}
	raw, _ := json.Marshal(resp.Content)
	return raw, resp.IsError, nil
}

func (t *stdioTransport) ListPrompts(ctx context.Context) ([]PromptSpec, error) {
	resp, err := t.cli.ListPrompts(ctx, mcp.ListPromptsRequest{})
	if err != nil {
		return nil, errs.New(errs.ProtocolError, "stdioTransport.ListPrompts", err)
	}
	out := make([]PromptSpec, 0, len(resp.Prompts))
	for _, p := range resp.Prompts {
		out = append(out, PromptSpec{Name: p.Name, Description: p.Description})
	}
	return out, nil
}

func (t *stdioTransport) GetPrompt(ctx context.Context, name string, args map[string]string) (json.RawMessage, error) {
	req := mcp.GetPromptRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	resp, err := t.cli.GetPrompt(ctx, req)
	if err != nil {
		return nil, errs.New(errs.ProtocolError, "stdioTransport.GetPrompt", err)
	}
	raw, _ := json.Marshal(resp.Messages)
	return raw, nil
}

func (t *stdioTransport) ListResources(ctx context.Context) ([]ResourceSpec, error) {
	resp, err := t.cli.ListResources(ctx, mcp.ListResourcesRequest{})
	if err != nil {
		return nil, errs.New(errs.ProtocolError, "stdioTransport.ListResources", err)
	}
	out := make([]ResourceSpec, 0, len(resp.Resources))
	for _, r := range resp.Resources {
		out = append(out, ResourceSpec{URI: r.URI, Name: r.Name, Description: r.Description, MimeType: r.MIMEType})
	}
	return out, nil
}

func (t *stdioTransport) ReadResource(ctx context.Context, uri string) (json.RawMessage, error) {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	resp, err := t.cli.ReadResource(ctx, req)
	if err != nil {
		return nil, errs.New(errs.ProtocolError, "stdioTransport.ReadResource", err)
	}
	raw, _ := json.Marshal(resp.Contents)
	return raw, nil
}

func (t *stdioTransport) Close() error {
	return t.cli.Close()
}
