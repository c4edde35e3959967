package llms

import (
	"testing"

	"github.com/agentrt/hostcore/convo"
	"github.com/anthropics/anthropic-sdk-go"
)

func TestToAnthropicMessages_MapsUserAssistantTool(t *testing.T) {
	in := []convo.Message{
		{Role: convo.RoleUser, Content: "what's the weather?"},
		{Role: convo.RoleAssistant, Content: "let me check"},
		{Role: convo.RoleTool, ToolResult: &convo.ToolResult{CallID: "call1", Content: "sunny", IsError: false}},
	}
	out := toAnthropicMessages(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(out))
	}
}

func TestToAnthropicMessages_SkipsToolRoleWithoutResult(t *testing.T) {
	in := []convo.Message{{Role: convo.RoleTool}}
	out := toAnthropicMessages(in)
	if len(out) != 0 {
		t.Fatalf("expected a tool message with a nil ToolResult to be skipped, got %d messages", len(out))
	}
}

func TestToAnthropicTools_OneEntryPerToolDef(t *testing.T) {
	tools := []ToolDef{{
		Name:        "read_file",
		Description: "reads a file",
		InputSchema: map[string]any{"properties": map[string]any{"path": map[string]any{"type": "string"}}},
	}}
	out := toAnthropicTools(tools)
	if len(out) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(out))
	}
}

func TestFromAnthropicResponse_EmptyContentYieldsEmptyMessage(t *testing.T) {
	// fromAnthropicResponse walks resp.Content via AsAny(); a response with
	// no content blocks should yield a bare assistant message rather than
	// panicking. Tool-use extraction is not covered by a test here, since
	// constructing a real anthropic.Message requires the SDK's internal
	// union wire format.
	out := fromAnthropicResponse(&anthropic.Message{})
	if out.Role != convo.RoleAssistant {
		t.Fatalf("expected assistant role, got %v", out.Role)
	}
	if out.Content != "" || len(out.ToolCalls) != 0 {
		t.Fatalf("expected an empty message for empty content, got %+v", out)
	}
}
