package transport

import (
	"context"
	"testing"
)

func TestDial_UnsupportedKindReturnsValidationError(t *testing.T) {
	if _, err := Dial(context.Background(), Spec{Kind: "carrier-pigeon"}); err == nil {
		t.Fatal("expected an error for an unsupported transport kind")
	}
}

func TestDial_StdioNonexistentCommandFails(t *testing.T) {
	_, err := Dial(context.Background(), Spec{Kind: Stdio, Command: "/nonexistent/mcp-server-binary"})
	if err == nil {
		t.Fatal("expected dialing a nonexistent stdio command to fail")
	}
}
