// Package examples implements a handful of concrete coding-assistant
// tools (read a file, search text) as a local, in-process
// transport.Transport implementation: a realistic illustration of a
// non-MCP ToolSource registered alongside MCP-sourced sessions, exercised
// by this package's tests.
package examples

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentrt/hostcore/errs"
	"github.com/agentrt/hostcore/roots"
	"github.com/agentrt/hostcore/transport"
	"github.com/invopop/jsonschema"
)

// readFileArgs and searchTextArgs back generateSchema's reflection: the
// jsonschema struct tags are the single source of truth for each tool's
// wire-level input schema, instead of a hand-written JSON literal that can
// drift from the args a handler actually reads.
type readFileArgs struct {
	Path string `json:"path" jsonschema:"required,description=Path to the file to read"`
}

type searchTextArgs struct {
	Path  string `json:"path" jsonschema:"required,description=Root directory to search under"`
	Query string `json:"query" jsonschema:"required,description=Substring to search for"`
}

var schemaReflector = &jsonschema.Reflector{
	RequiredFromJSONSchemaTags: true,
	ExpandedStruct:             true,
	DoNotReference:             true,
}

func generateSchema[T any]() json.RawMessage {
	raw, err := json.Marshal(schemaReflector.Reflect(new(T)))
	if err != nil {
		// Reflection over a fixed, local struct type cannot fail at
		// runtime; a non-nil error here would mean the struct itself is
		// malformed, which is a compile-time concern.
		panic(err)
	}
	return raw
}

// LocalToolSource exposes a handful of filesystem-scoped tools directly
// in-process, without a subprocess or network hop, satisfying
// transport.Transport so the Host can register it through the same
// RegisterSession path as any MCP session.
type LocalToolSource struct {
	root *roots.Manager
}

// NewLocalToolSource scopes every tool's filesystem access to the given
// root directories.
func NewLocalToolSource(allowedRoots []string) *LocalToolSource {
	return &LocalToolSource{root: roots.New(allowedRoots)}
}

func (s *LocalToolSource) ListTools(ctx context.Context) ([]transport.ToolSpec, error) {
	return []transport.ToolSpec{
		{
			Name:        "read_file",
			Description: "Read a UTF-8 text file within an allowed root.",
			InputSchema: generateSchema[readFileArgs](),
		},
		{
			Name:        "search_text",
			Description: "Search for a substring across files under an allowed root.",
			InputSchema: generateSchema[searchTextArgs](),
		},
	}, nil
}

func (s *LocalToolSource) CallTool(ctx context.Context, name string, args map[string]any) (json.RawMessage, bool, error) {
	switch name {
	case "read_file":
		path, _ := args["path"].(string)
		if !s.root.Allowed(path) {
			return nil, true, errs.New(errs.AccessDenied, "LocalToolSource.read_file", nil)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return resultError(err), true, nil
		}
		return resultText(string(data)), false, nil
	case "search_text":
		path, _ := args["path"].(string)
		query, _ := args["query"].(string)
		if !s.root.Allowed(path) {
			return nil, true, errs.New(errs.AccessDenied, "LocalToolSource.search_text", nil)
		}
		matches, err := searchText(path, query)
		if err != nil {
			return resultError(err), true, nil
		}
		return resultText(strings.Join(matches, "\n")), false, nil
	default:
		return nil, true, errs.New(errs.ToolNotFound, "LocalToolSource.CallTool", nil)
	}
}

func searchText(root, query string) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		if strings.Contains(string(data), query) {
			matches = append(matches, path)
		}
		return nil
	})
	return matches, err
}

func resultText(text string) json.RawMessage {
	raw, _ := json.Marshal([]map[string]string{{"type": "text", "text": text}})
	return raw
}

func resultError(err error) json.RawMessage {
	return resultText(fmt.Sprintf("error: %v", err))
}

func (s *LocalToolSource) ListPrompts(ctx context.Context) ([]transport.PromptSpec, error) {
	return nil, nil
}

func (s *LocalToolSource) GetPrompt(ctx context.Context, name string, args map[string]string) (json.RawMessage, error) {
	return nil, errs.New(errs.NotFound, "LocalToolSource.GetPrompt", nil)
}

func (s *LocalToolSource) ListResources(ctx context.Context) ([]transport.ResourceSpec, error) {
	return nil, nil
}

func (s *LocalToolSource) ReadResource(ctx context.Context, uri string) (json.RawMessage, error) {
	return nil, errs.New(errs.NotFound, "LocalToolSource.ReadResource", nil)
}

func (s *LocalToolSource) Close() error { return nil }
