package workflow

import (
	"context"
	"fmt"
	"net/rpc"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentrt/hostcore/errs"
	plugin "github.com/hashicorp/go-plugin"
)

// FacadeHandle is the narrow subset of the ExecutionFacade meant for
// workflow code: running another agent or workflow by name, without
// reaching into Host internals. Custom.Execute does not pass it to the
// plugin process; a plugin receives only the input string.
type FacadeHandle interface {
	RunAgent(ctx context.Context, name, sessionKey, input string) (string, error)
	RunWorkflow(ctx context.Context, name, input string) (Result, error)
}

// CustomPlugin is the RPC contract a CustomWorkflow plugin binary
// implements, grounded on hashicorp/go-plugin's net/rpc plugin pattern.
type CustomPlugin interface {
	Execute(input string) (string, error)
}

// pluginRPCClient is the client-side stub Dispense returns.
type pluginRPCClient struct{ client *rpc.Client }

func (c *pluginRPCClient) Execute(input string) (string, error) {
	var resp string
	err := c.client.Call("Plugin.Execute", input, &resp)
	return resp, err
}

// pluginRPCServer is the server-side stub a plugin binary registers,
// provided here so a plugin author only needs to implement CustomPlugin
// and call workflow.Serve(impl) from their main().
type pluginRPCServer struct{ Impl CustomPlugin }

func (s *pluginRPCServer) Execute(input string, resp *string) error {
	out, err := s.Impl.Execute(input)
	*resp = out
	return err
}

type customPluginPlugin struct {
	Impl CustomPlugin
}

func (p *customPluginPlugin) Server(*plugin.MuxBroker) (any, error) {
	return &pluginRPCServer{Impl: p.Impl}, nil
}

func (p *customPluginPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &pluginRPCClient{client: c}, nil
}

var handshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "AGENTHOSTD_WORKFLOW_PLUGIN",
	MagicCookieValue: "agenthostd",
}

// Serve is called from a plugin binary's main() to start serving impl
// over go-plugin's RPC transport.
func Serve(impl CustomPlugin) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: handshakeConfig,
		Plugins:         map[string]plugin.Plugin{"custom_workflow": &customPluginPlugin{Impl: impl}},
	})
}

// Custom runs user-supplied workflow code as a separate plugin process,
// with the project-root containment check enforced in-process before the
// plugin is ever spawned: a path that escapes the project root is
// rejected as a PolicyViolation rather than handed to exec.Command.
type Custom struct {
	Name       string
	ProjectRoot string
	PluginPath string // project-root relative
}

// Execute spawns a fresh plugin process and runs input through it,
// tearing the process down when ctx is cancelled or the call returns — the same
// structured-concurrency discipline as transport sessions: whoever opens
// the plugin process in this call is who closes it.
func (c *Custom) Execute(ctx context.Context, input string) (Result, error) {
	absRoot, err := filepath.Abs(c.ProjectRoot)
	if err != nil {
		return Result{}, errs.New(errs.ValidationError, "Custom.Execute", err)
	}
	absPlugin := filepath.Join(absRoot, c.PluginPath)
	cleanPlugin, err := filepath.Abs(absPlugin)
	if err != nil {
		return Result{}, errs.New(errs.ValidationError, "Custom.Execute", err)
	}
	if !strings.HasPrefix(cleanPlugin, absRoot+string(filepath.Separator)) && cleanPlugin != absRoot {
		return Result{}, errs.New(errs.PolicyViolation, "Custom.Execute",
			fmt.Errorf("plugin path %q escapes project root %q", c.PluginPath, c.ProjectRoot))
	}

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: handshakeConfig,
		Plugins:         map[string]plugin.Plugin{"custom_workflow": &customPluginPlugin{}},
		Cmd:             exec.Command(cleanPlugin),
	})
	defer client.Kill()

	rpcClient, err := client.Client()
	if err != nil {
		return Result{}, errs.New(errs.ToolExecutionError, "Custom.Execute", err)
	}
	raw, err := rpcClient.Dispense("custom_workflow")
	if err != nil {
		return Result{}, errs.New(errs.ToolExecutionError, "Custom.Execute", err)
	}
	impl, ok := raw.(CustomPlugin)
	if !ok {
		return Result{}, errs.New(errs.ToolExecutionError, "Custom.Execute", fmt.Errorf("plugin did not satisfy CustomPlugin"))
	}

	start := time.Now()
	var output string
	done := make(chan error, 1)
	go func() {
		var execErr error
		output, execErr = impl.Execute(input)
		done <- execErr
	}()
	select {
	case err = <-done:
	case <-ctx.Done():
		return Result{WorkflowName: c.Name, Status: StatusCancelled, Duration: time.Since(start)},
			errs.New(errs.Cancelled, "Custom.Execute", ctx.Err())
	}
	dur := time.Since(start)
	if err != nil {
		return Result{WorkflowName: c.Name, Status: StatusFailed, Errors: []string{err.Error()}, Duration: dur},
			errs.New(errs.ToolExecutionError, "Custom.Execute", err)
	}
	return Result{WorkflowName: c.Name, Status: StatusCompleted, Output: output, Duration: dur}, nil
}
