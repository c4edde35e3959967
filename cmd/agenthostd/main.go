// Command agenthostd is the CLI for hostcore.
//
// Usage:
//
//	agenthostd serve --config agenthostd.yaml
//	agenthostd validate --config agenthostd.yaml
//	agenthostd version
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	hostcore "github.com/agentrt/hostcore"
	"github.com/agentrt/hostcore/agentloop"
	"github.com/agentrt/hostcore/capability"
	"github.com/agentrt/hostcore/config"
	"github.com/agentrt/hostcore/facade"
	"github.com/agentrt/hostcore/filtering"
	"github.com/agentrt/hostcore/host"
	"github.com/agentrt/hostcore/httpfacade"
	"github.com/agentrt/hostcore/llms"
	"github.com/agentrt/hostcore/observability"
	"github.com/agentrt/hostcore/storage"
	"github.com/agentrt/hostcore/transport"
	"github.com/prometheus/client_golang/prometheus"
)

// CLI defines the command-line interface as a struct-tag-driven kong
// layout.
type CLI struct {
	Version  VersionCmd  `cmd:"" help:"Show version information."`
	Serve    ServeCmd    `cmd:"" help:"Start the agent host server."`
	Validate ValidateCmd `cmd:"" help:"Validate a configuration file."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(hostcore.GetVersion().String())
	return nil
}

type ValidateCmd struct {
	Config string `short:"c" help:"Path to config file." type:"path" required:""`
}

func (c *ValidateCmd) Run() error {
	if _, err := config.LoadConfig(c.Config); err != nil {
		return err
	}
	fmt.Println("config OK")
	return nil
}

type ServeCmd struct {
	Config   string `short:"c" help:"Path to config file." type:"path" required:""`
	Port     int    `help:"HTTP facade port." default:"8080"`
	LogDebug bool   `name:"log-debug" help:"Enable debug logging."`
	Watch    bool   `help:"Watch config file for changes."`
}

func (c *ServeCmd) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	log := observability.NewLogger(c.LogDebug)
	reg := prometheus.NewRegistry()
	_ = observability.NewMetrics(reg)

	cfg, err := config.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	h := host.New(log)
	llmRegistry := llms.NewRegistry()
	store := buildStorage(cfg.Storage)
	fac := facade.New()

	for name, llmCfg := range cfg.LLMs {
		if _, err := llmRegistry.CreateFromConfig(name, &llms.Config{
			Type: llmCfg.Type, Model: llmCfg.Model, APIKey: llmCfg.APIKey,
			Host: llmCfg.Host, Temperature: llmCfg.Temperature,
			MaxTokens: llmCfg.MaxTokens, TimeoutSecs: llmCfg.TimeoutSecs,
		}); err != nil {
			return fmt.Errorf("llm %q: %w", name, err)
		}
	}

	for _, sess := range cfg.Sessions {
		spec := transport.Spec{
			Kind: transport.Kind(sess.Transport), Command: sess.Command, Args: sess.Args,
			Env: sess.Env, URL: sess.URL, Headers: sess.Headers, Timeout: sess.TimeoutSecs,
		}
		rule := filtering.Rule{Include: sess.Include, Exclude: sess.Exclude, Rename: sess.Rename}
		if _, err := h.RegisterSession(ctx, sess.ID, spec, rule, sess.Weight); err != nil {
			log.Error("failed to register session", "session", sess.ID, "error", err)
		}
	}

	agents := map[string]*agentloop.Agent{}
	for name, a := range cfg.Agents {
		provider, err := llmRegistry.Get(a.LLM)
		if err != nil {
			return fmt.Errorf("agent %q: %w", name, err)
		}
		loopCfg := agentloop.Config{
			Name: name, SystemPrompt: a.SystemPrompt, MaxIterations: a.MaxIterations,
			MaxConcurrentTools: a.MaxConcurrentTools, HistoryEnabled: a.HistoryEnabled,
		}
		ag := agentloop.New(loopCfg, provider, h.Capabilities(), store)
		agents[name] = ag
		fac.RegisterAgent(name, ag)
	}

	if err := wireWorkflows(fac, cfg, agents); err != nil {
		return err
	}

	if c.Watch {
		watcher, err := config.NewWatcher(c.Config, log)
		if err == nil {
			go watcher.Run(ctx, func(*config.Config) {
				log.Warn("config changed; restart agenthostd to apply session/agent changes")
			})
		}
	}

	mux := httpfacade.NewRouter(fac)
	srv := &http.Server{Addr: fmt.Sprintf(":%d", c.Port), Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = h.Shutdown(shutdownCtx)
	}()

	log.Info("agenthostd listening", "port", c.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func buildStorage(cfg config.StorageConfig) storage.Provider {
	if cfg.Backend == "sqlite" {
		p, err := storage.OpenSQLite(cfg.Path)
		if err == nil {
			return p
		}
	}
	return storage.NewMemoryProvider()
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli, kong.Name("agenthostd"), kong.Description("Host runtime for tool-augmented LLM agents."))
	if err := ctx.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
