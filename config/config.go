package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads, env-expands, defaults and validates the complete
// configuration from a YAML file.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return LoadConfigFromString(string(data))
}

// LoadConfigFromString loads configuration from a YAML string.
func LoadConfigFromString(yamlContent string) (*Config, error) {
	expanded := expandEnvVars(yamlContent)
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Watcher reloads a config file on change and invokes onChange with the
// newly validated Config. Invalid reloads are logged and skipped, leaving
// the previous Config in effect.
type Watcher struct {
	path     string
	log      *slog.Logger
	notify   *fsnotify.Watcher
}

// NewWatcher starts watching path for changes. Call Run to begin
// dispatching reloads; cancel ctx to stop.
func NewWatcher(path string, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start config watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return &Watcher{path: path, log: log, notify: w}, nil
}

// Run blocks, invoking onChange on every successful reload, until ctx is
// cancelled.
func (w *Watcher) Run(ctx context.Context, onChange func(*Config)) {
	defer w.notify.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.notify.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := LoadConfig(w.path)
			if err != nil {
				w.log.Error("config reload failed, keeping previous config", "path", w.path, "error", err)
				continue
			}
			w.log.Info("config reloaded", "path", w.path)
			onChange(cfg)
		case err, ok := <-w.notify.Errors:
			if !ok {
				return
			}
			w.log.Error("config watcher error", "error", err)
		}
	}
}
