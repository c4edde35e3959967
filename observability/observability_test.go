package observability

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewMetrics_RegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) != 6 {
		t.Fatalf("expected 6 registered metric families, got %d", len(families))
	}
	ObserveDuration(m.ToolCallLatency, time.Now())
}

func TestNewLogger_DebugLevel(t *testing.T) {
	log := NewLogger(true)
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug logger to have debug level enabled")
	}
}
