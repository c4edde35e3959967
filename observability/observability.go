// Package observability wires up the ambient logging, metrics, and
// tracing stack: log/slog, prometheus/client_golang, and
// go.opentelemetry.io/otel.
package observability

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// NewLogger builds a structured JSON slog.Logger for a single
// process-wide handler.
func NewLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// Metrics is the set of prometheus collectors for session lifecycle, tool
// calls, agent iterations and workflow steps. NewMetrics registers them;
// no package in this module records values to them.
type Metrics struct {
	SessionsReady   prometheus.Counter
	SessionsFailed  prometheus.Counter
	ToolCallLatency prometheus.Histogram
	ToolCallErrors  prometheus.Counter
	AgentIterations prometheus.Histogram
	WorkflowSteps   prometheus.Histogram
}

// NewMetrics registers every collector against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsReady: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agenthostd_sessions_ready_total",
			Help: "Sessions that reached the ready state.",
		}),
		SessionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agenthostd_sessions_failed_total",
			Help: "Sessions that failed to reach the ready state.",
		}),
		ToolCallLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "agenthostd_tool_call_duration_seconds",
			Help:    "Tool call duration.",
			Buckets: prometheus.DefBuckets,
		}),
		ToolCallErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agenthostd_tool_call_errors_total",
			Help: "Tool calls that returned an error result.",
		}),
		AgentIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "agenthostd_agent_iterations",
			Help:    "Iterations consumed per agent run.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
		WorkflowSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "agenthostd_workflow_step_duration_seconds",
			Help:    "Per-step duration within a workflow run.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.SessionsReady, m.SessionsFailed, m.ToolCallLatency, m.ToolCallErrors, m.AgentIterations, m.WorkflowSteps)
	return m
}

// NewTracerProvider builds a minimal otel SDK TracerProvider. Exporters
// are left to the caller (e.g. wired to an OTLP endpoint in production);
// tests use the default no-op exporter behavior of an empty
// TracerProvider.
func NewTracerProvider() *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
}

// Tracer returns the named tracer from the global otel provider, for
// span names like "host.session", "agent.run", "tool.call".
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartSpan is a small convenience wrapper so call sites don't repeat the
// otel.Tracer(...).Start(ctx, name) pair.
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	return Tracer(tracerName).Start(ctx, spanName)
}

// ObserveDuration records elapsed time since start into h, a small helper
// used at defer sites: defer observability.ObserveDuration(m.ToolCallLatency, time.Now()).
func ObserveDuration(h prometheus.Histogram, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}
