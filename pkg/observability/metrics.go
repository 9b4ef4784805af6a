package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
	// Registry defaults to a fresh registry so tests can call InitMetrics repeatedly.
	Registry *prometheus.Registry
}

// InitMetrics wires an OpenTelemetry MeterProvider to a Prometheus exporter
// and returns the provider plus the /metrics handler serving it.
func InitMetrics(cfg MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("observability: create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return provider, handler, nil
}

// EngineMetrics holds the counters emitted by the underwriting engine.
// A nil *EngineMetrics is valid and records nothing.
type EngineMetrics struct {
	classifications metric.Int64Counter
	reconciliations metric.Int64Counter
	migrations      metric.Int64Counter
	cacheLookups    metric.Int64Counter
	outboxRelayed   metric.Int64Counter
}

// NewEngineMetrics registers the engine instruments on the given meter.
func NewEngineMetrics(meter metric.Meter) (*EngineMetrics, error) {
	classifications, err := meter.Int64Counter("underwriting_classifications_total",
		metric.WithDescription("Applicant classifications by tier and gate"))
	if err != nil {
		return nil, fmt.Errorf("observability: classifications counter: %w", err)
	}
	reconciliations, err := meter.Int64Counter("underwriting_reconciliations_total",
		metric.WithDescription("Approval reconciliations by detected record shape"))
	if err != nil {
		return nil, fmt.Errorf("observability: reconciliations counter: %w", err)
	}
	migrations, err := meter.Int64Counter("underwriting_legacy_migrations_total",
		metric.WithDescription("Decisions rewritten from the legacy approval shape"))
	if err != nil {
		return nil, fmt.Errorf("observability: migrations counter: %w", err)
	}
	cacheLookups, err := meter.Int64Counter("underwriting_classification_cache_lookups_total",
		metric.WithDescription("Classification cache lookups by result"))
	if err != nil {
		return nil, fmt.Errorf("observability: cache counter: %w", err)
	}

	outboxRelayed, err := meter.Int64Counter("underwriting_outbox_events_relayed_total",
		metric.WithDescription("Outbox events delivered to the broker"))
	if err != nil {
		return nil, fmt.Errorf("observability: outbox counter: %w", err)
	}

	return &EngineMetrics{
		classifications: classifications,
		reconciliations: reconciliations,
		migrations:      migrations,
		cacheLookups:    cacheLookups,
		outboxRelayed:   outboxRelayed,
	}, nil
}

// RecordClassification counts one classifier outcome.
func (m *EngineMetrics) RecordClassification(ctx context.Context, tier, gateID string) {
	if m == nil {
		return
	}
	m.classifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tier", tier),
		attribute.String("gate", gateID),
	))
}

// RecordReconciliation counts one read-time reconciliation.
func (m *EngineMetrics) RecordReconciliation(ctx context.Context, shape string) {
	if m == nil {
		return
	}
	m.reconciliations.Add(ctx, 1, metric.WithAttributes(attribute.String("shape", shape)))
}

// RecordMigration counts decisions migrated to the canonical shape.
func (m *EngineMetrics) RecordMigration(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.migrations.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// RecordCacheLookup counts a classification cache hit or miss.
func (m *EngineMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordOutboxRelayed counts outbox events handed to the broker.
func (m *EngineMetrics) RecordOutboxRelayed(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.outboxRelayed.Add(ctx, int64(n))
}
