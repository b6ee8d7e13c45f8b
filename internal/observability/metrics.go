package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds all application metrics implementing the golden 4 signals:
// - Latency: How long requests/resolutions/fetches take
// - Traffic: Request/resolution/deployment throughput
// - Errors: Rate of failures
// - Saturation: Resolutions in flight
type Metrics struct {
	meter metric.Meter

	// HTTP metrics (Latency, Traffic, Errors)
	HTTPRequestDuration metric.Float64Histogram
	HTTPRequestsTotal   metric.Int64Counter
	HTTPErrorsTotal     metric.Int64Counter

	// Resolution metrics (Latency, Traffic, Errors, Saturation)
	ResolutionDuration    metric.Float64Histogram
	ResolutionsTotal      metric.Int64Counter
	ResolutionErrorsTotal metric.Int64Counter
	ResolutionsActive     metric.Int64UpDownCounter
	ResolvedBytes         metric.Int64Counter

	// Maven fetch metrics
	FetchDuration metric.Float64Histogram

	// Deployment metrics
	DeploymentsTotal      metric.Int64Counter
	DeploymentErrorsTotal metric.Int64Counter
	UndeploymentsTotal    metric.Int64Counter
}

// NewMetrics creates and registers all metrics with a Prometheus exporter.
func NewMetrics(ctx context.Context) (*Metrics, http.Handler, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter("deployables")
	m := &Metrics{meter: meter}

	// HTTP metrics
	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request latency in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, nil, err
	}

	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.HTTPErrorsTotal, err = meter.Int64Counter(
		"http_errors_total",
		metric.WithDescription("Total number of HTTP errors (4xx and 5xx)"),
	)
	if err != nil {
		return nil, nil, err
	}

	// Resolution metrics
	m.ResolutionDuration, err = meter.Float64Histogram(
		"resolution_duration_seconds",
		metric.WithDescription("Deployable resolution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, nil, err
	}

	m.ResolutionsTotal, err = meter.Int64Counter(
		"resolutions_total",
		metric.WithDescription("Total number of deployable resolutions"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.ResolutionErrorsTotal, err = meter.Int64Counter(
		"resolution_errors_total",
		metric.WithDescription("Total number of failed deployable resolutions"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.ResolutionsActive, err = meter.Int64UpDownCounter(
		"resolutions_active",
		metric.WithDescription("Number of resolutions in flight (saturation)"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.ResolvedBytes, err = meter.Int64Counter(
		"resolved_bytes_total",
		metric.WithDescription("Total size of resolved deployables in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, nil, err
	}

	// Maven fetch metrics
	m.FetchDuration, err = meter.Float64Histogram(
		"maven_fetch_duration_seconds",
		metric.WithDescription("Maven dependency:get duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 90),
	)
	if err != nil {
		return nil, nil, err
	}

	// Deployment metrics
	m.DeploymentsTotal, err = meter.Int64Counter(
		"deployments_total",
		metric.WithDescription("Total number of deployments attempted"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.DeploymentErrorsTotal, err = meter.Int64Counter(
		"deployment_errors_total",
		metric.WithDescription("Total number of failed deployments"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.UndeploymentsTotal, err = meter.Int64Counter(
		"undeployments_total",
		metric.WithDescription("Total number of undeployments"),
	)
	if err != nil {
		return nil, nil, err
	}

	return m, promhttp.Handler(), nil
}

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, durationSeconds float64) {
	attrs := metric.WithAttributes(
		methodAttr(method),
		pathAttr(path),
		statusAttr(statusCode),
	)

	m.HTTPRequestDuration.Record(ctx, durationSeconds, attrs)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)

	if statusCode >= 400 {
		m.HTTPErrorsTotal.Add(ctx, 1, attrs)
	}
}

// RecordResolutionStarted records a resolution entering flight.
func (m *Metrics) RecordResolutionStarted(ctx context.Context, kind string) {
	m.ResolutionsActive.Add(ctx, 1, metric.WithAttributes(kindAttr(kind)))
}

// RecordResolutionCompleted records a resolution finishing (success or failure).
func (m *Metrics) RecordResolutionCompleted(ctx context.Context, kind string, success bool, durationSeconds float64) {
	attrs := metric.WithAttributes(kindAttr(kind), successAttr(success))
	m.ResolutionDuration.Record(ctx, durationSeconds, attrs)
	m.ResolutionsTotal.Add(ctx, 1, attrs)
	m.ResolutionsActive.Add(ctx, -1, metric.WithAttributes(kindAttr(kind)))

	if !success {
		m.ResolutionErrorsTotal.Add(ctx, 1, attrs)
	}
}

// RecordResolvedBytes records the size of a resolved file.
func (m *Metrics) RecordResolvedBytes(ctx context.Context, kind string, bytes int64) {
	m.ResolvedBytes.Add(ctx, bytes, metric.WithAttributes(kindAttr(kind)))
}

// RecordFetch records one Maven fetch invocation.
func (m *Metrics) RecordFetch(ctx context.Context, exitCode int, durationSeconds float64) {
	m.FetchDuration.Record(ctx, durationSeconds, metric.WithAttributes(exitCodeAttr(exitCode)))
}

// RecordDeployment records a deployment attempt.
func (m *Metrics) RecordDeployment(ctx context.Context, container string, success bool) {
	attrs := metric.WithAttributes(containerAttr(container), successAttr(success))
	m.DeploymentsTotal.Add(ctx, 1, attrs)

	if !success {
		m.DeploymentErrorsTotal.Add(ctx, 1, attrs)
	}
}

// RecordUndeployment records a deployment being removed.
func (m *Metrics) RecordUndeployment(ctx context.Context, container string) {
	m.UndeploymentsTotal.Add(ctx, 1, metric.WithAttributes(containerAttr(container)))
}
