package observability

import (
	"context"
	"testing"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	metrics, handler, err := NewMetrics(ctx)
	if err != nil {
		t.Fatalf("Failed to create metrics: %v", err)
	}

	if metrics == nil {
		t.Fatal("Expected metrics to be non-nil")
	}

	if handler == nil {
		t.Fatal("Expected handler to be non-nil")
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	metrics, _, err := NewMetrics(ctx)
	if err != nil {
		t.Fatalf("Failed to create metrics: %v", err)
	}

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/livez", 200, 0.001)
	metrics.RecordHTTPRequest(ctx, "POST", "/v1/resolutions", 200, 0.050)
	metrics.RecordHTTPRequest(ctx, "POST", "/v1/deployments", 201, 1.5)
	metrics.RecordHTTPRequest(ctx, "GET", "/v1/deployments/abc123", 200, 0.010)
	metrics.RecordHTTPRequest(ctx, "GET", "/v1/deployments/xyz789", 404, 0.005)
	metrics.RecordHTTPRequest(ctx, "DELETE", "/v1/deployments/abc123", 204, 0.100)
	metrics.RecordHTTPRequest(ctx, "POST", "/v1/resolutions", 502, 0.001)
}

func TestRecordResolutionMetrics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	metrics, _, err := NewMetrics(ctx)
	if err != nil {
		t.Fatalf("Failed to create metrics: %v", err)
	}

	// Should not panic
	metrics.RecordResolutionStarted(ctx, "mvn")
	metrics.RecordResolutionStarted(ctx, "url")
	metrics.RecordResolutionCompleted(ctx, "mvn", true, 12.5)
	metrics.RecordResolutionCompleted(ctx, "url", false, 0.2)
	metrics.RecordResolvedBytes(ctx, "mvn", 4096)
	metrics.RecordFetch(ctx, 0, 11.9)
	metrics.RecordFetch(ctx, 1, 3.0)
}

func TestRecordDeploymentMetrics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	metrics, _, err := NewMetrics(ctx)
	if err != nil {
		t.Fatalf("Failed to create metrics: %v", err)
	}

	// Should not panic
	metrics.RecordDeployment(ctx, "wildfly", true)
	metrics.RecordDeployment(ctx, "wildfly", false)
	metrics.RecordUndeployment(ctx, "wildfly")
}

func TestNormalizePath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{"/livez", "/livez"},
		{"/metrics", "/metrics"},
		{"/v1/deployments", "/v1/deployments"},
		{"/v1/deployments/", "/v1/deployments/"},
		{"/v1/deployments/abc123", "/v1/deployments/{deploymentId}"},
		{"/v1/deployments/xyz-789-def", "/v1/deployments/{deploymentId}"},
		{"/v1/resolutions", "/v1/resolutions"},
		{"/other/path", "/other/path"},
	}

	for _, tt := range tests {
		result := normalizePath(tt.input)
		if result != tt.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
