package api

import (
	"deployables/internal/deployment"
	"deployables/internal/health"
	"deployables/internal/observability"
	"net/http"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	DeploymentService *deployment.Service
	Metrics           *observability.Metrics
	HealthChecker     *health.Checker
	APIKey            string
}

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg RouterConfig) http.Handler {
	handler := NewHandler(cfg.DeploymentService, cfg.HealthChecker)

	mux := http.NewServeMux()

	// Health check endpoints - no auth required
	mux.HandleFunc("GET /livez", handler.Livez)
	mux.HandleFunc("GET /readyz", handler.Readyz)

	// Resolution and deployment endpoints - auth required
	authMiddleware := AuthMiddleware(cfg.APIKey)
	mux.Handle("POST /v1/resolutions", authMiddleware(http.HandlerFunc(handler.Resolve)))
	mux.Handle("POST /v1/deployments", authMiddleware(http.HandlerFunc(handler.CreateDeployment)))
	mux.Handle("GET /v1/deployments", authMiddleware(http.HandlerFunc(handler.ListDeployments)))
	mux.Handle("GET /v1/deployments/{deploymentId}", authMiddleware(http.HandlerFunc(handler.GetDeployment)))
	mux.Handle("DELETE /v1/deployments/{deploymentId}", authMiddleware(http.HandlerFunc(handler.DeleteDeployment)))

	// Apply middleware chain (last applied runs outermost)
	var h http.Handler = mux
	h = ContentTypeMiddleware()(h)
	if cfg.Metrics != nil {
		h = MetricsMiddleware(cfg.Metrics)(h)
	}
	h = RecoveryMiddleware()(h)
	h = LoggingMiddleware()(h)

	return h
}
