// Package api provides the HTTP API handlers and routing for the deploy service.
package api

import (
	"deployables/internal/apperrors"
	"deployables/internal/deployment"
	"deployables/internal/health"
	"encoding/json"
	"log/slog"
	"net/http"
)

// maxRequestBodySize limits request body to 1MB to prevent memory exhaustion
const maxRequestBodySize = 1 << 20 // 1 MB

// Handler contains HTTP handlers for the deployments API
type Handler struct {
	svc    *deployment.Service
	health *health.Checker
}

// NewHandler creates a new API handler
func NewHandler(svc *deployment.Service, healthChecker *health.Checker) *Handler {
	return &Handler{
		svc:    svc,
		health: healthChecker,
	}
}

// Resolve handles POST /v1/resolutions
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req deployment.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resolved, err := h.svc.Resolve(r.Context(), &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resolved)
}

// CreateDeployment handles POST /v1/deployments
func (h *Handler) CreateDeployment(w http.ResponseWriter, r *http.Request) {
	// Limit request body size to prevent memory exhaustion
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req deployment.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	status, err := h.svc.Deploy(r.Context(), &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, status)
}

// ListDeployments handles GET /v1/deployments
func (h *Handler) ListDeployments(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// GetDeployment handles GET /v1/deployments/{deploymentId}
func (h *Handler) GetDeployment(w http.ResponseWriter, r *http.Request) {
	deploymentID := r.PathValue("deploymentId")
	if deploymentID == "" {
		h.writeError(w, http.StatusBadRequest, "Deployment ID is required")
		return
	}

	status, err := h.svc.Get(r.Context(), deploymentID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, status)
}

// DeleteDeployment handles DELETE /v1/deployments/{deploymentId}
func (h *Handler) DeleteDeployment(w http.ResponseWriter, r *http.Request) {
	deploymentID := r.PathValue("deploymentId")
	if deploymentID == "" {
		h.writeError(w, http.StatusBadRequest, "Deployment ID is required")
		return
	}

	if err := h.svc.Undeploy(r.Context(), deploymentID); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Livez handles GET /livez.
// Returns 200 if the process is alive. Does not check dependencies.
func (h *Handler) Livez(w http.ResponseWriter, r *http.Request) {
	response := h.health.Liveness(r.Context())
	h.writeJSON(w, http.StatusOK, response)
}

// Readyz handles GET /readyz.
// Returns 200 if the service is ready to accept traffic, possibly degraded.
// Returns 503 if a required dependency (Docker) is unavailable.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	response := h.health.Readiness(r.Context())

	status := http.StatusOK
	if !response.IsReady() {
		status = http.StatusServiceUnavailable
	}

	h.writeJSON(w, status, response)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// handleError handles errors from service layer with appropriate HTTP status codes.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	logger := slog.With("requestId", RequestID(r.Context()), "path", r.URL.Path)
	if status >= 500 {
		logger.Error("Internal error", "error", err)
	} else {
		logger.Warn("Client error", "error", err, "status", status)
	}
	h.writeError(w, status, err.Error())
}
