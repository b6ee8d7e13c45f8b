package deployment

import "time"

// Request represents a request to deploy one deployable into a running container.
type Request struct {
	ID         string            `json:"id,omitempty"`        // Generated when empty
	Deployable string            `json:"deployable"`          // Local path, urn:mvn coordinate or URL
	Container  string            `json:"container"`           // Name or ID of a running container
	Directory  string            `json:"directory,omitempty"` // Deployment directory inside the container
	FileName   string            `json:"fileName,omitempty"`  // Overrides the derived file name
	Meta       map[string]string `json:"meta,omitempty"`
}

// ResolveRequest represents a request to resolve a deployable without deploying it.
type ResolveRequest struct {
	Deployable string `json:"deployable"`
}

// Status represents the current state of a deployment.
type Status struct {
	ID         string            `json:"id"`
	State      string            `json:"status"`
	Deployable string            `json:"deployable"`
	Kind       string            `json:"kind"`
	Container  string            `json:"container"`
	Directory  string            `json:"directory"`
	FileName   string            `json:"fileName"`
	Size       int64             `json:"size,omitempty"`
	DeployedAt time.Time         `json:"deployedAt"`
	Meta       map[string]string `json:"meta,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// ListResponse represents the response for listing deployments.
type ListResponse struct {
	Deployments []Status `json:"deployments"`
}

// State constants
const (
	StateDeploying = "deploying" // Reserved, copy in progress
	StateDeployed  = "deployed"  // File present in a running container
	StateMissing   = "missing"   // Container running, file gone
	StateStopped   = "stopped"   // Container exists but is not running
	StateOrphaned  = "orphaned"  // Container no longer exists
)
