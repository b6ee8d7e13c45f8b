// Package deployment places resolved deployables into running containers.
package deployment

import (
	"context"
	"deployables/internal/deployable"
)

// Target defines the interface for environments that accept deployables.
// Implementations copy an already resolved file; they never resolve
// identifiers themselves.
//
// The Target is the source of truth for deployment records. The Service
// holds no deployment state of its own.
type Target interface {
	// Deploy copies the resolved file into the request's container and
	// records the deployment. Returns a conflict error if the ID is in use.
	Deploy(ctx context.Context, req *Request, resolved *deployable.Resolved) (*Status, error)

	// Undeploy removes the deployed file and forgets the deployment.
	Undeploy(ctx context.Context, deploymentID string) error

	// Status returns the current status of a deployment.
	// Returns a not found error if the deployment does not exist.
	Status(ctx context.Context, deploymentID string) (*Status, error)

	// List returns the status of all deployments.
	List(ctx context.Context) ([]Status, error)

	// Ready checks if the target backend is reachable.
	Ready(ctx context.Context) error

	// Close releases resources held by the target.
	// Deployed files are left in place.
	Close() error
}
