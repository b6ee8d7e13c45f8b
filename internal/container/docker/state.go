package docker

import (
	"deployables/internal/apperrors"
	"deployables/internal/deployment"
	"sort"
	"sync"
)

// deploymentState holds what is needed to inspect or undo a deployment.
type deploymentState struct {
	containerID string // Resolved full container ID
	path        string // Absolute path of the deployed file inside the container
	status      deployment.Status
}

// stateRepo manages deployment state with thread-safe access.
type stateRepo struct {
	mu          sync.RWMutex
	deployments map[string]*deploymentState
}

// newStateRepo creates a new state repository.
func newStateRepo() *stateRepo {
	return &stateRepo{
		deployments: make(map[string]*deploymentState),
	}
}

// reserve attempts to reserve a deployment ID slot. Returns error if already exists.
// The slot is reserved with nil until commit is called.
func (r *stateRepo) reserve(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.deployments[id]; exists {
		return apperrors.Conflict("deployment", id, "deployment already exists")
	}
	r.deployments[id] = nil
	return nil
}

// commit fills in a reserved slot with the actual deployment state.
func (r *stateRepo) commit(id string, ds *deploymentState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deployments[id] = ds
}

// release removes a deployment from the repository. Returns the state if it existed.
func (r *stateRepo) release(id string) (*deploymentState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, exists := r.deployments[id]
	if exists {
		delete(r.deployments, id)
	}
	return ds, exists
}

// get retrieves a deployment's state. Returns (nil, true) if reserved but not yet committed.
func (r *stateRepo) get(id string) (*deploymentState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ds, exists := r.deployments[id]
	return ds, exists
}

// ids returns all deployment IDs in sorted order.
func (r *stateRepo) ids() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.deployments))
	for id := range r.deployments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
