package testutil

import (
	"context"
	"deployables/internal/apperrors"
	"deployables/internal/deployable"
	"deployables/internal/deployment"
	"os"
	"sort"
	"sync"
	"time"
)

// FakeTarget is an in-memory deployment.Target. Deploy reads the resolved
// file so tests can assert on exactly what would have been copied.
type FakeTarget struct {
	mu          sync.Mutex
	deployments map[string]*deployment.Status
	contents    map[string][]byte

	DeployErr error // Returned by Deploy when set
	ReadyErr  error // Returned by Ready when set
}

var _ deployment.Target = (*FakeTarget)(nil)

// NewFakeTarget creates an empty fake target.
func NewFakeTarget() *FakeTarget {
	return &FakeTarget{
		deployments: make(map[string]*deployment.Status),
		contents:    make(map[string][]byte),
	}
}

func (f *FakeTarget) Deploy(ctx context.Context, req *deployment.Request, resolved *deployable.Resolved) (*deployment.Status, error) {
	if f.DeployErr != nil {
		return nil, f.DeployErr
	}

	data, err := os.ReadFile(resolved.Path)
	if err != nil {
		return nil, apperrors.IOFailure("fake.read", resolved.Path, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.deployments[req.ID]; exists {
		return nil, apperrors.Conflict("deployment", req.ID, "deployment already exists")
	}

	status := &deployment.Status{
		ID:         req.ID,
		State:      deployment.StateDeployed,
		Deployable: req.Deployable,
		Kind:       string(resolved.Kind),
		Container:  req.Container,
		Directory:  req.Directory,
		FileName:   resolved.FileName,
		Size:       int64(len(data)),
		DeployedAt: time.Now().UTC(),
		Meta:       req.Meta,
	}
	f.deployments[req.ID] = status
	f.contents[req.ID] = data

	copied := *status
	return &copied, nil
}

func (f *FakeTarget) Undeploy(ctx context.Context, deploymentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.deployments[deploymentID]; !exists {
		return apperrors.NotFound("deployment", deploymentID)
	}
	delete(f.deployments, deploymentID)
	delete(f.contents, deploymentID)
	return nil
}

func (f *FakeTarget) Status(ctx context.Context, deploymentID string) (*deployment.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	status, exists := f.deployments[deploymentID]
	if !exists {
		return nil, apperrors.NotFound("deployment", deploymentID)
	}
	copied := *status
	return &copied, nil
}

func (f *FakeTarget) List(ctx context.Context) ([]deployment.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	statuses := make([]deployment.Status, 0, len(f.deployments))
	for _, s := range f.deployments {
		statuses = append(statuses, *s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })
	return statuses, nil
}

func (f *FakeTarget) Ready(ctx context.Context) error {
	return f.ReadyErr
}

func (f *FakeTarget) Close() error {
	return nil
}

// Content returns the bytes deployed under deploymentID.
func (f *FakeTarget) Content(deploymentID string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.contents[deploymentID]
	return data, ok
}
