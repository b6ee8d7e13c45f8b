// Package docker implements the deployment.Target interface using the Docker API.
// Deployables are copied into containers that are already running.
package docker

import (
	"bytes"
	"context"
	"deployables/internal/apperrors"
	"deployables/internal/deployable"
	"deployables/internal/deployment"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// Deployer implements deployment.Target using Docker.
// Deployment records are kept in memory and do not survive a restart.
type Deployer struct {
	client      *client.Client
	execTimeout time.Duration
	state       *stateRepo
}

// NewDeployer creates a new Docker deployment target.
func NewDeployer(cfg DeployerConfig) (*Deployer, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	execTimeout := cfg.ExecTimeout
	if execTimeout <= 0 {
		execTimeout = 30 * time.Second
	}

	return &Deployer{
		client:      dockerClient,
		execTimeout: execTimeout,
		state:       newStateRepo(),
	}, nil
}

// Deploy copies the resolved file into the container's deployment directory.
//
// The container must be running and the directory must already exist.
// An existing file with the same name is overwritten.
func (d *Deployer) Deploy(ctx context.Context, req *deployment.Request, resolved *deployable.Resolved) (*deployment.Status, error) {
	if err := d.state.reserve(req.ID); err != nil {
		return nil, err
	}

	// On failure release the reservation
	success := false
	defer func() {
		if !success {
			d.state.release(req.ID)
		}
	}()

	logger := slog.With("deploymentId", req.ID, "container", req.Container)

	inspect, err := d.client.ContainerInspect(ctx, req.Container)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return nil, apperrors.NotFound("container", req.Container)
		}
		return nil, apperrors.Internal("docker.inspectContainer", err)
	}
	if inspect.State == nil || !inspect.State.Running {
		return nil, apperrors.Conflict("container", req.Container, fmt.Sprintf("container %s is not running", req.Container))
	}

	if _, err := d.client.ContainerStatPath(ctx, inspect.ID, req.Directory); err != nil {
		if errdefs.IsNotFound(err) {
			return nil, apperrors.Validation("directory", fmt.Sprintf("directory %s does not exist in container %s", req.Directory, req.Container))
		}
		return nil, apperrors.Internal("docker.statPath", err)
	}

	archive, size, err := tarFile(resolved.Path, resolved.FileName)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	logger.Info("Copying deployable into container", "source", resolved.Path, "directory", req.Directory, "fileName", resolved.FileName)
	if err := d.client.CopyToContainer(ctx, inspect.ID, req.Directory, archive, container.CopyToContainerOptions{}); err != nil {
		return nil, apperrors.Internal("docker.copyToContainer", err)
	}

	status := deployment.Status{
		ID:         req.ID,
		State:      deployment.StateDeployed,
		Deployable: req.Deployable,
		Kind:       string(resolved.Kind),
		Container:  req.Container,
		Directory:  req.Directory,
		FileName:   resolved.FileName,
		Size:       size,
		DeployedAt: time.Now().UTC(),
		Meta:       req.Meta,
	}
	d.state.commit(req.ID, &deploymentState{
		containerID: inspect.ID,
		path:        path.Join(req.Directory, resolved.FileName),
		status:      status,
	})
	success = true

	return &status, nil
}

// Undeploy removes the deployed file from the container.
// A container that no longer exists leaves nothing to remove.
func (d *Deployer) Undeploy(ctx context.Context, deploymentID string) error {
	ds, exists := d.state.get(deploymentID)
	if !exists {
		return apperrors.NotFound("deployment", deploymentID)
	}

	// Deployment is reserved but the copy is still in progress
	if ds == nil {
		return apperrors.Conflict("deployment", deploymentID, "deployment is still in progress")
	}

	logger := slog.With("deploymentId", deploymentID, "container", ds.status.Container)

	exitCode, output, err := d.exec(ctx, ds.containerID, []string{"rm", "-f", ds.path})
	switch {
	case errdefs.IsNotFound(err):
		logger.Warn("Container is gone, forgetting deployment")
	case errdefs.IsConflict(err):
		return apperrors.Conflict("container", ds.status.Container, fmt.Sprintf("container %s is not running", ds.status.Container))
	case err != nil:
		return apperrors.Internal("docker.exec", err)
	case exitCode != 0:
		return apperrors.Internal("docker.undeploy", fmt.Errorf("rm exited with code %d: %s", exitCode, strings.TrimSpace(output)))
	}

	d.state.release(deploymentID)
	return nil
}

// Status returns the current status of a deployment.
func (d *Deployer) Status(ctx context.Context, deploymentID string) (*deployment.Status, error) {
	ds, exists := d.state.get(deploymentID)
	if !exists {
		return nil, apperrors.NotFound("deployment", deploymentID)
	}

	// Deployment is reserved but still copying
	if ds == nil {
		return &deployment.Status{ID: deploymentID, State: deployment.StateDeploying}, nil
	}

	status := ds.status

	inspect, err := d.client.ContainerInspect(ctx, ds.containerID)
	switch {
	case errdefs.IsNotFound(err):
		status.State = deployment.StateOrphaned
		return &status, nil
	case err != nil:
		return nil, apperrors.Internal("docker.inspectContainer", err)
	case inspect.State == nil || !inspect.State.Running:
		status.State = deployment.StateStopped
		return &status, nil
	}

	if _, err := d.client.ContainerStatPath(ctx, ds.containerID, ds.path); err != nil {
		if !errdefs.IsNotFound(err) {
			return nil, apperrors.Internal("docker.statPath", err)
		}
		status.State = deployment.StateMissing
		return &status, nil
	}

	status.State = deployment.StateDeployed
	return &status, nil
}

// List returns the status of all deployments.
func (d *Deployer) List(ctx context.Context) ([]deployment.Status, error) {
	ids := d.state.ids()
	statuses := make([]deployment.Status, 0, len(ids))
	for _, id := range ids {
		status, err := d.Status(ctx, id)
		if err != nil {
			continue
		}
		statuses = append(statuses, *status)
	}
	return statuses, nil
}

// Close releases resources held by the deployer.
func (d *Deployer) Close() error {
	return d.client.Close()
}

// Ready checks if the Docker daemon is reachable and responsive.
func (d *Deployer) Ready(ctx context.Context) error {
	_, err := d.client.Ping(ctx)
	return err
}

// exec runs cmd inside the container and returns its exit code and combined output.
func (d *Deployer) exec(ctx context.Context, containerID string, cmd []string) (int, string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.execTimeout)
	defer cancel()

	created, err := d.client.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return 0, "", err
	}

	attach, err := d.client.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return 0, "", err
	}
	defer attach.Close()

	var output bytes.Buffer
	if _, err := stdcopy.StdCopy(&output, &output, attach.Reader); err != nil {
		return 0, output.String(), err
	}

	inspect, err := d.client.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return 0, output.String(), err
	}
	return inspect.ExitCode, output.String(), nil
}

// Verify Deployer implements deployment.Target
var _ deployment.Target = (*Deployer)(nil)
