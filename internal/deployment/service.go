package deployment

import (
	"context"
	"deployables/internal/apperrors"
	"deployables/internal/config"
	"deployables/internal/deployable"
	"deployables/internal/observability"
	"log/slog"

	"github.com/google/uuid"
)

// DefaultDirectory is the WildFly hot-deployment directory.
const DefaultDirectory = "/opt/jboss/wildfly/standalone/deployments"

// Config holds configuration for the deployment service.
type Config struct {
	DefaultDirectory string // Used when a request names no directory
}

// LoadConfigFromEnv loads service configuration from environment variables.
func LoadConfigFromEnv() Config {
	return Config{
		DefaultDirectory: config.GetEnv("DEPLOYMENTS_DIR", DefaultDirectory),
	}
}

// Service resolves deployables and hands them to a target.
//
// The Service is stateless - all deployment records live in the target.
type Service struct {
	resolver *deployable.Resolver
	target   Target
	metrics  *observability.Metrics
	cfg      Config
}

// NewService creates a new deployment service. metrics may be nil.
func NewService(resolver *deployable.Resolver, target Target, metrics *observability.Metrics, cfg Config) *Service {
	if cfg.DefaultDirectory == "" {
		cfg.DefaultDirectory = DefaultDirectory
	}
	return &Service{
		resolver: resolver,
		target:   target,
		metrics:  metrics,
		cfg:      cfg,
	}
}

// Resolve resolves a deployable to a local file without deploying it.
// URL downloads are removed before returning, so only their name and size
// are reported.
func (s *Service) Resolve(ctx context.Context, req *ResolveRequest) (*deployable.Resolved, error) {
	if err := validateDeployable(req.Deployable); err != nil {
		return nil, err
	}
	resolved, err := s.resolver.Resolve(ctx, req.Deployable)
	if err != nil {
		return nil, err
	}
	s.cleanup(resolved)
	return resolved, nil
}

// Deploy validates the request, resolves the deployable and copies it into
// the container.
// Note: This method applies defaults to the request before validation.
func (s *Service) Deploy(ctx context.Context, req *Request) (*Status, error) {
	s.applyDefaults(req)
	if err := validate(req); err != nil {
		return nil, err
	}

	logger := slog.With("deploymentId", req.ID, "deployable", req.Deployable, "container", req.Container)

	if err := s.checkUnused(ctx, req.ID); err != nil {
		logger.Warn("Deployment rejected", "error", err)
		s.recordDeployment(ctx, req.Container, false)
		return nil, err
	}

	resolved, err := s.resolver.Resolve(ctx, req.Deployable)
	if err != nil {
		logger.Error("Deployable could not be resolved", "error", err)
		s.recordDeployment(ctx, req.Container, false)
		return nil, err
	}
	defer s.cleanup(resolved)
	if req.FileName != "" {
		resolved.FileName = req.FileName
	}

	status, err := s.target.Deploy(ctx, req, resolved)
	if err != nil {
		logger.Error("Deployment failed", "error", err)
		s.recordDeployment(ctx, req.Container, false)
		return nil, err
	}

	s.recordDeployment(ctx, req.Container, true)
	logger.Info("Deployed", "fileName", status.FileName, "directory", status.Directory)
	return status, nil
}

// Get returns the status of a deployment.
func (s *Service) Get(ctx context.Context, deploymentID string) (*Status, error) {
	return s.target.Status(ctx, deploymentID)
}

// Undeploy removes a deployment from its container.
func (s *Service) Undeploy(ctx context.Context, deploymentID string) error {
	logger := slog.With("deploymentId", deploymentID)

	status, err := s.target.Status(ctx, deploymentID)
	if err != nil {
		return err
	}
	if err := s.target.Undeploy(ctx, deploymentID); err != nil {
		logger.Error("Undeployment failed", "error", err)
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordUndeployment(ctx, status.Container)
	}
	logger.Info("Undeployed")
	return nil
}

// List returns all deployments and their statuses.
func (s *Service) List(ctx context.Context) (*ListResponse, error) {
	statuses, err := s.target.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Deployments: statuses}, nil
}

// applyDefaults sets default values for unspecified request fields.
func (s *Service) applyDefaults(req *Request) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Directory == "" {
		req.Directory = s.cfg.DefaultDirectory
	}
}

// checkUnused fails with a conflict when id is already known to the target,
// so a duplicate request does not download anything. The target still
// reserves the id itself; this only rejects early.
func (s *Service) checkUnused(ctx context.Context, id string) error {
	if _, err := s.target.Status(ctx, id); err == nil {
		return apperrors.Conflict("deployment", id, "deployment already exists")
	}
	return nil
}

// cleanup drops temporary download files once they are no longer needed.
func (s *Service) cleanup(resolved *deployable.Resolved) {
	if err := resolved.Cleanup(); err != nil {
		slog.Warn("Failed to remove downloaded deployable", "identifier", resolved.Identifier, "error", err)
	}
}

func (s *Service) recordDeployment(ctx context.Context, container string, success bool) {
	if s.metrics != nil {
		s.metrics.RecordDeployment(ctx, container, success)
	}
}
