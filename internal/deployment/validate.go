package deployment

import (
	"deployables/internal/apperrors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Validation limits
const (
	maxDeploymentIDLength = 128
	maxDeployableLength   = 2048
	maxContainerLength    = 256
	maxFileNameLength     = 255
	maxMetaKeyLen         = 64
	maxMetaValueLen       = 256
	maxMetaEntries        = 32
)

// deploymentIDPattern allows alphanumeric, hyphens, and underscores
var deploymentIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// containerPattern matches Docker container names and IDs.
var containerPattern = regexp.MustCompile(`^/?[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// validate validates a deployment request. Does not modify the request.
func validate(req *Request) error {
	if req.ID == "" {
		return apperrors.Validation("id", "deployment ID is required")
	}
	if len(req.ID) > maxDeploymentIDLength {
		return apperrors.Validation("id", fmt.Sprintf("deployment ID exceeds maximum length of %d", maxDeploymentIDLength))
	}
	if !deploymentIDPattern.MatchString(req.ID) {
		return apperrors.Validation("id", "deployment ID must be alphanumeric (hyphens and underscores allowed, cannot start with hyphen/underscore)")
	}

	if err := validateDeployable(req.Deployable); err != nil {
		return err
	}

	if req.Container == "" {
		return apperrors.Validation("container", "container is required")
	}
	if len(req.Container) > maxContainerLength || !containerPattern.MatchString(req.Container) {
		return apperrors.Validation("container", fmt.Sprintf("invalid container name %q", req.Container))
	}

	if err := validateDirectory(req.Directory); err != nil {
		return apperrors.Validation("directory", fmt.Sprintf("invalid directory: %v", err))
	}

	if req.FileName != "" {
		if err := validateFileName(req.FileName); err != nil {
			return apperrors.Validation("fileName", fmt.Sprintf("invalid fileName: %v", err))
		}
	}

	if len(req.Meta) > maxMetaEntries {
		return apperrors.Validation("meta", fmt.Sprintf("metadata exceeds maximum of %d entries", maxMetaEntries))
	}
	for k, v := range req.Meta {
		if len(k) > maxMetaKeyLen {
			return apperrors.Validation("meta", fmt.Sprintf("metadata key exceeds maximum length of %d", maxMetaKeyLen))
		}
		if len(v) > maxMetaValueLen {
			return apperrors.Validation("meta", fmt.Sprintf("metadata value exceeds maximum length of %d", maxMetaValueLen))
		}
	}

	return nil
}

func validateDeployable(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return apperrors.Validation("deployable", "deployable is required")
	}
	if len(raw) > maxDeployableLength {
		return apperrors.Validation("deployable", fmt.Sprintf("deployable exceeds maximum length of %d", maxDeployableLength))
	}
	return nil
}

// validateDirectory checks a directory inside the container. Container paths
// are always slash-separated regardless of the host OS.
func validateDirectory(dir string) error {
	if dir == "" {
		return fmt.Errorf("directory is required")
	}
	if !path.IsAbs(dir) {
		return fmt.Errorf("path must be absolute")
	}
	for _, part := range strings.Split(dir, "/") {
		if part == ".." {
			return fmt.Errorf("path traversal not allowed")
		}
	}
	if path.Clean(dir) != dir && path.Clean(dir)+"/" != dir {
		return fmt.Errorf("path must be clean")
	}
	return nil
}

func validateFileName(name string) error {
	if len(name) > maxFileNameLength {
		return fmt.Errorf("exceeds maximum length of %d", maxFileNameLength)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("path traversal not allowed")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("must not contain path separators")
	}
	return nil
}
