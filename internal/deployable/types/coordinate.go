package types

import (
	"deployables/internal/apperrors"
	"fmt"
	"path/filepath"
	"strings"
)

// MavenDiscriminator is the urn namespace for Maven coordinates.
const MavenDiscriminator = "mvn"

const coordinateGrammar = "`urn:mvn:<group-id>:<artifact-id>:<version>:<type>`"

// Coordinate identifies one Maven artifact.
type Coordinate struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version"`
	Type       string `json:"type"`
}

// ParseCoordinate parses the scheme-specific part of a urn identifier,
// e.g. "mvn:org.jolokia:jolokia-war-unsecured:1.7.1:war".
func ParseCoordinate(id Identifier) (Coordinate, error) {
	split := strings.Split(id.Specific, ":")
	if split[0] != MavenDiscriminator {
		return Coordinate{}, apperrors.InvalidCoordinate(id.Raw,
			fmt.Sprintf("unsupported urn scheme '%s' in '%s'", split[0], id.Raw))
	}
	if len(split) != 5 {
		return Coordinate{}, apperrors.InvalidCoordinate(id.Raw,
			fmt.Sprintf("expected exactly 5 elements in 'mvn' urn '%s': %s", id.Raw, coordinateGrammar))
	}

	c := Coordinate{
		GroupID:    split[1],
		ArtifactID: split[2],
		Version:    split[3],
		Type:       split[4],
	}

	for _, f := range []struct{ name, value string }{
		{"group-id", c.GroupID},
		{"artifact-id", c.ArtifactID},
		{"version", c.Version},
		{"type", c.Type},
	} {
		if err := validateSegment(f.value); err != nil {
			return Coordinate{}, apperrors.InvalidCoordinate(id.Raw,
				fmt.Sprintf("invalid %s in 'mvn' urn '%s': %v", f.name, id.Raw, err))
		}
	}

	return c, nil
}

// validateSegment rejects values that would escape the repository layout.
func validateSegment(s string) error {
	switch {
	case s == "":
		return fmt.Errorf("must not be empty")
	case strings.ContainsAny(s, `/\`):
		return fmt.Errorf("must not contain path separators")
	case s == "." || s == ".." || strings.Contains(s, ".."):
		return fmt.Errorf("must not contain '..'")
	}
	return nil
}

// String renders the coordinate as group:artifact:version:type.
func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version + ":" + c.Type
}

// RepositoryPath mirrors Maven's local repository layout below root.
func (c Coordinate) RepositoryPath(root string) string {
	return filepath.Join(
		root,
		strings.ReplaceAll(c.GroupID, ".", string(filepath.Separator)),
		c.ArtifactID,
		c.Version,
		c.ArtifactID+"-"+c.Version+"."+c.Type,
	)
}

// FileName is the display name, deliberately without the version.
func (c Coordinate) FileName() string {
	return c.ArtifactID + "." + c.Type
}
