package deployable

import (
	"deployables/internal/apperrors"
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"
)

// Entry is one deployable listed in a manifest.
type Entry struct {
	Deployable string `json:"deployable"`
	FileName   string `json:"fileName,omitempty"` // Overrides the derived file name
}

// LoadManifest reads a YAML or JSON manifest from path.
func LoadManifest(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.IOFailure("manifest.read", path, err)
	}
	entries, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// ParseManifest parses a list of entries:
//
//	- deployable: urn:mvn:org.jolokia:jolokia-war-unsecured:1.7.1:war
//	  fileName: jolokia.war
//	- deployable: https://example.com/app.war
func ParseManifest(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.UnmarshalStrict(data, &entries); err != nil {
		return nil, apperrors.Validation("manifest", fmt.Sprintf("invalid manifest: %v", err))
	}

	for i, e := range entries {
		if strings.TrimSpace(e.Deployable) == "" {
			return nil, apperrors.Validation("manifest", fmt.Sprintf("entry[%d]: deployable is required", i))
		}
		if e.FileName != "" && (strings.ContainsAny(e.FileName, `/\`) || e.FileName == "." || e.FileName == "..") {
			return nil, apperrors.Validation("manifest", fmt.Sprintf("entry[%d]: invalid fileName %q", i, e.FileName))
		}
	}
	return entries, nil
}
