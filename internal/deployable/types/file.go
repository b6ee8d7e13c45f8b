package types

import (
	"context"
	"deployables/internal/apperrors"
	"fmt"
	"net/url"
	"path/filepath"
)

// File is a deployable already present on the local filesystem.
type File struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Name string `json:"name"`
}

// NewFile creates a File from a plain path or a file: URI. It performs no I/O.
func NewFile(id Identifier) (*File, error) {
	path := id.Specific
	if id.Scheme == "file" {
		var err error
		if path, err = fileURIPath(id.Raw); err != nil {
			return nil, apperrors.Validation("deployable", fmt.Sprintf("invalid file uri '%s': %v", id.Raw, err))
		}
	}
	if path == "" {
		return nil, apperrors.Validation("deployable", "deployable is required")
	}

	name := filepath.Base(path)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return nil, apperrors.Validation("deployable", fmt.Sprintf("no file name in '%s'", id.Raw))
	}

	return &File{
		ID:   id.Raw,
		Path: filepath.FromSlash(path),
		Name: name,
	}, nil
}

func (a *File) Identifier() string { return a.ID }
func (a *File) Kind() Kind         { return KindFile }
func (a *File) FileName() string   { return a.Name }

// LocalPath returns the path unchanged; existence is left to the consumer.
func (a *File) LocalPath(ctx context.Context) (string, error) {
	return a.Path, nil
}

// fileURIPath extracts the decoded path of file:///abs, file:/abs or file:rel.
func fileURIPath(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("unsupported host %q", u.Host)
	}
	if u.Opaque != "" {
		return url.PathUnescape(u.Opaque)
	}
	return u.Path, nil
}
