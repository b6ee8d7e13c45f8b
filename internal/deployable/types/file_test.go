package types

import (
	"context"
	"deployables/internal/apperrors"
	"errors"
	"path/filepath"
	"testing"
)

func TestFile_Interface(t *testing.T) {
	t.Parallel()
	a, err := NewFile(ParseIdentifier("/tmp/app.war"))
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if a.Identifier() != "/tmp/app.war" {
		t.Errorf("Identifier() = %v, want /tmp/app.war", a.Identifier())
	}
	if a.Kind() != KindFile {
		t.Errorf("Kind() = %v, want file", a.Kind())
	}
	if a.FileName() != "app.war" {
		t.Errorf("FileName() = %v, want app.war", a.FileName())
	}
}

func TestFile_LocalPath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		path string
		name string
	}{
		{"/tmp/app.war", "/tmp/app.war", "app.war"},
		{"target/app.war", "target/app.war", "app.war"},
		{"file:///tmp/app.war", "/tmp/app.war", "app.war"},
		{"file:/tmp/app.war", "/tmp/app.war", "app.war"},
		{"file://localhost/tmp/app.war", "/tmp/app.war", "app.war"},
		{"file:///tmp/my%20app.war", "/tmp/my app.war", "my app.war"},
		{"file:target/app.war", "target/app.war", "app.war"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			a, err := NewFile(ParseIdentifier(tt.raw))
			if err != nil {
				t.Fatalf("NewFile() error = %v", err)
			}

			// The file does not exist; resolution must not care.
			path, err := a.LocalPath(context.Background())
			if err != nil {
				t.Fatalf("LocalPath() error = %v", err)
			}
			if path != filepath.FromSlash(tt.path) {
				t.Errorf("LocalPath() = %q, want %q", path, tt.path)
			}
			if a.FileName() != tt.name {
				t.Errorf("FileName() = %q, want %q", a.FileName(), tt.name)
			}
		})
	}
}

func TestFile_Invalid(t *testing.T) {
	t.Parallel()
	tests := []string{
		"",
		"/",
		"file://remote-host/app.war",
		"file:///tmp/%zz.war",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			t.Parallel()
			_, err := NewFile(ParseIdentifier(raw))
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Errorf("expected ErrValidation for %q, got %v", raw, err)
			}
		})
	}
}
