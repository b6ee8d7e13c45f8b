package types

import (
	"context"
	"deployables/internal/apperrors"
	"deployables/internal/maven"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// fakeFetcher records requests and optionally writes the artifact.
type fakeFetcher struct {
	mu       sync.Mutex
	requests []maven.Request
	write    func(req maven.Request) error
	result   *maven.Result
	err      error
}

func (f *fakeFetcher) Fetch(ctx context.Context, req maven.Request) (*maven.Result, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.write != nil {
		if err := f.write(req); err != nil {
			return nil, err
		}
	}
	if f.result == nil {
		return &maven.Result{}, f.err
	}
	return f.result, f.err
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

const jolokia = "urn:mvn:org.jolokia:jolokia-war-unsecured:1.7.1:war"

func writeArtifact(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write artifact: %v", err)
	}
}

func TestMaven_Interface(t *testing.T) {
	t.Parallel()
	a, err := NewMaven(&fakeFetcher{}, ParseIdentifier(jolokia), t.TempDir(), true)
	if err != nil {
		t.Fatalf("NewMaven() error = %v", err)
	}
	if a.Identifier() != jolokia {
		t.Errorf("Identifier() = %v", a.Identifier())
	}
	if a.Kind() != KindMaven {
		t.Errorf("Kind() = %v, want mvn", a.Kind())
	}
	if a.FileName() != "jolokia-war-unsecured.war" {
		t.Errorf("FileName() = %v, want jolokia-war-unsecured.war", a.FileName())
	}
}

func TestMaven_LocalPath_Present(t *testing.T) {
	t.Parallel()
	repo := t.TempDir()
	fetcher := &fakeFetcher{}

	a, err := NewMaven(fetcher, ParseIdentifier(jolokia), repo, true)
	if err != nil {
		t.Fatalf("NewMaven() error = %v", err)
	}
	expected := filepath.Join(repo, "org", "jolokia", "jolokia-war-unsecured", "1.7.1", "jolokia-war-unsecured-1.7.1.war")
	writeArtifact(t, expected, "cached")

	path, err := a.LocalPath(context.Background())
	if err != nil {
		t.Fatalf("LocalPath() error = %v", err)
	}
	if path != expected {
		t.Errorf("LocalPath() = %q, want %q", path, expected)
	}
	if fetcher.calls() != 0 {
		t.Errorf("expected no fetch for a cached artifact, got %d", fetcher.calls())
	}
}

func TestMaven_LocalPath_Fetches(t *testing.T) {
	t.Parallel()
	repo := t.TempDir()
	fetcher := &fakeFetcher{}
	fetcher.write = func(req maven.Request) error {
		writeArtifact(t, filepath.Join(req.Repository, "org", "jolokia", "jolokia-war-unsecured", "1.7.1", "jolokia-war-unsecured-1.7.1.war"), "fetched")
		return nil
	}

	a, err := NewMaven(fetcher, ParseIdentifier(jolokia), repo, true)
	if err != nil {
		t.Fatalf("NewMaven() error = %v", err)
	}

	path, err := a.LocalPath(context.Background())
	if err != nil {
		t.Fatalf("LocalPath() error = %v", err)
	}
	if path != a.Path() {
		t.Errorf("LocalPath() = %q, want %q", path, a.Path())
	}
	if fetcher.calls() != 1 {
		t.Fatalf("expected exactly one fetch, got %d", fetcher.calls())
	}
	if got := fetcher.requests[0]; got.Artifact != "org.jolokia:jolokia-war-unsecured:1.7.1:war" || got.Repository != repo {
		t.Errorf("unexpected fetch request %+v", got)
	}

	// Second resolution finds the artifact and does not fetch again.
	if _, err := a.LocalPath(context.Background()); err != nil {
		t.Fatalf("LocalPath() error = %v", err)
	}
	if fetcher.calls() != 1 {
		t.Errorf("expected no redundant fetch, got %d calls", fetcher.calls())
	}
}

func TestMaven_LocalPath_FetchDidNotProduceFile(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{result: &maven.Result{ExitCode: 1, Output: "[ERROR] Could not find artifact"}}

	a, err := NewMaven(fetcher, ParseIdentifier(jolokia), t.TempDir(), true)
	if err != nil {
		t.Fatalf("NewMaven() error = %v", err)
	}

	_, err = a.LocalPath(context.Background())
	if !errors.Is(err, apperrors.ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed, got %v", err)
	}

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		t.Fatal("expected *apperrors.Error")
	}
	if appErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", appErr.ExitCode)
	}
}

func TestMaven_LocalPath_Lenient(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{result: &maven.Result{ExitCode: 1}}

	a, err := NewMaven(fetcher, ParseIdentifier(jolokia), t.TempDir(), false)
	if err != nil {
		t.Fatalf("NewMaven() error = %v", err)
	}

	path, err := a.LocalPath(context.Background())
	if err != nil {
		t.Fatalf("lenient resolution should not fail, got %v", err)
	}
	if path != a.Path() {
		t.Errorf("LocalPath() = %q, want %q", path, a.Path())
	}
}

func TestMaven_LocalPath_Timeout(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{err: apperrors.DownloadTimeout("org.jolokia:jolokia-war-unsecured:1.7.1:war", time.Minute)}

	a, err := NewMaven(fetcher, ParseIdentifier(jolokia), t.TempDir(), true)
	if err != nil {
		t.Fatalf("NewMaven() error = %v", err)
	}

	_, err = a.LocalPath(context.Background())
	if !errors.Is(err, apperrors.ErrDownloadTimeout) {
		t.Fatalf("expected ErrDownloadTimeout, got %v", err)
	}
}

func TestNewMaven_InvalidCoordinate(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{}
	repo := filepath.Join(t.TempDir(), "never-created")

	_, err := NewMaven(fetcher, ParseIdentifier("urn:mvn:a:b:c"), repo, true)
	if !errors.Is(err, apperrors.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
	if fetcher.calls() != 0 {
		t.Errorf("expected no fetch, got %d", fetcher.calls())
	}
	if _, statErr := os.Stat(repo); !os.IsNotExist(statErr) {
		t.Error("expected the repository to remain untouched")
	}
}

func TestNewMaven_NoRepository(t *testing.T) {
	t.Parallel()
	_, err := NewMaven(&fakeFetcher{}, ParseIdentifier(jolokia), "", true)
	if !errors.Is(err, apperrors.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
