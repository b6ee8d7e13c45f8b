package deployable

import (
	"context"
	"deployables/internal/maven"
	"deployables/internal/observability"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Resolved is the outcome of a resolution. Path is empty once a URL
// download has been cleaned up.
type Resolved struct {
	Identifier string `json:"identifier"`
	Kind       Kind   `json:"kind"`
	Path       string `json:"path,omitempty"`
	FileName   string `json:"fileName"`
	Size       int64  `json:"size,omitempty"`
}

// Cleanup removes the private download directory of a URL resolution and
// clears Path. Local files and Maven repository artifacts are left alone.
func (r *Resolved) Cleanup() error {
	if r.Kind != KindURL || r.Path == "" {
		return nil
	}
	dir := filepath.Dir(r.Path)
	r.Path = ""
	return os.RemoveAll(dir)
}

// Resolver turns identifiers into local files, recording metrics on the way.
// It holds no per-resolution state and is safe for concurrent use.
type Resolver struct {
	opts    Options
	metrics *observability.Metrics
}

// NewResolver creates a resolver. metrics may be nil.
func NewResolver(opts Options, metrics *observability.Metrics) *Resolver {
	if metrics != nil {
		if opts.Fetcher == nil {
			opts.Fetcher = maven.NewCommandFetcher(maven.Config{})
		}
		opts.Fetcher = &instrumentedFetcher{next: opts.Fetcher, metrics: metrics}
	}
	return &Resolver{opts: opts, metrics: metrics}
}

// Create constructs the strategy for raw using the resolver's options.
func (r *Resolver) Create(raw string) (Deployable, error) {
	return Create(raw, r.opts)
}

// Resolve classifies raw, acquires the file, and returns its local path and name.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*Resolved, error) {
	kind := Classify(ParseIdentifier(raw))
	logger := slog.With("identifier", raw, "kind", kind)
	start := time.Now()

	if r.metrics != nil {
		r.metrics.RecordResolutionStarted(ctx, string(kind))
	}

	resolved, err := r.resolve(ctx, raw)
	if r.metrics != nil {
		r.metrics.RecordResolutionCompleted(ctx, string(kind), err == nil, time.Since(start).Seconds())
	}
	if err != nil {
		logger.Warn("Resolution failed", "error", err)
		return nil, err
	}

	if r.metrics != nil && resolved.Size > 0 {
		r.metrics.RecordResolvedBytes(ctx, string(kind), resolved.Size)
	}
	logger.Info("Resolved deployable", "path", resolved.Path, "fileName", resolved.FileName, "duration", time.Since(start))
	return resolved, nil
}

func (r *Resolver) resolve(ctx context.Context, raw string) (*Resolved, error) {
	d, err := Create(raw, r.opts)
	if err != nil {
		return nil, err
	}

	path, err := d.LocalPath(ctx)
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{
		Identifier: d.Identifier(),
		Kind:       d.Kind(),
		Path:       path,
		FileName:   d.FileName(),
	}
	// Local paths are not checked for existence; size is informational.
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		resolved.Size = info.Size()
	}
	return resolved, nil
}

// instrumentedFetcher records fetch latency by exit code.
type instrumentedFetcher struct {
	next    maven.Fetcher
	metrics *observability.Metrics
}

func (f *instrumentedFetcher) Fetch(ctx context.Context, req maven.Request) (*maven.Result, error) {
	start := time.Now()
	result, err := f.next.Fetch(ctx, req)
	exitCode := -1
	if result != nil {
		exitCode = result.ExitCode
	}
	f.metrics.RecordFetch(ctx, exitCode, time.Since(start).Seconds())
	return result, err
}
