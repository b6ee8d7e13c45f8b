package deployable

import (
	"context"
	"deployables/internal/apperrors"
	"deployables/internal/maven"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher counts fetches and optionally creates the requested artifact.
type countingFetcher struct {
	calls   atomic.Int32
	produce func(req maven.Request) string
	err     error
}

func (f *countingFetcher) Fetch(ctx context.Context, req maven.Request) (*maven.Result, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if f.produce != nil {
		path := f.produce(req)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte("artifact"), 0o644); err != nil {
			return nil, err
		}
	}
	return &maven.Result{}, nil
}

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw      string
		expected Kind
	}{
		{"/tmp/app.war", KindFile},
		{"target/app.war", KindFile},
		{"app.war", KindFile},
		{"file:///tmp/app.war", KindFile},
		{"FILE:/tmp/app.war", KindFile},
		{`C:\deploy\app.war`, KindFile},
		{"urn:mvn:org.jolokia:jolokia-war-unsecured:1.7.1:war", KindMaven},
		{"URN:mvn:g:a:v:t", KindMaven},
		{"urn:isbn:0451450523", KindMaven},
		{"https://example.com/app.war", KindURL},
		{"http://example.com/app.war", KindURL},
		{"ftp://example.com/app.war", KindURL},
		{"s3://bucket/app.war", KindURL},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Classify(ParseIdentifier(tt.raw)))
		})
	}
}

func TestCreate_Kinds(t *testing.T) {
	t.Parallel()
	opts := Options{Repository: t.TempDir(), Fetcher: &countingFetcher{}}

	tests := []struct {
		raw      string
		kind     Kind
		fileName string
	}{
		{"/tmp/app.war", KindFile, "app.war"},
		{"urn:mvn:org.jolokia:jolokia-war-unsecured:1.7.1:war", KindMaven, "jolokia-war-unsecured.war"},
		{"https://example.com/releases/app.war?sig=1", KindURL, "app.war"},
	}

	for _, tt := range tests {
		d, err := Create(tt.raw, opts)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.kind, d.Kind(), tt.raw)
		assert.Equal(t, tt.raw, d.Identifier(), tt.raw)
		assert.Equal(t, tt.fileName, d.FileName(), tt.raw)
	}
}

func TestCreate_Empty(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "   "} {
		_, err := Create(raw, Options{})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestCreate_DefaultRepository(t *testing.T) {
	t.Parallel()
	d, err := Create("urn:mvn:g:a:1:jar", Options{})
	require.NoError(t, err)

	m, ok := d.(*Maven)
	require.True(t, ok)
	assert.Equal(t, maven.DefaultRepository(), m.Repository)
	assert.True(t, m.VerifyFetch)
}

func TestCreate_LenientFetch(t *testing.T) {
	t.Parallel()
	d, err := Create("urn:mvn:g:a:1:jar", Options{Repository: t.TempDir(), LenientFetch: true})
	require.NoError(t, err)
	assert.False(t, d.(*Maven).VerifyFetch)
}

// Local file path is returned unchanged without any I/O.
func TestCreate_LocalPathUnchanged(t *testing.T) {
	t.Parallel()
	d, err := Create("/tmp/app.war", Options{})
	require.NoError(t, err)

	path, err := d.LocalPath(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/tmp/app.war"), path)
	assert.Equal(t, "app.war", d.FileName())
}

// Maven coordinate maps onto the repository layout and is fetched once.
func TestCreate_MavenFetchedOnce(t *testing.T) {
	t.Parallel()
	repo := t.TempDir()
	expected := filepath.Join(repo, "org", "jolokia", "jolokia-war-unsecured", "1.7.1", "jolokia-war-unsecured-1.7.1.war")
	fetcher := &countingFetcher{produce: func(maven.Request) string { return expected }}

	d, err := Create("urn:mvn:org.jolokia:jolokia-war-unsecured:1.7.1:war", Options{Repository: repo, Fetcher: fetcher})
	require.NoError(t, err)
	assert.Equal(t, "jolokia-war-unsecured.war", d.FileName())

	path, err := d.LocalPath(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected, path)
	assert.Equal(t, int32(1), fetcher.calls.Load())

	path, err = d.LocalPath(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected, path)
	assert.Equal(t, int32(1), fetcher.calls.Load(), "present artifact must not be fetched again")
}

// Malformed coordinate fails before touching the repository or the fetcher.
func TestCreate_InvalidCoordinateNoSideEffects(t *testing.T) {
	t.Parallel()
	fetcher := &countingFetcher{}

	_, err := Create("urn:mvn:a:b:c", Options{Repository: t.TempDir(), Fetcher: fetcher})
	require.ErrorIs(t, err, apperrors.ErrInvalidCoordinate)
	assert.Contains(t, err.Error(), "urn:mvn:<group-id>:<artifact-id>:<version>:<type>")
	assert.Zero(t, fetcher.calls.Load())
}

// URL downloads are byte-exact on 200 and fail with the status otherwise.
func TestCreate_URLDownloadAndStatus(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/app.war" {
			w.Write([]byte("war bytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	opts := Options{HTTPClient: &http.Client{Timeout: 10 * time.Second}, TempDir: t.TempDir()}

	d, err := Create(server.URL+"/app.war", opts)
	require.NoError(t, err)
	path, err := d.LocalPath(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "app.war", filepath.Base(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "war bytes", string(content))

	d, err = Create(server.URL+"/missing.war", opts)
	require.NoError(t, err)
	_, err = d.LocalPath(context.Background())
	require.ErrorIs(t, err, apperrors.ErrDownloadFailed)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "Not Found")
}

func TestLoadOptionsFromEnv(t *testing.T) {
	t.Setenv("MAVEN_REPOSITORY", "/srv/m2")
	t.Setenv("MAVEN_VERIFY_FETCH", "false")
	t.Setenv("DOWNLOAD_TIMEOUT", "30s")
	t.Setenv("DOWNLOAD_DIR", "/var/tmp")

	opts := LoadOptionsFromEnv()
	assert.Equal(t, "/srv/m2", opts.Repository)
	assert.True(t, opts.LenientFetch)
	require.NotNil(t, opts.HTTPClient)
	assert.Equal(t, 30*time.Second, opts.HTTPClient.Timeout)
	assert.Equal(t, "/var/tmp", opts.TempDir)
	assert.NotNil(t, opts.Fetcher)
}

func TestLoadOptionsFromEnv_Defaults(t *testing.T) {
	t.Setenv("MAVEN_REPOSITORY", "")
	t.Setenv("MAVEN_VERIFY_FETCH", "")
	t.Setenv("DOWNLOAD_TIMEOUT", "")
	t.Setenv("DOWNLOAD_DIR", "")

	opts := LoadOptionsFromEnv()
	assert.Equal(t, maven.DefaultRepository(), opts.Repository)
	assert.False(t, opts.LenientFetch)
	assert.Equal(t, DefaultDownloadTimeout, opts.HTTPClient.Timeout)
	assert.Empty(t, opts.TempDir)
}
