package deployable

import (
	"deployables/internal/apperrors"
	"deployables/internal/config"
	"deployables/internal/deployable/types"
	"deployables/internal/maven"
	"net/http"
	"strings"
	"time"
)

// DefaultDownloadTimeout bounds a single URL download.
const DefaultDownloadTimeout = 5 * time.Minute

// Options configures the strategies built by Create.
type Options struct {
	Repository   string        // Maven local repository root (default: maven.DefaultRepository)
	Fetcher      maven.Fetcher // Runs the Maven fetch (default: mvn dependency:get)
	LenientFetch bool          // Accept a fetch that leaves the artifact missing
	HTTPClient   *http.Client  // Client for URL downloads (default: http.DefaultClient)
	TempDir      string        // Parent for download directories (default: os.TempDir)
}

// LoadOptionsFromEnv loads resolution options from environment variables.
func LoadOptionsFromEnv() Options {
	return Options{
		Repository:   maven.RepositoryFromEnv(),
		Fetcher:      maven.NewCommandFetcher(maven.LoadConfigFromEnv()),
		LenientFetch: !config.GetBoolEnv("MAVEN_VERIFY_FETCH", true),
		HTTPClient:   &http.Client{Timeout: config.GetDurationEnv("DOWNLOAD_TIMEOUT", DefaultDownloadTimeout)},
		TempDir:      config.GetEnv("DOWNLOAD_DIR", ""),
	}
}

// Classify selects the acquisition strategy for an identifier from its scheme.
// No scheme or "file" is a local file, "urn" is a Maven coordinate, and
// anything else is downloaded.
func Classify(id Identifier) Kind {
	switch id.Scheme {
	case "", "file":
		return KindFile
	case "urn":
		return KindMaven
	default:
		return KindURL
	}
}

// Create parses raw and constructs the one strategy that handles it.
// Construction performs no I/O; acquisition happens in LocalPath.
func Create(raw string, opts Options) (Deployable, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.Validation("deployable", "deployable is required")
	}

	id := ParseIdentifier(raw)
	switch Classify(id) {
	case KindFile:
		f, err := types.NewFile(id)
		if err != nil {
			return nil, err
		}
		return f, nil
	case KindMaven:
		repository := opts.Repository
		if repository == "" {
			repository = maven.DefaultRepository()
		}
		fetcher := opts.Fetcher
		if fetcher == nil {
			fetcher = maven.NewCommandFetcher(maven.Config{})
		}
		m, err := types.NewMaven(fetcher, id, repository, !opts.LenientFetch)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		u, err := types.NewURL(opts.HTTPClient, id, opts.TempDir)
		if err != nil {
			return nil, err
		}
		return u, nil
	}
}
