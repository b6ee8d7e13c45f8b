package types

import (
	"context"
	"deployables/internal/apperrors"
	"deployables/internal/maven"
	"errors"
	"io/fs"
	"log/slog"
	"os"
)

// fetchOutputLines is how much of the fetch output a failure carries.
const fetchOutputLines = 20

// Maven is a deployable stored in a Maven local repository.
type Maven struct {
	ID          string     `json:"id"`
	Coordinate  Coordinate `json:"coordinate"`
	Repository  string     `json:"repository"`
	VerifyFetch bool       `json:"verifyFetch"`

	fetcher maven.Fetcher
}

// NewMaven parses a urn:mvn identifier. Parsing errors never touch the
// filesystem or the network.
func NewMaven(fetcher maven.Fetcher, id Identifier, repository string, verifyFetch bool) (*Maven, error) {
	c, err := ParseCoordinate(id)
	if err != nil {
		return nil, err
	}
	if repository == "" {
		return nil, apperrors.Internal("maven.repository", errors.New("local repository is not configured"))
	}
	return &Maven{
		ID:          id.Raw,
		Coordinate:  c,
		Repository:  repository,
		VerifyFetch: verifyFetch,
		fetcher:     fetcher,
	}, nil
}

func (a *Maven) Identifier() string { return a.ID }
func (a *Maven) Kind() Kind         { return KindMaven }
func (a *Maven) FileName() string   { return a.Coordinate.FileName() }

// Path returns the expected location in the local repository.
func (a *Maven) Path() string {
	return a.Coordinate.RepositoryPath(a.Repository)
}

// LocalPath returns the repository path, fetching the artifact first if it
// is not present yet.
func (a *Maven) LocalPath(ctx context.Context) (string, error) {
	path := a.Path()
	gavt := a.Coordinate.String()

	exists, err := fileExists(path)
	if err != nil {
		return "", apperrors.IOFailure("maven.stat", gavt, err)
	}
	if exists {
		return path, nil
	}

	if a.fetcher == nil {
		return "", apperrors.Internal("maven.fetch", errors.New("no fetcher configured"))
	}
	result, err := a.fetcher.Fetch(ctx, maven.Request{Artifact: gavt, Repository: a.Repository})
	if err != nil {
		return "", err
	}

	exists, err = fileExists(path)
	if err != nil {
		return "", apperrors.IOFailure("maven.stat", gavt, err)
	}
	if !exists {
		if a.VerifyFetch {
			return "", apperrors.FetchFailed(gavt, result.ExitCode, maven.Tail(result.Output, fetchOutputLines))
		}
		slog.Warn("Fetched artifact is missing from the local repository", "artifact", gavt, "path", path, "exitCode", result.ExitCode)
	}

	return path, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
