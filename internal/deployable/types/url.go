package types

import (
	"context"
	"deployables/internal/apperrors"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// URL downloads a deployable from a remote location.
type URL struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	TempDir string `json:"tempDir,omitempty"` // Parent for download directories (default: os.TempDir)

	httpClient *http.Client
}

// NewURL creates a URL deployable. The file name is derived here, so it is
// known even if the download later fails.
func NewURL(httpClient *http.Client, id Identifier, tempDir string) (*URL, error) {
	name := urlFileName(id.Specific)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, apperrors.Validation("deployable", fmt.Sprintf("no file name in '%s'", id.Raw))
	}
	return &URL{
		ID:         id.Raw,
		Name:       name,
		TempDir:    tempDir,
		httpClient: httpClient,
	}, nil
}

func (a *URL) Identifier() string { return a.ID }
func (a *URL) Kind() Kind         { return KindURL }
func (a *URL) FileName() string   { return a.Name }

// LocalPath downloads into a fresh temporary directory and returns the file
// path. Every call downloads again. On failure the directory is removed.
func (a *URL) LocalPath(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp(a.TempDir, "downloads")
	if err != nil {
		return "", apperrors.IOFailure("download.tempdir", a.ID, err)
	}
	destPath := filepath.Join(dir, a.Name)

	if err := a.download(ctx, destPath); err != nil {
		_ = os.RemoveAll(dir)
		return "", err
	}
	return destPath, nil
}

func (a *URL) download(ctx context.Context, destPath string) error {
	slog.Info("Downloading deployable", "url", a.ID, "path", destPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.ID, http.NoBody)
	if err != nil {
		return apperrors.IOFailure("download.request", a.ID, err)
	}

	client := a.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return a.transportError(ctx, client, "download.get", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.DownloadFailed(a.ID, resp.StatusCode, statusText(resp))
	}

	file, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return apperrors.IOFailure("download.create", a.ID, err)
	}
	defer file.Close()

	written, err := io.Copy(file, resp.Body)
	if err != nil {
		return a.transportError(ctx, client, "download.write", err)
	}

	if err := file.Sync(); err != nil {
		return apperrors.IOFailure("download.sync", a.ID, err)
	}

	slog.Debug("Downloaded file", "bytes", written, "path", destPath)
	return nil
}

// transportError keeps timeouts distinct from other failures. Only the
// client timeout is named in the message; a caller deadline has no
// duration known here.
func (a *URL) transportError(ctx context.Context, client *http.Client, op string, err error) error {
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.Canceled):
		return fmt.Errorf("download %s: %w", a.ID, ctxErr)
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return apperrors.DownloadTimeout(a.ID, 0)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.DownloadTimeout(a.ID, client.Timeout)
	}
	return apperrors.IOFailure(op, a.ID, err)
}

// urlFileName returns the decoded last path segment, ignoring query and fragment.
func urlFileName(specific string) string {
	if i := strings.IndexAny(specific, "?#"); i >= 0 {
		specific = specific[:i]
	}
	name := lastSegment(specific)
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	return name
}

// statusText returns the reason phrase sent by the server, e.g. "Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
