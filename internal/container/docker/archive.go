package docker

import (
	"archive/tar"
	"deployables/internal/apperrors"
	"fmt"
	"io"
	"os"
)

// tarFile streams a single-entry tar archive holding src under name, the
// format CopyToContainer expects. Closing the reader stops the producer.
func tarFile(src, name string) (io.ReadCloser, int64, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, 0, apperrors.IOFailure("deploy.open", src, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, apperrors.IOFailure("deploy.stat", src, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, 0, apperrors.Validation("deployable", fmt.Sprintf("%s is not a regular file", src))
	}

	pr, pw := io.Pipe()
	go func() {
		defer f.Close()

		tw := tar.NewWriter(pw)
		hdr := &tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     info.Size(),
			ModTime:  info.ModTime(),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(tw, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(tw.Close())
	}()

	return pr, info.Size(), nil
}
