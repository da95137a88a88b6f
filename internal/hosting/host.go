package hosting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
)

// Host stores sheet images under stable names
type Host interface {
	// Find returns the URL of an already stored asset
	Find(ctx context.Context, name string) (string, bool, error)
	// Upload stores the file at path under name and returns its URL
	Upload(ctx context.Context, path, name string) (string, error)
}

// Publish stores a sheet under name unless the host already has it. Names
// are the idempotence key: re-running against a populated host uploads
// nothing. render produces the sheet file and only runs when an upload is
// needed.
func Publish(ctx context.Context, h Host, name string, render func() (string, error), log *slog.Logger) (string, error) {
	if log == nil {
		log = slog.Default()
	}

	existing, found, err := h.Find(ctx, name)
	if err != nil {
		return "", fmt.Errorf("error looking up %s: %w", name, err)
	}
	if found {
		log.Info("Found sheet online", "name", name)
		return existing, nil
	}

	path, err := render()
	if err != nil {
		return "", fmt.Errorf("error creating %s: %w", name, err)
	}

	log.Info("Uploading sheet", "name", name)
	u, err := h.Upload(ctx, path, name)
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", name, err)
	}
	return u, nil
}

// Local keeps sheets in Dir and references them by file URL, so bags built
// offline stay valid after the temp folder is removed.
type Local struct {
	Dir string
}

func (l Local) file(name string) string {
	return filepath.Join(l.Dir, name+".jpg")
}

func (l Local) Find(_ context.Context, name string) (string, bool, error) {
	if l.Dir == "" {
		return "", false, errors.New("local host has no folder")
	}
	path := l.file(name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	u, err := fileURL(path)
	return u, err == nil, err
}

// Upload copies the sheet into Dir
func (l Local) Upload(_ context.Context, path, name string) (string, error) {
	if l.Dir == "" {
		return "", errors.New("local host has no folder")
	}
	dst := l.file(name)
	if err := copyFile(path, dst); err != nil {
		return "", err
	}
	return fileURL(dst)
}

func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// copyFile writes dst through a temp file in the same folder and renames it
// into place, so dst is either absent or complete
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("error creating sheet folder: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-"+filepath.Base(dst)+"-")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
