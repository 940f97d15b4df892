package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Saver downloads files into a local directory.
type Saver struct {
	dir        string
	httpClient *http.Client
}

// NewSaver creates a saver writing into dir. A nil client uses
// http.DefaultClient; downloads have no client-side timeout.
func NewSaver(dir string, hc *http.Client) *Saver {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Saver{dir: dir, httpClient: hc}
}

// Dir returns the target directory.
func (s *Saver) Dir() string {
	return s.dir
}

// Save fetches link and stores the body as name inside the directory,
// returning the final path. The file appears atomically.
func (s *Saver) Save(ctx context.Context, id, name, link string) (string, error) {
	if link == "" {
		return "", errors.New("no download link")
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	path, err := s.reservePath(id, name)
	if err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(s.dir, ".drivevids-*")
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("open tmp: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		_ = os.Remove(path)
		return "", fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		_ = os.Remove(path)
		return "", fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		_ = os.Remove(path)
		return "", fmt.Errorf("rename tmp: %w", err)
	}
	return path, nil
}

// reservePath claims the final path with an empty placeholder so that
// concurrent saves never pick the same name. The display name is used when
// free, then the name with the id appended, then numbered variants.
func (s *Saver) reservePath(id, name string) (string, error) {
	base := SanitizeName(name)
	if base == "" {
		base = SanitizeName(id)
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	sid := SanitizeName(id)

	for i := 0; i < maxNameAttempts; i++ {
		candidate := base
		switch {
		case i == 1:
			candidate = fmt.Sprintf("%s (%s)%s", stem, sid, ext)
		case i > 1:
			candidate = fmt.Sprintf("%s (%s) %d%s", stem, sid, i, ext)
		}
		path := filepath.Join(s.dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			f.Close()
			return path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("reserve %s: %w", candidate, err)
		}
	}
	return "", fmt.Errorf("no free file name for %s", base)
}

const maxNameAttempts = 100

// SanitizeName turns a display name into a single safe path element.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, ". ")
	return name
}
