// Package sink persists rendered chart images on disk and prunes old ones.
package sink

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/google/uuid"
)

// GraphsDir is the directory under the static root that holds stored images.
const GraphsDir = "graphs"

// FileSink writes images into <staticDir>/graphs and returns their public URL.
type FileSink struct {
	dir     string
	baseURL string
	now     func() time.Time
}

var _ contract.ByteSink = &FileSink{} // Compile-time check

// NewFileSink creates the graphs directory under staticDir. When baseURL is empty,
// Store returns file paths instead of URLs.
func NewFileSink(staticDir, baseURL string) (*FileSink, error) {
	dir := filepath.Join(staticDir, GraphsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", dir, err)
	}
	return &FileSink{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}, nil
}

// Dir returns the directory images are written to.
func (s *FileSink) Dir() string {
	return s.dir
}

// Store writes data as <stem>_<uuid><ext>, where stem and ext come from suggestedName
// ("chart.png" when empty).
func (s *FileSink) Store(data []byte, suggestedName string) (string, error) {
	name := fileName(suggestedName)
	full := filepath.Join(s.dir, name)
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", full, err)
	}
	if s.baseURL == "" {
		return full, nil
	}
	return s.baseURL + "/" + path.Join("static", GraphsDir, name), nil
}

// Prune removes stored images whose modification time is older than maxAge. Files not named
// by Store are left alone.
func (s *FileSink) Prune(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, fmt.Errorf("max age must be positive (received %s)", maxAge)
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !storedName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed concurrently
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// storedName reports whether name has the <stem>_<uuid><ext> shape produced by fileName.
func storedName(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	stem := strings.TrimSuffix(name, ext)
	i := strings.LastIndex(stem, "_")
	if i <= 0 || len(stem)-i-1 != 36 {
		return false
	}
	_, err := uuid.Parse(stem[i+1:])
	return err == nil
}

// fileName turns a suggested name into a unique file name.
func fileName(suggested string) string {
	base := filepath.Base(strings.TrimSpace(suggested))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "chart.png"
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".png"
	}
	if stem == "" {
		stem = "chart"
	}
	return fmt.Sprintf("%s_%s%s", stem, uuid.NewString(), ext)
}
