package files

import (
	"os"
	"path/filepath"
	"strings"

	"cpsatlas/internal/errors"
)

// Resolve locates an input file. An explicit path wins when given
// (relative paths are taken against dir); otherwise the patterns are
// tried in order against dir and the most recently modified match is
// used. A missing explicit file or an exhausted pattern list is a hard
// failure: the pipeline never silently runs without one of its inputs.
func Resolve(explicit, dir string, patterns ...string) (string, error) {
	if explicit != "" {
		path := explicit
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if _, err := os.Stat(path); err != nil {
			return "", errors.NewIOError("input file not found", err).
				WithContext("file", path)
		}
		return path, nil
	}

	d := NewDiscovery(dir)
	for _, pattern := range patterns {
		matches, err := d.FindFilesByPattern("", pattern)
		if err != nil {
			return "", err
		}
		if latest, ok := GetLatestFile(matches); ok {
			return latest.Path, nil
		}
	}

	return "", errors.NewNotFoundError("input file").
		WithContext("dir", dir).
		WithContext("patterns", strings.Join(patterns, ", "))
}
