// Package layout keeps component directories at <project>/<component> when
// external generators insist on naming their output themselves.
package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNameCollision is returned when the expected directory is already taken.
var ErrNameCollision = errors.New("directory already exists")

// Reconcile moves generated to expected. It is a no-op when generated does
// not exist or both paths are the same directory. When expected is
// already occupied nothing is touched and ErrNameCollision is returned.
func Reconcile(expected, generated string) (bool, error) {
	if filepath.Clean(expected) == filepath.Clean(generated) {
		return false, nil
	}
	if _, err := os.Lstat(generated); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", generated, err)
	}
	if _, err := os.Lstat(expected); err == nil {
		return false, fmt.Errorf("cannot rename %s to %s: %w", filepath.Base(generated), expected, ErrNameCollision)
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("checking %s: %w", expected, err)
	}
	if err := os.Rename(generated, expected); err != nil {
		return false, fmt.Errorf("renaming %s to %s: %w", generated, expected, err)
	}
	return true, nil
}

// EnsureDir creates dir (and parents) if missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether path exists. Errors other than "not exist" are
// returned so callers can abort instead of guessing.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsEmptyDir reports whether dir exists and has no entries.
func IsEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}
