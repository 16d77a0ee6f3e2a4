// Package reserves serializes and publishes the reserve estimate.
package reserves

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/domain"
)

// FormatReserve renders v as the shortest decimal text that parses back to
// the same float64, without an exponent (e.g. "0", "58.19").
func FormatReserve(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteFile writes the reserve to path. The text goes to a temporary file in
// the same directory which is renamed into place, so a failed write leaves
// no partial output behind.
func WriteFile(path string, v float64) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}

	if _, err := tmp.WriteString(FormatReserve(v)); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &domain.IOError{Op: "write", Path: path, Err: fmt.Errorf("rename: %w", err)}
	}

	return nil
}
