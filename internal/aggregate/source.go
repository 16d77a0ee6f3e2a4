// Package aggregate combines the reserve files written by independent
// simulation jobs into a single figure.
package aggregate

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/domain"
)

// Object is one candidate result file
type Object struct {
	Key  string
	Size int64
}

// Source lists and reads result files
type Source interface {
	List(ctx context.Context) ([]Object, error)
	Read(ctx context.Context, obj Object) ([]byte, error)
	// Location renders a key for logs and errors.
	Location(key string) string
}

// DirSource reads results from a local directory tree, such as the shared
// volume the simulation jobs write to. Keys are slash-separated paths
// relative to Dir.
type DirSource struct {
	Dir string
}

// List walks Dir recursively. Directories are not returned.
func (s DirSource) List(ctx context.Context) ([]Object, error) {
	objects := []Object{}
	err := filepath.WalkDir(s.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.Dir, path)
		if err != nil {
			return err
		}
		objects = append(objects, Object{Key: filepath.ToSlash(rel), Size: info.Size()})
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.IOError{Op: "list", Path: s.Dir, Err: err}
	}
	return objects, nil
}

// Read returns the file contents
func (s DirSource) Read(ctx context.Context, obj Object) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Location(obj.Key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// Location returns the filesystem path of key
func (s DirSource) Location(key string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(key))
}
