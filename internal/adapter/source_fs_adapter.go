// Package adapter contains the infrastructure adapters used by the script
// preprocessor: filesystem access, manifest persistence and directory watching.
package adapter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

// SourceFSAdapter abstracts the filesystem operations the domain layer relies
// on. It hides direct `os` access so the workflow can run against an
// in-memory filesystem in tests.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type SourceFSAdapter interface {
	// ListDir returns the regular files directly inside dir, in listing
	// order. Sub-directories are not descended into.
	ListDir(ctx context.Context, dir m.Path) ([]m.Path, error)

	// ReadFile loads a file and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// Create truncates or creates the file at path, creating missing parent
	// directories, and returns it open for writing.
	Create(ctx context.Context, path m.Path) (io.WriteCloser, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalSourceFSAdapter implements SourceFSAdapter on top of an afero filesystem.
type LocalSourceFSAdapter struct {
	fs afero.Fs
}

// NewLocalSourceFSAdapter constructs an adapter backed by the OS filesystem.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return NewSourceFSAdapter(afero.NewOsFs())
}

// NewSourceFSAdapter constructs an adapter backed by fs.
func NewSourceFSAdapter(fs afero.Fs) *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{fs: fs}
}

// ListDir lists the regular files of dir.
func (a *LocalSourceFSAdapter) ListDir(ctx context.Context, dir m.Path) ([]m.Path, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(a.fs, string(dir))
	if err != nil {
		return nil, err
	}

	paths := make([]m.Path, 0, len(entries))

	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}

		paths = append(paths, a.JoinPath(string(dir), entry.Name()))
	}

	return paths, nil
}

// ReadFile loads file contents.
func (a *LocalSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return afero.ReadFile(a.fs, string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(_ context.Context, path m.Path) (os.FileInfo, error) {
	return a.fs.Stat(string(path))
}

// Create opens path for writing, truncating any previous content.
func (a *LocalSourceFSAdapter) Create(ctx context.Context, path m.Path) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := a.fs.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return nil, fmt.Errorf("create parent directory: %w", err)
	}

	return a.fs.Create(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := a.fs.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	return afero.WriteFile(a.fs, string(path), content, perm)
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
