// Package storage implements the narrow storage collaborator the catalog
// core depends on (§6.4): path normalization plus read-only folder and
// document handles. Generic storage primitives beyond this three-operation
// surface are explicitly out of scope (§1) and live with engine-side
// callers, not here.
package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrInvalidPath indicates Normalize was given a path that could not be
// made absolute.
var ErrInvalidPath = errors.New("invalid storage path")

// Collaborator is the interface the catalog core consumes. LocalCollaborator
// is the only implementation this module ships; a future revision could add
// one backed by a virtual/remote filesystem without touching the core.
type Collaborator interface {
	Normalize(path string) (string, error)
	GetFolder(path string) (Folder, error)
	GetDocument(path string) (Document, error)
}

// LocalCollaborator implements Collaborator over the local filesystem using
// only the standard library: the §1 non-goal scoping out generic storage
// primitives means no pack library narrows to this exact three-method
// surface, so os/path/filepath is used directly rather than adopting a
// broader storage abstraction the core does not need.
type LocalCollaborator struct{}

// NewLocalCollaborator constructs a Collaborator backed by the local
// filesystem.
func NewLocalCollaborator() *LocalCollaborator {
	return &LocalCollaborator{}
}

// Normalize implements Collaborator.
func (LocalCollaborator) Normalize(path string) (string, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(ErrInvalidPath, err.Error())
	}
	return absolute, nil
}

// GetFolder implements Collaborator.
func (LocalCollaborator) GetFolder(path string) (Folder, error) {
	return Folder{location: path}, nil
}

// GetDocument implements Collaborator.
func (LocalCollaborator) GetDocument(path string) (Document, error) {
	return Document{location: path}, nil
}

// Folder is a read-only handle to a directory.
type Folder struct {
	location string
}

// Exists reports whether the folder is present on disk.
func (f Folder) Exists() bool {
	info, err := os.Stat(f.location)
	return err == nil && info.IsDir()
}

// Location returns the folder's stable path.
func (f Folder) Location() string {
	return f.location
}

// Documents recursively enumerates every file beneath the folder,
// returning paths relative to the folder's location with "/" separators.
// Inaccessible entries are skipped rather than failing the whole walk.
func (f Folder) Documents() ([]string, error) {
	return f.walk(func(d os.DirEntry) bool { return !d.IsDir() })
}

// Subfolders recursively enumerates every directory beneath the folder,
// returning paths relative to the folder's location with "/" separators.
func (f Folder) Subfolders() ([]string, error) {
	return f.walk(func(d os.DirEntry) bool { return d.IsDir() })
}

func (f Folder) walk(include func(os.DirEntry) bool) ([]string, error) {
	var results []string
	err := filepath.WalkDir(f.location, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == f.location {
			return nil
		}
		if !include(d) {
			return nil
		}
		relative, relErr := filepath.Rel(f.location, path)
		if relErr != nil {
			return nil
		}
		results = append(results, filepath.ToSlash(relative))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Document is a read-only handle to a file.
type Document struct {
	location string
}

// Exists reports whether the document is present on disk.
func (d Document) Exists() bool {
	info, err := os.Stat(d.location)
	return err == nil && !info.IsDir()
}

// Location returns the document's stable path.
func (d Document) Location() string {
	return d.location
}

// OpenRead opens the document for reading. The caller must close it.
func (d Document) OpenRead() (io.ReadCloser, error) {
	return os.Open(d.location)
}
