package omnifs

import "github.com/omnifs/omnifs/fspath"

// DirEntry is one entry of a directory listing. Type and Info resolve
// against the live filesystem at call time, so both fail with ErrNotFound
// once the entry has been removed.
type DirEntry interface {
	// Name is the base name of the entry.
	Name() string

	// Path is the full path of the entry within its filesystem.
	Path() string

	Type() (FileType, error)
	Info() (FileInfo, error)
}

// NewDirEntry returns a DirEntry that resolves path lazily through fsys.
func NewDirEntry(fsys FileSystem, path string) DirEntry {
	return dirEntry{fsys: fsys, path: path}
}

type dirEntry struct {
	fsys FileSystem
	path string
}

func (e dirEntry) Name() string {
	return fspath.Base(e.path)
}

func (e dirEntry) Path() string {
	return e.path
}

func (e dirEntry) Type() (FileType, error) {
	info, err := e.fsys.Stat(e.path)
	if err != nil {
		return TypeUnknown, err
	}
	return info.Type, nil
}

func (e dirEntry) Info() (FileInfo, error) {
	return e.fsys.Stat(e.path)
}
