package cli

import (
	"io/fs"

	"github.com/omnifs/omnifs"
)

// FileSystem lists the backend operations the service drives. Every omnifs
// backend satisfies it.
type FileSystem interface {
	Create(name string) (omnifs.File, error)
	Open(name string) (omnifs.File, error)
	Remove(name string) error
	Mkdir(name string) error
	MkdirAll(name string) error
	RemoveDir(name string) error
	RemoveAll(name string) error
	ReadDir(name string) ([]omnifs.DirEntry, error)
	Rename(oldname, newname string) error
	Stat(name string) (omnifs.FileInfo, error)
	Chmod(name string, mode fs.FileMode) error
}
