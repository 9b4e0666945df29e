// Package osfs provides the local-disk omnifs backend, a thin passthrough
// to package os. Names are handed to the host OS as written, because the OS
// owns local path semantics; the virtual and remote backends are the ones
// that normalize through fspath.
//
// Rename follows host semantics, which on POSIX replace an existing target
// instead of failing with ErrExist.
package osfs

import (
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/omnifs/omnifs"
)

const dirMode = iofs.FileMode(0o755)

// FS is a filesystem over the host OS. The zero value is ready to use.
type FS struct{}

var _ omnifs.FileSystem = FS{}
var _ omnifs.File = (*os.File)(nil)

// NewFS returns a filesystem over the host OS.
func NewFS() FS {
	return FS{}
}

func (FS) Create(name string) (omnifs.File, error) {
	if info, err := os.Lstat(name); err == nil && info.IsDir() {
		return nil, &omnifs.PathError{Op: "create", Path: name, Err: omnifs.ErrIsDir}
	}

	fd, err := os.Create(name)
	if err != nil {
		return nil, notDirErr("create", name, err)
	}
	return fd, nil
}

func (FS) Open(name string) (omnifs.File, error) {
	if info, err := os.Lstat(name); err == nil && info.IsDir() {
		return nil, &omnifs.PathError{Op: "open", Path: name, Err: omnifs.ErrIsDir}
	}

	fd, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return nil, notDirErr("open", name, err)
	}
	return fd, nil
}

func (FS) Remove(name string) error {
	info, err := os.Lstat(name)
	if err != nil {
		return notDirErr("remove", name, err)
	}
	if info.IsDir() {
		return &omnifs.PathError{Op: "remove", Path: name, Err: omnifs.ErrIsDir}
	}
	return os.Remove(name)
}

func (FS) Mkdir(name string) error {
	if err := os.Mkdir(name, dirMode); err != nil {
		return notDirErr("mkdir", name, err)
	}
	return nil
}

func (FS) MkdirAll(name string) error {
	err := os.MkdirAll(name, dirMode)
	if err == nil {
		return nil
	}
	if info, statErr := os.Lstat(name); statErr == nil && !info.IsDir() {
		return &omnifs.PathError{Op: "mkdir", Path: name, Err: omnifs.ErrExist}
	}
	return notDirErr("mkdir", name, err)
}

func (FS) RemoveDir(name string) error {
	info, err := os.Lstat(name)
	if err != nil {
		return notDirErr("rmdir", name, err)
	}
	if !info.IsDir() {
		return &omnifs.PathError{Op: "rmdir", Path: name, Err: omnifs.ErrNotDir}
	}

	entries, err := os.ReadDir(name)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return &omnifs.PathError{Op: "rmdir", Path: name, Err: omnifs.ErrDirNotEmpty}
	}
	return os.Remove(name)
}

func (FS) RemoveAll(name string) error {
	info, err := os.Lstat(name)
	if err != nil {
		return notDirErr("removeall", name, err)
	}
	if !info.IsDir() {
		return &omnifs.PathError{Op: "removeall", Path: name, Err: omnifs.ErrNotDir}
	}
	return os.RemoveAll(name)
}

func (fsys FS) ReadDir(name string) ([]omnifs.DirEntry, error) {
	files, err := os.ReadDir(name)
	if err != nil {
		if info, statErr := os.Lstat(name); statErr == nil && !info.IsDir() {
			return nil, &omnifs.PathError{Op: "readdir", Path: name, Err: omnifs.ErrNotDir}
		}
		return nil, notDirErr("readdir", name, err)
	}

	entries := make([]omnifs.DirEntry, len(files))
	for i, file := range files {
		entries[i] = omnifs.NewDirEntry(fsys, filepath.Join(name, file.Name()))
	}
	return entries, nil
}

func (FS) Rename(oldname, newname string) error {
	err := os.Rename(oldname, newname)
	if err == nil {
		return nil
	}
	for _, name := range []string{oldname, newname} {
		if parentIsFile(name) {
			return &omnifs.PathError{Op: "rename", Path: name, Err: omnifs.ErrNotDir}
		}
	}
	return err
}

// Stat does not follow symlinks, so a link reports TypeSymlink rather than
// its target's type.
func (FS) Stat(name string) (omnifs.FileInfo, error) {
	info, err := os.Lstat(name)
	if err != nil {
		return omnifs.FileInfo{}, notDirErr("stat", name, err)
	}
	return omnifs.FileInfoFrom(info), nil
}

func (FS) Chmod(name string, mode iofs.FileMode) error {
	if err := os.Chmod(name, mode.Perm()); err != nil {
		return notDirErr("chmod", name, err)
	}
	return nil
}

// notDirErr rewrites err as ErrNotDir when an existing ancestor of name is
// a file. That case surfaces from the OS as an errno with no portable
// sentinel; every other failure already carries one of the taxonomy
// sentinels or stays as it is.
func notDirErr(op, name string, err error) error {
	if err == nil {
		return nil
	}
	if parentIsFile(name) {
		return &omnifs.PathError{Op: op, Path: name, Err: omnifs.ErrNotDir}
	}
	return err
}

// parentIsFile walks name's ancestors looking for the nearest one that
// exists and reports whether it is a file.
func parentIsFile(name string) bool {
	dir := filepath.Dir(name)
	for {
		info, err := os.Lstat(dir)
		if err == nil {
			return !info.IsDir()
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}
