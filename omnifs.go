// Package omnifs provides a uniform filesystem abstraction with
// interchangeable backends: an in-memory engine, the local OS, object
// storage, SFTP, and plain SSH.
//
// Every backend implements FileSystem and agrees on the path rules in
// package fspath and on the error taxonomy in this package, so code written
// against the interface behaves the same wherever it runs.
package omnifs

import iofs "io/fs"

// FileSystem is the contract every backend implements. Implementations are
// safe for concurrent use. Paths use "/" as the separator; absolute and
// relative forms are equivalent inside virtual backends, both anchored at
// the backend root.
type FileSystem interface {
	// Create makes a new empty file and returns an open handle to it,
	// truncating the file if it already exists. The parent directory must
	// exist.
	Create(name string) (File, error)

	// Open opens an existing file for reading and writing with the cursor
	// at offset 0.
	Open(name string) (File, error)

	// Remove deletes a file. Directories are rejected with ErrIsDir.
	Remove(name string) error

	// Mkdir creates a single directory level under an existing parent.
	Mkdir(name string) error

	// MkdirAll creates every missing directory level. It succeeds when the
	// full path already names a directory, and mutates nothing on error.
	MkdirAll(name string) error

	// RemoveDir deletes an empty directory.
	RemoveDir(name string) error

	// RemoveAll deletes a directory and everything beneath it, children
	// before parents.
	RemoveAll(name string) error

	// ReadDir lists the immediate children of a directory. Order is stable
	// for as long as the directory is not mutated.
	ReadDir(name string) ([]DirEntry, error)

	// Rename moves a file or a directory. Each backend documents its
	// overwrite policy; the default is to fail with ErrExist when newname
	// already exists.
	Rename(oldname, newname string) error

	// Stat resolves the current metadata for a path.
	Stat(name string) (FileInfo, error)

	// Chmod sets the permission bits for a path. Backends record the mode
	// where they can; none of them enforce it.
	Chmod(name string, mode iofs.FileMode) error
}
