package omnifs

import (
	"errors"
	iofs "io/fs"
)

// The closed error taxonomy every backend maps into. Backends wrap one of
// these sentinels in a *PathError at their client boundary; callers branch
// with errors.Is. Detail from the underlying client may be lost in the
// mapping, the kind may not. A failure that fits none of the sentinels keeps
// its underlying error inside the PathError.
var (
	// ErrNotFound reports that a path does not exist.
	ErrNotFound = iofs.ErrNotExist

	// ErrExist reports that a path already exists.
	ErrExist = iofs.ErrExist

	// ErrPermission reports that the backend denied the operation.
	ErrPermission = iofs.ErrPermission

	// ErrInvalidPath reports an empty, malformed, or root-escaping path.
	ErrInvalidPath = iofs.ErrInvalid

	// ErrNotDir reports that a path component resolved to something other
	// than a directory.
	ErrNotDir = errors.New("not a directory")

	// ErrIsDir reports that a directory was named where a file is required.
	ErrIsDir = errors.New("is a directory")

	// ErrDirNotEmpty reports an attempt to remove a non-empty directory.
	ErrDirNotEmpty = errors.New("directory not empty")

	// ErrUnavailable reports that a backend could not be reached, or that
	// it refused the connection or the credentials. The in-memory engine
	// never returns it.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrClosed reports an operation on a closed handle.
	ErrClosed = iofs.ErrClosed
)

// PathError records the operation, the path it was attempted on, and the
// sentinel or underlying error that caused it to fail.
type PathError = iofs.PathError
