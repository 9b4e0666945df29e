package omnifs

import "io"

// File is an open handle to a file on a backend.
//
// Writes buffer in the handle until Sync publishes them to the backend.
// Close runs a final Sync when unpublished writes exist and then invalidates
// the handle; a handle that is dropped without Close loses its unpublished
// writes but cannot corrupt the backend. Handles are not required to be safe
// for concurrent use.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Name reports the path the handle was opened with.
	Name() string

	// Sync publishes buffered writes to the backend, or fails explicitly.
	Sync() error
}
