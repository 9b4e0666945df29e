// Package buffile implements the whole-content handle shared by remote
// backends that fetch and store files as single blobs. The handle keeps the
// file's bytes in memory; Sync hands them to a backend publish function.
package buffile

import (
	"io"
	iofs "io/fs"
	"sync"

	"github.com/omnifs/omnifs"
)

// PublishFunc stores a handle's content in the backing store. The slice must
// not be retained after the call returns.
type PublishFunc func(data []byte) error

// File buffers content in memory. Reads serve the snapshot taken when the
// handle was opened plus any local writes; Sync and Close publish local
// writes through the backend. An abandoned handle loses its writes.
type File struct {
	name    string
	publish PublishFunc

	mu     sync.Mutex
	data   []byte
	offset int64
	dirty  bool
	closed bool
}

var _ omnifs.File = (*File)(nil)

// New returns a handle over data, which the handle takes ownership of.
func New(name string, data []byte, publish PublishFunc) *File {
	return &File{name: name, data: data, publish: publish}
}

func (f *File) Name() string { return f.name }

func (f *File) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, f.errClosed("read")
	}
	if f.offset >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.offset:])
	f.offset += int64(n)
	return n, nil
}

func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, f.errClosed("write")
	}

	// Writing past the end zero-fills the gap left by a seek.
	if end := f.offset + int64(len(p)); end > int64(len(f.data)) {
		f.data = append(f.data, make([]byte, end-int64(len(f.data)))...)
	}
	n := copy(f.data[f.offset:], p)
	f.offset += int64(n)
	f.dirty = true
	return n, nil
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, f.errClosed("seek")
	}

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.offset + offset
	case io.SeekEnd:
		abs = int64(len(f.data)) + offset
	default:
		return 0, &omnifs.PathError{Op: "seek", Path: f.name, Err: iofs.ErrInvalid}
	}
	if abs < 0 {
		return 0, &omnifs.PathError{Op: "seek", Path: f.name, Err: iofs.ErrInvalid}
	}

	f.offset = abs
	return abs, nil
}

// Sync publishes pending writes. A clean handle publishes nothing.
func (f *File) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return f.errClosed("sync")
	}
	return f.commit()
}

// Close publishes pending writes and invalidates the handle.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return f.errClosed("close")
	}
	err := f.commit()
	f.closed = true
	return err
}

// commit publishes dirty content. Callers hold f.mu.
func (f *File) commit() error {
	if !f.dirty {
		return nil
	}
	if err := f.publish(f.data); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

func (f *File) errClosed(op string) error {
	return &omnifs.PathError{Op: op, Path: f.name, Err: omnifs.ErrClosed}
}
