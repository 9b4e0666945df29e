package memfs

import (
	"io"
	iofs "io/fs"
	"slices"
	"sync"
	"time"

	"github.com/omnifs/omnifs"
)

var _ omnifs.File = (*memFile)(nil)

// memFile is a handle over a node. Reads pass through to the committed node
// content until the first write; the first write snapshots that content into
// a private buffer, after which the handle works on its own view. Sync
// publishes the buffer back to the node, Close publishes outstanding writes
// and invalidates the handle. A handle keeps its node alive even after the
// node is detached from the tree, like an unlinked file.
type memFile struct {
	fs     *FS
	node   *node
	name   string
	mu     sync.Mutex
	offset int64
	buf    []byte
	dirty  bool
	closed bool
}

func newMemFile(m *FS, name string, n *node) *memFile {
	return &memFile{fs: m, node: n, name: name}
}

func (f *memFile) Name() string {
	return f.name
}

func (f *memFile) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, f.errClosed("read")
	}
	if f.dirty {
		return f.readFrom(f.buf, p)
	}

	f.fs.mu.RLock()
	defer f.fs.mu.RUnlock()
	return f.readFrom(f.node.data, p)
}

// readFrom copies from data at the cursor. Callers hold f.mu.
func (f *memFile) readFrom(data, p []byte) (int, error) {
	if f.offset >= int64(len(data)) {
		return 0, io.EOF
	}
	n := copy(p, data[f.offset:])
	f.offset += int64(n)
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, f.errClosed("write")
	}

	if !f.dirty {
		f.fs.mu.RLock()
		f.buf = slices.Clone(f.node.data)
		f.fs.mu.RUnlock()
		f.dirty = true
	}

	// Writing past the end zero-fills the gap left by a seek.
	if end := f.offset + int64(len(p)); end > int64(len(f.buf)) {
		f.buf = append(f.buf, make([]byte, end-int64(len(f.buf)))...)
	}
	n := copy(f.buf[f.offset:], p)
	f.offset += int64(n)
	return n, nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
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
		abs = f.size() + offset
	default:
		return 0, &omnifs.PathError{Op: "seek", Path: f.name, Err: iofs.ErrInvalid}
	}
	if abs < 0 {
		return 0, &omnifs.PathError{Op: "seek", Path: f.name, Err: iofs.ErrInvalid}
	}

	f.offset = abs
	return abs, nil
}

// size reports the length of the handle's current view. Callers hold f.mu.
func (f *memFile) size() int64 {
	if f.dirty {
		return int64(len(f.buf))
	}
	f.fs.mu.RLock()
	defer f.fs.mu.RUnlock()
	return int64(len(f.node.data))
}

func (f *memFile) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return f.errClosed("sync")
	}
	f.commit()
	return nil
}

func (f *memFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return f.errClosed("close")
	}
	f.commit()
	f.closed = true
	return nil
}

// commit publishes the private buffer to the node. Callers hold f.mu.
func (f *memFile) commit() {
	if !f.dirty {
		return
	}
	f.fs.mu.Lock()
	f.node.data = slices.Clone(f.buf)
	f.node.modTime = time.Now()
	f.fs.mu.Unlock()
}

func (f *memFile) errClosed(op string) error {
	return &omnifs.PathError{Op: op, Path: f.name, Err: omnifs.ErrClosed}
}
