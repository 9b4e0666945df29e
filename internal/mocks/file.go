package mocks

import (
	"bytes"

	"github.com/pkg/errors"
)

// File reads and writes through a plain buffer. Reads consume the content
// the mock was seeded with; writes append and are visible in Buffer after
// the fact. Sync and Close only record that they were called.
type File struct {
	FileName string
	*bytes.Buffer
	Synced bool
	Closed bool
}

func NewFile(name, content string) *File {
	file := new(File)
	file.FileName = name
	file.Buffer = bytes.NewBufferString(content)
	return file
}

func (f *File) Name() string {
	return f.FileName
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	return 0, errors.New("mock files are not seekable")
}

func (f *File) Sync() error {
	f.Synced = true
	return nil
}

func (f *File) Close() error {
	f.Closed = true
	return nil
}
