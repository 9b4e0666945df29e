package mocks

import (
	iofs "io/fs"

	"github.com/omnifs/omnifs"

	"github.com/pkg/errors"
)

type FileSystem struct {
	MockCreate    func(name string) (omnifs.File, error)
	MockOpen      func(name string) (omnifs.File, error)
	MockRemove    func(name string) error
	MockMkdir     func(name string) error
	MockMkdirAll  func(name string) error
	MockRemoveDir func(name string) error
	MockRemoveAll func(name string) error
	MockReadDir   func(name string) ([]omnifs.DirEntry, error)
	MockRename    func(oldname, newname string) error
	MockStat      func(name string) (omnifs.FileInfo, error)
	MockChmod     func(name string, mode iofs.FileMode) error
}

func (f *FileSystem) Create(name string) (omnifs.File, error) {
	if f.MockCreate != nil {
		return f.MockCreate(name)
	}

	return nil, errors.New("MockCreate was not configured")
}

func (f *FileSystem) Open(name string) (omnifs.File, error) {
	if f.MockOpen != nil {
		return f.MockOpen(name)
	}

	return nil, errors.New("MockOpen was not configured")
}

func (f *FileSystem) Remove(name string) error {
	if f.MockRemove != nil {
		return f.MockRemove(name)
	}

	return errors.New("MockRemove was not configured")
}

func (f *FileSystem) Mkdir(name string) error {
	if f.MockMkdir != nil {
		return f.MockMkdir(name)
	}

	return errors.New("MockMkdir was not configured")
}

func (f *FileSystem) MkdirAll(name string) error {
	if f.MockMkdirAll != nil {
		return f.MockMkdirAll(name)
	}

	return errors.New("MockMkdirAll was not configured")
}

func (f *FileSystem) RemoveDir(name string) error {
	if f.MockRemoveDir != nil {
		return f.MockRemoveDir(name)
	}

	return errors.New("MockRemoveDir was not configured")
}

func (f *FileSystem) RemoveAll(name string) error {
	if f.MockRemoveAll != nil {
		return f.MockRemoveAll(name)
	}

	return errors.New("MockRemoveAll was not configured")
}

func (f *FileSystem) ReadDir(name string) ([]omnifs.DirEntry, error) {
	if f.MockReadDir != nil {
		return f.MockReadDir(name)
	}

	return nil, errors.New("MockReadDir was not configured")
}

func (f *FileSystem) Rename(oldname, newname string) error {
	if f.MockRename != nil {
		return f.MockRename(oldname, newname)
	}

	return errors.New("MockRename was not configured")
}

func (f *FileSystem) Stat(name string) (omnifs.FileInfo, error) {
	if f.MockStat != nil {
		return f.MockStat(name)
	}

	return omnifs.FileInfo{}, errors.New("MockStat was not configured")
}

func (f *FileSystem) Chmod(name string, mode iofs.FileMode) error {
	if f.MockChmod != nil {
		return f.MockChmod(name, mode)
	}

	return errors.New("MockChmod was not configured")
}
