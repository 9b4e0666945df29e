package mocks

import "github.com/omnifs/omnifs"

type DirEntry struct {
	EntryPath string
	EntryInfo omnifs.FileInfo
}

func (d DirEntry) Name() string {
	return d.EntryInfo.Name
}

func (d DirEntry) Path() string {
	return d.EntryPath
}

func (d DirEntry) Type() (omnifs.FileType, error) {
	return d.EntryInfo.Type, nil
}

func (d DirEntry) Info() (omnifs.FileInfo, error) {
	return d.EntryInfo, nil
}
