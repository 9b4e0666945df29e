package omnifs

import (
	iofs "io/fs"
	"time"
)

// FileType distinguishes the kinds of entry a backend can report. Only the
// local OS and SFTP backends can observe symlinks; no backend creates them.
type FileType int

const (
	TypeUnknown FileType = iota
	TypeRegular
	TypeDirectory
	TypeSymlink
)

func (t FileType) String() string {
	switch t {
	case TypeRegular:
		return "file"
	case TypeDirectory:
		return "directory"
	case TypeSymlink:
		return "symlink"
	}
	return "unknown"
}

// FileInfo is the metadata a backend reports for a single path.
type FileInfo struct {
	Name    string
	Size    int64
	Type    FileType
	Mode    iofs.FileMode
	ModTime time.Time
}

func (fi FileInfo) IsDir() bool {
	return fi.Type == TypeDirectory
}

// FileInfoFrom converts a standard library FileInfo.
func FileInfoFrom(fi iofs.FileInfo) FileInfo {
	return FileInfo{
		Name:    fi.Name(),
		Size:    fi.Size(),
		Type:    FileTypeOf(fi.Mode()),
		Mode:    fi.Mode().Perm(),
		ModTime: fi.ModTime(),
	}
}

// FileTypeOf classifies a standard library file mode.
func FileTypeOf(mode iofs.FileMode) FileType {
	switch {
	case mode.IsDir():
		return TypeDirectory
	case mode&iofs.ModeSymlink != 0:
		return TypeSymlink
	case mode.IsRegular():
		return TypeRegular
	}
	return TypeUnknown
}
