package profile

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path"
	"strings"

	"github.com/omnifs/omnifs"
	"github.com/omnifs/omnifs/internal/errors"

	"github.com/goccy/go-yaml"
)

const storeName = "profiles.yaml"

// FileBackend persists profiles as YAML through any omnifs filesystem,
// by default the local one rooted at the user's config directory.
type FileBackend struct {
	Dir        string
	FileSystem omnifs.FileSystem
}

func NewFileBackend(dir string, filesystem omnifs.FileSystem) (*FileBackend, error) {
	dir, err := expandTilde(dir)
	if err != nil {
		return nil, err
	}

	return &FileBackend{Dir: dir, FileSystem: filesystem}, nil
}

func (f FileBackend) Load() (Store, error) {
	filepath := path.Join(f.Dir, storeName)
	fd, err := f.FileSystem.Open(filepath)
	if err != nil {
		if errors.Is(err, omnifs.ErrNotFound) {
			return Store{}, nil
		}

		return nil, errors.Wrapf(err, "unable to open %q", filepath)
	}
	defer fd.Close()

	contents, err := io.ReadAll(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %q", filepath)
	}

	var profiles Store
	if err := yaml.Unmarshal(contents, &profiles); err != nil {
		return nil, errors.Wrapf(err, "unable to parse %q", filepath)
	}
	if profiles == nil {
		profiles = Store{}
	}

	return profiles, nil
}

func (f FileBackend) Save(profiles Store) error {
	err := f.FileSystem.MkdirAll(f.Dir)
	if err != nil {
		return errors.Wrapf(err, "unable to create %q", f.Dir)
	}

	contents, err := yaml.Marshal(profiles)
	if err != nil {
		return errors.Wrap(err, "unable to serialize profiles")
	}

	filepath := path.Join(f.Dir, storeName)
	fd, err := f.FileSystem.Create(filepath)
	if err != nil {
		return errors.Wrapf(err, "unable to create %q", filepath)
	}

	if _, err := fd.Write(contents); err != nil {
		fd.Close()
		return errors.Wrapf(err, "unable to write profiles to %q", filepath)
	}

	// Close publishes the buffered write on remote filesystems, so its
	// error is the write's error.
	if err := fd.Close(); err != nil {
		return errors.Wrapf(err, "unable to write profiles to %q", filepath)
	}

	return nil
}

var tildeSlash = fmt.Sprintf("~%v", string(os.PathSeparator))

func expandTilde(dir string) (string, error) {
	user, err := user.Current()
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(dir, tildeSlash) {
		return path.Join(user.HomeDir, strings.TrimPrefix(dir, tildeSlash)), nil
	} else if dir == "~" {
		return user.HomeDir, nil
	} else {
		return dir, nil
	}
}
