package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/omnifs/omnifs"
	"github.com/omnifs/omnifs/internal/errors"
	"github.com/omnifs/omnifs/internal/render"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// Service holds the main business logic of the CLI.
type Service struct {
	Config
}

func NewService(cfg Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return Service{}, errors.Wrap(err, "validation failed")
	}

	return Service{cfg}, nil
}

// List prints the entries of a directory, one per line. The long form
// resolves each entry's metadata.
func (s Service) List(cfg ListConfig) error {
	err := cfg.Validate()
	if err != nil {
		return errors.Wrap(err, "validation failed")
	}

	entries, err := s.FileSystem.ReadDir(cfg.Path)
	if err != nil {
		return errors.Wrapf(err, "unable to list %q", cfg.Path)
	}

	for _, entry := range entries {
		if !cfg.Long {
			fmt.Fprintln(cfg.Stdout, entry.Name())
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return errors.Wrapf(err, "unable to stat %q", entry.Path())
		}

		fmt.Fprintln(cfg.Stdout, render.ListingRow(info))
	}

	return nil
}

// Cat streams a file's contents to stdout.
func (s Service) Cat(cfg CatConfig) error {
	err := cfg.Validate()
	if err != nil {
		return errors.Wrap(err, "validation failed")
	}

	fd, err := s.FileSystem.Open(cfg.Path)
	if err != nil {
		return errors.Wrapf(err, "unable to open %q", cfg.Path)
	}
	defer fd.Close()

	if _, err := io.Copy(cfg.Stdout, fd); err != nil {
		return errors.Wrapf(err, "error reading %q", cfg.Path)
	}

	return nil
}

// Write creates or truncates a file and fills it from the input reader.
func (s Service) Write(cfg WriteConfig) error {
	err := cfg.Validate()
	if err != nil {
		return errors.Wrap(err, "validation failed")
	}

	stop := progress(cfg.Stderr, fmt.Sprintf(" Writing %s...", cfg.Path))
	defer stop()

	fd, err := s.FileSystem.Create(cfg.Path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %q", cfg.Path)
	}

	if _, err := io.Copy(fd, cfg.Input); err != nil {
		fd.Close()
		return errors.Wrapf(err, "unable to write %q", cfg.Path)
	}

	// Close publishes the buffered content on remote backends.
	if err := fd.Close(); err != nil {
		return errors.Wrapf(err, "unable to write %q", cfg.Path)
	}

	return nil
}

// MakeDir creates a directory, with -p semantics when Parents is set.
func (s Service) MakeDir(cfg MakeDirConfig) error {
	err := cfg.Validate()
	if err != nil {
		return errors.Wrap(err, "validation failed")
	}

	if cfg.Parents {
		err = s.FileSystem.MkdirAll(cfg.Path)
	} else {
		err = s.FileSystem.Mkdir(cfg.Path)
	}
	if err != nil {
		return errors.Wrapf(err, "unable to create %q", cfg.Path)
	}

	return nil
}

// Remove deletes a file, an empty directory (Dir), or a whole subtree
// (Recurse). Force suppresses the missing-path error.
func (s Service) Remove(cfg RemoveConfig) error {
	err := cfg.Validate()
	if err != nil {
		return errors.Wrap(err, "validation failed")
	}

	switch {
	case cfg.Recurse:
		stop := progress(cfg.Stderr, fmt.Sprintf(" Removing %s...", cfg.Path))
		err = s.FileSystem.RemoveAll(cfg.Path)
		stop()
	case cfg.Dir:
		err = s.FileSystem.RemoveDir(cfg.Path)
	default:
		err = s.FileSystem.Remove(cfg.Path)
	}

	if err != nil {
		if cfg.Force && errors.Is(err, omnifs.ErrNotFound) {
			return nil
		}

		if errors.Is(err, omnifs.ErrIsDir) {
			return errors.Wrap(err, "use -r to remove a directory")
		}

		return errors.Wrapf(err, "unable to remove %q", cfg.Path)
	}

	return nil
}

// Move renames a file or directory. The destination must not exist.
func (s Service) Move(cfg MoveConfig) error {
	err := cfg.Validate()
	if err != nil {
		return errors.Wrap(err, "validation failed")
	}

	stop := progress(cfg.Stderr, fmt.Sprintf(" Moving %s...", cfg.Oldname))
	err = s.FileSystem.Rename(cfg.Oldname, cfg.Newname)
	stop()
	if err != nil {
		return errors.Wrapf(err, "unable to move %q to %q", cfg.Oldname, cfg.Newname)
	}

	return nil
}

// Stat prints the metadata block for a path.
func (s Service) Stat(cfg StatConfig) error {
	err := cfg.Validate()
	if err != nil {
		return errors.Wrap(err, "validation failed")
	}

	info, err := s.FileSystem.Stat(cfg.Path)
	if err != nil {
		return errors.Wrapf(err, "unable to stat %q", cfg.Path)
	}

	fmt.Fprint(cfg.Stdout, render.Stat(cfg.Path, info))

	return nil
}

// Chmod sets the permission bits for a path.
func (s Service) Chmod(cfg ChmodConfig) error {
	err := cfg.Validate()
	if err != nil {
		return errors.Wrap(err, "validation failed")
	}

	if err := s.FileSystem.Chmod(cfg.Path, cfg.Mode); err != nil {
		return errors.Wrapf(err, "unable to chmod %q", cfg.Path)
	}

	return nil
}

// progress starts an activity indicator when w is an interactive terminal
// and returns a stop function. Off a terminal the stop function is a no-op,
// so call sites stay unconditional.
func progress(w io.Writer, suffix string) func() {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}
	}

	indicator := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(f))
	indicator.Suffix = suffix
	indicator.Start()

	return indicator.Stop
}
