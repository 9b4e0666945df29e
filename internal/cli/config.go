package cli

import (
	"io"
	"io/fs"

	"github.com/pkg/errors"
)

type Config struct {
	FileSystem FileSystem
}

func (c Config) Validate() error {
	if c.FileSystem == nil {
		return errors.New("missing file-system interface")
	}

	return nil
}

type ListConfig struct {
	Path   string
	Long   bool
	Stdout io.Writer
}

func (c ListConfig) Validate() error {
	if c.Path == "" {
		return errors.New("missing path")
	}

	if c.Stdout == nil {
		return errors.New("missing stdout writer")
	}

	return nil
}

type CatConfig struct {
	Path   string
	Stdout io.Writer
}

func (c CatConfig) Validate() error {
	if c.Path == "" {
		return errors.New("missing path")
	}

	if c.Stdout == nil {
		return errors.New("missing stdout writer")
	}

	return nil
}

type WriteConfig struct {
	Path   string
	Input  io.Reader
	Stderr io.Writer
}

func (c WriteConfig) Validate() error {
	if c.Path == "" {
		return errors.New("missing path")
	}

	if c.Input == nil {
		return errors.New("missing input reader")
	}

	return nil
}

type MakeDirConfig struct {
	Path    string
	Parents bool
}

func (c MakeDirConfig) Validate() error {
	if c.Path == "" {
		return errors.New("missing path")
	}

	return nil
}

type RemoveConfig struct {
	Path    string
	Recurse bool
	Dir     bool
	Force   bool
	Stderr  io.Writer
}

func (c RemoveConfig) Validate() error {
	if c.Path == "" {
		return errors.New("missing path")
	}

	if c.Recurse && c.Dir {
		return errors.New("recursive and directory-only removal are mutually exclusive")
	}

	return nil
}

type MoveConfig struct {
	Oldname string
	Newname string
	Stderr  io.Writer
}

func (c MoveConfig) Validate() error {
	if c.Oldname == "" {
		return errors.New("missing source path")
	}

	if c.Newname == "" {
		return errors.New("missing destination path")
	}

	return nil
}

type StatConfig struct {
	Path   string
	Stdout io.Writer
}

func (c StatConfig) Validate() error {
	if c.Path == "" {
		return errors.New("missing path")
	}

	if c.Stdout == nil {
		return errors.New("missing stdout writer")
	}

	return nil
}

type ChmodConfig struct {
	Path string
	Mode fs.FileMode
}

func (c ChmodConfig) Validate() error {
	if c.Path == "" {
		return errors.New("missing path")
	}

	return nil
}
