// Package sftpfs provides the SFTP omnifs backend over one persistent
// connection. Handles wrap remote files directly, so reads and writes
// stream to the server, and Sync maps to the server-side fsync extension.
//
// Paths are validated lexically and then resolved by the server: absolute
// names are server-absolute, relative names resolve against the session's
// starting directory. Rename uses the protocol rename, which fails when the
// target exists, matching the default policy.
package sftpfs

import (
	iofs "io/fs"
	"os"
	stdpath "path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/omnifs/omnifs"
	"github.com/omnifs/omnifs/fspath"
	"github.com/omnifs/omnifs/internal/errors"
	"github.com/omnifs/omnifs/internal/sshconn"
)

// Config carries the connection parameters for an SFTP filesystem.
type Config struct {
	// Addr is the host:port of the SSH server.
	Addr string
	User string

	// PrivateKeyPath names a PEM-encoded key file; Passphrase decrypts it
	// when the key is protected. Password authenticates when no key is
	// given.
	PrivateKeyPath string
	Passphrase     string
	Password       string

	// Timeout bounds the dial. Zero means 30 seconds.
	Timeout time.Duration
}

func (c Config) conn() sshconn.Config {
	return sshconn.Config{
		Addr:           c.Addr,
		User:           c.User,
		PrivateKeyPath: c.PrivateKeyPath,
		Passphrase:     c.Passphrase,
		Password:       c.Password,
		Timeout:        c.Timeout,
	}
}

// FS is a filesystem on a remote SFTP server.
type FS struct {
	addr   string
	conn   *ssh.Client
	client *sftp.Client
}

var _ omnifs.FileSystem = (*FS)(nil)
var _ omnifs.File = (*sftp.File)(nil)

// NewFS dials addr and opens the SFTP subsystem. Dial, handshake, and auth
// failures classify as ErrUnavailable.
func NewFS(cfg Config) (*FS, error) {
	conn, err := sshconn.Dial(cfg.conn())
	if err != nil {
		return nil, err
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		_ = conn.Close()
		return nil, sshconn.Unavailable(cfg.Addr, err)
	}

	return &FS{addr: cfg.Addr, conn: conn, client: client}, nil
}

// Close shuts down the SFTP subsystem and the underlying connection.
func (f *FS) Close() error {
	if err := f.client.Close(); err != nil {
		_ = f.conn.Close()
		return errors.Wrapf(err, "unable to close sftp client for %s", f.addr)
	}
	return f.conn.Close()
}

func (f *FS) Create(name string) (omnifs.File, error) {
	p, err := fspath.Clean(name)
	if err != nil {
		return nil, err
	}
	if fspath.HasDirHint(name) {
		return nil, &omnifs.PathError{Op: "create", Path: name, Err: omnifs.ErrIsDir}
	}
	if info, statErr := f.client.Lstat(p); statErr == nil && info.IsDir() {
		return nil, &omnifs.PathError{Op: "create", Path: name, Err: omnifs.ErrIsDir}
	}

	fd, err := f.client.OpenFile(p, os.O_RDWR|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return nil, f.convertError("create", name, err)
	}
	return fd, nil
}

func (f *FS) Open(name string) (omnifs.File, error) {
	p, err := fspath.Clean(name)
	if err != nil {
		return nil, err
	}
	if fspath.HasDirHint(name) {
		return nil, &omnifs.PathError{Op: "open", Path: name, Err: omnifs.ErrIsDir}
	}
	if info, statErr := f.client.Lstat(p); statErr == nil && info.IsDir() {
		return nil, &omnifs.PathError{Op: "open", Path: name, Err: omnifs.ErrIsDir}
	}

	fd, err := f.client.OpenFile(p, os.O_RDWR)
	if err != nil {
		return nil, f.convertError("open", name, err)
	}
	return fd, nil
}

func (f *FS) Remove(name string) error {
	p, err := fspath.Clean(name)
	if err != nil {
		return err
	}

	info, err := f.client.Lstat(p)
	if err != nil {
		return f.convertError("remove", name, err)
	}
	if info.IsDir() {
		return &omnifs.PathError{Op: "remove", Path: name, Err: omnifs.ErrIsDir}
	}

	if err := f.client.Remove(p); err != nil {
		return f.convertError("remove", name, err)
	}
	return nil
}

func (f *FS) Mkdir(name string) error {
	p, err := fspath.Clean(name)
	if err != nil {
		return err
	}

	if err := f.client.Mkdir(p); err != nil {
		return f.notDirErr("mkdir", name, p, err)
	}
	return nil
}

func (f *FS) MkdirAll(name string) error {
	p, err := fspath.Clean(name)
	if err != nil {
		return err
	}

	err = f.client.MkdirAll(p)
	if err == nil {
		return nil
	}
	if info, statErr := f.client.Lstat(p); statErr == nil && !info.IsDir() {
		return &omnifs.PathError{Op: "mkdir", Path: name, Err: omnifs.ErrExist}
	}
	return f.notDirErr("mkdir", name, p, err)
}

func (f *FS) RemoveDir(name string) error {
	p, err := fspath.Clean(name)
	if err != nil {
		return err
	}

	info, err := f.client.Lstat(p)
	if err != nil {
		return f.convertError("rmdir", name, err)
	}
	if !info.IsDir() {
		return &omnifs.PathError{Op: "rmdir", Path: name, Err: omnifs.ErrNotDir}
	}

	children, err := f.client.ReadDir(p)
	if err != nil {
		return f.convertError("rmdir", name, err)
	}
	if len(children) > 0 {
		return &omnifs.PathError{Op: "rmdir", Path: name, Err: omnifs.ErrDirNotEmpty}
	}

	if err := f.client.RemoveDirectory(p); err != nil {
		return f.convertError("rmdir", name, err)
	}
	return nil
}

func (f *FS) RemoveAll(name string) error {
	p, err := fspath.Clean(name)
	if err != nil {
		return err
	}

	info, err := f.client.Lstat(p)
	if err != nil {
		return f.convertError("removeall", name, err)
	}
	if !info.IsDir() {
		return &omnifs.PathError{Op: "removeall", Path: name, Err: omnifs.ErrNotDir}
	}

	if err := f.removeTree(p); err != nil {
		return f.convertError("removeall", name, err)
	}
	return nil
}

// removeTree removes p depth-first, children before the directory itself.
func (f *FS) removeTree(p string) error {
	children, err := f.client.ReadDir(p)
	if err != nil {
		return err
	}
	for _, child := range children {
		childPath := stdpath.Join(p, child.Name())
		if child.IsDir() {
			if err := f.removeTree(childPath); err != nil {
				return err
			}
			continue
		}
		if err := f.client.Remove(childPath); err != nil {
			return err
		}
	}
	return f.client.RemoveDirectory(p)
}

func (f *FS) ReadDir(name string) ([]omnifs.DirEntry, error) {
	p, err := fspath.Clean(name)
	if err != nil {
		return nil, err
	}

	infos, err := f.client.ReadDir(p)
	if err != nil {
		if info, statErr := f.client.Lstat(p); statErr == nil && !info.IsDir() {
			return nil, &omnifs.PathError{Op: "readdir", Path: name, Err: omnifs.ErrNotDir}
		}
		return nil, f.convertError("readdir", name, err)
	}

	entries := make([]omnifs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = omnifs.NewDirEntry(f, stdpath.Join(p, info.Name()))
	}
	return entries, nil
}

func (f *FS) Rename(oldname, newname string) error {
	po, err := fspath.Clean(oldname)
	if err != nil {
		return err
	}
	pn, err := fspath.Clean(newname)
	if err != nil {
		return err
	}

	err = f.client.Rename(po, pn)
	if err == nil {
		return nil
	}
	// The protocol rename reports a bare failure when the target exists.
	if _, statErr := f.client.Lstat(pn); statErr == nil {
		return &omnifs.PathError{Op: "rename", Path: newname, Err: omnifs.ErrExist}
	}
	return f.convertError("rename", oldname, err)
}

// Stat does not follow symlinks, so a link reports TypeSymlink rather than
// its target's type.
func (f *FS) Stat(name string) (omnifs.FileInfo, error) {
	p, err := fspath.Clean(name)
	if err != nil {
		return omnifs.FileInfo{}, err
	}

	info, err := f.client.Lstat(p)
	if err != nil {
		return omnifs.FileInfo{}, f.convertError("stat", name, err)
	}
	return omnifs.FileInfoFrom(info), nil
}

func (f *FS) Chmod(name string, mode iofs.FileMode) error {
	p, err := fspath.Clean(name)
	if err != nil {
		return err
	}

	if err := f.client.Chmod(p, os.FileMode(mode.Perm())); err != nil {
		return f.convertError("chmod", name, err)
	}
	return nil
}

// notDirErr rewrites err as ErrNotDir when an existing ancestor of p is a
// file, which the protocol reports as a bare failure.
func (f *FS) notDirErr(op, name, p string, err error) error {
	dir := stdpath.Dir(p)
	for {
		info, statErr := f.client.Lstat(dir)
		if statErr == nil {
			if !info.IsDir() {
				return &omnifs.PathError{Op: op, Path: name, Err: omnifs.ErrNotDir}
			}
			break
		}
		parent := stdpath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return f.convertError(op, name, err)
}

// convertError maps client errors onto the omnifs taxonomy. Connection
// failures classify as ErrUnavailable; unrecognized failures keep their
// underlying error inside the PathError.
func (f *FS) convertError(op, path string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sftp.ErrSSHFxNoConnection) || errors.Is(err, sftp.ErrSSHFxConnectionLost) {
		return sshconn.Unavailable(f.addr, err)
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}

	var fsErr error
	switch {
	case errors.Is(err, os.ErrNotExist):
		fsErr = omnifs.ErrNotFound
	case errors.Is(err, os.ErrExist):
		fsErr = omnifs.ErrExist
	case errors.Is(err, os.ErrPermission):
		fsErr = omnifs.ErrPermission
	case errors.Is(err, os.ErrInvalid):
		fsErr = omnifs.ErrInvalidPath
	default:
		fsErr = err
	}

	return &omnifs.PathError{Op: op, Path: path, Err: fsErr}
}
