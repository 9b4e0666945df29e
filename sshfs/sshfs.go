// Package sshfs provides an omnifs backend for hosts that speak SSH but do
// not serve the SFTP subsystem. Every operation execs POSIX tools in a fresh
// session on one persistent connection, so the remote account needs a
// POSIX-compatible shell plus coreutils or busybox; Stat additionally relies
// on stat -c, which both provide.
//
// Handles carry the whole file: Open fetches the content through cat, and
// Sync streams it back the same way. That suits configuration-sized files,
// not bulk data. Paths are validated lexically and then resolved by the
// remote side, exactly as in sftpfs.
package sshfs

import (
	"fmt"
	iofs "io/fs"
	stdpath "path"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/omnifs/omnifs"
	"github.com/omnifs/omnifs/fspath"
	"github.com/omnifs/omnifs/internal/buffile"
	"github.com/omnifs/omnifs/internal/errors"
	"github.com/omnifs/omnifs/internal/sshconn"
)

// Config carries the connection parameters for an exec-over-SSH filesystem.
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

// FS is a filesystem on a remote host reached through SSH command execution.
type FS struct {
	addr string
	conn *ssh.Client
}

var _ omnifs.FileSystem = (*FS)(nil)

// NewFS dials addr. Dial, handshake, and auth failures classify as
// ErrUnavailable.
func NewFS(cfg Config) (*FS, error) {
	conn, err := sshconn.Dial(cfg.conn())
	if err != nil {
		return nil, err
	}
	return &FS{addr: cfg.Addr, conn: conn}, nil
}

// Close shuts down the underlying connection.
func (f *FS) Close() error {
	if err := f.conn.Close(); err != nil {
		return errors.Wrapf(err, "unable to close connection to %s", f.addr)
	}
	return nil
}

func (f *FS) Create(name string) (omnifs.File, error) {
	p, err := fspath.Clean(name)
	if err != nil {
		return nil, err
	}
	if fspath.HasDirHint(name) {
		return nil, &omnifs.PathError{Op: "create", Path: name, Err: omnifs.ErrIsDir}
	}

	k, err := f.classify("create", name, p)
	if err != nil {
		return nil, err
	}
	if k == kindDir {
		return nil, &omnifs.PathError{Op: "create", Path: name, Err: omnifs.ErrIsDir}
	}

	// touch reports a missing parent cleanly; the redirect then truncates.
	q := quote(p)
	if err := f.run("create", name, "touch -- "+q+" && : > "+q); err != nil {
		return nil, err
	}
	return buffile.New(p, nil, f.publisher(p)), nil
}

func (f *FS) Open(name string) (omnifs.File, error) {
	p, err := fspath.Clean(name)
	if err != nil {
		return nil, err
	}
	if fspath.HasDirHint(name) {
		return nil, &omnifs.PathError{Op: "open", Path: name, Err: omnifs.ErrIsDir}
	}

	content, err := f.output("open", name, "cat -- "+quote(p))
	if err != nil {
		return nil, err
	}
	return buffile.New(p, content, f.publisher(p)), nil
}

func (f *FS) Remove(name string) error {
	p, err := fspath.Clean(name)
	if err != nil {
		return err
	}
	return f.run("remove", name, "rm -- "+quote(p))
}

func (f *FS) Mkdir(name string) error {
	p, err := fspath.Clean(name)
	if err != nil {
		return err
	}
	return f.run("mkdir", name, "mkdir -- "+quote(p))
}

func (f *FS) MkdirAll(name string) error {
	p, err := fspath.Clean(name)
	if err != nil {
		return err
	}
	return f.run("mkdir", name, "mkdir -p -- "+quote(p))
}

func (f *FS) RemoveDir(name string) error {
	p, err := fspath.Clean(name)
	if err != nil {
		return err
	}
	return f.run("rmdir", name, "rmdir -- "+quote(p))
}

func (f *FS) RemoveAll(name string) error {
	p, err := fspath.Clean(name)
	if err != nil {
		return err
	}

	// rm -rf succeeds on anything, so the kind checks happen up front.
	k, err := f.classify("removeall", name, p)
	if err != nil {
		return err
	}
	switch k {
	case kindMissing:
		return &omnifs.PathError{Op: "removeall", Path: name, Err: omnifs.ErrNotFound}
	case kindDir:
	default:
		return &omnifs.PathError{Op: "removeall", Path: name, Err: omnifs.ErrNotDir}
	}

	return f.run("removeall", name, "rm -rf -- "+quote(p))
}

func (f *FS) ReadDir(name string) ([]omnifs.DirEntry, error) {
	p, err := fspath.Clean(name)
	if err != nil {
		return nil, err
	}

	// The trailing slash makes ls fail with ENOTDIR on files instead of
	// echoing the name back.
	out, err := f.output("readdir", name, "ls -Ap -- "+quote(p+"/"))
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(out), "\n")
	entries := make([]omnifs.DirEntry, 0, len(lines))
	for _, line := range lines {
		childName := strings.TrimSuffix(line, "/")
		if childName == "" {
			continue
		}
		entries = append(entries, omnifs.NewDirEntry(f, stdpath.Join(p, childName)))
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

	// mv replaces existing targets silently, so occupancy is probed first.
	k, err := f.classify("rename", newname, pn)
	if err != nil {
		return err
	}
	if k != kindMissing {
		return &omnifs.PathError{Op: "rename", Path: newname, Err: omnifs.ErrExist}
	}

	return f.run("rename", oldname, "mv -- "+quote(po)+" "+quote(pn))
}

// Stat does not follow symlinks, so a link reports TypeSymlink rather than
// its target's type.
func (f *FS) Stat(name string) (omnifs.FileInfo, error) {
	p, err := fspath.Clean(name)
	if err != nil {
		return omnifs.FileInfo{}, err
	}

	out, err := f.output("stat", name, "stat -c '%F|%s|%Y|%a' -- "+quote(p))
	if err != nil {
		return omnifs.FileInfo{}, err
	}
	return parseStat(name, p, strings.TrimSpace(string(out)))
}

func (f *FS) Chmod(name string, mode iofs.FileMode) error {
	p, err := fspath.Clean(name)
	if err != nil {
		return err
	}
	return f.run("chmod", name, fmt.Sprintf("chmod %o -- %s", mode.Perm(), quote(p)))
}

// publisher binds push to a path for handle commits.
func (f *FS) publisher(p string) buffile.PublishFunc {
	return func(data []byte) error {
		return f.push(p, data)
	}
}

// parseStat decodes the "%F|%s|%Y|%a" stat format.
func parseStat(name, p, out string) (omnifs.FileInfo, error) {
	badOutput := func() (omnifs.FileInfo, error) {
		return omnifs.FileInfo{}, &omnifs.PathError{
			Op:   "stat",
			Path: name,
			Err:  errors.Errorf("unexpected stat output %q", out),
		}
	}

	fields := strings.SplitN(out, "|", 4)
	if len(fields) != 4 {
		return badOutput()
	}

	size, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return badOutput()
	}
	modTime, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return badOutput()
	}
	mode, err := strconv.ParseUint(fields[3], 8, 32)
	if err != nil {
		return badOutput()
	}

	fileType := omnifs.TypeUnknown
	switch fields[0] {
	case "directory":
		fileType = omnifs.TypeDirectory
	case "regular file", "regular empty file":
		fileType = omnifs.TypeRegular
	case "symbolic link":
		fileType = omnifs.TypeSymlink
	}

	return omnifs.FileInfo{
		Name:    stdpath.Base(p),
		Size:    size,
		Type:    fileType,
		Mode:    iofs.FileMode(mode),
		ModTime: time.Unix(modTime, 0),
	}, nil
}
