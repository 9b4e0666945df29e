package sshfs

import (
	"bytes"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/omnifs/omnifs"
	"github.com/omnifs/omnifs/internal/errors"
	"github.com/omnifs/omnifs/internal/sshconn"
)

// kind is the shape of a remote path as reported by classify.
type kind byte

const (
	kindMissing kind = 0
	kindFile    kind = 'f'
	kindDir     kind = 'd'
	kindLink    kind = 'l'
	kindOther   kind = 'o'
)

// output runs cmd in a fresh session and returns its stdout. Session and
// transport failures classify as ErrUnavailable; nonzero exits go through
// execError.
func (f *FS) output(op, name, cmd string) ([]byte, error) {
	sess, err := f.conn.NewSession()
	if err != nil {
		return nil, sshconn.Unavailable(f.addr, err)
	}
	defer sess.Close()

	var stdout, stderr bytes.Buffer
	sess.Stdout = &stdout
	sess.Stderr = &stderr
	if err := sess.Run(cmd); err != nil {
		return nil, f.execError(op, name, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// run is output for commands whose stdout does not matter.
func (f *FS) run(op, name, cmd string) error {
	_, err := f.output(op, name, cmd)
	return err
}

// push streams data to name through cat, replacing the file's content.
func (f *FS) push(name string, data []byte) error {
	sess, err := f.conn.NewSession()
	if err != nil {
		return sshconn.Unavailable(f.addr, err)
	}
	defer sess.Close()

	sess.Stdin = bytes.NewReader(data)
	var stderr bytes.Buffer
	sess.Stderr = &stderr
	if err := sess.Run("cat > " + quote(name)); err != nil {
		return f.execError("sync", name, err, stderr.String())
	}
	return nil
}

// classify reports what sits at p without following symlinks. The compound
// test always exits zero, so errors here mean the session itself failed.
func (f *FS) classify(op, name, p string) (kind, error) {
	q := quote(p)
	out, err := f.output(op, name,
		"if test -h "+q+"; then echo l;"+
			" elif test -d "+q+"; then echo d;"+
			" elif test -f "+q+"; then echo f;"+
			" elif test -e "+q+"; then echo o; fi")
	if err != nil {
		return kindMissing, err
	}

	switch strings.TrimSpace(string(out)) {
	case "l":
		return kindLink, nil
	case "d":
		return kindDir, nil
	case "f":
		return kindFile, nil
	case "o":
		return kindOther, nil
	}
	return kindMissing, nil
}

// execError maps a failed command onto the taxonomy. Exits with a
// recognizable diagnostic become the matching sentinel; anything else keeps
// the captured stderr.
func (f *FS) execError(op, name string, err error, stderr string) error {
	var exitErr *ssh.ExitError
	if !errors.As(err, &exitErr) {
		return sshconn.Unavailable(f.addr, err)
	}

	stderr = strings.TrimSpace(stderr)
	if kind := sniffErr(stderr); kind != nil {
		return &omnifs.PathError{Op: op, Path: name, Err: kind}
	}
	if stderr != "" {
		return &omnifs.PathError{Op: op, Path: name, Err: errors.New(stderr)}
	}
	return &omnifs.PathError{Op: op, Path: name, Err: err}
}

// sniffErr matches the C-locale strerror text remote tools print. sshd runs
// commands without locale variables, so the phrases are stable across GNU
// and busybox userlands.
func sniffErr(stderr string) error {
	msg := strings.ToLower(stderr)
	switch {
	case strings.Contains(msg, "no such file or directory"):
		return omnifs.ErrNotFound
	case strings.Contains(msg, "not a directory"):
		return omnifs.ErrNotDir
	case strings.Contains(msg, "is a directory"):
		return omnifs.ErrIsDir
	case strings.Contains(msg, "not empty"):
		return omnifs.ErrDirNotEmpty
	case strings.Contains(msg, "file exists"):
		return omnifs.ErrExist
	case strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "operation not permitted"):
		return omnifs.ErrPermission
	}
	return nil
}

// quote wraps name in single quotes for the remote shell, closing and
// reopening the quoting around embedded single quotes.
func quote(name string) string {
	return "'" + strings.ReplaceAll(name, "'", `'\''`) + "'"
}
