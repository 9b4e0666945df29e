package main

import (
	"fmt"
	"os"
	"time"

	"github.com/omnifs/omnifs/internal/cli"
	"github.com/omnifs/omnifs/internal/errors"
	"github.com/omnifs/omnifs/internal/profile"
	"github.com/omnifs/omnifs/memfs"
	"github.com/omnifs/omnifs/osfs"
	"github.com/omnifs/omnifs/s3fs"
	"github.com/omnifs/omnifs/sftpfs"
	"github.com/omnifs/omnifs/sshfs"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
	"golang.org/x/term"
)

var (
	service  cli.Service
	fsCloser func() error
)

// setupService builds the filesystem selected by the profile, flags, and
// environment. Subcommands call it from PreRunE.
func setupService(cmd *cobra.Command) error {
	fsys, closer, err := newFileSystem(cmd)
	if err != nil {
		return err
	}

	fsCloser = closer
	service, err = cli.NewService(cli.Config{FileSystem: fsys})
	return err
}

func closeFileSystem() error {
	if fsCloser == nil {
		return nil
	}

	return fsCloser()
}

func newFileSystem(cmd *cobra.Command) (cli.FileSystem, func() error, error) {
	p, err := resolveProfile(cmd)
	if err != nil {
		return nil, nil, err
	}

	timeout, err := parseTimeout()
	if err != nil {
		return nil, nil, err
	}

	noop := func() error { return nil }

	switch p.Backend {
	case "os", "":
		return osfs.NewFS(), noop, nil

	case "mem":
		return memfs.NewFS(), noop, nil

	case "sftp":
		passphrase, err := keyPassphrase(p.KeyFile)
		if err != nil {
			return nil, nil, err
		}

		fsys, err := sftpfs.NewFS(sftpfs.Config{
			Addr:           p.Addr,
			User:           p.User,
			PrivateKeyPath: p.KeyFile,
			Passphrase:     passphrase,
			Password:       os.Getenv("OMNIFS_PASSWORD"),
			Timeout:        timeout,
		})
		if err != nil {
			return nil, nil, err
		}

		return fsys, fsys.Close, nil

	case "ssh":
		passphrase, err := keyPassphrase(p.KeyFile)
		if err != nil {
			return nil, nil, err
		}

		fsys, err := sshfs.NewFS(sshfs.Config{
			Addr:           p.Addr,
			User:           p.User,
			PrivateKeyPath: p.KeyFile,
			Passphrase:     passphrase,
			Password:       os.Getenv("OMNIFS_PASSWORD"),
			Timeout:        timeout,
		})
		if err != nil {
			return nil, nil, err
		}

		return fsys, fsys.Close, nil

	case "s3":
		fsys, err := s3fs.NewFS(s3fs.Config{
			Endpoint:        p.Endpoint,
			Bucket:          p.Bucket,
			AccessKeyID:     p.AccessKeyID,
			SecretAccessKey: os.Getenv("OMNIFS_S3_SECRET_KEY"),
			SessionToken:    os.Getenv("OMNIFS_S3_SESSION_TOKEN"),
			Region:          p.Region,
			Secure:          p.Secure,
			Prefix:          p.Prefix,
			Timeout:         timeout,
		})
		if err != nil {
			return nil, nil, err
		}

		return fsys, noop, nil
	}

	return nil, nil, errors.Errorf("unknown backend %q", p.Backend)
}

// resolveProfile merges the stored profile with the connection flags.
// Flags and their backing environment variables win over stored values.
func resolveProfile(cmd *cobra.Command) (profile.Profile, error) {
	var p profile.Profile

	if ProfileName != "" {
		backend, err := profileBackend()
		if err != nil {
			return p, err
		}

		p, err = profile.Lookup(backend, ProfileName)
		if err != nil {
			return p, err
		}
	} else {
		p.Secure = Secure
	}

	if BackendName != "" {
		p.Backend = BackendName
	}
	if Addr != "" {
		p.Addr = Addr
	}
	if User != "" {
		p.User = User
	}
	if KeyFile != "" {
		p.KeyFile = KeyFile
	}
	if Endpoint != "" {
		p.Endpoint = Endpoint
	}
	if Bucket != "" {
		p.Bucket = Bucket
	}
	if AccessKeyID != "" {
		p.AccessKeyID = AccessKeyID
	}
	if Region != "" {
		p.Region = Region
	}
	if Prefix != "" {
		p.Prefix = Prefix
	}
	if cmd.Flags().Changed("secure") {
		p.Secure = Secure
	}

	return p, nil
}

func profileBackend() (profile.Backend, error) {
	dir := os.Getenv("OMNIFS_CONFIG_DIR")
	if dir == "" {
		dir = "~/.config/omnifs"
	}

	return profile.NewFileBackend(dir, osfs.NewFS())
}

func parseTimeout() (time.Duration, error) {
	if Timeout == "" {
		return 0, nil
	}

	timeout, err := time.ParseDuration(Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to parse timeout %q", Timeout)
	}

	return timeout, nil
}

// keyPassphrase returns the passphrase for an encrypted private key, asking
// on the terminal when the environment does not supply one. Unencrypted
// keys need none, and unreadable or malformed keys are left for the dial
// to report.
func keyPassphrase(keyFile string) (string, error) {
	if keyFile == "" {
		return "", nil
	}

	if passphrase := os.Getenv("OMNIFS_KEY_PASSPHRASE"); passphrase != "" {
		return passphrase, nil
	}

	pem, err := os.ReadFile(keyFile)
	if err != nil {
		return "", nil
	}

	_, parseErr := ssh.ParsePrivateKey(pem)
	var missing *ssh.PassphraseMissingError
	if !errors.As(parseErr, &missing) {
		return "", nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.Errorf("private key %q is encrypted; set OMNIFS_KEY_PASSPHRASE", keyFile)
	}

	fmt.Fprintf(os.Stderr, "Passphrase for %s: ", keyFile)
	passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "unable to read passphrase")
	}

	return string(passphrase), nil
}
