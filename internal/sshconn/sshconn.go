// Package sshconn dials and authenticates the SSH connections shared by the
// sftpfs and sshfs backends. Host keys are not verified; these backends are
// written for hosts the caller already trusts.
package sshconn

import (
	"os"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/omnifs/omnifs"
	"github.com/omnifs/omnifs/internal/errors"
)

const defaultTimeout = 30 * time.Second

// Config carries the connection parameters for an SSH-backed filesystem.
type Config struct {
	// Addr is the host:port of the SSH server.
	Addr string
	User string

	// PrivateKeyPath names a PEM-encoded key file; Passphrase decrypts it
	// when the key is protected. Password authenticates when no key is
	// given, or as a fallback when both are set.
	PrivateKeyPath string
	Passphrase     string
	Password       string

	// Timeout bounds the dial. Zero means 30 seconds.
	Timeout time.Duration
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("missing address")
	}
	if c.User == "" {
		return errors.New("missing user")
	}
	if c.PrivateKeyPath == "" && c.Password == "" {
		return errors.New("missing private key path or password")
	}
	return nil
}

// Dial connects and authenticates. Dial and auth failures classify as
// ErrUnavailable so every backend surfaces them uniformly.
func Dial(cfg Config) (*ssh.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	auth, err := authMethods(cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	client, err := ssh.Dial("tcp", cfg.Addr, &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	})
	if err != nil {
		return nil, Unavailable(cfg.Addr, err)
	}
	return client, nil
}

// Unavailable ties err to the ErrUnavailable sentinel, keeping the detail
// in the message.
func Unavailable(addr string, err error) error {
	return errors.Wrapf(omnifs.ErrUnavailable, "%s: %v", addr, err)
}

func authMethods(cfg Config) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if cfg.PrivateKeyPath != "" {
		signer, err := loadKey(cfg.PrivateKeyPath, cfg.Passphrase)
		if err != nil {
			return nil, err
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		methods = append(methods, ssh.Password(cfg.Password))
	}
	return methods, nil
}

func loadKey(path, passphrase string) (ssh.Signer, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read private key %q", path)
	}

	var signer ssh.Signer
	if passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(pem, []byte(passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(pem)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse private key %q", path)
	}
	return signer, nil
}
