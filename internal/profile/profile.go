// Package profile stores named backend configurations so the CLI can
// reconnect to a filesystem without respelling its parameters. Profiles
// hold connection settings only; secrets stay in the environment.
package profile

import (
	"sort"

	"github.com/omnifs/omnifs/internal/errors"
)

// Profile holds the backend selection and connection settings stored
// under a profile name.
type Profile struct {
	Backend string `yaml:"backend"`

	// SFTP and SSH settings.
	Addr    string `yaml:"addr,omitempty"`
	User    string `yaml:"user,omitempty"`
	KeyFile string `yaml:"key_file,omitempty"`

	// Object storage settings.
	Endpoint    string `yaml:"endpoint,omitempty"`
	Bucket      string `yaml:"bucket,omitempty"`
	AccessKeyID string `yaml:"access_key_id,omitempty"`
	Region      string `yaml:"region,omitempty"`
	Secure      bool   `yaml:"secure,omitempty"`
	Prefix      string `yaml:"prefix,omitempty"`
}

// Store maps profile names to their settings.
type Store map[string]Profile

func Add(backend Backend, name string, p Profile) error {
	profiles, err := backend.Load()
	if err != nil {
		return err
	}

	profiles[name] = p
	return backend.Save(profiles)
}

func Remove(backend Backend, name string) error {
	profiles, err := backend.Load()
	if err != nil {
		return err
	}

	if _, ok := profiles[name]; !ok {
		return errors.Errorf("no profile named %q", name)
	}

	delete(profiles, name)
	return backend.Save(profiles)
}

func Lookup(backend Backend, name string) (Profile, error) {
	profiles, err := backend.Load()
	if err != nil {
		return Profile{}, err
	}

	p, ok := profiles[name]
	if !ok {
		return Profile{}, errors.Errorf("no profile named %q", name)
	}

	return p, nil
}

// Names returns the stored profile names in listing order.
func Names(backend Backend) ([]string, error) {
	profiles, err := backend.Load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}
