// Package fspath implements the lexical path rules shared by omnifs
// backends: "/" separators, "." and ".." resolution, and rejection of paths
// that would escape the backend root.
//
// All operations are purely lexical; nothing here touches a filesystem.
// Absolute and relative inputs are equivalent, both anchored at the backend
// root. A trailing separator marks a path the caller wants treated as a
// directory; Normalize strips it, HasDirHint reports it.
package fspath

import (
	iofs "io/fs"
	stdpath "path"
	"strings"
)

// Root is the canonical name of the backend root directory.
const Root = "."

// Normalize returns the canonical form of name: components joined by "/",
// with empty and "." components dropped and ".." resolved against the
// components before it. The root normalizes to Root. Empty names, and names
// whose ".." would climb above the root, are rejected with a PathError
// wrapping fs.ErrInvalid.
func Normalize(name string) (string, error) {
	comps, err := Components(name)
	if err != nil {
		return "", err
	}
	if len(comps) == 0 {
		return Root, nil
	}
	return strings.Join(comps, "/"), nil
}

// Components splits name into its normalized components. The root is the
// empty slice.
func Components(name string) ([]string, error) {
	if name == "" {
		return nil, invalid(name)
	}

	comps := make([]string, 0, strings.Count(name, "/")+1)
	for _, seg := range strings.Split(name, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(comps) == 0 {
				return nil, invalid(name)
			}
			comps = comps[:len(comps)-1]
		default:
			comps = append(comps, seg)
		}
	}

	return comps, nil
}

// Clean validates name against the Normalize rules and returns it in
// cleaned form with its absolute or relative style preserved. The remote
// backends use it when the server, not the library, resolves the path.
func Clean(name string) (string, error) {
	if _, err := Normalize(name); err != nil {
		return "", err
	}
	return stdpath.Clean(name), nil
}

// HasDirHint reports whether name carries a trailing separator asking for
// the path to be treated as a directory. The bare root does not count.
func HasDirHint(name string) bool {
	return name != "/" && strings.HasSuffix(name, "/")
}

// IsAbs reports whether name is written in absolute style.
func IsAbs(name string) bool {
	return strings.HasPrefix(name, "/")
}

// Join joins any number of elements with "/", cleaning the result the way
// path.Join does. Escapes above the root are preserved, not resolved, so
// that Normalize can reject them later.
func Join(elem ...string) string {
	return stdpath.Join(elem...)
}

// Base returns the last component of name, ignoring any trailing separator.
func Base(name string) string {
	return stdpath.Base(name)
}

// Dir returns all but the last component of name. The parent of a single
// component is Root.
func Dir(name string) string {
	return stdpath.Dir(name)
}

func invalid(name string) error {
	return &iofs.PathError{Op: "normalize", Path: name, Err: iofs.ErrInvalid}
}
