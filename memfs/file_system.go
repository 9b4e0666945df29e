// Package memfs provides the in-memory omnifs backend. It implements the
// full contract over a single directory tree and is the reference for the
// operation semantics the other backends approximate: it never returns
// ErrUnavailable and leaves the tree untouched when an operation fails.
package memfs

import (
	iofs "io/fs"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/omnifs/omnifs"
	"github.com/omnifs/omnifs/fspath"
)

// FS is an in-memory filesystem. One read-write mutex guards the whole
// tree: lookups and listings share the read lock, mutations take the write
// lock, and no lock is held while a handle is in the caller's hands.
type FS struct {
	mu   sync.RWMutex
	root *node
}

var _ omnifs.FileSystem = (*FS)(nil)

// NewFS returns an empty filesystem containing only the root directory.
func NewFS() *FS {
	return &FS{root: newDirNode("/")}
}

func (m *FS) Create(name string) (omnifs.File, error) {
	const op = "create"
	if fspath.HasDirHint(name) {
		return nil, pathError(op, name, omnifs.ErrIsDir)
	}
	comps, err := fspath.Components(name)
	if err != nil {
		return nil, err
	}
	if len(comps) == 0 {
		return nil, pathError(op, name, omnifs.ErrIsDir)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parent, err := m.dirAt(op, name, comps[:len(comps)-1])
	if err != nil {
		return nil, err
	}

	leaf := comps[len(comps)-1]
	child, ok := parent.children[leaf]
	switch {
	case ok && child.dir:
		return nil, pathError(op, name, omnifs.ErrIsDir)
	case ok:
		child.data = nil
		child.modTime = time.Now()
	default:
		child = newFileNode(leaf)
		parent.children[leaf] = child
		parent.modTime = child.created
	}

	return newMemFile(m, strings.Join(comps, "/"), child), nil
}

func (m *FS) Open(name string) (omnifs.File, error) {
	const op = "open"
	if fspath.HasDirHint(name) {
		return nil, pathError(op, name, omnifs.ErrIsDir)
	}
	comps, err := fspath.Components(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	n, err := m.nodeAt(op, name, comps)
	if err != nil {
		return nil, err
	}
	if n.dir {
		return nil, pathError(op, name, omnifs.ErrIsDir)
	}

	return newMemFile(m, strings.Join(comps, "/"), n), nil
}

func (m *FS) Remove(name string) error {
	const op = "remove"
	comps, err := fspath.Components(name)
	if err != nil {
		return err
	}
	if len(comps) == 0 {
		return pathError(op, name, omnifs.ErrIsDir)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parent, err := m.dirAt(op, name, comps[:len(comps)-1])
	if err != nil {
		return err
	}

	leaf := comps[len(comps)-1]
	child, ok := parent.children[leaf]
	if !ok {
		return pathError(op, name, omnifs.ErrNotFound)
	}
	if child.dir {
		return pathError(op, name, omnifs.ErrIsDir)
	}

	delete(parent.children, leaf)
	parent.modTime = time.Now()
	return nil
}

func (m *FS) Mkdir(name string) error {
	const op = "mkdir"
	comps, err := fspath.Components(name)
	if err != nil {
		return err
	}
	if len(comps) == 0 {
		return pathError(op, name, omnifs.ErrExist)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parent, err := m.dirAt(op, name, comps[:len(comps)-1])
	if err != nil {
		return err
	}

	leaf := comps[len(comps)-1]
	if _, ok := parent.children[leaf]; ok {
		return pathError(op, name, omnifs.ErrExist)
	}

	child := newDirNode(leaf)
	parent.children[leaf] = child
	parent.modTime = child.created
	return nil
}

// MkdirAll creates every missing level of name. Errors can only arise from
// components that already exist, and those always precede the first
// creation, so a failed call leaves the tree untouched.
func (m *FS) MkdirAll(name string) error {
	const op = "mkdir"
	comps, err := fspath.Components(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.root
	for i, comp := range comps {
		next, ok := cur.children[comp]
		if ok && !next.dir {
			if i == len(comps)-1 {
				return pathError(op, name, omnifs.ErrExist)
			}
			return pathError(op, name, omnifs.ErrNotDir)
		}
		if !ok {
			next = newDirNode(comp)
			cur.children[comp] = next
			cur.modTime = next.created
		}
		cur = next
	}
	return nil
}

func (m *FS) RemoveDir(name string) error {
	const op = "rmdir"
	comps, err := fspath.Components(name)
	if err != nil {
		return err
	}
	if len(comps) == 0 {
		return pathError(op, name, omnifs.ErrInvalidPath)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parent, err := m.dirAt(op, name, comps[:len(comps)-1])
	if err != nil {
		return err
	}

	leaf := comps[len(comps)-1]
	child, ok := parent.children[leaf]
	if !ok {
		return pathError(op, name, omnifs.ErrNotFound)
	}
	if !child.dir {
		return pathError(op, name, omnifs.ErrNotDir)
	}
	if len(child.children) > 0 {
		return pathError(op, name, omnifs.ErrDirNotEmpty)
	}

	delete(parent.children, leaf)
	parent.modTime = time.Now()
	return nil
}

func (m *FS) RemoveAll(name string) error {
	const op = "removeall"
	comps, err := fspath.Components(name)
	if err != nil {
		return err
	}
	if len(comps) == 0 {
		return pathError(op, name, omnifs.ErrInvalidPath)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parent, err := m.dirAt(op, name, comps[:len(comps)-1])
	if err != nil {
		return err
	}

	leaf := comps[len(comps)-1]
	child, ok := parent.children[leaf]
	if !ok {
		return pathError(op, name, omnifs.ErrNotFound)
	}
	if !child.dir {
		return pathError(op, name, omnifs.ErrNotDir)
	}

	removeTree(child)
	delete(parent.children, leaf)
	parent.modTime = time.Now()
	return nil
}

func (m *FS) ReadDir(name string) ([]omnifs.DirEntry, error) {
	const op = "readdir"
	comps, err := fspath.Components(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	n, err := m.nodeAt(op, name, comps)
	if err != nil {
		return nil, err
	}
	if !n.dir {
		return nil, pathError(op, name, omnifs.ErrNotDir)
	}

	names := make([]string, 0, len(n.children))
	for childName := range n.children {
		names = append(names, childName)
	}
	slices.Sort(names)

	base := strings.Join(comps, "/")
	entries := make([]omnifs.DirEntry, len(names))
	for i, childName := range names {
		entries[i] = omnifs.NewDirEntry(m, fspath.Join(base, childName))
	}
	return entries, nil
}

func (m *FS) Rename(oldname, newname string) error {
	const op = "rename"
	oldComps, err := fspath.Components(oldname)
	if err != nil {
		return err
	}
	newComps, err := fspath.Components(newname)
	if err != nil {
		return err
	}
	if len(oldComps) == 0 {
		return pathError(op, oldname, omnifs.ErrInvalidPath)
	}
	if len(newComps) == 0 {
		return pathError(op, newname, omnifs.ErrExist)
	}
	if slices.Equal(oldComps, newComps) {
		return nil
	}
	// Moving a directory into its own subtree would orphan it.
	if len(newComps) > len(oldComps) && slices.Equal(newComps[:len(oldComps)], oldComps) {
		return pathError(op, newname, omnifs.ErrInvalidPath)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	oldParent, err := m.dirAt(op, oldname, oldComps[:len(oldComps)-1])
	if err != nil {
		return err
	}
	oldLeaf := oldComps[len(oldComps)-1]
	n, ok := oldParent.children[oldLeaf]
	if !ok {
		return pathError(op, oldname, omnifs.ErrNotFound)
	}

	newParent, err := m.dirAt(op, newname, newComps[:len(newComps)-1])
	if err != nil {
		return err
	}
	newLeaf := newComps[len(newComps)-1]
	if _, exists := newParent.children[newLeaf]; exists {
		return pathError(op, newname, omnifs.ErrExist)
	}

	delete(oldParent.children, oldLeaf)
	n.name = newLeaf
	newParent.children[newLeaf] = n

	now := time.Now()
	oldParent.modTime = now
	newParent.modTime = now
	return nil
}

func (m *FS) Stat(name string) (omnifs.FileInfo, error) {
	comps, err := fspath.Components(name)
	if err != nil {
		return omnifs.FileInfo{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	n, err := m.nodeAt("stat", name, comps)
	if err != nil {
		return omnifs.FileInfo{}, err
	}
	return n.info(), nil
}

func (m *FS) Chmod(name string, mode iofs.FileMode) error {
	comps, err := fspath.Components(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := m.nodeAt("chmod", name, comps)
	if err != nil {
		return err
	}
	n.mode = mode.Perm()
	return nil
}

// dirAt resolves comps from the root and requires the result to be a
// directory. Callers hold the tree lock.
func (m *FS) dirAt(op, name string, comps []string) (*node, error) {
	cur := m.root
	for _, comp := range comps {
		next, ok := cur.children[comp]
		if !ok {
			return nil, pathError(op, name, omnifs.ErrNotFound)
		}
		if !next.dir {
			return nil, pathError(op, name, omnifs.ErrNotDir)
		}
		cur = next
	}
	return cur, nil
}

// nodeAt resolves comps from the root to any node. Callers hold the tree
// lock.
func (m *FS) nodeAt(op, name string, comps []string) (*node, error) {
	if len(comps) == 0 {
		return m.root, nil
	}
	parent, err := m.dirAt(op, name, comps[:len(comps)-1])
	if err != nil {
		return nil, err
	}
	child, ok := parent.children[comps[len(comps)-1]]
	if !ok {
		return nil, pathError(op, name, omnifs.ErrNotFound)
	}
	return child, nil
}

func pathError(op, path string, err error) *omnifs.PathError {
	return &omnifs.PathError{Op: op, Path: path, Err: err}
}
