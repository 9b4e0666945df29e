package memfs

import (
	iofs "io/fs"
	"time"

	"github.com/omnifs/omnifs"
)

const (
	defaultFileMode = iofs.FileMode(0o644)
	defaultDirMode  = iofs.FileMode(0o755)
)

// node is one entry in the tree. The parent owns its children; the tree
// structure is guarded by the FS mutex, never by the node itself.
type node struct {
	name     string
	dir      bool
	data     []byte
	mode     iofs.FileMode
	created  time.Time
	modTime  time.Time
	children map[string]*node
}

func newDirNode(name string) *node {
	now := time.Now()
	return &node{
		name:     name,
		dir:      true,
		mode:     defaultDirMode,
		created:  now,
		modTime:  now,
		children: make(map[string]*node),
	}
}

func newFileNode(name string) *node {
	now := time.Now()
	return &node{
		name:    name,
		mode:    defaultFileMode,
		created: now,
		modTime: now,
	}
}

func (n *node) info() omnifs.FileInfo {
	typ := omnifs.TypeRegular
	if n.dir {
		typ = omnifs.TypeDirectory
	}
	return omnifs.FileInfo{
		Name:    n.name,
		Size:    int64(len(n.data)),
		Type:    typ,
		Mode:    n.mode,
		ModTime: n.modTime,
	}
}

// removeTree detaches every descendant, children before parents, so that
// nothing keeps a removed subtree reachable.
func removeTree(n *node) {
	for name, child := range n.children {
		if child.dir {
			removeTree(child)
		}
		delete(n.children, name)
	}
}
