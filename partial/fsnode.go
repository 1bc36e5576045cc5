package partial

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// FSNode is a namespace node backed by an fs.FS. Children are read on every
// call, so a node always reflects the current state of the file system.
type FSNode struct {
	fsys     fs.FS
	name     string // slash path inside fsys, "." for the root
	dir      bool
	location string
}

// NewFSRoot returns the root directory node of fsys. location identifies the
// root in candidates, usually the directory fsys was opened from.
func NewFSRoot(fsys fs.FS, location string) *FSNode {
	return &FSNode{fsys: fsys, name: ".", dir: true, location: location}
}

func (n *FSNode) Name() string {
	if n.name == "." {
		return filepath.Base(n.location)
	}
	return path.Base(n.name)
}

func (n *FSNode) IsDir() bool      { return n.dir }
func (n *FSNode) Location() string { return n.location }

// Children returns the directory entries sorted by file name. Unreadable
// directories and files have no children.
func (n *FSNode) Children() []Node {
	if !n.dir {
		return nil
	}
	entries, err := fs.ReadDir(n.fsys, n.name)
	if err != nil {
		return nil
	}

	children := make([]Node, 0, len(entries))
	for _, e := range entries {
		name := path.Join(n.name, e.Name())
		dir := e.IsDir()
		if e.Type()&fs.ModeSymlink != 0 {
			if info, err := fs.Stat(n.fsys, name); err == nil {
				dir = info.IsDir()
			}
		}
		children = append(children, &FSNode{
			fsys:     n.fsys,
			name:     name,
			dir:      dir,
			location: filepath.Join(n.location, filepath.FromSlash(e.Name())),
		})
	}
	return children
}

// DirRoots is a RootSource over directories on disk. The list of existing
// roots is cached until Invalidate is called.
type DirRoots struct {
	dirs   []string
	logger hclog.Logger

	mu     sync.Mutex
	cached []Node
	valid  bool
}

// NewDirRoots returns a root source for dirs. Relative paths are made
// absolute and duplicates are dropped.
func NewDirRoots(dirs []string, logger hclog.Logger) *DirRoots {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	seen := make(map[string]bool)
	var abs []string
	for _, d := range dirs {
		a, err := filepath.Abs(d)
		if err != nil {
			logger.Warn("skipping template root", "dir", d, "error", err)
			continue
		}
		if seen[a] {
			continue
		}
		seen[a] = true
		abs = append(abs, a)
	}
	return &DirRoots{dirs: abs, logger: logger}
}

// Dirs returns the configured root directories, existing or not.
func (r *DirRoots) Dirs() []string {
	return append([]string(nil), r.dirs...)
}

// Roots returns a node for every configured directory that exists.
func (r *DirRoots) Roots() []Node {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.valid {
		return r.cached
	}

	var roots []Node
	for _, d := range r.dirs {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			r.logger.Debug("template root unavailable", "dir", d)
			continue
		}
		roots = append(roots, NewFSRoot(os.DirFS(d), d))
	}
	r.cached, r.valid = roots, true
	r.logger.Trace("template roots loaded", "count", len(r.cached))
	return r.cached
}

// Invalidate drops the cached root list.
func (r *DirRoots) Invalidate() {
	r.mu.Lock()
	r.valid = false
	r.mu.Unlock()
}
