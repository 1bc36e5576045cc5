package partial

import "strings"

// Node is an entry of the partial namespace, a directory or a file.
type Node interface {
	Name() string // base name, extension included
	IsDir() bool
	Children() []Node
	Location() string // unique location of the entry, e.g. its file path
}

// DisplayName is the name a node is completed and resolved by: directories
// by their bare name, partial files by their name without ext. ok is false
// for files that are not partials.
func DisplayName(n Node, ext string) (name string, ok bool) {
	if n.IsDir() {
		return n.Name(), true
	}
	name = n.Name()
	if ext == "" || !strings.HasSuffix(name, ext) || len(name) == len(ext) {
		return "", false
	}
	return strings.TrimSuffix(name, ext), true
}

// Resolve walks traverse from roots and returns the node named by the last
// segment. Every segment but the last must name a directory. When both a
// directory and a partial match the last segment the directory wins.
func Resolve(traverse []string, roots []Node, ext string) (Node, bool) {
	if len(traverse) == 0 {
		return nil, false
	}

	current := roots
	for i, segment := range traverse {
		last := i == len(traverse)-1

		var next []Node
		for _, parent := range current {
			for _, child := range parent.Children() {
				if !last && !child.IsDir() {
					continue
				}
				if name, ok := DisplayName(child, ext); ok && name == segment {
					next = append(next, child)
				}
			}
		}
		if len(next) == 0 {
			return nil, false
		}
		current = next
	}

	for _, n := range current {
		if n.IsDir() {
			return n, true
		}
	}
	return current[0], true
}

// ResolveFile resolves a complete partial path to the file it includes.
// The last segment is tried as _name<ext>, name<ext>, name/index<ext> and
// finally as a literal file name.
func ResolveFile(path string, roots []Node, ext string) (Node, bool) {
	segments := values(SplitSegments(path))
	if len(segments) == 0 {
		return nil, false
	}
	dirs, name := segments[:len(segments)-1], segments[len(segments)-1]

	parents := roots
	if len(dirs) > 0 {
		parents = nil
		for _, root := range roots {
			if dir, ok := walkDirs(root, dirs); ok {
				parents = append(parents, dir)
			}
		}
	}

	try := []func(Node) (Node, bool){
		func(dir Node) (Node, bool) { return childFile(dir, "_"+name+ext) },
		func(dir Node) (Node, bool) { return childFile(dir, name+ext) },
		func(dir Node) (Node, bool) {
			sub, ok := childDir(dir, name)
			if !ok {
				return nil, false
			}
			return childFile(sub, "index"+ext)
		},
		func(dir Node) (Node, bool) { return childFile(dir, name) },
	}
	for _, lookup := range try {
		for _, dir := range parents {
			if n, ok := lookup(dir); ok {
				return n, true
			}
		}
	}
	return nil, false
}

func walkDirs(from Node, dirs []string) (Node, bool) {
	current := from
	for _, d := range dirs {
		next, ok := childDir(current, d)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func childDir(parent Node, name string) (Node, bool) {
	for _, c := range parent.Children() {
		if c.IsDir() && c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

func childFile(parent Node, name string) (Node, bool) {
	for _, c := range parent.Children() {
		if !c.IsDir() && c.Name() == name {
			return c, true
		}
	}
	return nil, false
}
