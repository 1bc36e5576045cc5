package partial

import "path"

const maxWalkDepth = 10

var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// Entry is a partial reachable from the roots.
type Entry struct {
	Path     string // include path, e.g. "components/button"
	Location string
}

// Walk lists every partial reachable from roots. The first root providing a
// path wins; directories deeper than ten levels are not visited.
func Walk(roots []Node, ext string) []Entry {
	seen := make(map[string]bool)
	var out []Entry

	var visit func(dir Node, prefix string, depth int)
	visit = func(dir Node, prefix string, depth int) {
		if depth > maxWalkDepth {
			return
		}
		for _, child := range dir.Children() {
			if child.IsDir() {
				if skipDirs[child.Name()] {
					continue
				}
				visit(child, path.Join(prefix, child.Name()), depth+1)
				continue
			}
			name, ok := DisplayName(child, ext)
			if !ok {
				continue
			}
			p := path.Join(prefix, name)
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, Entry{Path: p, Location: child.Location()})
		}
	}

	for _, root := range roots {
		visit(root, "", 0)
	}
	return out
}
