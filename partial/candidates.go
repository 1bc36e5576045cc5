package partial

import "strings"

// Kind distinguishes candidates that can be descended into from partials.
type Kind int

const (
	KindDirectory Kind = iota
	KindPartial
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Candidate is one completion offered for the segment being typed.
type Candidate struct {
	Name     string
	Kind     Kind
	Location string
}

// InsertText is the text that replaces the typed prefix when the candidate
// is accepted. Directories keep a trailing slash so the next segment can be
// completed right away.
func (c Candidate) InsertText() string {
	if c.Kind == KindDirectory {
		return c.Name + "/"
	}
	return c.Name
}

// ListCandidates lists the children of dir whose display name contains
// prefix. A nil dir lists the children of every root.
func ListCandidates(dir Node, roots []Node, prefix, ext string) []Candidate {
	var children []Node
	if dir != nil {
		children = dir.Children()
	} else {
		for _, root := range roots {
			children = append(children, root.Children()...)
		}
	}

	type key struct{ location, name string }
	seen := make(map[key]bool, len(children))

	var out []Candidate
	for _, child := range children {
		name, ok := DisplayName(child, ext)
		if !ok || !strings.Contains(name, prefix) {
			continue
		}
		k := key{child.Location(), name}
		if seen[k] {
			continue
		}
		seen[k] = true

		kind := KindPartial
		if child.IsDir() {
			kind = KindDirectory
		}
		out = append(out, Candidate{Name: name, Kind: kind, Location: child.Location()})
	}
	return out
}

// Complete runs the whole lookup for the path argument around cursor.
// It returns nil when the cursor is not inside a directive or when the
// directories before the prefix do not resolve.
func Complete(text string, cursor int, roots []Node, ext string) []Candidate {
	span, ok := LocateSpan(text, cursor)
	if !ok {
		return nil
	}
	path := SplitPath(span.Raw)

	var dir Node
	if len(path.Traverse) > 0 {
		if dir, ok = Resolve(path.Traverse, roots, ext); !ok {
			return nil
		}
	}
	return ListCandidates(dir, roots, path.Prefix, ext)
}
