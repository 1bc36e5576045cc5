package partial

import (
	"regexp"
	"strings"
)

var referencePattern = regexp.MustCompile(`\{\{>\s*(['"]?)([^\s'"}]+)`)

// Reference is a complete partial path found in template text.
type Reference struct {
	Path     string
	Start    int       // rune offset of the path in the text
	End      int       // rune offset after the path
	Segments []Segment // offsets relative to the text
}

// FindReferences returns every directive in text with a complete path. A
// quoted path must be followed by its closing quote.
func FindReferences(text string) []Reference {
	var refs []Reference
	for _, m := range referencePattern.FindAllStringSubmatchIndex(text, -1) {
		quote := text[m[2]:m[3]]
		pathStart, pathEnd := m[4], m[5]
		if quote != "" && !strings.HasPrefix(text[pathEnd:], quote) {
			continue
		}

		path := text[pathStart:pathEnd]
		start := runeIndex(text, pathStart)
		segments := SplitSegments(path)
		for i := range segments {
			segments[i].Start += start
			segments[i].End += start
		}
		refs = append(refs, Reference{
			Path:     path,
			Start:    start,
			End:      start + len([]rune(path)),
			Segments: segments,
		})
	}
	return refs
}

// Unresolved returns the index of the first segment of r that names nothing
// in the namespace, or -1 when the whole path resolves to a partial file.
func (r Reference) Unresolved(roots []Node, ext string) int {
	names := values(r.Segments)
	for i := range names[:max(len(names)-1, 0)] {
		n, ok := Resolve(names[:i+1], roots, ext)
		if !ok || !n.IsDir() {
			return i
		}
	}
	if len(names) == 0 {
		return -1
	}
	if _, ok := ResolveFile(r.Path, roots, ext); !ok {
		return len(names) - 1
	}
	return -1
}
