package partial

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapRoot(location string, files ...string) Node {
	fsys := fstest.MapFS{}
	for _, f := range files {
		fsys[f] = &fstest.MapFile{Data: []byte(f)}
	}
	return NewFSRoot(fsys, location)
}

func names(candidates []Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Name)
	}
	return out
}

func TestDisplayName(t *testing.T) {
	root := mapRoot("/tpl", "button.hbs", "readme.md", ".hbs", "forms/input.hbs")
	got := map[string]bool{}
	for _, c := range root.Children() {
		if name, ok := DisplayName(c, ".hbs"); ok {
			got[name] = true
		}
	}
	assert.Equal(t, map[string]bool{"button": true, "forms": true}, got)
}

func TestResolveExactDirectory(t *testing.T) {
	roots := []Node{mapRoot("/tpl", "foo/x.tpl", "foobar.tpl")}

	dir, ok := Resolve([]string{"foo"}, roots, ".tpl")
	require.True(t, ok)
	assert.True(t, dir.IsDir())
	assert.Equal(t, "foo", dir.Name())
	assert.Equal(t, "/tpl/foo", dir.Location())
}

func TestResolve(t *testing.T) {
	roots := []Node{
		mapRoot("/a", "layouts/base.hbs", "shared/nav.hbs"),
		mapRoot("/b", "shared/widgets/clock.hbs", "card.hbs", "card/front.hbs"),
	}

	tests := []struct {
		name     string
		traverse []string
		location string
		found    bool
	}{
		{name: "empty traverse", traverse: nil},
		{name: "directory in first root", traverse: []string{"layouts"}, location: "/a/layouts", found: true},
		{name: "directory shared by both roots", traverse: []string{"shared", "widgets"}, location: "/b/shared/widgets", found: true},
		{name: "partial as last segment", traverse: []string{"layouts", "base"}, location: "/a/layouts/base.hbs", found: true},
		{name: "directory preferred over partial", traverse: []string{"card"}, location: "/b/card", found: true},
		{name: "partial cannot be traversed", traverse: []string{"layouts", "base", "x"}},
		{name: "missing segment", traverse: []string{"missing"}},
		{name: "prefix is not a match", traverse: []string{"lay"}},
		{name: "extension must be omitted", traverse: []string{"layouts", "base.hbs"}},
		{name: "case sensitive", traverse: []string{"Layouts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := Resolve(tt.traverse, roots, ".hbs")
			require.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.location, n.Location())
			} else {
				assert.Nil(t, n)
			}
		})
	}
}

func TestResolveFile(t *testing.T) {
	roots := []Node{
		mapRoot("/tpl",
			"components/_button.hbs",
			"components/button.hbs",
			"components/card.hbs",
			"layouts/base/index.hbs",
			"styles.css",
		),
	}

	tests := []struct {
		path     string
		location string
		found    bool
	}{
		{path: "components/button", location: "/tpl/components/_button.hbs", found: true},
		{path: "components/card", location: "/tpl/components/card.hbs", found: true},
		{path: "layouts/base", location: "/tpl/layouts/base/index.hbs", found: true},
		{path: "styles.css", location: "/tpl/styles.css", found: true},
		{path: `"components"/card`, location: "/tpl/components/card.hbs", found: true},
		{path: "components/missing"},
		{path: "nowhere/card"},
		{path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n, ok := ResolveFile(tt.path, roots, ".hbs")
			require.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.location, n.Location())
			}
		})
	}
}

func TestListCandidatesPrefixContainment(t *testing.T) {
	roots := []Node{mapRoot("/tpl", "alpha.hbs", "beta.hbs", "gamma/x.hbs")}

	assert.Equal(t, []string{"alpha", "gamma"}, names(ListCandidates(nil, roots, "a", ".hbs")))
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names(ListCandidates(nil, roots, "", ".hbs")))
	assert.Empty(t, ListCandidates(nil, roots, "A", ".hbs"))
}

func TestListCandidatesKinds(t *testing.T) {
	roots := []Node{mapRoot("/tpl", "components/button.hbs", "compare.hbs", "notes.txt")}

	got := ListCandidates(nil, roots, "", ".hbs")
	assert.Equal(t, []Candidate{
		{Name: "compare", Kind: KindPartial, Location: "/tpl/compare.hbs"},
		{Name: "components", Kind: KindDirectory, Location: "/tpl/components"},
	}, got)
	assert.Equal(t, "compare", got[0].InsertText())
	assert.Equal(t, "components/", got[1].InsertText())
}

func TestListCandidatesDirectory(t *testing.T) {
	roots := []Node{mapRoot("/tpl", "forms/input.hbs", "forms/select.hbs", "header.hbs")}

	dir, ok := Resolve([]string{"forms"}, roots, ".hbs")
	require.True(t, ok)
	assert.Equal(t, []string{"select"}, names(ListCandidates(dir, roots, "sel", ".hbs")))
}

func TestListCandidatesDeduplicates(t *testing.T) {
	fsys := fstest.MapFS{"nav.hbs": &fstest.MapFile{}}
	same := []Node{NewFSRoot(fsys, "/tpl"), NewFSRoot(fsys, "/tpl")}
	assert.Len(t, ListCandidates(nil, same, "", ".hbs"), 1)

	distinct := []Node{NewFSRoot(fsys, "/a"), NewFSRoot(fsys, "/b")}
	assert.Len(t, ListCandidates(nil, distinct, "", ".hbs"), 2)
}

func TestComplete(t *testing.T) {
	roots := []Node{mapRoot("/tpl", "components/button.hbs", "components/badge.hbs", "compare.hbs")}

	assert.Equal(t, []string{"badge", "button"}, names(Complete("{{>components/", 14, roots, ".hbs")))
	assert.Equal(t, []string{"button"}, names(Complete("{{> components/bu}}", 17, roots, ".hbs")))
	assert.Nil(t, Complete("{{>missing/b", 12, roots, ".hbs"))
	assert.Nil(t, Complete("plain text", 3, roots, ".hbs"))
}
