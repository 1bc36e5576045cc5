package partial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindReferences(t *testing.T) {
	text := `<div>{{> layouts/base}} {{>"shared/nav"}} {{>'open {{ foo }} {{>é/x}}</div>`

	refs := FindReferences(text)
	require.Len(t, refs, 3)

	assert.Equal(t, "layouts/base", refs[0].Path)
	assert.Equal(t, 9, refs[0].Start)
	assert.Equal(t, 21, refs[0].End)
	assert.Equal(t, []Segment{{"layouts", 9, 16}, {"base", 17, 21}}, refs[0].Segments)

	assert.Equal(t, "shared/nav", refs[1].Path)
	assert.Equal(t, 28, refs[1].Start)

	assert.Equal(t, "é/x", refs[2].Path)
	assert.Equal(t, []Segment{{"é", 64, 65}, {"x", 66, 67}}, refs[2].Segments)
}

func TestReferenceUnresolved(t *testing.T) {
	roots := []Node{mapRoot("/tpl", "layouts/base.hbs", "layouts/parts/head.hbs", "nav.hbs")}

	tests := []struct {
		text string
		want int
	}{
		{text: "{{> layouts/base}}", want: -1},
		{text: "{{> nav}}", want: -1},
		{text: "{{> layouts/parts/head}}", want: -1},
		{text: "{{> layout/base}}", want: 0},
		{text: "{{> layouts/missing}}", want: 1},
		{text: "{{> layouts/nope/head}}", want: 1},
		{text: "{{> nav/x}}", want: 0},
		{text: "{{> layouts}}", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			refs := FindReferences(tt.text)
			require.Len(t, refs, 1)
			assert.Equal(t, tt.want, refs[0].Unresolved(roots, ".hbs"))
		})
	}
}
