package partial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateSpan(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
		want   Span
	}{
		{
			name:   "unquoted path",
			text:   "{{>foo/ba",
			cursor: 9,
			want:   Span{Start: 3, End: 9, Raw: "foo/ba"},
		},
		{
			name:   "double quoted after whitespace",
			text:   `{{> "a/b"}}`,
			cursor: 8,
			want:   Span{Start: 5, End: 8, Raw: "a/b", Quoted: true, Quote: '"'},
		},
		{
			name:   "single quoted without closing quote",
			text:   "{{>'x",
			cursor: 5,
			want:   Span{Start: 4, End: 5, Raw: "x", Quoted: true, Quote: '\''},
		},
		{
			name:   "cursor before closing braces",
			text:   "{{>}}",
			cursor: 3,
			want:   Span{Start: 3, End: 3, Raw: ""},
		},
		{
			name:   "cursor in the middle of a segment",
			text:   "{{>foobar}}",
			cursor: 6,
			want:   Span{Start: 3, End: 6, Raw: "foo"},
		},
		{
			name:   "nearest directive wins",
			text:   "{{>a}} {{>b/c",
			cursor: 13,
			want:   Span{Start: 10, End: 13, Raw: "b/c"},
		},
		{
			name:   "offsets count runes",
			text:   "{{>ünï/x",
			cursor: 8,
			want:   Span{Start: 3, End: 8, Raw: "ünï/x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, ok := LocateSpan(tt.text, tt.cursor)
			require.True(t, ok)
			assert.Equal(t, tt.want, span)
		})
	}
}

func TestLocateSpanNoContext(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
	}{
		{name: "no directive", text: "hello world", cursor: 5},
		{name: "marker at end of buffer", text: "{{>", cursor: 3},
		{name: "only whitespace after marker", text: "{{>   ", cursor: 6},
		{name: "cursor inside marker", text: "{{>foo", cursor: 2},
		{name: "cursor in leading whitespace", text: "{{>  foo", cursor: 4},
		{name: "cursor after closed directive", text: "{{>foo}} bar", cursor: 12},
		{name: "cursor after whitespace boundary", text: "{{>foo bar", cursor: 10},
		{name: "cursor after closing quote", text: `{{>"foo"}}`, cursor: 8},
		{name: "mustache without marker", text: "{{foo/bar}}", cursor: 6},
		{name: "cursor before quote", text: `{{>"a"}}`, cursor: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := LocateSpan(tt.text, tt.cursor)
			assert.False(t, ok)
		})
	}
}

func TestLocateSpanClampsCursor(t *testing.T) {
	span, ok := LocateSpan("{{>ab", 99)
	require.True(t, ok)
	assert.Equal(t, "ab", span.Raw)
	assert.Equal(t, 5, span.End)

	_, ok = LocateSpan("{{>ab", -4)
	assert.False(t, ok)
}

func TestSplitSegments(t *testing.T) {
	tests := []struct {
		raw  string
		want []Segment
	}{
		{
			raw:  "a/b/c",
			want: []Segment{{"a", 0, 1}, {"b", 2, 3}, {"c", 4, 5}},
		},
		{
			raw:  `a/"b/c"/d`,
			want: []Segment{{"a", 0, 1}, {"b/c", 2, 7}, {"d", 8, 9}},
		},
		{
			raw:  "a//b",
			want: []Segment{{"a", 0, 1}, {"b", 3, 4}},
		},
		{
			raw:  "'x y'/z",
			want: []Segment{{"x y", 0, 5}, {"z", 6, 7}},
		},
		{
			raw:  `""/a`,
			want: []Segment{{"a", 3, 4}},
		},
		{
			raw:  "é/ü",
			want: []Segment{{"é", 0, 1}, {"ü", 2, 3}},
		},
		{
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSegments(tt.raw))
		})
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		raw         string
		traverse    []string
		prefix      string
		prefixStart int
	}{
		{raw: "a/b/", traverse: []string{"a", "b"}, prefix: "", prefixStart: 4},
		{raw: "a/b/c", traverse: []string{"a", "b"}, prefix: "c", prefixStart: 4},
		{raw: "comp", traverse: []string{}, prefix: "comp", prefixStart: 0},
		{raw: "", traverse: []string{}, prefix: "", prefixStart: 0},
		{raw: "/", traverse: []string{}, prefix: "", prefixStart: 1},
		{raw: `layouts/"two col"`, traverse: []string{"layouts"}, prefix: "two col", prefixStart: 8},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			p := SplitPath(tt.raw)
			assert.Equal(t, tt.traverse, p.Traverse)
			assert.Equal(t, tt.prefix, p.Prefix)
			assert.Equal(t, tt.prefixStart, p.PrefixStart)
		})
	}
}

func TestSplitPathKeepsEverySegment(t *testing.T) {
	for _, raw := range []string{"x/y/z", "x/y/z/", "x", "x/"} {
		p := SplitPath(raw)
		all := values(SplitSegments(raw))
		if raw[len(raw)-1] == '/' {
			assert.Equal(t, all, p.Traverse, raw)
			assert.Empty(t, p.Prefix, raw)
		} else {
			assert.Equal(t, all[:len(all)-1], p.Traverse, raw)
			assert.Equal(t, all[len(all)-1], p.Prefix, raw)
		}
	}
}
