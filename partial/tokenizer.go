package partial

// Locating and splitting the path argument of a partial directive.
//
//   {{> components/button}}
//   {{>"layouts/base"}}
//
// Nothing here parses the template; only the runes around the cursor are
// inspected.

import (
	"regexp"
	"strings"
	"unicode"
)

const directiveMarker = "{{>"

// Span is the path argument around the cursor. Start and End are rune
// offsets into the buffer; End is the cursor.
type Span struct {
	Start  int
	End    int
	Raw    string // runes [Start, End)
	Quoted bool   // path opened with a quote
	Quote  rune   // opening quote, 0 when unquoted
}

// Segment is one component of a raw path. Start and End are rune offsets
// into the raw text and include the quotes of a quoted run.
type Segment struct {
	Value string
	Start int
	End   int
}

// Path is a raw path split into the directories to walk and the text being
// completed.
type Path struct {
	Traverse    []string
	Prefix      string
	PrefixStart int // rune offset of the prefix segment in the raw text
}

var segmentPattern = regexp.MustCompile(`"[^"]*"|'[^']*'|[^/]+`)

// LocateSpan finds the directive path argument containing cursor.
func LocateSpan(text string, cursor int) (Span, bool) {
	return locateSpan([]rune(text), cursor)
}

func locateSpan(runes []rune, cursor int) (Span, bool) {
	cursor = clamp(cursor, 0, len(runes))

	start, ok := pathStart(runes, cursor)
	if !ok {
		return Span{}, false
	}

	var quote rune
	if isQuote(runes[start]) {
		quote = runes[start]
		start++
	}

	boundary := pathBoundary(runes, start, quote)
	if cursor < start || cursor > boundary {
		return Span{}, false
	}

	return Span{
		Start:  start,
		End:    cursor,
		Raw:    string(runes[start:cursor]),
		Quoted: quote != 0,
		Quote:  quote,
	}, true
}

// pathStart returns the offset of the first rune after the nearest marker
// before cursor and the whitespace following it.
func pathStart(runes []rune, cursor int) (int, bool) {
	marker := findMarker(runes, cursor)
	if marker < 0 {
		return 0, false
	}
	i := marker + len(directiveMarker)
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	if i >= len(runes) {
		return 0, false
	}
	return i, true
}

// followsMarker reports whether offset comes right after a directive marker
// and the whitespace following it.
func followsMarker(runes []rune, offset int) bool {
	if offset < len(directiveMarker) || offset > len(runes) {
		return false
	}
	i := offset
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	return i >= len(directiveMarker) && string(runes[i-len(directiveMarker):i]) == directiveMarker
}

// findMarker returns the offset of the last "{{>" starting before cursor, or -1.
func findMarker(runes []rune, cursor int) int {
	for i := min(cursor-1, len(runes)-len(directiveMarker)); i >= 0; i-- {
		if runes[i] == '{' && runes[i+1] == '{' && runes[i+2] == '>' {
			return i
		}
	}
	return -1
}

// pathBoundary returns the first offset at or after start holding "}}",
// whitespace, the closing quote, or the end of the text.
func pathBoundary(runes []rune, start int, quote rune) int {
	for i := start; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			return i
		case r == '}' && i+1 < len(runes) && runes[i+1] == '}':
			return i
		case quote != 0 && r == quote:
			return i
		}
	}
	return len(runes)
}

// closingQuote returns the offset of the quote closing a path that opened
// with quote at start-1, or -1 when whitespace, "}}" or the end of the text
// comes first.
func closingQuote(runes []rune, start int, quote rune) int {
	if quote == 0 {
		return -1
	}
	end := pathBoundary(runes, start, quote)
	if end < len(runes) && runes[end] == quote {
		return end
	}
	return -1
}

// SplitSegments splits a raw path on "/". A quoted run is one segment even
// if it contains a slash; its quotes are not part of Value.
func SplitSegments(raw string) []Segment {
	var segments []Segment
	for _, loc := range segmentPattern.FindAllStringIndex(raw, -1) {
		value := raw[loc[0]:loc[1]]
		if len(value) >= 2 && isQuote(rune(value[0])) && value[len(value)-1] == value[0] {
			value = value[1 : len(value)-1]
		}
		if value == "" {
			continue
		}
		segments = append(segments, Segment{
			Value: value,
			Start: runeIndex(raw, loc[0]),
			End:   runeIndex(raw, loc[1]),
		})
	}
	return segments
}

// SplitPath separates the segments to traverse from the prefix being typed.
func SplitPath(raw string) Path {
	segments := SplitSegments(raw)
	width := len([]rune(raw))

	if strings.HasSuffix(raw, "/") || len(segments) == 0 {
		return Path{Traverse: values(segments), PrefixStart: width}
	}

	last := segments[len(segments)-1]
	return Path{
		Traverse:    values(segments[:len(segments)-1]),
		Prefix:      last.Value,
		PrefixStart: last.Start,
	}
}

func values(segments []Segment) []string {
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		out = append(out, s.Value)
	}
	return out
}

func isQuote(r rune) bool {
	return r == '"' || r == '\''
}

func runeIndex(s string, byteIndex int) int {
	return len([]rune(s[:byteIndex]))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
