package main

// Tree-sitter highlighting for templates and the web languages around them.
// Handlebars files are parsed with the HTML grammar; mustaches end up in text
// nodes and keep the default color.

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	sitter "github.com/mitjafelicijan/go-tree-sitter"
	"github.com/mitjafelicijan/go-tree-sitter/css"
	"github.com/mitjafelicijan/go-tree-sitter/html"
	"github.com/mitjafelicijan/go-tree-sitter/javascript"
	"github.com/nsf/termbox-go"
)

// SyntaxHighlighter owns the parser, the last tree and the colors computed
// from it for one buffer.
type SyntaxHighlighter struct {
	parser     *sitter.Parser
	tree       *sitter.Tree
	lang       *sitter.Language
	query      *sitter.Query
	grammar    string
	highlights map[int]map[int]termbox.Attribute // line -> column -> color
	logger     hclog.Logger
}

var grammars = map[string]func() *sitter.Language{
	"html":       html.GetLanguage,
	"css":        css.GetLanguage,
	"javascript": javascript.GetLanguage,
}

// NewSyntaxHighlighter returns a highlighter for grammar, or nil when the
// grammar is empty or unknown.
func NewSyntaxHighlighter(grammar string, logger hclog.Logger) *SyntaxHighlighter {
	get, ok := grammars[grammar]
	if !ok {
		return nil
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	lang := get()
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	s := &SyntaxHighlighter{
		parser:     parser,
		lang:       lang,
		grammar:    grammar,
		highlights: make(map[int]map[int]termbox.Attribute),
		logger:     logger.Named("syntax").With("grammar", grammar),
	}
	s.loadQuery(fmt.Sprintf("queries/%s.scm", grammar))
	return s
}

func (s *SyntaxHighlighter) loadQuery(path string) {
	content, err := QueriesFS.ReadFile(path)
	if err != nil {
		s.logger.Warn("cannot read highlight query", "path", path, "error", err)
		return
	}
	q, err := sitter.NewQuery(content, s.lang)
	if err != nil {
		s.logger.Warn("cannot compile highlight query", "path", path, "error", err)
		return
	}
	s.query = q
}

// Parse parses content from scratch and recomputes the colors.
func (s *SyntaxHighlighter) Parse(content []byte) {
	tree, err := s.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		s.logger.Debug("parse failed", "error", err)
		return
	}
	s.tree = tree
	s.updateHighlights()
}

// Reparse is called after every edit.
// TODO: feed the edit range to tree-sitter instead of parsing the whole buffer.
func (s *SyntaxHighlighter) Reparse(content []byte) {
	s.Parse(content)
}

func (s *SyntaxHighlighter) updateHighlights() {
	s.highlights = make(map[int]map[int]termbox.Attribute)
	if s.tree == nil || s.query == nil {
		return
	}

	qc := sitter.NewQueryCursor()
	qc.Exec(s.query, s.tree.RootNode())
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			attr, ok := captureColor(s.query.CaptureNameForId(c.Index))
			if !ok {
				continue
			}
			start, end := c.Node.StartPoint(), c.Node.EndPoint()
			for r := int(start.Row); r <= int(end.Row); r++ {
				if s.highlights[r] == nil {
					s.highlights[r] = make(map[int]termbox.Attribute)
				}
				from, to := 0, 1000
				if r == int(start.Row) {
					from = int(start.Column)
				}
				if r == int(end.Row) {
					to = int(end.Column)
				}
				for col := from; col < to; col++ {
					s.highlights[r][col] = attr
				}
			}
		}
	}
}

var captureColors = map[string]ColorName{
	"tag":       ColorTSTag,
	"attribute": ColorTSAttribute,
	"string":    ColorTSString,
	"comment":   ColorTSComment,
	"number":    ColorTSNumber,
	"property":  ColorTSProperty,
	"function":  ColorTSFunction,
	"keyword":   ColorTSKeyword,
	"constant":  ColorTSConstant,
}

func captureColor(name string) (termbox.Attribute, bool) {
	cn, ok := captureColors[name]
	if !ok {
		return 0, false
	}
	fg, _ := GetThemeColor(cn)
	return fg, true
}

// Highlight returns the foreground color of every rune in line lineIdx.
// Columns are tree-sitter byte columns, which match rune columns for ASCII.
func (s *SyntaxHighlighter) Highlight(lineIdx int, line []rune) []termbox.Attribute {
	attrs := make([]termbox.Attribute, len(line))
	defaultFg, _ := GetThemeColor(ColorDefault)
	for i := range attrs {
		attrs[i] = defaultFg
	}
	for col, color := range s.highlights[lineIdx] {
		if col < len(attrs) {
			attrs[col] = color
		}
	}
	return attrs
}
