package main

// Color palette of the editor. Maps semantic color names (like
// ColorNormalMode) to terminal attributes.

import "github.com/nsf/termbox-go"

// To preview the palette execute `hbsq colors`.

// Color is a pair of foreground and background terminal attributes.
type Color struct {
	Background termbox.Attribute
	Foreground termbox.Attribute
}

// ColorName is an enum-like type for semantic color identifiers.
type ColorName int

const (
	ColorDefault ColorName = iota // Default terminal colors.

	ColorStatusBar       // Main status bar at the bottom.
	ColorDebugWindow     // Overlay window for logs.
	ColorDebugTitle      // Header for the debug window.
	ColorNormalMode      // Status bar indicator for Normal mode.
	ColorInsertMode      // Status bar indicator for Insert mode.
	ColorHighlightedLine // Background for the line where the cursor is.
	ColorSearchMatch     // Highlighting for found search terms.
	ColorCursor          // The block cursor in Normal mode.

	ColorGutterLineNumber     // Line numbers in the left gutter.
	ColorGutterSignUnresolved // Gutter sign for lines with unresolved partials.
	ColorEmptyLineMarker      // The '~' marker for lines beyond EOF.
	ColorUnresolvedPartial    // Path segment that names nothing.
	ColorUnresolvedSummary    // Unresolved count in the command bar.

	ColorFuzzyResult         // Plain text in fuzzy finder results.
	ColorFuzzySelected       // Highlighted item in fuzzy finder.
	ColorFuzzyModeBuffers    // Fuzzy finder is searching buffers.
	ColorFuzzyModeFiles      // Fuzzy finder is searching files.
	ColorFuzzyModePartials   // Fuzzy finder is searching partials.
	ColorFuzzyModeUnresolved // Fuzzy finder lists unresolved references.

	ColorCompletionWindow    // Partial completion popup.
	ColorCompletionSelected  // Selected candidate.
	ColorCompletionDirectory // Directory candidates.

	// Status bar indicators.
	ColorRootsPresent
	ColorRootsMissing
	ColorSessionOpen
	ColorSessionIdle

	// Colors for Tree-sitter syntax highlighting.
	ColorTSFunction
	ColorTSString
	ColorTSKeyword
	ColorTSComment
	ColorTSNumber
	ColorTSProperty
	ColorTSTag
	ColorTSAttribute
	ColorTSConstant
)

// Theme maps each ColorName to its actual visual attributes.
var Theme = map[ColorName]Color{
	ColorDefault: {Background: termbox.ColorDefault, Foreground: termbox.Attribute(254)},

	ColorStatusBar:       {Background: termbox.Attribute(250), Foreground: termbox.Attribute(1)},
	ColorDebugWindow:     {Background: termbox.Attribute(19), Foreground: termbox.Attribute(16)},
	ColorDebugTitle:      {Background: termbox.Attribute(19), Foreground: termbox.Attribute(215)},
	ColorNormalMode:      {Background: termbox.Attribute(250), Foreground: termbox.Attribute(1)},
	ColorInsertMode:      {Background: termbox.Attribute(58), Foreground: termbox.Attribute(255)},
	ColorHighlightedLine: {Background: termbox.Attribute(235), Foreground: termbox.ColorDefault},
	ColorSearchMatch:     {Background: termbox.Attribute(166), Foreground: termbox.Attribute(1)},
	ColorCursor:          {Background: termbox.Attribute(252), Foreground: termbox.Attribute(1)},

	ColorGutterLineNumber:     {Background: termbox.ColorDefault, Foreground: termbox.Attribute(244)},
	ColorGutterSignUnresolved: {Background: termbox.Attribute(125), Foreground: termbox.Attribute(16)},
	ColorEmptyLineMarker:      {Background: termbox.ColorDefault, Foreground: termbox.Attribute(244)},
	ColorUnresolvedPartial:    {Background: termbox.ColorDefault, Foreground: termbox.Attribute(167) | termbox.AttrUnderline},
	ColorUnresolvedSummary:    {Background: termbox.ColorDefault, Foreground: termbox.Attribute(166)},

	ColorFuzzyResult:         {Background: termbox.ColorDefault, Foreground: termbox.Attribute(254)},
	ColorFuzzySelected:       {Background: termbox.Attribute(236), Foreground: termbox.Attribute(254)},
	ColorFuzzyModeBuffers:    {Background: termbox.Attribute(125), Foreground: termbox.Attribute(255)},
	ColorFuzzyModeFiles:      {Background: termbox.Attribute(125), Foreground: termbox.Attribute(255)},
	ColorFuzzyModePartials:   {Background: termbox.Attribute(30), Foreground: termbox.Attribute(255)},
	ColorFuzzyModeUnresolved: {Background: termbox.Attribute(33), Foreground: termbox.Attribute(255)},

	ColorCompletionWindow:    {Background: termbox.Attribute(253), Foreground: termbox.Attribute(1)},
	ColorCompletionSelected:  {Background: termbox.Attribute(239), Foreground: termbox.Attribute(255)},
	ColorCompletionDirectory: {Background: termbox.Attribute(253), Foreground: termbox.Attribute(25)},

	ColorRootsPresent: {Background: termbox.Attribute(29), Foreground: termbox.Attribute(255)},
	ColorRootsMissing: {Background: termbox.Attribute(239), Foreground: termbox.Attribute(255)},
	ColorSessionOpen:  {Background: termbox.Attribute(131), Foreground: termbox.Attribute(255)},
	ColorSessionIdle:  {Background: termbox.Attribute(239), Foreground: termbox.Attribute(255)},

	ColorTSFunction:  {Background: termbox.ColorDefault, Foreground: termbox.Attribute(3)},
	ColorTSString:    {Background: termbox.ColorDefault, Foreground: termbox.Attribute(37)},
	ColorTSKeyword:   {Background: termbox.ColorDefault, Foreground: termbox.Attribute(178)},
	ColorTSComment:   {Background: termbox.ColorDefault, Foreground: termbox.Attribute(244)},
	ColorTSNumber:    {Background: termbox.ColorDefault, Foreground: termbox.Attribute(135)},
	ColorTSProperty:  {Background: termbox.ColorDefault, Foreground: termbox.Attribute(230)},
	ColorTSTag:       {Background: termbox.ColorDefault, Foreground: termbox.Attribute(118)},
	ColorTSAttribute: {Background: termbox.ColorDefault, Foreground: termbox.Attribute(215)},
	ColorTSConstant:  {Background: termbox.ColorDefault, Foreground: termbox.Attribute(254)},
}

// colorLabels names the theme entries in the palette preview.
var colorLabels = map[ColorName]string{
	ColorDefault:              "default",
	ColorStatusBar:            "status bar",
	ColorDebugWindow:          "debug window",
	ColorNormalMode:           "normal mode",
	ColorInsertMode:           "insert mode",
	ColorHighlightedLine:      "current line",
	ColorSearchMatch:          "search match",
	ColorCursor:               "cursor",
	ColorGutterSignUnresolved: "unresolved sign",
	ColorUnresolvedPartial:    "unresolved partial",
	ColorFuzzySelected:        "fuzzy selected",
	ColorFuzzyModePartials:    "fuzzy partials",
	ColorFuzzyModeUnresolved:  "fuzzy unresolved",
	ColorCompletionWindow:     "completion",
	ColorCompletionSelected:   "completion selected",
	ColorCompletionDirectory:  "completion directory",
	ColorRootsPresent:         "roots present",
	ColorSessionOpen:          "session open",
	ColorTSTag:                "tag",
	ColorTSAttribute:          "attribute",
	ColorTSString:             "string",
	ColorTSComment:            "comment",
}

// GetThemeColor returns the foreground and background attributes for a given semantic name.
func GetThemeColor(name ColorName) (termbox.Attribute, termbox.Attribute) {
	if c, ok := Theme[name]; ok {
		return c.Foreground, c.Background
	}
	return termbox.ColorDefault, termbox.ColorDefault
}
