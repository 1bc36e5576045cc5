package main

// Splash screen shown when the editor starts with no files.

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"
)

// drawIntro draws a centered box with the version, the template roots and
// the basic commands.
func (e *Editor) drawIntro() {
	w, h := termbox.Size()

	const (
		cTitle   = termbox.Attribute(254) | termbox.AttrBold
		cText    = termbox.Attribute(248)
		cVersion = termbox.Attribute(239)
		cKey     = termbox.Attribute(254)
	)

	roots := "no template roots configured"
	if n := len(e.rootDirs()); n > 0 {
		roots = fmt.Sprintf("%d template root(s), partials end in %s", n, Config.PartialExt)
	}

	lines := []struct {
		text string
		fg   termbox.Attribute
	}{
		{"hbsq", cTitle},
		{Version, cVersion},
		{"", cText},
		{"Handlebars template editor", cText},
		{roots, cText},
		{"", cText},
		{" type  {{> and Ctrl-N      to complete", cKey},
		{" type  :partials<Enter>  to browse", cKey},
		{" type  :q<Enter>         to exit", cKey},
		{" type  :help<Enter>      for help", cKey},
	}

	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, runewidth.StringWidth(line.text))
	}
	startX := (w - maxLen - 2) / 2
	startY := (h - len(lines)) / 2

	_, bg := GetThemeColor(ColorDefault)
	for i, line := range lines {
		x := startX + (maxLen-runewidth.StringWidth(line.text))/2
		drawString(x, startY+i, w, line.text, line.fg, bg)
	}
}
