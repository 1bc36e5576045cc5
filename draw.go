package main

// Screen rendering: the text area with its gutter, the status and command
// bars, and the overlays (debug log, fuzzy finder, completion popup).

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"
)

// drawString writes s starting at x, stopping before maxX. It returns the
// column after the last cell written.
func drawString(x, y, maxX int, s string, fg, bg termbox.Attribute) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			w = 1
		}
		if x+w > maxX {
			break
		}
		termbox.SetCell(x, y, r, fg, bg)
		x += w
	}
	return x
}

// highlightLine returns the foreground colors of line lineIdx of b.
func (e *Editor) highlightLine(b *Buffer, lineIdx int, line []rune) []termbox.Attribute {
	if b.syntax != nil {
		return b.syntax.Highlight(lineIdx, line)
	}
	fgAttrs := make([]termbox.Attribute, len(line))
	defaultFg, _ := GetThemeColor(ColorDefault)
	for i := range fgAttrs {
		fgAttrs[i] = defaultFg
	}
	return fgAttrs
}

// searchMatches marks the runes of line covered by a case-insensitive match
// of the last search.
func (e *Editor) searchMatches(line []rune) []bool {
	if e.lastSearch == "" {
		return nil
	}
	matches := make([]bool, len(line))
	query := []rune(strings.ToLower(e.lastSearch))
	for i := 0; i+len(query) <= len(line); i++ {
		match := true
		for j, q := range query {
			if unicode.ToLower(line[i+j]) != q {
				match = false
				break
			}
		}
		if match {
			for k := range query {
				matches[i+k] = true
			}
		}
	}
	return matches
}

// draw renders one frame.
func (e *Editor) draw() {
	_, defaultBg := GetThemeColor(ColorDefault)
	termbox.Clear(termbox.ColorDefault, defaultBg)
	w, h := termbox.Size()
	b := e.activeBuffer()
	if b == nil {
		termbox.Flush()
		return
	}
	e.unresolved = e.unresolvedRefs(b)

	textWidth := w - Config.GutterWidth
	visibleHeight := h - 2
	if e.mode == ModeFuzzy {
		visibleHeight = h - 2 - Config.FuzzyFinderHeight
	}

	if b.cursor.Y < b.scrollY {
		b.scrollY = b.cursor.Y
	}
	if b.cursor.Y >= b.scrollY+visibleHeight {
		b.scrollY = b.cursor.Y - visibleHeight + 1
	}
	visualCursorX := e.bufferToVisual(b.buffer[b.cursor.Y], b.cursor.X)
	if visualCursorX < b.scrollX {
		b.scrollX = visualCursorX
	}
	if visualCursorX >= b.scrollX+textWidth {
		b.scrollX = visualCursorX - textWidth + 1
	}

	unresolvedByLine := make(map[int][]unresolvedRef)
	for _, ref := range e.unresolved {
		unresolvedByLine[ref.line] = append(unresolvedByLine[ref.line], ref)
	}

	for screenY := 0; screenY < visibleHeight; screenY++ {
		bufferY := screenY + b.scrollY
		if bufferY >= len(b.buffer) {
			fg, bg := GetThemeColor(ColorEmptyLineMarker)
			termbox.SetCell(0, screenY, '~', fg, bg)
			continue
		}
		line := b.buffer[bufferY]
		refs := unresolvedByLine[bufferY]

		// Gutter: sign for unresolved partials, then the line number.
		if len(refs) > 0 {
			fg, bg := GetThemeColor(ColorGutterSignUnresolved)
			termbox.SetCell(0, screenY, '?', fg, bg)
		}
		lineNum := strconv.Itoa(bufferY + 1)
		gutterFg, gutterBg := GetThemeColor(ColorGutterLineNumber)
		for i, r := range lineNum {
			termbox.SetCell(Config.GutterWidth-len(lineNum)-1+i, screenY, r, gutterFg, gutterBg)
		}

		fgAttrs := e.highlightLine(b, bufferY, line)

		_, bg := GetThemeColor(ColorDefault)
		if bufferY == b.cursor.Y {
			_, bg = GetThemeColor(ColorHighlightedLine)
			fg, _ := GetThemeColor(ColorDefault)
			for x := 0; x < textWidth; x++ {
				termbox.SetCell(x+Config.GutterWidth, screenY, ' ', fg, bg)
			}
		}

		matches := e.searchMatches(line)
		unresolvedFg, unresolvedBg := GetThemeColor(ColorUnresolvedPartial)

		visualX := 0
		for idx, r := range line {
			width := e.visualWidth(r, visualX)
			charFg, charBg := fgAttrs[idx], bg

			for _, ref := range refs {
				if idx >= ref.col && idx < ref.end {
					charFg, charBg = unresolvedFg, unresolvedBg
					break
				}
			}
			if idx < len(matches) && matches[idx] {
				charFg, charBg = GetThemeColor(ColorSearchMatch)
			}
			if bufferY == b.cursor.Y && idx == b.cursor.X && e.mode == ModeNormal {
				charFg, charBg = GetThemeColor(ColorCursor)
			}

			for i := 0; i < width; i++ {
				screenX := visualX + i - b.scrollX
				if screenX < 0 || screenX >= textWidth {
					continue
				}
				char := r
				if r == '\t' || i > 0 {
					char = ' '
				}
				termbox.SetCell(screenX+Config.GutterWidth, screenY, char, charFg, charBg)
			}
			visualX += width
		}
	}

	if !e.introDismissed && b.filename == "" && len(b.buffer) == 1 && len(b.buffer[0]) == 0 && !b.modified && e.mode != ModeInsert {
		e.drawIntro()
	}

	if e.mode == ModeFuzzy {
		e.drawStatusBar(h - 2 - Config.FuzzyFinderHeight)
		e.drawFuzzyFinder(h-1-Config.FuzzyFinderHeight, Config.FuzzyFinderHeight)
	} else {
		e.drawStatusBar(h - 2)
	}
	e.drawCommandBar(h - 1)

	if e.showDebugLog {
		e.drawDebugWindow()
	}
	if e.mode == ModeInsert {
		e.drawCompletionPopup()
	}

	switch e.mode {
	case ModeCommand:
		termbox.SetCursor(e.commandCursorX+1, h-1)
	case ModeFuzzy:
		termbox.SetCursor(runewidth.StringWidth(string(e.fuzzy.query))+3, h-1)
	case ModeFind:
		termbox.SetCursor(runewidth.StringWidth(string(e.findBuffer))+1, h-1)
	default:
		termbox.SetCursor(visualCursorX-b.scrollX+Config.GutterWidth, b.cursor.Y-b.scrollY)
	}
	termbox.Flush()
}

func (e *Editor) drawStatusBar(statusY int) {
	w, _ := termbox.Size()
	b := e.activeBuffer()
	if b == nil {
		return
	}

	barFg, barBg := GetThemeColor(ColorStatusBar)
	for x := 0; x < w; x++ {
		termbox.SetCell(x, statusY, ' ', barFg, barBg)
	}

	var modeStr string
	var fg, bg termbox.Attribute
	switch e.mode {
	case ModeInsert:
		modeStr = "INSERT"
		fg, bg = GetThemeColor(ColorInsertMode)
	case ModeFuzzy:
		switch e.fuzzy.kind {
		case FuzzyModeFile:
			modeStr = "FILES"
			fg, bg = GetThemeColor(ColorFuzzyModeFiles)
		case FuzzyModeBuffer:
			modeStr = "BUFFERS"
			fg, bg = GetThemeColor(ColorFuzzyModeBuffers)
		case FuzzyModePartial:
			modeStr = "PARTIALS"
			fg, bg = GetThemeColor(ColorFuzzyModePartials)
		case FuzzyModeUnresolved:
			modeStr = "UNRESOLVED"
			fg, bg = GetThemeColor(ColorFuzzyModeUnresolved)
		}
	default:
		modeStr = "NORMAL"
		fg, bg = GetThemeColor(ColorNormalMode)
	}
	x := drawString(0, statusY, w, " "+modeStr+" ", fg, bg)

	fileStr := "[no file]"
	if b.filename != "" {
		fileStr = b.filename
	}
	if b.modified {
		fileStr += " [+]"
	}
	if b.readOnly {
		fileStr += " (read-only)"
	}
	drawString(x+1, statusY, w, fileStr, barFg, barBg)

	lineNum := b.cursor.Y + 1
	col := e.bufferToVisual(b.buffer[b.cursor.Y], b.cursor.X) + 1
	percent := lineNum * 100 / len(b.buffer)
	fileTypeStr := "text"
	if b.fileType != nil {
		fileTypeStr = strings.ToLower(b.fileType.Name)
	}
	statusRight := fmt.Sprintf("(%s) [%d/%d] %d,%d %d%% ", fileTypeStr, e.activeBufferIndex+1, len(e.buffers), lineNum, col, percent)
	const indicatorsWidth = 6
	drawString(w-runewidth.StringWidth(statusRight)-indicatorsWidth, statusY, w, statusRight, barFg, barBg)

	// R: template roots present. C: completion session open.
	rootsColor := ColorRootsMissing
	if e.roots != nil && len(e.roots.Roots()) > 0 {
		rootsColor = ColorRootsPresent
	}
	fgR, bgR := GetThemeColor(rootsColor)
	drawString(w-6, statusY, w, " R ", fgR, bgR)

	sessionColor := ColorSessionIdle
	if e.session != nil && !e.session.Closed() {
		sessionColor = ColorSessionOpen
	}
	fgC, bgC := GetThemeColor(sessionColor)
	drawString(w-3, statusY, w, " C ", fgC, bgC)
}

func (e *Editor) drawCommandBar(cmdY int) {
	w, _ := termbox.Size()
	fg, bg := GetThemeColor(ColorDefault)
	for x := 0; x < w; x++ {
		termbox.SetCell(x, cmdY, ' ', fg, bg)
	}

	switch {
	case e.mode == ModeCommand:
		drawString(0, cmdY, w, ":"+string(e.commandBuffer), fg, bg)
	case e.mode == ModeFuzzy:
		drawString(1, cmdY, w, "> "+string(e.fuzzy.query), fg, bg)
	case e.mode == ModeFind:
		drawString(0, cmdY, w, "/"+string(e.findBuffer), fg, bg)
	case e.message != "":
		drawString(0, cmdY, w, e.message, fg, bg)
	case len(e.unresolved) > 0:
		summary := fmt.Sprintf("%d unresolved partial(s): {{> %s}} at line %d", len(e.unresolved), e.unresolved[0].path, e.unresolved[0].line+1)
		sfg, _ := GetThemeColor(ColorUnresolvedSummary)
		drawString(0, cmdY, w, runewidth.Truncate(summary, w, "..."), sfg, bg)
	}
}

func (e *Editor) drawDebugWindow() {
	w, h := termbox.Size()
	lines := e.logs.Last(Config.NumLogsInDebugWindow)

	startY := max(h-2-len(lines)-1, 0)
	fg, bg := GetThemeColor(ColorDebugWindow)
	for y := startY; y < h-2; y++ {
		for x := 0; x < w; x++ {
			termbox.SetCell(x, y, ' ', fg, bg)
		}
	}

	title := "[DEBUG LOG]"
	tfg, tbg := GetThemeColor(ColorDebugTitle)
	drawString((w-len(title))/2, startY, w, title, tfg, tbg)

	for i, line := range lines {
		y := startY + 1 + i
		if y >= h-2 {
			break
		}
		drawString(1, y, w-1, runewidth.Truncate(line, w-2, "..."), fg, bg)
	}
}
