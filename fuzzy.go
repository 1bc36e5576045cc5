package main

// Fuzzy finder over project files, open buffers, partials reachable from the
// template roots and the unresolved partial references of open buffers.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/nsf/termbox-go"

	"hbsq/partial"
)

type FuzzyType int

const (
	FuzzyModeFile FuzzyType = iota
	FuzzyModeBuffer
	FuzzyModePartial
	FuzzyModeUnresolved
)

// fuzzyItem is one selectable row.
type fuzzyItem struct {
	label string
	file  string
	buf   int // open buffer index, or -1
	line  int // -1 keeps the cursor
	col   int
}

type fuzzyFinder struct {
	kind    FuzzyType
	query   []rune
	items   []fuzzyItem
	results []int // indices into items, best match first
	index   int
	scroll  int
}

func (e *Editor) startFuzzyFinder(kind FuzzyType, items []fuzzyItem) {
	e.closeCompletion()
	e.fuzzy = fuzzyFinder{kind: kind, items: items}
	e.updateFuzzyResults()
	e.mode = ModeFuzzy
}

func (e *Editor) startFileFuzzyFinder() {
	var items []fuzzyItem
	filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if info.Name() == ".git" || info.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		items = append(items, fuzzyItem{label: path, file: path, buf: -1, line: -1})
		return nil
	})
	e.startFuzzyFinder(FuzzyModeFile, items)
}

func (e *Editor) startBufferFuzzyFinder() {
	var items []fuzzyItem
	for i, b := range e.buffers {
		name := b.filename
		if name == "" {
			name = "[No Name]"
		}
		items = append(items, fuzzyItem{label: name, file: b.filename, buf: i, line: -1})
	}
	e.startFuzzyFinder(FuzzyModeBuffer, items)
}

// startPartialFuzzyFinder lists every partial by its include path.
func (e *Editor) startPartialFuzzyFinder() {
	if e.roots == nil {
		e.message = "No template roots configured"
		return
	}
	var items []fuzzyItem
	for _, entry := range partial.Walk(e.roots.Roots(), Config.PartialExt) {
		items = append(items, fuzzyItem{label: entry.Path, file: entry.Location, buf: -1, line: -1})
	}
	e.startFuzzyFinder(FuzzyModePartial, items)
}

// startUnresolvedFuzzyFinder lists partial references that name nothing.
func (e *Editor) startUnresolvedFuzzyFinder() {
	var items []fuzzyItem
	for i, b := range e.buffers {
		name := "[No Name]"
		if b.filename != "" {
			name = filepath.Base(b.filename)
		}
		for _, ref := range e.unresolvedRefs(b) {
			items = append(items, fuzzyItem{
				label: fmt.Sprintf("%s:%d {{> %s}}", name, ref.line+1, ref.path),
				file:  b.filename,
				buf:   i,
				line:  ref.line,
				col:   ref.col,
			})
		}
	}
	e.startFuzzyFinder(FuzzyModeUnresolved, items)
}

func (e *Editor) updateFuzzyResults() {
	f := &e.fuzzy
	f.results = f.results[:0]
	if len(f.query) == 0 {
		for i := range f.items {
			f.results = append(f.results, i)
		}
	} else {
		labels := make([]string, len(f.items))
		for i, it := range f.items {
			labels[i] = it.label
		}
		ranks := fuzzy.RankFindFold(string(f.query), labels)
		sort.SliceStable(ranks, func(i, j int) bool {
			if ranks[i].Distance != ranks[j].Distance {
				return ranks[i].Distance < ranks[j].Distance
			}
			return ranks[i].OriginalIndex < ranks[j].OriginalIndex
		})
		for _, r := range ranks {
			f.results = append(f.results, r.OriginalIndex)
		}
	}
	if f.index >= len(f.results) {
		f.index = 0
	}
	f.scroll = 0
}

func (e *Editor) openSelectedFile() {
	f := &e.fuzzy
	if len(f.results) == 0 {
		return
	}
	item := f.items[f.results[f.index]]

	e.pushJump()
	switch {
	case item.buf >= 0 && item.buf < len(e.buffers):
		e.closeCompletion()
		e.activeBufferIndex = item.buf
	case !e.switchToFile(item.file):
		if err := e.LoadFile(item.file); err != nil {
			e.message = fmt.Sprintf("Error opening file: %v", err)
			return
		}
	}
	if item.line >= 0 {
		b := e.activeBuffer()
		b.cursor = Cursor{Y: item.line, X: item.col, PreferredCol: item.col}
		b.clampCursor()
		e.centerScreen()
	}
	e.mode = ModeNormal
}

func (e *Editor) fuzzyMove(dir int) {
	f := &e.fuzzy
	n := len(f.results)
	if n == 0 {
		return
	}
	f.index = (f.index + dir + n) % n

	height := Config.FuzzyFinderHeight
	if f.index < f.scroll {
		f.scroll = f.index
	} else if f.index >= f.scroll+height {
		f.scroll = f.index - height + 1
	}
}

func (e *Editor) drawFuzzyFinder(startY int, fuzzyHeight int) {
	w, _ := termbox.Size()
	f := &e.fuzzy

	for i := 0; i < fuzzyHeight; i++ {
		resultIdx := i + f.scroll
		if resultIdx >= len(f.results) {
			break
		}

		label := f.items[f.results[resultIdx]].label
		y := startY + fuzzyHeight - 1 - i
		fg, bg := GetThemeColor(ColorFuzzyResult)

		if resultIdx == f.index {
			selFg, selBg := GetThemeColor(ColorFuzzySelected)
			for x := 0; x < w; x++ {
				termbox.SetCell(x, y, ' ', selFg, selBg)
			}
			fg, bg = selFg, selBg
			label = " > " + label
		} else {
			label = "   " + label
		}
		drawString(0, y, w, label, fg, bg)
	}
}
