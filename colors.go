package main

// Palette preview for `hbsq colors`: the theme entries first, then all 256
// terminal colors so a theme can be tuned against what the terminal shows.

import (
	"fmt"
	"sort"

	"github.com/nsf/termbox-go"
)

// PrintColors draws the palette and waits for a key press.
func PrintColors() error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("failed to init termbox: %w", err)
	}
	defer termbox.Close()

	termbox.SetOutputMode(termbox.Output256)
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	w, _ := termbox.Size()

	names := make([]ColorName, 0, len(colorLabels))
	for name := range colorLabels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	const swatchWidth = 24
	perRow := max(w/swatchWidth, 1)
	for i, name := range names {
		fg, bg := GetThemeColor(name)
		x := (i % perRow) * swatchWidth
		y := i / perRow
		label := fmt.Sprintf(" %-*s", swatchWidth-2, colorLabels[name])
		drawString(x, y, x+swatchWidth-1, label, fg, bg)
	}

	top := (len(names)+perRow-1)/perRow + 1
	cols := 16
	if w < 80 {
		cols = 8
	}
	for i := 0; i < 256; i++ {
		row := top + (i/cols)*2
		col := (i % cols) * 5

		fg := termbox.ColorWhite
		if i == 7 || i > 240 {
			fg = termbox.ColorBlack
		}
		str := fmt.Sprintf("%5d", i)
		for j, r := range str {
			termbox.SetCell(col+j, row, r, fg, termbox.Attribute(i))
			termbox.SetCell(col+j, row+1, ' ', fg, termbox.Attribute(i))
		}
	}

	drawString(0, top+(256/cols)*2, w, "Press any key to exit...", termbox.ColorWhite, termbox.ColorDefault)
	termbox.Flush()
	termbox.PollEvent()
	return nil
}
