package main

// Glue between the editor and the partial completion engine: the candidate
// popup, the session lifecycle and detection of partial references that name
// nothing under the template roots.

import (
	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"hbsq/partial"
)

const maxPopupRows = 10

// completionPopup lists the candidates of the open session. It only takes
// listeners once it has been drawn.
type completionPopup struct {
	items     []partial.Candidate
	index     int
	scroll    int
	visible   bool
	ready     bool
	listeners []partial.Listener
}

func (p *completionPopup) Ready() bool {
	return p.visible && p.ready
}

func (p *completionPopup) HasListener(l partial.Listener) bool {
	for _, x := range p.listeners {
		if x == l {
			return true
		}
	}
	return false
}

func (p *completionPopup) AddListener(l partial.Listener) {
	p.listeners = append(p.listeners, l)
}

func (p *completionPopup) RemoveListener(l partial.Listener) {
	kept := p.listeners[:0]
	for _, x := range p.listeners {
		if x != l {
			kept = append(kept, x)
		}
	}
	p.listeners = kept
}

// show replaces the listed candidates, keeping the selection when possible.
func (p *completionPopup) show(items []partial.Candidate) {
	if !p.visible {
		p.index, p.scroll = 0, 0
	}
	p.items = items
	p.visible = true
	if p.index >= len(items) {
		p.index, p.scroll = 0, 0
	}
}

func (p *completionPopup) hide() {
	p.items = nil
	p.visible = false
	p.ready = false
}

func (p *completionPopup) move(dir int) {
	n := len(p.items)
	if n == 0 {
		return
	}
	p.index = (p.index + dir + n) % n
	if p.index < p.scroll {
		p.scroll = p.index
	}
	if p.index >= p.scroll+maxPopupRows {
		p.scroll = p.index - maxPopupRows + 1
	}
}

func (p *completionPopup) selected() (partial.Candidate, bool) {
	if !p.visible || p.index >= len(p.items) {
		return partial.Candidate{}, false
	}
	return p.items[p.index], true
}

// Listeners may detach themselves while being notified.
func (p *completionPopup) notifyAccepted(c partial.Candidate) {
	for _, l := range append([]partial.Listener(nil), p.listeners...) {
		l.ItemAccepted(c)
	}
}

func (p *completionPopup) notifyCancelled() {
	for _, l := range append([]partial.Listener(nil), p.listeners...) {
		l.Cancelled()
	}
}

// triggerPartialCompletion opens the popup for the partial path at the cursor.
func (e *Editor) triggerPartialCompletion() {
	b := e.editable()
	if b == nil {
		return
	}
	if e.completer == nil {
		e.message = "No template roots configured"
		return
	}
	if _, ok := partial.LocateSpan(b.Text(), b.Cursor()); !ok {
		e.message = "Not inside a partial path"
		return
	}

	e.closeCompletion()
	e.session = e.completer.Start(partial.Host{Buffer: b, Popup: e.popup, Scheduler: e})
	e.refreshCompletion()
}

// refreshCompletion lists the candidates of the open session again, closing
// it when nothing matches.
func (e *Editor) refreshCompletion() {
	s := e.session
	if s == nil {
		return
	}
	if s.Closed() {
		e.session = nil
		e.popup.hide()
		return
	}
	items := s.Candidates()
	if len(items) == 0 {
		e.message = "No matching partials"
		e.closeCompletion()
		return
	}
	e.popup.show(items)
}

// acceptCompletion inserts the selected candidate. Accepting a directory
// continues with its children.
func (e *Editor) acceptCompletion() {
	item, ok := e.popup.selected()
	if !ok {
		e.closeCompletion()
		return
	}
	e.popup.notifyAccepted(item)
	// The session may not have attached to the popup yet.
	if s := e.session; s != nil && !s.Closed() {
		s.ItemAccepted(item)
	}
	e.session = nil
	e.popup.hide()

	if item.Kind == partial.KindDirectory {
		e.triggerPartialCompletion()
	}
}

func (e *Editor) cancelCompletion() {
	e.popup.notifyCancelled()
	e.closeCompletion()
}

// closeCompletion finishes the open session, restoring its quotes, and
// hides the popup.
func (e *Editor) closeCompletion() {
	if s := e.session; s != nil {
		e.session = nil
		if !s.Closed() {
			if err := s.Cancel(); err != nil {
				e.logger.Warn("closing completion session", "session", s.ID, "error", err)
			}
		}
	}
	e.popup.hide()
}

// slashTyped opens completion after a '/' typed inside a partial path.
func (e *Editor) slashTyped() {
	if !Config.SlashTrigger || e.session != nil || e.completer == nil {
		return
	}
	b := e.activeBuffer()
	if _, ok := partial.LocateSpan(b.Text(), b.Cursor()); ok {
		e.triggerPartialCompletion()
	}
}

func (e *Editor) onRootsChanged() {
	e.logger.Debug("template roots changed")
	e.refreshCompletion()
}

func (e *Editor) drawCompletionPopup() {
	p := e.popup
	if !p.visible || len(p.items) == 0 {
		return
	}
	b := e.activeBuffer()
	if b == nil {
		return
	}
	w, h := termbox.Size()

	labelWidth := 0
	for _, item := range p.items {
		labelWidth = max(labelWidth, runewidth.StringWidth(item.InsertText()))
	}
	kindWidth := len("directory")
	width := min(labelWidth+2+kindWidth, w-10)
	popupWidth := width + 2
	rows := min(len(p.items), maxPopupRows)

	cursorX := e.bufferToVisual(b.buffer[b.cursor.Y], b.cursor.X) - b.scrollX + Config.GutterWidth
	cursorY := b.cursor.Y - b.scrollY

	startX := cursorX
	startY := cursorY + 1
	if startY+rows > h-2 {
		startY = cursorY - rows
	}
	if startX+popupWidth > w {
		startX = w - popupWidth
	}
	startX = max(startX, 0)

	fg, bg := GetThemeColor(ColorCompletionWindow)
	selFg, selBg := GetThemeColor(ColorCompletionSelected)
	dirFg, _ := GetThemeColor(ColorCompletionDirectory)

	for y := 0; y < rows; y++ {
		idx := y + p.scroll
		if idx >= len(p.items) {
			break
		}
		item := p.items[idx]

		itemFg, itemBg := fg, bg
		if item.Kind == partial.KindDirectory {
			itemFg = dirFg
		}
		if idx == p.index {
			itemFg, itemBg = selFg, selBg
		}
		for x := 0; x < popupWidth; x++ {
			termbox.SetCell(startX+x, startY+y, ' ', itemFg, itemBg)
		}

		label := runewidth.FillRight(item.InsertText(), labelWidth)
		text := runewidth.Truncate(label+"  "+item.Kind.String(), width, "...")
		drawString(startX+1, startY+y, startX+1+width, text, itemFg, itemBg)
	}
	p.ready = true
}

// unresolvedRef is a partial reference whose path names nothing. The
// columns cover the first segment that fails to resolve.
type unresolvedRef struct {
	path string
	line int
	col  int
	end  int
}

func (e *Editor) unresolvedRefs(b *Buffer) []unresolvedRef {
	if e.roots == nil || b == nil || b.fileType == nil || !b.fileType.Template {
		return nil
	}
	roots := e.roots.Roots()
	if len(roots) == 0 {
		return nil
	}

	var out []unresolvedRef
	for _, ref := range partial.FindReferences(b.toString()) {
		i := ref.Unresolved(roots, Config.PartialExt)
		if i < 0 {
			continue
		}
		seg := ref.Segments[i]
		y, x := b.positionOf(seg.Start)
		_, end := b.positionOf(seg.End)
		out = append(out, unresolvedRef{path: ref.Path, line: y, col: x, end: end})
	}
	return out
}

// gotoPartial opens the partial named by the reference under the cursor.
func (e *Editor) gotoPartial() {
	b := e.activeBuffer()
	if b == nil {
		return
	}
	if e.roots == nil {
		e.message = "No template roots configured"
		return
	}

	cursor := b.Cursor()
	for _, ref := range partial.FindReferences(b.Text()) {
		if cursor < ref.Start || cursor > ref.End {
			continue
		}
		n, ok := partial.ResolveFile(ref.Path, e.roots.Roots(), Config.PartialExt)
		if !ok {
			e.message = "Partial not found: " + ref.Path
			return
		}
		e.pushJump()
		if !e.switchToFile(n.Location()) {
			if err := e.LoadFile(n.Location()); err != nil {
				e.message = "Error opening partial: " + err.Error()
			}
		}
		return
	}
	e.message = "No partial under cursor"
}
