package main

// Core of the template editor. Manages the global editor state, buffer
// lifecycle and coordination between the partial completion engine, the
// template roots and syntax highlighting.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"hbsq/partial"
)

// Mode represents the current operational state of the editor.
type Mode int

const (
	ModeNormal  Mode = iota
	ModeInsert       // Text entry, partial completion popup lives here
	ModeCommand      // Colon command line mode
	ModeFuzzy        // File/buffer/partial fuzzy finder mode
	ModeFind         // In-file search mode (/)
	ModeConfirm      // Yes/No confirmation prompt
)

var errChangedOnDisk = errors.New("file changed on disk")

type Jump struct {
	filename string
	cursorX  int
	cursorY  int
}

// Editor is the main controller struct that holds all global state.
type Editor struct {
	buffers           []*Buffer // All open file buffers.
	activeBufferIndex int       // Currently visible buffer.
	mode              Mode      // Current editor mode.
	clipboard         []rune    // Basic internal clipboard.
	pendingKey        rune      // First character of a multi-key command (e.g., 'g').
	commandBuffer     []rune    // Input for the : command line.
	commandCursorX    int       // Cursor position within commandBuffer.
	commandHistory    []string  // History of executed commands.
	commandHistoryIdx int       // Current position in command history (-1 = not navigating).
	findBuffer        []rune    // Input for the / find line.
	findSavedSearch   string    // Search term before incremental search started.
	lastSearch        string    // The last searched term (for 'n'/'N').
	fuzzy             fuzzyFinder
	mouseEnabled      bool   // Toggle for mouse support.
	logs              *logRing
	showDebugLog      bool   // Visibility toggle for the log window.
	jumplist          []Jump // History of cursor locations (for Ctrl-O/Ctrl-I).
	jumpIndex         int    // Current position in the jumplist.
	message           string // Status message shown at the bottom.
	commands          *Command
	devMode           bool
	introDismissed    bool
	pendingConfirm    func() // Callback for the confirmation mode.

	logger     hclog.Logger
	roots      *partial.DirRoots
	completer  *partial.Completer
	session    *partial.Session // Open completion session, if any.
	popup      *completionPopup
	unresolved []unresolvedRef // Unresolved partials of the active buffer, refreshed per frame.

	tasksMu      sync.Mutex
	tasks        []func()
	wake         func() // Wakes the event loop; nil when there is no terminal.
	rootsChanged atomic.Bool
}

// activeBuffer returns the Buffer currently being edited.
func (e *Editor) activeBuffer() *Buffer {
	if len(e.buffers) == 0 {
		return nil
	}
	return e.buffers[e.activeBufferIndex]
}

// editable returns the active buffer unless it is read-only.
func (e *Editor) editable() *Buffer {
	b := e.activeBuffer()
	if b == nil {
		return nil
	}
	if b.readOnly {
		e.message = "File is read-only"
		return nil
	}
	return b
}

func (e *Editor) useTabs() bool {
	b := e.activeBuffer()
	if b == nil || b.fileType == nil {
		return false
	}
	return b.fileType.UseTabs
}

func (e *Editor) tabWidth() int {
	if b := e.activeBuffer(); b != nil && b.fileType != nil && b.fileType.TabWidth > 0 {
		return b.fileType.TabWidth
	}
	return Config.DefaultTabWidth
}

func (e *Editor) visualWidth(r rune, currentX int) int {
	if r == '\t' {
		tw := e.tabWidth()
		return tw - (currentX % tw)
	}
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// bufferToVisual converts a buffer column index to its visual column index.
func (e *Editor) bufferToVisual(line []rune, bufferX int) int {
	visualX := 0
	for i := 0; i < bufferX && i < len(line); i++ {
		visualX += e.visualWidth(line[i], visualX)
	}
	return visualX
}

// NewEditor creates an editor with an empty buffer. roots may be nil, in
// which case partial completion is disabled.
func NewEditor(logger hclog.Logger, logs *logRing, roots *partial.DirRoots, devMode bool) *Editor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if logs == nil {
		logs = newLogRing(50)
	}
	e := &Editor{
		mode:              ModeNormal,
		commandHistoryIdx: -1,
		mouseEnabled:      true,
		logs:              logs,
		jumpIndex:         -1,
		devMode:           devMode,
		logger:            logger,
		roots:             roots,
		popup:             &completionPopup{},
	}
	if roots != nil {
		e.completer = &partial.Completer{Roots: roots, Ext: Config.PartialExt, Logger: logger}
	}
	e.buffers = append(e.buffers, newBuffer("", nil, defaultFileType()))
	e.commands = &Command{e: e}
	e.logger.Debug("editor initialized", "roots", len(e.rootDirs()))
	return e
}

func (e *Editor) rootDirs() []string {
	if e.roots == nil {
		return nil
	}
	return e.roots.Dirs()
}

func (e *Editor) toggleDebugWindow() {
	e.showDebugLog = !e.showDebugLog
}

// readLines splits r into buffer lines, expanding tabs for file types that
// indent with spaces.
func readLines(r io.Reader, ft *FileType) ([][]rune, error) {
	var lines [][]rune
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if err == io.EOF && line == "" {
			break
		}

		trimmed := strings.TrimSuffix(line, "\n")
		trimmed = strings.TrimSuffix(trimmed, "\r")
		if !ft.UseTabs && ft.TabWidth > 0 {
			trimmed = strings.ReplaceAll(trimmed, "\t", strings.Repeat(" ", ft.TabWidth))
		}
		lines = append(lines, []rune(trimmed))

		if err == io.EOF {
			break
		}
	}
	if len(lines) == 0 {
		lines = [][]rune{{}}
	}
	return lines, nil
}

// LoadFile reads a file from disk into a buffer, creating it if missing.
func (e *Editor) LoadFile(filename string) error {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		if dir := filepath.Dir(filename); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
		}
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		file.Close()
		if info, err = os.Stat(filename); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := e.LoadFromReader(filename, file); err != nil {
		return err
	}
	e.activeBuffer().lastModTime = info.ModTime()
	return nil
}

// LoadFromReader opens the content of r as filename. The initial empty
// buffer is reused.
func (e *Editor) LoadFromReader(filename string, r io.Reader) error {
	e.closeCompletion()
	ft := getFileType(filename)
	lines, err := readLines(r, ft)
	if err != nil {
		return err
	}

	b := newBuffer(filename, lines, ft)
	b.syntax = NewSyntaxHighlighter(ft.Grammar, e.logger)
	if b.syntax != nil {
		b.syntax.Parse([]byte(b.toString()))
	}

	if cur := e.activeBuffer(); cur != nil && cur.filename == "" && len(cur.buffer) == 1 && len(cur.buffer[0]) == 0 && !cur.modified {
		e.buffers[e.activeBufferIndex] = b
	} else {
		e.buffers = append(e.buffers, b)
		e.activeBufferIndex = len(e.buffers) - 1
	}
	e.logger.Debug("buffer opened", "file", filename, "type", ft.Name, "lines", len(lines))
	return nil
}

// writeBuffer writes b to its file.
func writeBuffer(b *Buffer) error {
	file, err := os.Create(b.filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for i, line := range b.buffer {
		if _, err := writer.WriteString(string(line)); err != nil {
			return err
		}
		// Every non-empty buffer ends with a newline.
		if i < len(b.buffer)-1 || len(b.buffer) > 1 || len(b.buffer[0]) > 0 {
			if _, err := writer.WriteString("\n"); err != nil {
				return err
			}
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	b.modified = false
	if info, err := os.Stat(b.filename); err == nil {
		b.lastModTime = info.ModTime()
	}
	return nil
}

// SaveFile writes the active buffer content back to disk.
func (e *Editor) SaveFile(force bool) error {
	b := e.activeBuffer()
	if b == nil || b.filename == "" {
		return fmt.Errorf("no filename")
	}

	if !force {
		info, err := os.Stat(b.filename)
		if err == nil && info.ModTime().After(b.lastModTime) {
			return errChangedOnDisk
		}
	}
	if err := writeBuffer(b); err != nil {
		return err
	}
	e.logger.Debug("buffer written", "file", b.filename)
	return nil
}

func (e *Editor) nextBuffer() {
	if len(e.buffers) > 0 {
		e.closeCompletion()
		e.activeBufferIndex = (e.activeBufferIndex + 1) % len(e.buffers)
	}
}

func (e *Editor) prevBuffer() {
	if len(e.buffers) > 0 {
		e.closeCompletion()
		e.activeBufferIndex = (e.activeBufferIndex - 1 + len(e.buffers)) % len(e.buffers)
	}
}

// NewBuffer opens an empty unnamed buffer.
func (e *Editor) NewBuffer() {
	e.closeCompletion()
	e.buffers = append(e.buffers, newBuffer("", nil, defaultFileType()))
	e.activeBufferIndex = len(e.buffers) - 1
}

func (e *Editor) ReloadBuffer(b *Buffer) error {
	if b == nil || b.filename == "" {
		return fmt.Errorf("no filename")
	}

	info, err := os.Stat(b.filename)
	if err != nil {
		return err
	}
	file, err := os.Open(b.filename)
	if err != nil {
		return err
	}
	defer file.Close()

	lines, err := readLines(file, b.fileType)
	if err != nil {
		return err
	}
	if b == e.activeBuffer() {
		e.closeCompletion()
	}

	b.buffer = lines
	b.lastModTime = info.ModTime()
	b.clampCursor()
	if b.syntax != nil {
		b.syntax.Reparse([]byte(b.toString()))
	}
	b.modified = false
	return nil
}

func (e *Editor) CheckFilesOnDisk() {
	for _, b := range e.buffers {
		if b.filename == "" {
			continue
		}
		info, err := os.Stat(b.filename)
		if err != nil || !info.ModTime().After(b.lastModTime) {
			continue
		}

		name := filepath.Base(b.filename)
		isActive := b == e.activeBuffer()
		if !b.modified {
			if err := e.ReloadBuffer(b); err != nil {
				e.logger.Warn("auto-reload failed", "file", b.filename, "error", err)
				continue
			}
			e.logger.Info("auto-reloaded, changed on disk", "file", b.filename)
			if isActive {
				e.message = fmt.Sprintf("\"%s\" reloaded from disk", name)
			}
		} else if isActive {
			e.message = fmt.Sprintf("WARNING: \"%s\" changed on disk. Use :reload to update.", name)
			e.logger.Debug("changed on disk but buffer is modified", "file", b.filename)
		}
	}
}

func (e *Editor) PeriodicFileChangesCheck() {
	go func() {
		for {
			time.Sleep(Config.FileCheckInterval)
			termbox.Interrupt()
		}
	}()
}

func (e *Editor) deleteCurrentBuffer() {
	if len(e.buffers) == 0 {
		return
	}
	e.closeCompletion()

	e.buffers = append(e.buffers[:e.activeBufferIndex], e.buffers[e.activeBufferIndex+1:]...)
	if len(e.buffers) == 0 {
		e.buffers = append(e.buffers, newBuffer("", nil, defaultFileType()))
		e.activeBufferIndex = 0
	} else if e.activeBufferIndex >= len(e.buffers) {
		e.activeBufferIndex = len(e.buffers) - 1
	}
}

// saveState records an undo step for the active buffer.
func (e *Editor) saveState() {
	if b := e.activeBuffer(); b != nil {
		b.saveState()
	}
}

func (e *Editor) undo() {
	b := e.activeBuffer()
	if b == nil {
		return
	}
	e.closeCompletion()
	if !b.undo() {
		e.message = "Already at oldest change"
	}
}

func (e *Editor) redo() {
	b := e.activeBuffer()
	if b == nil {
		return
	}
	e.closeCompletion()
	if !b.redo() {
		e.message = "Already at newest change"
	}
}

// insertTab inserts either a literal tab character or an equivalent number of spaces.
func (e *Editor) insertTab() {
	if e.useTabs() {
		e.insertRune('\t')
		return
	}
	for i := 0; i < e.tabWidth(); i++ {
		e.insertRune(' ')
	}
}

func (e *Editor) insertRune(r rune) {
	b := e.editable()
	if b == nil {
		return
	}
	c := &b.cursor
	line := b.buffer[c.Y]
	newLine := make([]rune, 0, len(line)+1)
	newLine = append(newLine, line[:c.X]...)
	newLine = append(newLine, r)
	newLine = append(newLine, line[c.X:]...)
	b.buffer[c.Y] = newLine
	c.X++
	c.PreferredCol = c.X
	b.afterEdit()
}

// DeleteChar removes the character directly under the cursor.
func (e *Editor) DeleteChar() {
	b := e.editable()
	if b == nil {
		return
	}
	c := &b.cursor
	line := b.buffer[c.Y]
	if c.X >= len(line) {
		return
	}
	e.clipboard = []rune{line[c.X]}
	b.buffer[c.Y] = append(line[:c.X:c.X], line[c.X+1:]...)
	if c.X > 0 && c.X >= len(b.buffer[c.Y]) {
		c.X = len(b.buffer[c.Y]) - 1
	}
	b.afterEdit()
}

func (e *Editor) backspace() {
	b := e.editable()
	if b == nil {
		return
	}
	c := &b.cursor
	switch {
	case c.X > 0:
		line := b.buffer[c.Y]
		b.buffer[c.Y] = append(line[:c.X-1:c.X-1], line[c.X:]...)
		c.X--
	case c.Y > 0:
		prev := b.buffer[c.Y-1]
		c.X = len(prev)
		b.buffer[c.Y-1] = append(prev[:len(prev):len(prev)], b.buffer[c.Y]...)
		b.buffer = append(b.buffer[:c.Y], b.buffer[c.Y+1:]...)
		c.Y--
	default:
		return
	}
	c.PreferredCol = c.X
	b.afterEdit()
}

// deleteWordBackward removes the word before the cursor on the current line.
func (e *Editor) deleteWordBackward() {
	b := e.editable()
	if b == nil {
		return
	}
	c := &b.cursor
	line := b.buffer[c.Y]
	start := c.X
	for start > 0 && unicode.IsSpace(line[start-1]) {
		start--
	}
	for start > 0 && isWordChar(line[start-1]) {
		start--
	}
	if start == c.X && start > 0 {
		start--
	}
	if start == c.X {
		return
	}
	b.buffer[c.Y] = append(line[:start:start], line[c.X:]...)
	c.X = start
	c.PreferredCol = c.X
	b.afterEdit()
}

func getIndentation(line []rune) []rune {
	var indent []rune
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		indent = append(indent, r)
	}
	return indent
}

// indentAfter returns the indentation for a line following line[:x].
// Lines opening a brace or a block helper indent one level deeper.
func (e *Editor) indentAfter(line []rune, x int) []rune {
	indent := getIndentation(line[:x])
	if !opensBlock(string(line[:x])) {
		return indent
	}
	if e.useTabs() {
		return append(indent, '\t')
	}
	return append(indent, []rune(strings.Repeat(" ", e.tabWidth()))...)
}

func opensBlock(s string) bool {
	s = strings.TrimRight(s, " \t")
	if strings.HasSuffix(s, "{") && !strings.HasSuffix(s, "{{") {
		return true
	}
	return strings.Contains(s, "{{#") && !strings.Contains(s, "{{/")
}

// insertNewline breaks the line at cursor and handles auto-indentation.
func (e *Editor) insertNewline() {
	b := e.editable()
	if b == nil {
		return
	}
	c := &b.cursor
	line := b.buffer[c.Y]
	indent := e.indentAfter(line, c.X)

	rest := append(append([]rune{}, indent...), line[c.X:]...)
	b.buffer[c.Y] = line[:c.X:c.X]
	b.buffer = append(b.buffer[:c.Y+1], append([][]rune{rest}, b.buffer[c.Y+1:]...)...)
	c.Y++
	c.X = len(indent)
	c.PreferredCol = c.X
	b.afterEdit()
}

func (e *Editor) insertLineBelow() {
	b := e.editable()
	if b == nil {
		return
	}
	c := &b.cursor
	line := b.buffer[c.Y]
	indent := e.indentAfter(line, len(line))
	b.buffer = append(b.buffer[:c.Y+1], append([][]rune{indent}, b.buffer[c.Y+1:]...)...)
	c.Y++
	c.X = len(indent)
	c.PreferredCol = c.X
	e.mode = ModeInsert
	b.afterEdit()
}

func (e *Editor) insertLineAbove() {
	b := e.editable()
	if b == nil {
		return
	}
	c := &b.cursor
	indent := getIndentation(b.buffer[c.Y])
	b.buffer = append(b.buffer[:c.Y], append([][]rune{indent}, b.buffer[c.Y:]...)...)
	c.X = len(indent)
	c.PreferredCol = c.X
	e.mode = ModeInsert
	b.afterEdit()
}

func (e *Editor) deleteLine() {
	b := e.editable()
	if b == nil {
		return
	}
	c := &b.cursor
	e.clipboard = append(append([]rune{}, b.buffer[c.Y]...), '\n')
	if len(b.buffer) == 1 {
		b.buffer[0] = []rune{}
	} else {
		b.buffer = append(b.buffer[:c.Y], b.buffer[c.Y+1:]...)
		if c.Y >= len(b.buffer) {
			c.Y = len(b.buffer) - 1
		}
	}
	c.X = 0
	b.afterEdit()
}

func (e *Editor) yankLine() {
	b := e.activeBuffer()
	if b == nil {
		return
	}
	e.clipboard = append(append([]rune{}, b.buffer[b.cursor.Y]...), '\n')
}

// pasteLine pastes a yanked line below the cursor, or plain text at it.
func (e *Editor) pasteLine() {
	b := e.editable()
	if b == nil || len(e.clipboard) == 0 {
		return
	}
	c := &b.cursor
	text := string(e.clipboard)
	if strings.HasSuffix(text, "\n") {
		line := []rune(strings.TrimSuffix(text, "\n"))
		b.buffer = append(b.buffer[:c.Y+1], append([][]rune{line}, b.buffer[c.Y+1:]...)...)
		c.Y++
		c.X = 0
		b.afterEdit()
		return
	}
	at := min(c.X+1, len(b.buffer[c.Y]))
	b.buffer[c.Y] = append(append(append([]rune{}, b.buffer[c.Y][:at]...), e.clipboard...), b.buffer[c.Y][at:]...)
	c.X = at + len(e.clipboard) - 1
	b.afterEdit()
}

func (e *Editor) moveCursor(dx int, dy int) {
	b := e.activeBuffer()
	if b == nil {
		return
	}
	c := &b.cursor
	if dy != 0 {
		if newY := c.Y + dy; newY >= 0 && newY < len(b.buffer) {
			c.Y = newY
			c.X = min(c.PreferredCol, len(b.buffer[c.Y]))
		}
	}
	if dx != 0 {
		newX := c.X + dx
		switch {
		case newX < 0:
			if c.Y > 0 {
				c.Y--
				c.X = len(b.buffer[c.Y])
			}
		case newX > len(b.buffer[c.Y]):
			if c.Y < len(b.buffer)-1 {
				c.Y++
				c.X = 0
			}
		default:
			c.X = newX
		}
		c.PreferredCol = c.X
	}
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (e *Editor) moveWordForward() {
	b := e.activeBuffer()
	if b == nil {
		return
	}
	c := &b.cursor
	line := b.buffer[c.Y]
	x := c.X
	if x < len(line) && isWordChar(line[x]) {
		for x < len(line) && isWordChar(line[x]) {
			x++
		}
	} else if x < len(line) {
		x++
	}
	for x < len(line) && unicode.IsSpace(line[x]) {
		x++
	}
	if x >= len(line) && c.Y < len(b.buffer)-1 {
		c.Y++
		line = b.buffer[c.Y]
		x = len(getIndentation(line))
	}
	c.X = min(x, len(line))
	c.PreferredCol = c.X
}

func (e *Editor) moveWordBackward() {
	b := e.activeBuffer()
	if b == nil {
		return
	}
	c := &b.cursor
	if c.X == 0 {
		if c.Y > 0 {
			c.Y--
			c.X = len(b.buffer[c.Y])
			c.PreferredCol = c.X
		}
		return
	}
	line := b.buffer[c.Y]
	x := c.X
	for x > 0 && unicode.IsSpace(line[x-1]) {
		x--
	}
	if x > 0 && isWordChar(line[x-1]) {
		for x > 0 && isWordChar(line[x-1]) {
			x--
		}
	} else if x > 0 {
		x--
	}
	c.X = x
	c.PreferredCol = c.X
}

func (e *Editor) pushJump() {
	b := e.activeBuffer()
	if b == nil {
		return
	}
	jump := Jump{filename: b.filename, cursorX: b.cursor.X, cursorY: b.cursor.Y}

	if e.jumpIndex < len(e.jumplist)-1 {
		e.jumplist = e.jumplist[:e.jumpIndex+1]
	}
	if len(e.jumplist) > 0 && e.jumplist[len(e.jumplist)-1] == jump {
		return
	}
	e.jumplist = append(e.jumplist, jump)
	if len(e.jumplist) > 100 {
		e.jumplist = e.jumplist[1:]
	}
	e.jumpIndex = len(e.jumplist) - 1
}

func (e *Editor) jumpBack() {
	if e.jumpIndex < 0 {
		return
	}
	// Remember where we came from so Ctrl-I can return.
	if e.jumpIndex == len(e.jumplist)-1 {
		if b := e.activeBuffer(); b != nil {
			curr := Jump{filename: b.filename, cursorX: b.cursor.X, cursorY: b.cursor.Y}
			if curr != e.jumplist[e.jumpIndex] {
				e.jumplist = append(e.jumplist, curr)
				e.jumpIndex = len(e.jumplist) - 1
			}
		}
	}
	e.jumpIndex--
	if e.jumpIndex < 0 {
		e.jumpIndex = 0
		return
	}
	e.performJump(e.jumplist[e.jumpIndex])
}

func (e *Editor) jumpForward() {
	if e.jumpIndex >= len(e.jumplist)-1 {
		return
	}
	e.jumpIndex++
	e.performJump(e.jumplist[e.jumpIndex])
}

func (e *Editor) performJump(jump Jump) {
	if !e.switchToFile(jump.filename) {
		if err := e.LoadFile(jump.filename); err != nil {
			e.logger.Warn("jump target not loaded", "file", jump.filename, "error", err)
			return
		}
	}
	b := e.activeBuffer()
	b.cursor.Y = jump.cursorY
	b.cursor.X = jump.cursorX
	b.clampCursor()
}

// switchToFile activates an open buffer for filename.
func (e *Editor) switchToFile(filename string) bool {
	target, _ := filepath.Abs(filename)
	for i, buf := range e.buffers {
		if buf.filename == "" {
			continue
		}
		if abs, _ := filepath.Abs(buf.filename); abs == target {
			e.closeCompletion()
			e.activeBufferIndex = i
			return true
		}
	}
	return false
}

func (e *Editor) jumpToTop() {
	e.pushJump()
	if b := e.activeBuffer(); b != nil {
		b.cursor = Cursor{}
	}
}

func (e *Editor) jumpToBottom() {
	e.pushJump()
	if b := e.activeBuffer(); b != nil {
		b.cursor = Cursor{Y: len(b.buffer) - 1}
	}
}

func (e *Editor) jumpToLineEnd() {
	if b := e.activeBuffer(); b != nil {
		b.cursor.X = len(b.buffer[b.cursor.Y])
		b.cursor.PreferredCol = b.cursor.X
	}
}

func (e *Editor) jumpToFirstNonBlank() {
	if b := e.activeBuffer(); b != nil {
		b.cursor.X = len(getIndentation(b.buffer[b.cursor.Y]))
		b.cursor.PreferredCol = b.cursor.X
	}
}

func (e *Editor) performSearch(query string, forward bool) {
	b := e.activeBuffer()
	if b == nil || query == "" {
		return
	}
	queryLower := strings.ToLower(query)
	startX := b.cursor.X

	dir := 1
	if !forward {
		dir = -1
	}

	y := b.cursor.Y
	for i := 0; i <= len(b.buffer); i++ {
		lineLower := []rune(strings.ToLower(string(b.buffer[y])))

		var matches []int
		for pos := 0; pos+len([]rune(queryLower)) <= len(lineLower); pos++ {
			if strings.HasPrefix(string(lineLower[pos:]), queryLower) {
				matches = append(matches, pos)
			}
		}

		if forward {
			for _, m := range matches {
				if i == 0 && m <= startX {
					continue
				}
				b.cursor.Y, b.cursor.X = y, m
				return
			}
		} else {
			for j := len(matches) - 1; j >= 0; j-- {
				if i == 0 && matches[j] >= startX {
					continue
				}
				b.cursor.Y, b.cursor.X = y, matches[j]
				return
			}
		}

		y = (y + dir + len(b.buffer)) % len(b.buffer)
	}
}

func (e *Editor) findNext() {
	e.pushJump()
	e.performSearch(e.lastSearch, true)
}

func (e *Editor) findPrev() {
	e.pushJump()
	e.performSearch(e.lastSearch, false)
}

// centerScreen scrolls the viewport so the cursor is in the middle of the screen.
func (e *Editor) centerScreen() {
	b := e.activeBuffer()
	if b == nil {
		return
	}
	_, h := termbox.Size()
	visibleHeight := max(h-2, 1)

	target := b.cursor.Y - visibleHeight/2
	target = min(target, len(b.buffer)-visibleHeight)
	b.scrollY = max(target, 0)
}

// Post implements partial.Scheduler. Tasks run at the start of the next
// event loop turn; Post may be called from any goroutine.
func (e *Editor) Post(task func()) {
	e.tasksMu.Lock()
	e.tasks = append(e.tasks, task)
	e.tasksMu.Unlock()
	if e.wake != nil {
		go e.wake()
	}
}

// runTasks runs the tasks posted before this turn. Tasks posted while
// running wait for the next turn.
func (e *Editor) runTasks() {
	e.tasksMu.Lock()
	tasks := e.tasks
	e.tasks = nil
	e.tasksMu.Unlock()

	for _, task := range tasks {
		task()
	}
}

// logRing keeps the most recent log lines for the debug window. It is the
// io.Writer behind the editor's logger.
type logRing struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func newLogRing(max int) *logRing {
	return &logRing{max: max}
}

func (r *logRing) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range strings.Split(string(p), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			r.lines = append(r.lines, line)
		}
	}
	if len(r.lines) > r.max {
		r.lines = r.lines[len(r.lines)-r.max:]
	}
	return len(p), nil
}

// Last returns up to n of the most recent lines.
func (r *logRing) Last(n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := max(len(r.lines)-n, 0)
	return append([]string(nil), r.lines[start:]...)
}
