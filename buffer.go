package main

// Data structures and methods for a template buffer: its content (lines of
// runes), the cursor, undo history and the flat rune offsets the partial
// completion engine works with.

import (
	"fmt"
	"strings"
	"time"

	"hbsq/partial"
)

// Cursor represents a position in the buffer.
type Cursor struct {
	X            int // Column index (0-based).
	Y            int // Row index (0-based).
	PreferredCol int // Remembers the intended column when moving up/down.
}

// HistoryState stores a snapshot of the buffer and cursor for undo/redo.
type HistoryState struct {
	buffer [][]rune
	cursor Cursor
}

// Buffer represents an open file and its associated editor state.
type Buffer struct {
	buffer      [][]rune           // Slice of lines, where each line is a slice of runes.
	cursor      Cursor             // Caret position.
	scrollX     int                // Horizontal scroll offset.
	scrollY     int                // Vertical scroll offset.
	filename    string             // Path to the file on disk.
	modified    bool               // True if changes haven't been saved.
	readOnly    bool               // True if the buffer cannot be edited.
	undoStack   []HistoryState     // For undo functionality.
	redoStack   []HistoryState     // For redo functionality.
	fileType    *FileType          // Language-specific settings.
	syntax      *SyntaxHighlighter // Syntax highlighting engine.
	lastModTime time.Time          // Last modified time of the file on disk.
}

// newBuffer wraps lines (never empty) in a buffer of type ft.
func newBuffer(filename string, lines [][]rune, ft *FileType) *Buffer {
	if len(lines) == 0 {
		lines = [][]rune{{}}
	}
	return &Buffer{
		buffer:   lines,
		filename: filename,
		fileType: ft,
	}
}

// toString converts the entire buffer (slice of lines) into a single string.
func (b *Buffer) toString() string {
	var result strings.Builder
	for i, line := range b.buffer {
		result.WriteString(string(line))
		if i < len(b.buffer)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// splitLines is the inverse of toString.
func splitLines(runes []rune) [][]rune {
	lines := [][]rune{{}}
	for _, r := range runes {
		if r == '\n' {
			lines = append(lines, []rune{})
			continue
		}
		last := len(lines) - 1
		lines[last] = append(lines[last], r)
	}
	return lines
}

// offsetOf converts a (row, col) position into a rune offset from the start
// of the buffer. Lines are joined by a single newline.
func (b *Buffer) offsetOf(row, col int) int {
	offset := 0
	for i := 0; i < row && i < len(b.buffer); i++ {
		offset += len(b.buffer[i]) + 1
	}
	if row < len(b.buffer) {
		offset += min(col, len(b.buffer[row]))
	}
	return offset
}

// positionOf converts a rune offset back to (row, col), clamped to the buffer.
func (b *Buffer) positionOf(offset int) (row, col int) {
	if offset < 0 {
		return 0, 0
	}
	for i, line := range b.buffer {
		if offset <= len(line) {
			return i, offset
		}
		offset -= len(line) + 1
	}
	last := len(b.buffer) - 1
	return last, len(b.buffer[last])
}

// Text implements partial.Buffer.
func (b *Buffer) Text() string {
	return b.toString()
}

// Cursor implements partial.Buffer.
func (b *Buffer) Cursor() int {
	return b.offsetOf(b.cursor.Y, b.cursor.X)
}

// SetCursor implements partial.Buffer.
func (b *Buffer) SetCursor(offset int) {
	b.cursor.Y, b.cursor.X = b.positionOf(offset)
	b.cursor.PreferredCol = b.cursor.X
}

// Edit implements partial.Buffer. All replacements made by fn land as one
// undo step; nothing changes if fn fails or panics.
func (b *Buffer) Edit(fn func(tx partial.EditTx) error) (err error) {
	if b.readOnly {
		return fmt.Errorf("file is read-only")
	}

	tx := &bufferTx{text: []rune(b.toString()), cursor: b.Cursor()}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("edit aborted: %v", r)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if !tx.changed {
		return nil
	}

	b.saveState()
	b.buffer = splitLines(tx.text)
	b.SetCursor(tx.cursor)
	b.afterEdit()
	return nil
}

// bufferTx collects the replacements of one Edit call on a flat copy of the
// buffer text.
type bufferTx struct {
	text    []rune
	cursor  int
	changed bool
}

func (tx *bufferTx) Replace(start, end int, text string) error {
	out, cursor, err := partial.ReplaceRunes(tx.text, tx.cursor, start, end, text)
	if err != nil {
		return err
	}
	tx.text, tx.cursor, tx.changed = out, cursor, true
	return nil
}

// afterEdit refreshes state derived from the buffer content.
func (b *Buffer) afterEdit() {
	b.modified = true
	if b.syntax != nil {
		b.syntax.Reparse([]byte(b.toString()))
	}
}

// snapshot returns a deep copy of the buffer and cursor.
func (b *Buffer) snapshot() HistoryState {
	bufferCopy := make([][]rune, len(b.buffer))
	for i, line := range b.buffer {
		lineCopy := make([]rune, len(line))
		copy(lineCopy, line)
		bufferCopy[i] = lineCopy
	}
	return HistoryState{buffer: bufferCopy, cursor: b.cursor}
}

// saveState pushes the current content on the undo stack.
func (b *Buffer) saveState() {
	b.undoStack = append(b.undoStack, b.snapshot())
	// Cap undo stack at 100 entries.
	if len(b.undoStack) > 100 {
		b.undoStack = b.undoStack[1:]
	}
	b.redoStack = nil
}

func (b *Buffer) undo() bool {
	if len(b.undoStack) == 0 {
		return false
	}
	b.redoStack = append(b.redoStack, b.snapshot())
	state := b.undoStack[len(b.undoStack)-1]
	b.undoStack = b.undoStack[:len(b.undoStack)-1]
	b.restore(state)
	return true
}

func (b *Buffer) redo() bool {
	if len(b.redoStack) == 0 {
		return false
	}
	b.undoStack = append(b.undoStack, b.snapshot())
	state := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]
	b.restore(state)
	return true
}

func (b *Buffer) restore(state HistoryState) {
	b.buffer = state.buffer
	b.cursor = state.cursor
	b.afterEdit()
}

// clampCursor keeps the cursor inside the buffer after external changes.
func (b *Buffer) clampCursor() {
	c := &b.cursor
	c.Y = max(0, min(c.Y, len(b.buffer)-1))
	c.X = max(0, min(c.X, len(b.buffer[c.Y])))
}
