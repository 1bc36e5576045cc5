package partial

// TextBuffer is an in-memory Buffer with snapshot undo, used by the command
// line tools and tests.

import "fmt"

const maxUndo = 100

type snapshot struct {
	text   []rune
	cursor int
}

type TextBuffer struct {
	text      []rune
	cursor    int
	undoStack []snapshot
	redoStack []snapshot
}

// NewTextBuffer returns a buffer holding text with the cursor at cursor.
func NewTextBuffer(text string, cursor int) *TextBuffer {
	b := &TextBuffer{text: []rune(text)}
	b.cursor = clamp(cursor, 0, len(b.text))
	return b
}

func (b *TextBuffer) Text() string { return string(b.text) }
func (b *TextBuffer) Cursor() int  { return b.cursor }

func (b *TextBuffer) SetCursor(offset int) {
	b.cursor = clamp(offset, 0, len(b.text))
}

// Edit runs fn against a working copy and commits it as one undo step.
func (b *TextBuffer) Edit(fn func(tx EditTx) error) (err error) {
	tx := &textTx{text: append([]rune(nil), b.text...), cursor: b.cursor}
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

	b.pushUndo()
	b.redoStack = nil
	b.text, b.cursor = tx.text, tx.cursor
	return nil
}

// Undo reverts the last committed edit. It returns false when there is
// nothing to undo.
func (b *TextBuffer) Undo() bool {
	if len(b.undoStack) == 0 {
		return false
	}
	b.redoStack = append(b.redoStack, snapshot{text: b.text, cursor: b.cursor})
	last := b.undoStack[len(b.undoStack)-1]
	b.undoStack = b.undoStack[:len(b.undoStack)-1]
	b.text, b.cursor = last.text, last.cursor
	return true
}

// Redo reapplies the last undone edit.
func (b *TextBuffer) Redo() bool {
	if len(b.redoStack) == 0 {
		return false
	}
	b.pushUndo()
	next := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]
	b.text, b.cursor = next.text, next.cursor
	return true
}

func (b *TextBuffer) pushUndo() {
	b.undoStack = append(b.undoStack, snapshot{text: b.text, cursor: b.cursor})
	if len(b.undoStack) > maxUndo {
		b.undoStack = b.undoStack[1:]
	}
}

type textTx struct {
	text    []rune
	cursor  int
	changed bool
}

// Replace edits the working copy.
func (tx *textTx) Replace(start, end int, text string) error {
	out, cursor, err := ReplaceRunes(tx.text, tx.cursor, start, end, text)
	if err != nil {
		return err
	}
	tx.text, tx.cursor, tx.changed = out, cursor, true
	return nil
}

// ReplaceRunes returns a copy of text with [start, end) replaced by repl,
// and cursor mapped through the edit. A cursor after the replaced range
// moves with the text; a cursor inside it moves to the end of the new text.
func ReplaceRunes(text []rune, cursor, start, end int, repl string) ([]rune, int, error) {
	if err := checkRange(len(text), start, end); err != nil {
		return nil, cursor, err
	}
	r := []rune(repl)

	out := make([]rune, 0, len(text)-(end-start)+len(r))
	out = append(out, text[:start]...)
	out = append(out, r...)
	out = append(out, text[end:]...)

	switch {
	case cursor >= end:
		cursor += len(r) - (end - start)
	case cursor > start:
		cursor = start + len(r)
	}
	return out, cursor, nil
}
