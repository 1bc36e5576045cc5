package partial

// Interfaces the completion core expects from its host. A host is usually an
// editor running a single-threaded event loop; every method here is called
// from that loop's goroutine.

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionClosed is returned by a session that already accepted or cancelled.
	ErrSessionClosed = errors.New("completion session closed")
	// ErrOffsetRange is returned by an edit whose range falls outside the text.
	ErrOffsetRange = errors.New("offset out of range")
)

// Buffer is the text being edited. Offsets count runes.
type Buffer interface {
	Text() string
	Cursor() int
	SetCursor(offset int)
	// Edit runs fn as one undoable step. Replacements made by fn are
	// discarded if fn returns an error or panics.
	Edit(fn func(tx EditTx) error) error
}

// EditTx applies replacements inside a Buffer.Edit call.
type EditTx interface {
	Replace(start, end int, text string) error
}

// ApplyEdit replaces [start, end) with text as a single undoable edit.
func ApplyEdit(b Buffer, start, end int, text string) error {
	return b.Edit(func(tx EditTx) error {
		return tx.Replace(start, end, text)
	})
}

// RootSource lists the top of the partial namespace.
type RootSource interface {
	Roots() []Node
}

// Listener receives the outcome of the candidate popup.
type Listener interface {
	ItemAccepted(c Candidate)
	Cancelled()
}

// Popup is the host's candidate list.
type Popup interface {
	// Ready reports whether the popup exists and can take listeners.
	Ready() bool
	HasListener(l Listener) bool
	AddListener(l Listener)
	RemoveListener(l Listener)
}

// Scheduler posts a task to the next turn of the host event loop.
type Scheduler interface {
	Post(task func())
}

// Host bundles the collaborators of one completion session. Popup and
// Scheduler are optional.
type Host struct {
	Buffer    Buffer
	Popup     Popup
	Scheduler Scheduler
}

func checkRange(n, start, end int) error {
	if start < 0 || end < start || end > n {
		return fmt.Errorf("replace [%d,%d) in %d runes: %w", start, end, n, ErrOffsetRange)
	}
	return nil
}
