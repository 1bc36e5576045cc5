package main

// Input processing engine. It contains the main event loop and dispatches
// keyboard/mouse events to mode-specific handlers.

import (
	"unicode"

	"github.com/nsf/termbox-go"
)

// HandleEvents is the central loop that waits for and processes all user input.
func (e *Editor) HandleEvents() {
	for {
		// Work posted by the completion engine runs before the next frame.
		e.runTasks()
		e.draw()
		ev := termbox.PollEvent()

		// Interrupts come from the file check timer, the template root
		// watcher and posted tasks.
		if ev.Type == termbox.EventInterrupt {
			if e.rootsChanged.Swap(false) {
				e.onRootsChanged()
			}
			e.CheckFilesOnDisk()
			continue
		}

		if ev.Type == termbox.EventKey {
			e.message = ""

			if ev.Key == termbox.KeyCtrlC && e.devMode {
				return
			}

			switch e.mode {
			case ModeNormal:
				e.handleNormalMode(ev)
			case ModeInsert:
				e.handleInsertMode(ev)
			case ModeCommand:
				e.handleCommandMode(ev)
			case ModeFuzzy:
				e.handleFuzzyMode(ev)
			case ModeFind:
				e.handleFindMode(ev)
			case ModeConfirm:
				e.handleConfirmMode(ev)
			}
		} else if ev.Type == termbox.EventMouse {
			e.handleMouseEvent(ev)
		}
	}
}

func (e *Editor) enterInsertMode() {
	e.saveState()
	e.mode = ModeInsert
	e.introDismissed = true
}

// handleNormalMode processes keyboard input when the editor is in Normal mode.
func (e *Editor) handleNormalMode(ev termbox.Event) {
	if ev.Key == termbox.KeyEsc {
		e.pendingKey = 0
		return
	}

	switch ev.Key {
	case termbox.KeyArrowLeft:
		e.moveCursor(-1, 0)
	case termbox.KeyArrowRight:
		e.moveCursor(1, 0)
	case termbox.KeyArrowUp:
		e.moveCursor(0, -1)
	case termbox.KeyArrowDown:
		e.moveCursor(0, 1)
	case termbox.KeyCtrlP:
		e.prevBuffer()
	case termbox.KeyCtrlN:
		e.nextBuffer()
	case termbox.KeyCtrlO:
		e.jumpBack()
	case termbox.KeyCtrlI:
		e.jumpForward()
	}

	// Prevent key event fallthrough.
	if ev.Key != 0 {
		return
	}

	switch ev.Ch {
	case 'i':
		e.enterInsertMode()
	case 'a':
		e.enterInsertMode()
		e.moveCursor(1, 0)
	case 'A':
		e.enterInsertMode()
		e.jumpToLineEnd()
	case 'I':
		e.enterInsertMode()
		e.jumpToFirstNonBlank()
	case 'o':
		e.enterInsertMode()
		e.insertLineBelow()
	case 'O':
		e.enterInsertMode()
		e.insertLineAbove()
	case '{':
		e.jumpToTop()
	case '}':
		e.jumpToBottom()
	case ':':
		e.mode = ModeCommand
		e.commandBuffer = []rune{}
		e.commandCursorX = 0
	case '/':
		e.findSavedSearch = e.lastSearch
		e.mode = ModeFind
		e.findBuffer = []rune{}
	case Config.LeaderKey:
		e.pendingKey = Config.LeaderKey
	case 'l':
		if e.pendingKey == Config.LeaderKey {
			e.toggleDebugWindow()
		}
		e.pendingKey = 0
	case 'w':
		if e.pendingKey == Config.LeaderKey {
			e.startUnresolvedFuzzyFinder()
		} else {
			e.moveWordForward()
		}
		e.pendingKey = 0
	case 'q':
		if e.pendingKey == Config.LeaderKey {
			e.lastSearch = ""
		} else {
			e.moveWordBackward()
		}
		e.pendingKey = 0
	case 'Q':
		e.jumpToFirstNonBlank()
	case 'W':
		e.jumpToLineEnd()
	case 'g':
		e.pendingKey = 'g'
	case 'f':
		if e.pendingKey == 'g' {
			e.gotoPartial()
		}
		e.pendingKey = 0
	case 'd':
		switch e.pendingKey {
		case Config.LeaderKey:
			e.deleteCurrentBuffer()
			e.pendingKey = 0
		case 'd':
			e.saveState()
			e.deleteLine()
			e.pendingKey = 0
		default:
			e.pendingKey = 'd'
		}
	case 'y':
		e.yankLine()
		e.message = "Line yanked"
	case 'x':
		e.saveState()
		e.DeleteChar()
		e.pendingKey = 0
	case 'z':
		if e.pendingKey == 'z' {
			e.centerScreen()
			e.pendingKey = 0
		} else {
			e.pendingKey = 'z'
		}
	case 'n':
		e.findNext()
		e.centerScreen()
	case 'N':
		e.findPrev()
		e.centerScreen()
	case 'u':
		e.undo()
		e.pendingKey = 0
	case 'U':
		e.redo()
		e.pendingKey = 0
	case 'p':
		switch e.pendingKey {
		case Config.LeaderKey:
			e.startFileFuzzyFinder()
		default:
			e.saveState()
			e.pasteLine()
		}
		e.pendingKey = 0
	case 't':
		if e.pendingKey == Config.LeaderKey {
			e.startPartialFuzzyFinder()
		}
		e.pendingKey = 0
	case 'b':
		if e.pendingKey == Config.LeaderKey {
			e.startBufferFuzzyFinder()
		}
		e.pendingKey = 0
	default:
		e.pendingKey = 0
	}
}

// handleInsertMode processes keyboard input when the editor is in Insert mode.
// While the completion popup is open, navigation keys drive the popup.
func (e *Editor) handleInsertMode(ev termbox.Event) {
	if e.popup.visible {
		switch ev.Key {
		case termbox.KeyArrowUp, termbox.KeyCtrlP:
			e.popup.move(-1)
			return
		case termbox.KeyArrowDown, termbox.KeyCtrlN:
			e.popup.move(1)
			return
		case termbox.KeyEnter, termbox.KeyTab:
			e.acceptCompletion()
			return
		case termbox.KeyEsc:
			e.cancelCompletion()
			return
		case termbox.KeyArrowLeft, termbox.KeyArrowRight:
			e.cancelCompletion()
		}
	}

	switch ev.Key {
	case termbox.KeyEsc:
		e.closeCompletion()
		e.mode = ModeNormal
	case termbox.KeyEnter:
		e.insertNewline()
	case termbox.KeySpace:
		e.insertRune(' ')
		e.refreshCompletion()
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		e.backspace()
		e.refreshCompletion()
	case termbox.KeyTab:
		e.insertTab()
	case termbox.KeyArrowLeft:
		e.moveCursor(-1, 0)
	case termbox.KeyArrowRight:
		e.moveCursor(1, 0)
	case termbox.KeyArrowUp:
		e.moveCursor(0, -1)
	case termbox.KeyArrowDown:
		e.moveCursor(0, 1)
	case termbox.KeyCtrlW:
		e.deleteWordBackward()
		e.refreshCompletion()
	case termbox.KeyCtrlN:
		e.triggerPartialCompletion()
	default:
		if ev.Ch != 0 {
			e.insertRune(ev.Ch)
			e.refreshCompletion()
			if ev.Ch == '/' {
				e.slashTyped()
			}
		}
	}
}

// handleCommandMode processes keyboard input for the colon command line.
func (e *Editor) handleCommandMode(ev termbox.Event) {
	switch ev.Key {
	case termbox.KeyEsc:
		e.mode = ModeNormal
		e.commandBuffer = []rune{}
		e.commandCursorX = 0
		e.commandHistoryIdx = -1
	case termbox.KeyEnter:
		e.commands.HandleAndSaveToHistory(string(e.commandBuffer))
		e.commandHistoryIdx = -1
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		if e.commandCursorX > 0 {
			e.commandBuffer = append(e.commandBuffer[:e.commandCursorX-1], e.commandBuffer[e.commandCursorX:]...)
			e.commandCursorX--
		} else if len(e.commandBuffer) == 0 {
			e.mode = ModeNormal
		}
		e.commandHistoryIdx = -1
	case termbox.KeySpace:
		e.insertCommandRune(' ')
	case termbox.KeyCtrlW:
		e.deleteCommandWord()
		e.commandHistoryIdx = -1
	case termbox.KeyArrowLeft:
		if e.commandCursorX > 0 {
			e.commandCursorX--
		}
	case termbox.KeyArrowRight:
		if e.commandCursorX < len(e.commandBuffer) {
			e.commandCursorX++
		}
	case termbox.KeyArrowUp:
		e.commands.NavigateHistoryUp()
	case termbox.KeyArrowDown:
		e.commands.NavigateHistoryDown()
	default:
		if ev.Ch != 0 {
			e.insertCommandRune(ev.Ch)
		}
	}
}

func (e *Editor) insertCommandRune(r rune) {
	e.commandBuffer = append(e.commandBuffer[:e.commandCursorX], append([]rune{r}, e.commandBuffer[e.commandCursorX:]...)...)
	e.commandCursorX++
	e.commandHistoryIdx = -1
}

// deleteCommandWord removes the word before the command line cursor.
func (e *Editor) deleteCommandWord() {
	start := e.commandCursorX
	for start > 0 && unicode.IsSpace(e.commandBuffer[start-1]) {
		start--
	}
	for start > 0 && !unicode.IsSpace(e.commandBuffer[start-1]) {
		start--
	}
	e.commandBuffer = append(e.commandBuffer[:start], e.commandBuffer[e.commandCursorX:]...)
	e.commandCursorX = start
}

// handleFuzzyMode processes input for the fuzzy finder.
func (e *Editor) handleFuzzyMode(ev termbox.Event) {
	f := &e.fuzzy
	switch ev.Key {
	case termbox.KeyEsc:
		e.mode = ModeNormal
	case termbox.KeyEnter:
		e.openSelectedFile()
	case termbox.KeyArrowUp:
		e.fuzzyMove(1)
	case termbox.KeyArrowDown:
		e.fuzzyMove(-1)
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		if len(f.query) > 0 {
			f.query = f.query[:len(f.query)-1]
			e.updateFuzzyResults()
		}
	case termbox.KeySpace:
		f.query = append(f.query, ' ')
		e.updateFuzzyResults()
	default:
		if ev.Ch != 0 {
			f.query = append(f.query, ev.Ch)
			e.updateFuzzyResults()
		}
	}
}

// handleFindMode processes input for the in-file search (/).
func (e *Editor) handleFindMode(ev termbox.Event) {
	switch ev.Key {
	case termbox.KeyEsc:
		e.mode = ModeNormal
		e.findBuffer = []rune{}
		e.lastSearch = e.findSavedSearch
	case termbox.KeyEnter:
		if len(e.findBuffer) > 0 {
			e.lastSearch = string(e.findBuffer)
			e.findNext()
			e.centerScreen()
		}
		e.mode = ModeNormal
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		if len(e.findBuffer) > 0 {
			e.findBuffer = e.findBuffer[:len(e.findBuffer)-1]
			e.lastSearch = string(e.findBuffer)
		} else {
			e.lastSearch = e.findSavedSearch
		}
	case termbox.KeySpace:
		e.findBuffer = append(e.findBuffer, ' ')
		e.lastSearch = string(e.findBuffer)
	default:
		if ev.Ch != 0 {
			e.findBuffer = append(e.findBuffer, ev.Ch)
			e.lastSearch = string(e.findBuffer)
		}
	}
}

// handleMouseEvent handles mouse wheel scrolling. Scrolling away closes the
// completion popup.
func (e *Editor) handleMouseEvent(ev termbox.Event) {
	switch ev.Key {
	case termbox.MouseWheelUp:
		e.closeCompletion()
		e.moveCursor(0, -1)
	case termbox.MouseWheelDown:
		e.closeCompletion()
		e.moveCursor(0, 1)
	}
}

// handleConfirmMode processes yes/no confirmations (like overwriting files).
func (e *Editor) handleConfirmMode(ev termbox.Event) {
	if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyEnter {
		// Enter defaults to "no" to avoid accidental execution.
		e.mode = ModeNormal
		e.pendingConfirm = nil
		e.message = "Cancelled"
		return
	}
	if ev.Key != 0 {
		return
	}

	switch ev.Ch {
	case 'y', 'Y':
		action := e.pendingConfirm
		e.pendingConfirm = nil
		e.mode = ModeNormal
		if action != nil {
			action()
		}
	case 'n', 'N':
		e.mode = ModeNormal
		e.pendingConfirm = nil
		e.message = "Cancelled"
	}
}
