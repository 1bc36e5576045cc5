package main

// Colon command handler (e.g., :q, :w, :roots). It processes strings entered
// in ModeCommand and executes the corresponding actions.

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nsf/termbox-go"
)

// Command provides a context for executing editor commands.
type Command struct {
	e *Editor
}

var knownCommands = map[string]bool{
	"q": true, "q!": true, "w": true, "wa": true, "wq": true, "waq": true,
	"reload": true, "bd": true, "bd!": true, "n": true, "debug": true,
	"help": true, "mouse": true, "roots": true, "partials": true,
	"unresolved": true, "complete": true,
}

// IsValidCommand returns true if the command should be saved to history.
// Line numbers are not saved.
func (ch *Command) IsValidCommand(cmd string) bool {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return false
	}
	if _, err := strconv.Atoi(cmd); err == nil {
		return false
	}
	if knownCommands[strings.ToLower(cmd)] {
		return true
	}
	return strings.HasPrefix(cmd, "w ") || strings.HasPrefix(cmd, "e ") || strings.HasPrefix(cmd, "edit ")
}

// HandleAndSaveToHistory executes a command and saves it to history if valid.
func (ch *Command) HandleAndSaveToHistory(cmd string) {
	ch.Handle(cmd)
	if ch.IsValidCommand(cmd) {
		if len(ch.e.commandHistory) == 0 || ch.e.commandHistory[len(ch.e.commandHistory)-1] != cmd {
			ch.e.commandHistory = append(ch.e.commandHistory, cmd)
		}
	}
}

// NavigateHistoryUp moves backward through command history.
func (ch *Command) NavigateHistoryUp() {
	if len(ch.e.commandHistory) == 0 {
		return
	}
	if ch.e.commandHistoryIdx == -1 {
		ch.e.commandHistoryIdx = len(ch.e.commandHistory) - 1
	} else if ch.e.commandHistoryIdx > 0 {
		ch.e.commandHistoryIdx--
	}
	ch.e.commandBuffer = []rune(ch.e.commandHistory[ch.e.commandHistoryIdx])
	ch.e.commandCursorX = len(ch.e.commandBuffer)
}

// NavigateHistoryDown moves forward through command history.
func (ch *Command) NavigateHistoryDown() {
	if ch.e.commandHistoryIdx == -1 {
		return
	}
	ch.e.commandHistoryIdx++
	if ch.e.commandHistoryIdx >= len(ch.e.commandHistory) {
		ch.e.commandHistoryIdx = -1
		ch.e.commandBuffer = []rune{}
		ch.e.commandCursorX = 0
		return
	}
	ch.e.commandBuffer = []rune(ch.e.commandHistory[ch.e.commandHistoryIdx])
	ch.e.commandCursorX = len(ch.e.commandBuffer)
}

// Handle parses and executes a command string.
func (ch *Command) Handle(cmd string) {
	cmd = strings.TrimSpace(cmd)
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "":
	case "q":
		ch.quit(false)
	case "q!":
		ch.quit(true)
	case "w":
		ch.write(arg)
	case "wa":
		ch.writeAll()
	case "wq":
		ch.writeQuit()
	case "waq":
		if ch.writeAll() {
			ch.quit(false)
		}
	case "reload":
		ch.reload()
	case "bd":
		ch.bufferDelete(false)
	case "bd!":
		ch.bufferDelete(true)
	case "n":
		ch.e.NewBuffer()
	case "debug":
		ch.e.toggleDebugWindow()
	case "help":
		ch.help()
	case "mouse":
		ch.toggleMouse()
	case "roots":
		ch.roots()
	case "partials":
		ch.e.startPartialFuzzyFinder()
	case "unresolved":
		ch.e.startUnresolvedFuzzyFinder()
	case "complete":
		ch.e.enterInsertMode()
		ch.e.triggerPartialCompletion()
	case "e", "edit":
		ch.edit(arg)
	default:
		if lineNum, err := strconv.Atoi(cmd); err == nil {
			ch.goToLine(lineNum)
		} else {
			ch.e.message = fmt.Sprintf("Command not found: %s", cmd)
		}
	}
	if ch.e.mode == ModeCommand {
		ch.e.mode = ModeNormal
	}
	ch.e.commandBuffer = []rune{}
}

// quit exits the editor, checking for unsaved changes unless force is true.
func (ch *Command) quit(force bool) {
	if !force {
		for _, b := range ch.e.buffers {
			if b.modified {
				ch.e.message = "No write since last change (use :q! to override)"
				return
			}
		}
	}
	ch.e.closeCompletion()
	termbox.Close()
	os.Exit(0)
}

func (ch *Command) written() {
	name := ch.e.activeBuffer().filename
	if name == "" {
		name = "[No Name]"
	}
	ch.e.message = fmt.Sprintf("\"%s\" written", name)
}

// save writes the active buffer, asking before overwriting external changes,
// and calls then once the write succeeded.
func (ch *Command) save(then func()) {
	err := ch.e.SaveFile(false)
	switch {
	case errors.Is(err, errChangedOnDisk):
		ch.e.message = "File changed on disk. Overwrite? (y/n) "
		ch.e.mode = ModeConfirm
		ch.e.pendingConfirm = func() {
			if err := ch.e.SaveFile(true); err != nil {
				ch.e.message = err.Error()
				return
			}
			then()
		}
	case err != nil:
		ch.e.message = err.Error()
	default:
		then()
	}
}

// write saves the current active buffer to disk, optionally under a new name.
func (ch *Command) write(filename string) {
	if filename != "" {
		if b := ch.e.activeBuffer(); b != nil {
			b.filename = filename
			b.fileType = getFileType(filename)
		}
	}
	ch.save(ch.written)
}

func (ch *Command) writeQuit() {
	ch.save(func() { ch.quit(true) })
}

// writeAll saves every named, writable buffer. It reports whether all of
// them were saved.
func (ch *Command) writeAll() bool {
	saved := 0
	var lastErr error
	for _, b := range ch.e.buffers {
		if b.filename == "" || b.readOnly || !b.modified {
			continue
		}
		if err := writeBuffer(b); err != nil {
			lastErr = err
			continue
		}
		saved++
	}

	switch {
	case lastErr != nil:
		ch.e.message = fmt.Sprintf("Error saving some files: %v", lastErr)
	case saved == 0:
		ch.e.message = "No files to save"
	case saved == 1:
		ch.e.message = "1 file written"
	default:
		ch.e.message = fmt.Sprintf("%d files written", saved)
	}
	return lastErr == nil
}

func (ch *Command) bufferDelete(force bool) {
	b := ch.e.activeBuffer()
	if !force && b != nil && b.modified {
		ch.e.message = "No write since last change (use :bd! to override)"
		return
	}
	ch.e.deleteCurrentBuffer()
}

func (ch *Command) help() {
	f, err := ContentFS.Open("content/help.txt")
	if err != nil {
		ch.e.message = fmt.Sprintf("Error opening help: %v", err)
		return
	}
	defer f.Close()
	if err := ch.e.LoadFromReader("help.txt", f); err != nil {
		ch.e.message = fmt.Sprintf("Error loading help: %v", err)
		return
	}
	ch.e.activeBuffer().readOnly = true
	ch.e.message = "Help opened (Read-Only)"
}

func (ch *Command) edit(filename string) {
	if filename == "" {
		ch.e.message = "No filename specified"
		return
	}
	if err := ch.e.LoadFile(filename); err != nil {
		ch.e.message = fmt.Sprintf("Error opening file: %v", err)
		return
	}
	ch.e.message = fmt.Sprintf("Opened: %s", filename)
}

// roots shows the configured template roots and how many of them exist.
func (ch *Command) roots() {
	if ch.e.roots == nil {
		ch.e.message = "No template roots configured"
		return
	}
	dirs := ch.e.roots.Dirs()
	found := len(ch.e.roots.Roots())
	ch.e.message = fmt.Sprintf("%d/%d roots present: %s", found, len(dirs), strings.Join(dirs, ", "))
}

func (ch *Command) toggleMouse() {
	ch.e.mouseEnabled = !ch.e.mouseEnabled
	if ch.e.mouseEnabled {
		termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	} else {
		termbox.SetInputMode(termbox.InputEsc)
	}
}

// goToLine moves the cursor to the beginning of the given 1-based line.
func (ch *Command) goToLine(lineNum int) {
	b := ch.e.activeBuffer()
	if b == nil {
		return
	}
	ch.e.pushJump()
	b.cursor = Cursor{Y: max(0, min(lineNum-1, len(b.buffer)-1))}
	ch.e.centerScreen()
}

func (ch *Command) reload() {
	b := ch.e.activeBuffer()
	if b == nil {
		return
	}
	if err := ch.e.ReloadBuffer(b); err != nil {
		ch.e.message = fmt.Sprintf("Reload failed: %v", err)
		return
	}
	ch.e.message = fmt.Sprintf("\"%s\" reloaded", b.filename)
}
