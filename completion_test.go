package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbsq/partial"
)

// withTemplates points Config at a fresh template root holding files.
func withTemplates(t *testing.T, files ...string) string {
	t.Helper()
	saved := Config
	t.Cleanup(func() { Config = saved })

	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("<b>"+f+"</b>"), 0644))
	}
	Config.TemplateRoots = []string{dir}
	Config.PartialExt = ".hbs"
	Config.SlashTrigger = true
	Config.DefaultTabWidth = 4
	return dir
}

func newTestEditor(t *testing.T, text string, row, col int) *Editor {
	t.Helper()
	e := NewEditor(nil, nil, partial.NewDirRoots(Config.TemplateRoots, nil), false)
	b := e.activeBuffer()
	b.buffer = splitLines([]rune(text))
	b.fileType = fileTypes[0]
	b.cursor = Cursor{Y: row, X: col}
	e.mode = ModeInsert
	return e
}

func popupNames(p *completionPopup) []string {
	var out []string
	for _, c := range p.items {
		out = append(out, c.InsertText())
	}
	return out
}

type recordingListener struct {
	popup     *completionPopup
	accepted  []string
	cancelled int
	detach    bool
}

func (l *recordingListener) ItemAccepted(c partial.Candidate) {
	l.accepted = append(l.accepted, c.Name)
	if l.detach {
		l.popup.RemoveListener(l)
	}
}

func (l *recordingListener) Cancelled() { l.cancelled++ }

func TestPopupListeners(t *testing.T) {
	p := &completionPopup{}
	first := &recordingListener{popup: p, detach: true}
	second := &recordingListener{popup: p}

	p.AddListener(first)
	p.AddListener(second)
	assert.True(t, p.HasListener(first))

	p.notifyAccepted(partial.Candidate{Name: "button"})
	assert.Equal(t, []string{"button"}, first.accepted)
	assert.Equal(t, []string{"button"}, second.accepted, "detaching during notify skips nobody")
	assert.False(t, p.HasListener(first))

	p.notifyCancelled()
	assert.Equal(t, 0, first.cancelled)
	assert.Equal(t, 1, second.cancelled)
}

func TestPopupReadyOnlyAfterDraw(t *testing.T) {
	p := &completionPopup{}
	p.show([]partial.Candidate{{Name: "a"}})
	assert.False(t, p.Ready())

	p.ready = true
	assert.True(t, p.Ready())

	p.hide()
	assert.False(t, p.Ready())
}

func TestPopupMoveWraps(t *testing.T) {
	p := &completionPopup{}
	p.show([]partial.Candidate{{Name: "a"}, {Name: "b"}, {Name: "c"}})

	p.move(-1)
	c, ok := p.selected()
	require.True(t, ok)
	assert.Equal(t, "c", c.Name)

	p.move(1)
	c, _ = p.selected()
	assert.Equal(t, "a", c.Name)
}

func TestCompletionAttachesOnLaterTurn(t *testing.T) {
	withTemplates(t, "components/button.hbs", "layout.hbs")
	e := newTestEditor(t, "{{> comp", 0, 8)

	e.triggerPartialCompletion()
	require.NotNil(t, e.session)
	assert.Equal(t, []string{"components/"}, popupNames(e.popup))
	assert.False(t, e.popup.HasListener(e.session), "popup has not been drawn yet")

	e.runTasks()
	assert.False(t, e.popup.HasListener(e.session))
	require.Len(t, e.tasks, 1, "attach retried on the next turn")

	e.popup.ready = true
	e.runTasks()
	assert.True(t, e.popup.HasListener(e.session))
	assert.Empty(t, e.tasks)
}

func TestCompletionAcceptDescendsIntoDirectory(t *testing.T) {
	withTemplates(t, "components/button.hbs", "layout.hbs")
	e := newTestEditor(t, "{{> comp", 0, 8)

	e.triggerPartialCompletion()
	e.acceptCompletion()

	b := e.activeBuffer()
	assert.Equal(t, "{{> components/", b.Text())
	assert.Equal(t, 15, b.Cursor())

	require.NotNil(t, e.session, "directory accept reopens the popup")
	assert.Equal(t, []string{"button"}, popupNames(e.popup))

	e.acceptCompletion()
	assert.Equal(t, "{{> components/button", b.Text())
	assert.Nil(t, e.session)
	assert.False(t, e.popup.visible)
}

func TestCompletionCancelRestoresQuotes(t *testing.T) {
	withTemplates(t, "components/button.hbs")
	e := newTestEditor(t, `<div>{{> "comp"}}</div>`, 0, 14)

	e.triggerPartialCompletion()
	b := e.activeBuffer()
	assert.Equal(t, `<div>{{> comp}}</div>`, b.Text())

	e.cancelCompletion()
	assert.Equal(t, `<div>{{> "comp"}}</div>`, b.Text())
	assert.Equal(t, 14, b.Cursor())
	assert.Nil(t, e.session)
}

func TestCompletionEmptyQuotedPathKeepsNextLine(t *testing.T) {
	withTemplates(t, "components/button.hbs")
	text := "<div>{{>\"\"\n<p>x</p>"
	e := newTestEditor(t, text, 0, 9)

	e.triggerPartialCompletion()
	b := e.activeBuffer()
	assert.Nil(t, e.session)
	assert.Equal(t, text, b.Text())
	assert.Equal(t, Cursor{Y: 0, X: 9, PreferredCol: 9}, b.cursor)
}

func TestCompletionAcceptQuotedAcrossLines(t *testing.T) {
	withTemplates(t, "components/button.hbs")
	e := newTestEditor(t, "<ul>\n  {{> 'components/bu'}}\n</ul>", 1, 20)

	e.triggerPartialCompletion()
	e.acceptCompletion()

	b := e.activeBuffer()
	assert.Equal(t, "<ul>\n  {{> 'components/button'}}\n</ul>", b.Text())
	assert.Equal(t, Cursor{Y: 1, X: 24, PreferredCol: 24}, b.cursor)
}

func TestCompletionNothingMatches(t *testing.T) {
	withTemplates(t, "components/button.hbs")
	e := newTestEditor(t, "{{> zzz", 0, 7)

	e.triggerPartialCompletion()
	assert.Nil(t, e.session)
	assert.False(t, e.popup.visible)
	assert.Equal(t, "No matching partials", e.message)
}

func TestCompletionOutsideDirective(t *testing.T) {
	withTemplates(t, "components/button.hbs")
	e := newTestEditor(t, "<p>comp</p>", 0, 7)

	e.triggerPartialCompletion()
	assert.Nil(t, e.session)
	assert.Equal(t, "Not inside a partial path", e.message)
}

func TestSlashTypedOpensCompletion(t *testing.T) {
	withTemplates(t, "components/button.hbs")
	e := newTestEditor(t, "{{> components", 0, 14)

	e.insertRune('/')
	e.slashTyped()
	require.NotNil(t, e.session)
	assert.Equal(t, []string{"button"}, popupNames(e.popup))

	e.closeCompletion()
	Config.SlashTrigger = false
	e.slashTyped()
	assert.Nil(t, e.session)
}

func TestTypingRefreshesCandidates(t *testing.T) {
	withTemplates(t, "components/button.hbs", "components/badge.hbs")
	e := newTestEditor(t, "{{> components/", 0, 15)

	e.triggerPartialCompletion()
	assert.Equal(t, []string{"badge", "button"}, popupNames(e.popup))

	e.insertRune('u')
	e.refreshCompletion()
	assert.Equal(t, []string{"button"}, popupNames(e.popup))
}

func TestUnresolvedRefs(t *testing.T) {
	withTemplates(t, "components/button.hbs", "layout.hbs")
	e := newTestEditor(t, "{{> layout}}\n{{> components/missing}}\n{{> nope/button}}", 0, 0)

	refs := e.unresolvedRefs(e.activeBuffer())
	require.Len(t, refs, 2)
	assert.Equal(t, unresolvedRef{path: "components/missing", line: 1, col: 15, end: 22}, refs[0])
	assert.Equal(t, unresolvedRef{path: "nope/button", line: 2, col: 4, end: 8}, refs[1])

	b := e.activeBuffer()
	b.fileType = defaultFileType()
	assert.Empty(t, e.unresolvedRefs(b), "only templates are checked")
}

func TestGotoPartialOpensFile(t *testing.T) {
	dir := withTemplates(t, "components/button.hbs")
	e := newTestEditor(t, "{{> components/button}}", 0, 8)
	e.mode = ModeNormal

	e.gotoPartial()
	require.Len(t, e.buffers, 2)
	assert.Equal(t, filepath.Join(dir, "components", "button.hbs"), e.activeBuffer().filename)
	assert.Equal(t, "<b>components/button.hbs</b>", e.activeBuffer().Text())
}

func TestPostRunsOnNextTurn(t *testing.T) {
	e := NewEditor(nil, nil, nil, false)
	var ran []int
	e.Post(func() {
		ran = append(ran, 1)
		e.Post(func() { ran = append(ran, 2) })
	})

	e.runTasks()
	assert.Equal(t, []int{1}, ran)
	e.runTasks()
	assert.Equal(t, []int{1, 2}, ran)
}

func TestLogRingKeepsLastLines(t *testing.T) {
	r := newLogRing(3)
	_, err := r.Write([]byte("one\ntwo\n"))
	require.NoError(t, err)
	_, err = r.Write([]byte("three\nfour\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"two", "three", "four"}, r.Last(10))
	assert.Equal(t, []string{"four"}, r.Last(1))
}
