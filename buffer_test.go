package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbsq/partial"
)

func TestBufferOffsets(t *testing.T) {
	b := newBuffer("", splitLines([]rune("ab\n\nçd")), defaultFileType())

	tests := []struct {
		row, col int
		offset   int
	}{
		{0, 0, 0},
		{0, 2, 2},
		{1, 0, 3},
		{2, 0, 4},
		{2, 2, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.offset, b.offsetOf(tt.row, tt.col))
		row, col := b.positionOf(tt.offset)
		assert.Equal(t, []int{tt.row, tt.col}, []int{row, col})
	}

	row, col := b.positionOf(100)
	assert.Equal(t, []int{2, 2}, []int{row, col}, "clamped to the end")
}

func TestBufferEditIsOneUndoStep(t *testing.T) {
	b := newBuffer("", splitLines([]rune("{{> a}}\n")), defaultFileType())
	b.SetCursor(5)

	err := b.Edit(func(tx partial.EditTx) error {
		if err := tx.Replace(4, 5, "b/c"); err != nil {
			return err
		}
		return tx.Replace(0, 0, "x\n")
	})
	require.NoError(t, err)
	assert.Equal(t, "x\n{{> b/c}}\n", b.Text())
	assert.Equal(t, 9, b.Cursor())
	assert.True(t, b.modified)

	require.True(t, b.undo())
	assert.Equal(t, "{{> a}}\n", b.Text())
	assert.False(t, b.undo())
}

func TestBufferEditRollsBack(t *testing.T) {
	b := newBuffer("", splitLines([]rune("abc")), defaultFileType())
	boom := errors.New("boom")

	err := b.Edit(func(tx partial.EditTx) error {
		require.NoError(t, tx.Replace(0, 1, "z"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "abc", b.Text())
	assert.False(t, b.modified)

	err = b.Edit(func(tx partial.EditTx) error {
		return tx.Replace(2, 9, "")
	})
	assert.ErrorIs(t, err, partial.ErrOffsetRange)

	err = b.Edit(func(tx partial.EditTx) error {
		panic("bad edit")
	})
	assert.Error(t, err)
	assert.Equal(t, "abc", b.Text())
	assert.Empty(t, b.undoStack)
}

func TestBufferReadOnlyRejectsEdits(t *testing.T) {
	b := newBuffer("help.txt", splitLines([]rune("abc")), defaultFileType())
	b.readOnly = true
	assert.Error(t, partial.ApplyEdit(b, 0, 0, "x"))
	assert.Equal(t, "abc", b.Text())
}

func TestSessionOnEditorBuffer(t *testing.T) {
	withTemplates(t, "shared/header.hbs")
	roots := partial.NewDirRoots(Config.TemplateRoots, nil)

	b := newBuffer("page.hbs", splitLines([]rune("<body>\n{{> \"sh\"}}\n</body>")), fileTypes[0])
	b.cursor = Cursor{Y: 1, X: 7}

	c := &partial.Completer{Roots: roots, Ext: ".hbs"}
	s := c.Start(partial.Host{Buffer: b})
	assert.Equal(t, "<body>\n{{> sh}}\n</body>", b.Text())

	items := s.Candidates()
	require.Len(t, items, 1)
	require.NoError(t, s.Accept(items[0]))

	assert.Equal(t, "<body>\n{{> \"shared/\"}}\n</body>", b.Text())
	assert.Equal(t, Cursor{Y: 1, X: 12, PreferredCol: 12}, b.cursor)
}
