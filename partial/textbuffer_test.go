package partial

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextBufferEditIsAtomic(t *testing.T) {
	buf := NewTextBuffer("hello world", 5)

	err := buf.Edit(func(tx EditTx) error {
		require.NoError(t, tx.Replace(0, 5, "HELLO"))
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	assert.Equal(t, "hello world", buf.Text())
	assert.False(t, buf.Undo(), "failed edits leave no undo step")
}

func TestTextBufferEditRecoversPanic(t *testing.T) {
	buf := NewTextBuffer("abc", 0)

	err := buf.Edit(func(tx EditTx) error {
		_ = tx.Replace(0, 1, "x")
		panic("bad edit")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad edit")
	assert.Equal(t, "abc", buf.Text())
}

func TestTextBufferReplaceRange(t *testing.T) {
	buf := NewTextBuffer("abc", 0)
	err := ApplyEdit(buf, 2, 9, "")
	assert.ErrorIs(t, err, ErrOffsetRange)
	assert.ErrorIs(t, ApplyEdit(buf, 2, 1, ""), ErrOffsetRange)
	assert.Equal(t, "abc", buf.Text())
}

func TestTextBufferCursorFollowsEdits(t *testing.T) {
	tests := []struct {
		name       string
		cursor     int
		start, end int
		text       string
		want       int
	}{
		{name: "edit after cursor", cursor: 1, start: 3, end: 4, text: "xyz", want: 1},
		{name: "edit before cursor", cursor: 4, start: 0, end: 1, text: "xyz", want: 6},
		{name: "insert at cursor", cursor: 2, start: 2, end: 2, text: "xy", want: 4},
		{name: "cursor inside replaced range", cursor: 2, start: 1, end: 4, text: "z", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewTextBuffer("abcdef", tt.cursor)
			require.NoError(t, ApplyEdit(buf, tt.start, tt.end, tt.text))
			assert.Equal(t, tt.want, buf.Cursor())
		})
	}
}

func TestTextBufferUndoRedo(t *testing.T) {
	buf := NewTextBuffer("ab", 2)

	require.NoError(t, buf.Edit(func(tx EditTx) error {
		if err := tx.Replace(2, 2, "c"); err != nil {
			return err
		}
		return tx.Replace(0, 0, "_")
	}))
	assert.Equal(t, "_abc", buf.Text())

	require.True(t, buf.Undo())
	assert.Equal(t, "ab", buf.Text())
	assert.Equal(t, 2, buf.Cursor())

	require.True(t, buf.Redo())
	assert.Equal(t, "_abc", buf.Text())
	assert.False(t, buf.Redo())
}

func TestTextBufferNoopEdit(t *testing.T) {
	buf := NewTextBuffer("ab", 0)
	require.NoError(t, buf.Edit(func(EditTx) error { return nil }))
	assert.False(t, buf.Undo())
}

func TestReplaceRunesMapsCursor(t *testing.T) {
	tests := []struct {
		cursor, start, end int
		repl               string
		text               string
		want               int
	}{
		{cursor: 0, start: 2, end: 3, repl: "XY", text: "abXYde", want: 0},
		{cursor: 5, start: 2, end: 3, repl: "XY", text: "abXYde", want: 6},
		{cursor: 3, start: 1, end: 4, repl: "", text: "ae", want: 1},
		{cursor: 2, start: 2, end: 2, repl: `"`, text: `ab"cde`, want: 3},
	}
	for _, tt := range tests {
		out, cursor, err := ReplaceRunes([]rune("abcde"), tt.cursor, tt.start, tt.end, tt.repl)
		require.NoError(t, err)
		assert.Equal(t, tt.text, string(out))
		assert.Equal(t, tt.want, cursor)
	}

	_, _, err := ReplaceRunes([]rune("abc"), 0, 2, 4, "")
	assert.ErrorIs(t, err, ErrOffsetRange)
}
