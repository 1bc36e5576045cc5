package partial

import "github.com/hashicorp/go-hclog"

// quoteState records the quotes taken off a path while its candidates are
// shown. The zero value means no quotes were removed.
type quoteState struct {
	removed    bool
	quote      rune
	openOffset int
}

// quoteTx unquotes a path for the lifetime of one session and puts the
// quotes back when the session ends. The path is found again at the offset
// of the removed opening quote while that offset still follows a directive
// marker; otherwise at the directive around the caret.
type quoteTx struct {
	state  quoteState
	logger hclog.Logger
}

// preEdit removes a matched pair of quotes around the path at the cursor.
func (q *quoteTx) preEdit(b Buffer) error {
	if q.state.removed {
		return nil
	}

	runes := []rune(b.Text())
	cursor := b.Cursor()
	span, ok := locateSpan(runes, cursor)
	if !ok || !span.Quoted {
		return nil
	}
	open := span.Start - 1
	closing := closingQuote(runes, span.Start, span.Quote)
	if closing < 0 {
		q.logger.Trace("unpaired quote left in place", "offset", open)
		return nil
	}

	err := b.Edit(func(tx EditTx) error {
		if err := tx.Replace(closing, closing+1, ""); err != nil {
			return err
		}
		return tx.Replace(open, open+1, "")
	})
	if err != nil {
		return err
	}
	b.SetCursor(span.End - 1)

	q.state = quoteState{removed: true, quote: span.Quote, openOffset: open}
	q.logger.Trace("quotes removed", "quote", string(span.Quote), "open", open, "close", closing)
	return nil
}

// finalizeInsert puts the quotes back after a candidate was inserted. caret
// is the offset right after the inserted text; the caret ends up there,
// inside the closing quote.
func (q *quoteTx) finalizeInsert(b Buffer, caret int) error {
	if !q.state.removed {
		return nil
	}
	st := q.state
	q.state = quoteState{}
	return q.restore(b, st, caret)
}

// finalizeCancel puts the quotes back when the session ends without a
// candidate. The caret stays on the character it was on, so a caret at the
// end of the path ends up before the closing quote.
func (q *quoteTx) finalizeCancel(b Buffer) error {
	if !q.state.removed {
		return nil
	}
	st := q.state
	q.state = quoteState{}
	return q.restore(b, st, b.Cursor())
}

func (q *quoteTx) restore(b Buffer, st quoteState, caret int) error {
	runes := []rune(b.Text())

	start := st.openOffset
	if !followsMarker(runes, start) {
		var ok bool
		if start, ok = pathStart(runes, caret); !ok {
			q.logger.Debug("directive gone, quotes not restored", "quote", string(st.quote))
			return nil
		}
	}

	hasOpen := start < len(runes) && runes[start] == st.quote
	inner := start
	if hasOpen {
		inner++
	}
	end := pathBoundary(runes, inner, st.quote)
	hasClose := end < len(runes) && runes[end] == st.quote

	quote := string(st.quote)
	err := b.Edit(func(tx EditTx) error {
		if !hasClose {
			if err := tx.Replace(end, end, quote); err != nil {
				return err
			}
		}
		if !hasOpen {
			return tx.Replace(start, start, quote)
		}
		return nil
	})
	if err != nil {
		return err
	}

	b.SetCursor(shiftCaret(caret, start, end, !hasOpen, !hasClose))
	q.logger.Trace("quotes restored", "quote", quote, "start", start, "end", end)
	return nil
}

// shiftCaret maps caret through quote insertions at start and end. A caret
// at end stays before the closing quote.
func shiftCaret(caret, start, end int, openInserted, closeInserted bool) int {
	out := caret
	if openInserted && caret >= start {
		out++
	}
	if closeInserted && caret > end {
		out++
	}
	return out
}
