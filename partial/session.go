package partial

import (
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Number of event loop turns a session waits for its popup.
const attachAttempts = 3

// Completer creates completion sessions for partial paths.
type Completer struct {
	Roots  RootSource
	Ext    string       // partial file extension, e.g. ".hbs"
	Logger hclog.Logger // optional
}

// Session is one completion popup's lifetime: started, queried any number of
// times, then accepted or cancelled exactly once.
type Session struct {
	ID string

	host   Host
	roots  RootSource
	ext    string
	logger hclog.Logger
	quotes quoteTx
	closed bool
}

// Start opens a session for the cursor position of h.Buffer. A quoted path
// is unquoted right away; the session attaches itself to h.Popup as soon as
// the popup is ready.
func (c *Completer) Start(h Host) *Session {
	logger := c.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	id := uuid.NewString()
	s := &Session{
		ID:     id,
		host:   h,
		roots:  c.Roots,
		ext:    c.Ext,
		logger: logger.Named("completion").With("session", id),
	}
	s.quotes.logger = s.logger

	if err := s.quotes.preEdit(h.Buffer); err != nil {
		s.logger.Warn("cannot unquote partial path", "error", err)
	}
	s.attach(attachAttempts)
	return s
}

// Closed reports whether the session was accepted or cancelled.
func (s *Session) Closed() bool {
	return s.closed
}

// Candidates lists completions for the path at the cursor.
func (s *Session) Candidates() []Candidate {
	if s.closed {
		return nil
	}

	b := s.host.Buffer
	span, ok := LocateSpan(b.Text(), b.Cursor())
	if !ok {
		s.logger.Debug("cursor not in a partial directive", "cursor", b.Cursor())
		return nil
	}
	path := SplitPath(span.Raw)
	roots := s.roots.Roots()

	var dir Node
	if len(path.Traverse) > 0 {
		if dir, ok = Resolve(path.Traverse, roots, s.ext); !ok {
			s.logger.Debug("partial path does not resolve", "path", span.Raw)
			return nil
		}
	}
	candidates := ListCandidates(dir, roots, path.Prefix, s.ext)
	s.logger.Trace("candidates listed", "path", span.Raw, "prefix", path.Prefix, "count", len(candidates))
	return candidates
}

// Accept replaces the typed prefix with c and restores the quotes. The
// session is closed afterwards, even on error.
func (s *Session) Accept(c Candidate) error {
	if s.closed {
		return ErrSessionClosed
	}
	defer s.close()

	b := s.host.Buffer
	runes := []rune(b.Text())
	span, ok := locateSpan(runes, b.Cursor())
	if !ok {
		s.logger.Debug("cursor left the directive before accept", "candidate", c.Name)
		return s.quotes.finalizeCancel(b)
	}

	path := SplitPath(span.Raw)
	from := span.Start + path.PrefixStart
	text := c.InsertText()

	// An opening quote without a partner is dropped along with the prefix.
	if span.Quoted && !s.quotes.state.removed && closingQuote(runes, span.Start, span.Quote) < 0 {
		text = string(runes[span.Start:from]) + text
		from = span.Start - 1
	}

	if err := ApplyEdit(b, from, span.End, text); err != nil {
		if qerr := s.quotes.finalizeCancel(b); qerr != nil {
			s.logger.Warn("cannot restore quotes", "error", qerr)
		}
		return err
	}
	caret := from + len([]rune(text))
	b.SetCursor(caret)
	s.logger.Debug("candidate accepted", "candidate", c.Name, "kind", c.Kind.String())

	return s.quotes.finalizeInsert(b, caret)
}

// Cancel restores the quotes and closes the session.
func (s *Session) Cancel() error {
	if s.closed {
		return ErrSessionClosed
	}
	defer s.close()

	s.logger.Debug("completion cancelled")
	return s.quotes.finalizeCancel(s.host.Buffer)
}

// ItemAccepted implements Listener.
func (s *Session) ItemAccepted(c Candidate) {
	if err := s.Accept(c); err != nil {
		s.logger.Warn("accept failed", "candidate", c.Name, "error", err)
	}
}

// Cancelled implements Listener.
func (s *Session) Cancelled() {
	if err := s.Cancel(); err != nil {
		s.logger.Warn("cancel failed", "error", err)
	}
}

// attach registers the session with the popup, retrying on later event loop
// turns while the popup is still being built.
func (s *Session) attach(attempts int) {
	p := s.host.Popup
	if p == nil || s.closed {
		return
	}
	if p.Ready() {
		if !p.HasListener(s) {
			p.AddListener(s)
		}
		return
	}
	if s.host.Scheduler == nil || attempts == 0 {
		s.logger.Debug("popup not ready, listener not attached")
		return
	}
	s.host.Scheduler.Post(func() { s.attach(attempts - 1) })
}

func (s *Session) close() {
	s.closed = true
	s.quotes.state = quoteState{}
	if p := s.host.Popup; p != nil && p.HasListener(s) {
		p.RemoveListener(s)
	}
}
