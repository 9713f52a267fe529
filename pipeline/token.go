package pipeline

import "sync/atomic"

// Token is the per-cycle cooperative cancellation token. Cancel sets the
// flag synchronously; any async work started in the same cycle must check
// the token before committing results. An already-dispatched AI request is
// not aborted at the transport level, only its effects are suppressed.
type Token struct {
	cancelled atomic.Bool
}

// NewToken creates an uncancelled token.
func NewToken() *Token { return &Token{} }

// Cancel marks the token. It is safe to call from any goroutine and more
// than once.
func (t *Token) Cancel() { t.cancelled.Store(true) }

// Cancelled reports whether Cancel was called.
func (t *Token) Cancelled() bool { return t.cancelled.Load() }
