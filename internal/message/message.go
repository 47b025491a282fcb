// internal/message/message.go
//
// User-facing notices.
//
// Context
//   The form controller reports terminal outcomes (created, updated, server
//   error, no response) as short notices.  Whatever presents the form, a
//   terminal, a web page, a test, implements Notifier and decides how to show
//   them.  Field-level validation messages are not notices; they travel with
//   the outcome itself.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package message

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Level classifies a Notice.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is one message meant for the end user.
type Notice struct {
	Level Level
	Text  string
}

func (n Notice) String() string { return string(n.Level) + ": " + n.Text }

// Notifier receives notices.  Implementations must not block for long; the
// controller calls Notify synchronously after a submission resolves.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// -----------------------------------------------------------------------------
// Built-in notifiers
// -----------------------------------------------------------------------------

// LogNotifier writes notices to a zap logger.  It is the default when no
// presentation layer is attached.
type LogNotifier struct{ Log *zap.SugaredLogger }

func (l LogNotifier) Notify(_ context.Context, n Notice) {
	log := l.Log
	if log == nil {
		log = zap.S()
	}
	if n.Level == LevelError {
		log.Warnw("user notice", "level", n.Level, "text", n.Text)
		return
	}
	log.Infow("user notice", "level", n.Level, "text", n.Text)
}

// WriterNotifier prints one line per notice.
type WriterNotifier struct {
	W  io.Writer
	mu sync.Mutex
}

func (w *WriterNotifier) Notify(_ context.Context, n Notice) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.W, n.Text)
}

// Recorder keeps every notice in memory.  Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Multi fans a notice out to several notifiers in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notice) {
	for _, x := range m {
		x.Notify(ctx, n)
	}
}
