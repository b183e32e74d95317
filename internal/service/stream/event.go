package stream

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Kind tags a transport notification.
type Kind int

const (
	// KindOpen means the answer service accepted the request and started streaming.
	KindOpen Kind = iota + 1
	// KindToken carries one answer fragment in Content.
	KindToken
	// KindDone ends the stream successfully.
	KindDone
	// KindError is an application-level failure; Detail holds the raw payload.
	KindError
	// KindClosed is the transport ending without a done event.
	KindClosed
	// KindFailure is a transport-level failure; Err wraps ErrTransport.
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindToken:
		return "token"
	case KindDone:
		return "done"
	case KindError:
		return "error"
	case KindClosed:
		return "closed"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Terminal reports whether no notification can follow this kind.
func (k Kind) Terminal() bool {
	return k == KindDone || k == KindError || k == KindClosed || k == KindFailure
}

// Event is a single notification from an open handle.
type Event struct {
	Kind    Kind
	Content string
	Detail  string
	Err     error
}

// Handle is the cancellation handle of one in-flight request.
type Handle struct {
	id        string
	events    chan Event
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewHandle creates a handle bound to parent together with the feed its producer writes to.
// Transports other than Client (and tests) use it to deliver notifications.
func NewHandle(parent context.Context) (*Handle, *Feed) {
	ctx, cancel := context.WithCancel(parent)
	h := &Handle{
		id:     uuid.NewString(),
		events: make(chan Event),
		ctx:    ctx,
		cancel: cancel,
	}
	return h, &Feed{h: h}
}

// ID identifies the handle in logs.
func (h *Handle) ID() string {
	return h.id
}

// Events delivers notifications in arrival order. The channel is closed after a
// terminal notification or once the producer observes cancellation.
func (h *Handle) Events() <-chan Event {
	return h.events
}

// Cancel aborts the request. Safe to call any number of times, including after completion.
func (h *Handle) Cancel() {
	h.cancel()
}

// Canceled reports whether Cancel was called or the parent context ended.
func (h *Handle) Canceled() bool {
	return h.ctx.Err() != nil
}

// Feed is the producer side of a Handle.
type Feed struct {
	h *Handle
}

// Context is canceled together with the handle.
func (f *Feed) Context() context.Context {
	return f.h.ctx
}

// Send delivers ev unless the handle has been canceled. It reports whether the
// event was handed to the consumer.
func (f *Feed) Send(ev Event) bool {
	if f.h.ctx.Err() != nil {
		return false
	}
	select {
	case f.h.events <- ev:
		return true
	case <-f.h.ctx.Done():
		return false
	}
}

// Close ends the event channel. Only the producer calls it; repeated calls are ignored.
func (f *Feed) Close() {
	f.h.closeOnce.Do(func() {
		close(f.h.events)
	})
}
