// Package typing reveals a known answer one rune at a time to simulate live composition.
package typing

import (
	"time"
)

// DefaultInterval is the cadence between two revealed runes.
const DefaultInterval = 8 * time.Millisecond

// Frame is one step of a reveal. Done frames carry the full text and arrive exactly once.
type Frame struct {
	Text string
	Done bool
}

type revealState int

const (
	statePending revealState = iota
	stateRunning
	stateFinished
	stateCanceled
)

// Reveal is a one-shot, timer-driven producer of growing prefixes.
//
// A Reveal belongs to a single goroutine: the owner waits on C and calls Tick
// each time it fires. It is not safe for concurrent use and cannot be restarted.
type Reveal struct {
	runes    []rune
	shown    int
	interval time.Duration
	timer    *time.Timer
	state    revealState
}

// New prepares a reveal of text. Nothing is scheduled until Start.
func New(text string, interval time.Duration) *Reveal {
	if interval < 0 {
		interval = 0
	}
	return &Reveal{
		runes:    []rune(text),
		interval: interval,
	}
}

// Start arms the first tick. Calling it again, or after Cancel, does nothing.
func (r *Reveal) Start() {
	if r.state != statePending {
		return
	}
	r.state = stateRunning
	r.timer = time.NewTimer(r.interval)
}

// C fires when the next frame is due. It is nil unless the reveal is running,
// so selecting on it after completion or cancellation blocks forever.
func (r *Reveal) C() <-chan time.Time {
	if r.state != stateRunning || r.timer == nil {
		return nil
	}
	return r.timer.C
}

// Tick produces the frame for a fired timer. ok is false once the reveal is
// finished or canceled; no frame is produced after that.
func (r *Reveal) Tick() (frame Frame, ok bool) {
	if r.state != stateRunning {
		return Frame{}, false
	}

	if r.shown < len(r.runes) {
		r.shown++
		r.timer.Reset(r.interval)
		return Frame{Text: string(r.runes[:r.shown])}, true
	}

	r.state = stateFinished
	r.timer = nil
	return Frame{Text: string(r.runes), Done: true}, true
}

// Cancel stops the reveal. It is idempotent and a no-op after completion.
func (r *Reveal) Cancel() {
	if r.state == stateFinished || r.state == stateCanceled {
		return
	}
	r.state = stateCanceled
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// Active reports whether the reveal is still producing frames.
func (r *Reveal) Active() bool {
	return r.state == statePending || r.state == stateRunning
}

// Len is the number of prefixes the reveal emits before completing.
func (r *Reveal) Len() int {
	return len(r.runes)
}

// Scheduler keeps at most one running reveal.
type Scheduler struct {
	interval time.Duration
	current  *Reveal
}

// NewScheduler returns a scheduler using the given cadence; zero means DefaultInterval.
func NewScheduler(interval time.Duration) *Scheduler {
	if interval == 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval}
}

// Start cancels any previous reveal and starts a fresh one for text.
func (s *Scheduler) Start(text string) *Reveal {
	s.Cancel()
	r := New(text, s.interval)
	r.Start()
	s.current = r
	return r
}

// Current returns the running reveal, or nil.
func (s *Scheduler) Current() *Reveal {
	if s.current != nil && !s.current.Active() {
		s.current = nil
	}
	return s.current
}

// Cancel stops the running reveal, if any.
func (s *Scheduler) Cancel() {
	if s.current != nil {
		s.current.Cancel()
		s.current = nil
	}
}
