package typing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain runs the reveal to the end (or until max frames) and returns what it produced.
func drain(t *testing.T, r *Reveal, max int) []Frame {
	t.Helper()
	var frames []Frame
	for i := 0; i < max; i++ {
		c := r.C()
		if c == nil {
			return frames
		}
		select {
		case <-c:
		case <-time.After(time.Second):
			t.Fatalf("reveal stalled after %d frames", len(frames))
		}
		frame, ok := r.Tick()
		if !ok {
			return frames
		}
		frames = append(frames, frame)
	}
	return frames
}

func TestRevealEmitsEveryPrefixThenOneCompletion(t *testing.T) {
	text := "Hello, wörld"
	r := New(text, time.Microsecond)
	r.Start()

	frames := drain(t, r, 100)
	runes := []rune(text)
	require.Len(t, frames, len(runes)+1)

	for i := 0; i < len(runes); i++ {
		assert.Equal(t, string(runes[:i+1]), frames[i].Text)
		assert.False(t, frames[i].Done)
	}
	last := frames[len(frames)-1]
	assert.True(t, last.Done)
	assert.Equal(t, text, last.Text)

	assert.Nil(t, r.C())
	_, ok := r.Tick()
	assert.False(t, ok)
	assert.False(t, r.Active())
}

func TestRevealCancelStopsEmissions(t *testing.T) {
	r := New("abcdef", time.Microsecond)
	r.Start()

	frames := drain(t, r, 2)
	require.Len(t, frames, 2)

	r.Cancel()
	r.Cancel()

	assert.Nil(t, r.C())
	_, ok := r.Tick()
	assert.False(t, ok)
	assert.False(t, r.Active())
}

func TestRevealIsNotRestartable(t *testing.T) {
	r := New("ab", time.Microsecond)
	r.Start()
	frames := drain(t, r, 10)
	require.Len(t, frames, 3)

	r.Start()
	assert.Nil(t, r.C())

	canceled := New("ab", time.Microsecond)
	canceled.Cancel()
	canceled.Start()
	assert.Nil(t, canceled.C())
}

func TestRevealEmptyTextCompletesImmediately(t *testing.T) {
	r := New("", time.Microsecond)
	r.Start()
	frames := drain(t, r, 10)
	require.Len(t, frames, 1)
	assert.True(t, frames[0].Done)
	assert.Equal(t, 0, r.Len())
}

func TestRevealCadence(t *testing.T) {
	interval := 5 * time.Millisecond
	r := New("abcd", interval)
	start := time.Now()
	r.Start()
	drain(t, r, 10)
	assert.GreaterOrEqual(t, time.Since(start), 5*interval)
}

func TestSchedulerStartCancelsPrevious(t *testing.T) {
	s := NewScheduler(time.Microsecond)
	first := s.Start("first answer")
	second := s.Start("second")

	assert.False(t, first.Active())
	assert.Nil(t, first.C())
	assert.Same(t, second, s.Current())

	frames := drain(t, second, 100)
	require.NotEmpty(t, frames)
	assert.Equal(t, "second", frames[len(frames)-1].Text)
	assert.Nil(t, s.Current())
}

func TestSchedulerDefaultInterval(t *testing.T) {
	s := NewScheduler(0)
	assert.Equal(t, DefaultInterval, s.interval)
	s.Cancel()
	assert.Nil(t, s.Current())
}
