// Package session drives one visitor's conversation: it streams answers from the
// answer service and falls back to a typed canned answer when streaming fails.
package session

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/joseph-fajen/ai-resume-chat/internal/model/chat"
	"github.com/joseph-fajen/ai-resume-chat/internal/model/profile"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/history"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/stream"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/typing"
)

// DefaultResponseTimeout bounds the silence between two notifications of a request.
const DefaultResponseTimeout = 30 * time.Second

// ErrResponseTimeout is recorded when the answer service goes quiet for longer
// than the response timeout.
var ErrResponseTimeout = errors.New("answer service response timed out")

// Transport opens streaming requests. *stream.Client implements it.
type Transport interface {
	Open(ctx context.Context, req stream.Request) *stream.Handle
}

// Responder picks a canned answer. *fallback.Responder implements it.
type Responder interface {
	Respond(question string) string
}

// Option customizes a Controller.
type Option func(*Controller)

// WithView routes rendering updates to v.
func WithView(v View) Option {
	return func(c *Controller) {
		if v != nil {
			c.view = v
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithRevealInterval sets the typing cadence of canned answers.
func WithRevealInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.scheduler = typing.NewScheduler(d)
	}
}

// WithResponseTimeout overrides DefaultResponseTimeout. Zero or negative disables it.
func WithResponseTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.responseTimeout = d
	}
}

// Controller owns one conversation. Its state, pending buffer, request handle and
// reveal are touched only by the loop goroutine; public methods talk to it over channels.
type Controller struct {
	transport       Transport
	responder       Responder
	view            View
	logger          zerolog.Logger
	scheduler       *typing.Scheduler
	responseTimeout time.Duration

	history        *history.Store
	profileContext string

	state   atomic.Int32
	ctx     context.Context
	cancel  context.CancelFunc
	submits chan submission
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once

	current *exchange
}

type submission struct {
	question string
	accepted chan bool
}

// exchange is the in-flight question and everything attached to it.
type exchange struct {
	id       string
	question string
	started  time.Time
	handle   *stream.Handle
	deadline *time.Timer
	reveal   *typing.Reveal
	buffer   strings.Builder
	tokens   int
}

// New starts a controller for the given profile. The profile context is built
// once here and sent with every request.
func New(p *profile.Profile, transport Transport, responder Responder, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		transport:       transport,
		responder:       responder,
		view:            NopView{},
		logger:          zerolog.Nop(),
		scheduler:       typing.NewScheduler(typing.DefaultInterval),
		responseTimeout: DefaultResponseTimeout,
		history:         history.NewStore(),
		profileContext:  profile.BuildContext(p),
		ctx:             ctx,
		cancel:          cancel,
		submits:         make(chan submission),
		quit:            make(chan struct{}),
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.loop()
	return c
}

// Submit starts an exchange for question. It returns false, changing nothing,
// when the text is blank, an exchange is already in flight or the controller is closed.
func (c *Controller) Submit(question string) bool {
	if chat.Blank(question) {
		return false
	}

	req := submission{question: question, accepted: make(chan bool, 1)}
	select {
	case c.submits <- req:
	case <-c.done:
		return false
	}
	return <-req.accepted
}

// State returns the current state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// History returns a copy of the conversation so far.
func (c *Controller) History() []chat.Message {
	return c.history.Snapshot()
}

// Done is closed once the controller has shut down.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Close tears the controller down: the in-flight request and reveal are canceled,
// the pending answer is discarded and nothing more is appended or rendered.
// It blocks until the loop has exited and is safe to call repeatedly.
func (c *Controller) Close() {
	c.once.Do(func() {
		close(c.quit)
	})
	<-c.done
}

func (c *Controller) loop() {
	defer close(c.done)
	defer c.cancel()

	for {
		var (
			events   <-chan stream.Event
			deadline <-chan time.Time
			ticks    <-chan time.Time
		)
		if ex := c.current; ex != nil {
			if ex.handle != nil {
				events = ex.handle.Events()
			}
			if ex.deadline != nil {
				deadline = ex.deadline.C
			}
			if ex.reveal != nil {
				ticks = ex.reveal.C()
			}
		}

		select {
		case <-c.quit:
			c.teardown()
			return
		case req := <-c.submits:
			req.accepted <- c.begin(req.question)
		case ev, ok := <-events:
			if !ok {
				// producer gave up without a terminal notification
				ev = stream.Event{Kind: stream.KindClosed, Err: stream.ErrPrematureClose}
			}
			c.handleEvent(ev)
		case <-deadline:
			c.fallback(ErrResponseTimeout)
		case <-ticks:
			c.advanceReveal()
		}
	}
}

func (c *Controller) begin(question string) bool {
	if c.State() != Idle || c.current != nil {
		c.logger.Debug().Str("state", c.State().String()).Msg("session.submit.rejected")
		return false
	}

	prior := c.history.Snapshot()
	msg := chat.UserMessage(question)
	c.history.Append(msg)
	c.view.MessageAppended(msg)

	ex := &exchange{
		id:       uuid.NewString(),
		question: question,
		started:  time.Now(),
	}
	c.current = ex
	c.setState(Sending)

	ex.handle = c.transport.Open(c.ctx, stream.Request{
		Message:             question,
		ConversationHistory: prior,
		ProfileContext:      c.profileContext,
	})
	if c.responseTimeout > 0 {
		ex.deadline = time.NewTimer(c.responseTimeout)
	}

	c.logger.Info().
		Str("exchange_id", ex.id).
		Int("history_length", len(prior)).
		Msg("session.exchange.started")
	return true
}

func (c *Controller) handleEvent(ev stream.Event) {
	ex := c.current
	if ex == nil {
		return
	}
	if ex.deadline != nil {
		ex.deadline.Reset(c.responseTimeout)
	}

	switch ev.Kind {
	case stream.KindOpen:
		if c.State() == Sending {
			c.setState(Streaming)
		}
	case stream.KindToken:
		if c.State() == Sending {
			c.setState(Streaming)
		}
		ex.buffer.WriteString(ev.Content)
		ex.tokens++
		c.view.LiveText(ex.buffer.String())
	case stream.KindDone:
		c.settle(ex.buffer.String(), "streamed")
	case stream.KindClosed:
		if ex.buffer.Len() > 0 {
			c.settle(ex.buffer.String(), "partial")
			return
		}
		c.fallback(ev.Err)
	case stream.KindError:
		c.logger.Warn().
			Str("exchange_id", ex.id).
			Str("detail", ev.Detail).
			Err(ev.Err).
			Msg("session.exchange.application_error")
		c.fallback(ev.Err)
	case stream.KindFailure:
		c.fallback(ev.Err)
	}
}

// fallback abandons the live attempt and starts typing the canned answer.
// Any partial text already streamed is discarded.
func (c *Controller) fallback(cause error) {
	ex := c.current
	if ex == nil || ex.reveal != nil {
		return
	}
	c.detachTransport(ex)

	answer := c.responder.Respond(ex.question)
	ex.buffer.Reset()
	ex.reveal = c.scheduler.Start(answer)

	c.logger.Warn().
		Str("exchange_id", ex.id).
		Err(cause).
		Int("tokens_discarded", ex.tokens).
		Msg("session.exchange.fallback")

	c.setState(FallbackTyping)
	c.view.LiveText("")
}

func (c *Controller) advanceReveal() {
	ex := c.current
	if ex == nil || ex.reveal == nil {
		return
	}
	frame, ok := ex.reveal.Tick()
	if !ok {
		return
	}
	if !frame.Done {
		c.view.LiveText(frame.Text)
		return
	}
	c.scheduler.Cancel()
	ex.reveal = nil
	c.settle(frame.Text, "fallback")
}

// settle commits the assistant answer and closes the exchange.
func (c *Controller) settle(answer, outcome string) {
	ex := c.current
	c.detachTransport(ex)
	c.setState(Settling)

	msg := chat.AssistantMessage(answer)
	c.history.Append(msg)
	c.view.MessageAppended(msg)

	c.logger.Info().
		Str("exchange_id", ex.id).
		Str("outcome", outcome).
		Int("tokens", ex.tokens).
		Int("answer_length", len(answer)).
		Dur("elapsed", time.Since(ex.started)).
		Msg("session.exchange.completed")

	c.current = nil
	c.setState(Idle)
}

func (c *Controller) teardown() {
	ex := c.current
	if ex != nil {
		c.detachTransport(ex)
		if ex.reveal != nil {
			ex.reveal.Cancel()
			ex.reveal = nil
		}
		ex.buffer.Reset()
		c.logger.Info().Str("exchange_id", ex.id).Msg("session.exchange.abandoned")
	}
	c.scheduler.Cancel()
	c.current = nil
	c.state.Store(int32(Idle))
}

// detachTransport cancels the handle and stops listening to it, so late
// notifications never reach a later exchange.
func (c *Controller) detachTransport(ex *exchange) {
	if ex.handle != nil {
		ex.handle.Cancel()
		ex.handle = nil
	}
	if ex.deadline != nil {
		ex.deadline.Stop()
		ex.deadline = nil
	}
}

func (c *Controller) setState(s State) {
	if State(c.state.Swap(int32(s))) == s {
		return
	}
	c.view.StateChanged(s)
}
