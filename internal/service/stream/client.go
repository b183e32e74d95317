// Package stream opens chat requests against the answer service and turns its
// server-sent events into typed notifications.
package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/joseph-fajen/ai-resume-chat/internal/model/chat"
)

// DefaultPath is the chat endpoint on the answer service.
const DefaultPath = "/api/chat"

// Request is the JSON body of an outbound chat request.
type Request struct {
	Message             string         `json:"message"`
	ConversationHistory []chat.Message `json:"conversation_history"`
	ProfileContext      string         `json:"profile_context"`
}

// Client talks to one answer service.
type Client struct {
	endpoint     string
	httpClient   *http.Client
	logger       zerolog.Logger
	forwardedFor string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Do not set a client-wide
// Timeout: it would cut long answers; the session bounds waiting instead.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithForwardedFor sends the visitor's address with every request so a
// rate-limiting answer service counts the visitor, not this process.
func WithForwardedFor(clientIP string) Option {
	return func(c *Client) {
		c.forwardedFor = strings.TrimSpace(clientIP)
	}
}

// WithPath overrides DefaultPath.
func WithPath(path string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimSuffix(c.endpoint, DefaultPath) + path
	}
}

// NewClient targets baseURL + DefaultPath.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimSuffix(baseURL, "/") + DefaultPath,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint is the full URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Open starts a request and returns its handle without waiting for the network.
func (c *Client) Open(ctx context.Context, req Request) *Handle {
	if req.ConversationHistory == nil {
		req.ConversationHistory = []chat.Message{}
	}
	h, feed := NewHandle(ctx)
	go c.run(feed, h.ID(), req)
	return h
}

func (c *Client) run(feed *Feed, handleID string, req Request) {
	defer feed.Close()

	ctx := feed.Context()
	log := c.logger.With().Str("handle_id", handleID).Logger()

	body, err := json.Marshal(req)
	if err != nil {
		feed.Send(failure(errors.Wrap(err, "encode chat request")))
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		feed.Send(failure(errors.Wrap(err, "build chat request")))
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.forwardedFor != "" {
		httpReq.Header.Set("X-Real-IP", c.forwardedFor)
		httpReq.Header.Set("X-Forwarded-For", c.forwardedFor)
	}

	log.Debug().
		Str("endpoint", c.endpoint).
		Int("history_length", len(req.ConversationHistory)).
		Msg("stream.request.opening")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		feed.Send(failure(errors.Wrap(err, "send chat request")))
		return
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		feed.Send(failure(err))
		return
	}
	if !feed.Send(Event{Kind: KindOpen}) {
		return
	}

	parser := NewParser(resp.Body)
	for {
		raw, err := parser.Next()
		if errors.Is(err, io.EOF) {
			log.Debug().Msg("stream.response.closed")
			feed.Send(Event{Kind: KindClosed, Err: ErrPrematureClose})
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			feed.Send(failure(errors.Wrap(err, "read event stream")))
			return
		}

		ev, ok := Decode(raw)
		if !ok {
			continue
		}
		if !feed.Send(ev) {
			return
		}
		if ev.Kind.Terminal() {
			log.Debug().Str("kind", ev.Kind.String()).Msg("stream.response.finished")
			return
		}
	}
}

// Decode interprets a raw event. ok is false for events the widget ignores.
func Decode(raw RawEvent) (Event, bool) {
	switch raw.Name {
	case "token":
		var payload struct {
			Content *string `json:"content"`
		}
		if err := json.Unmarshal([]byte(raw.Data), &payload); err != nil {
			return Event{
				Kind:   KindError,
				Detail: raw.Data,
				Err:    errors.Wrap(ErrMalformedEvent, err.Error()),
			}, true
		}
		if payload.Content == nil {
			return Event{
				Kind:   KindError,
				Detail: raw.Data,
				Err:    errors.Wrap(ErrMalformedEvent, "token without content"),
			}, true
		}
		return Event{Kind: KindToken, Content: *payload.Content}, true
	case "done":
		return Event{Kind: KindDone}, true
	case "error":
		return Event{Kind: KindError, Detail: raw.Data, Err: ErrApplication}, true
	default:
		return Event{}, false
	}
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Wrapf(ErrTransport, "answer service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "text/event-stream" {
		return errors.Wrapf(ErrTransport, "unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	return nil
}

func failure(err error) Event {
	if !errors.Is(err, ErrTransport) {
		err = fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return Event{Kind: KindFailure, Err: err}
}
