package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-fajen/ai-resume-chat/internal/model/chat"
)

func sseServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)
	return server
}

func readAll(t *testing.T, h *Handle) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-h.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatalf("handle did not finish, got %d events", len(out))
		}
	}
}

func kinds(events []Event) []Kind {
	out := make([]Kind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestClientStreamsTokensThenDone(t *testing.T) {
	var got Request
	server := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, DefaultPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: token\ndata: {\"type\":\"token\",\"content\":\"A\"}\n\n")
		fmt.Fprint(w, "event: status\ndata: {}\n\n")
		fmt.Fprint(w, "event: token\ndata: {\"type\":\"token\",\"content\":\"BC\"}\n\n")
		fmt.Fprint(w, "event: done\ndata: {\"type\":\"done\"}\n\n")
		fmt.Fprint(w, "event: token\ndata: {\"content\":\"ignored\"}\n\n")
	})

	client := NewClient(server.URL + "/")
	h := client.Open(context.Background(), Request{
		Message:             "hi",
		ConversationHistory: []chat.Message{chat.UserMessage("earlier"), chat.AssistantMessage("reply")},
		ProfileContext:      "ctx",
	})

	events := readAll(t, h)
	assert.Equal(t, []Kind{KindOpen, KindToken, KindToken, KindDone}, kinds(events))
	assert.Equal(t, "A", events[1].Content)
	assert.Equal(t, "BC", events[2].Content)

	assert.Equal(t, "hi", got.Message)
	assert.Equal(t, "ctx", got.ProfileContext)
	require.Len(t, got.ConversationHistory, 2)
	assert.Equal(t, chat.RoleAssistant, got.ConversationHistory[1].Role)
}

func TestClientSendsEmptyHistoryAsArray(t *testing.T) {
	var raw map[string]json.RawMessage
	server := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: done\n\n")
	})

	h := NewClient(server.URL).Open(context.Background(), Request{Message: "q"})
	readAll(t, h)
	assert.Equal(t, "[]", string(raw["conversation_history"]))
}

func TestClientForwardsVisitorAddress(t *testing.T) {
	headers := make(chan http.Header, 2)
	server := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: done\ndata: {\"type\":\"done\"}\n\n")
	})

	readAll(t, NewClient(server.URL, WithForwardedFor("203.0.113.7")).Open(context.Background(), Request{Message: "hi"}))
	forwarded := <-headers
	assert.Equal(t, "203.0.113.7", forwarded.Get("X-Real-IP"))
	assert.Equal(t, "203.0.113.7", forwarded.Get("X-Forwarded-For"))

	readAll(t, NewClient(server.URL).Open(context.Background(), Request{Message: "hi"}))
	plain := <-headers
	assert.Empty(t, plain.Get("X-Real-IP"))
	assert.Empty(t, plain.Get("X-Forwarded-For"))
}

func TestClientReportsPrematureClose(t *testing.T) {
	server := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
		fmt.Fprint(w, "event: token\ndata: {\"content\":\"partial\"}\n\n")
	})

	events := readAll(t, NewClient(server.URL).Open(context.Background(), Request{Message: "q"}))
	assert.Equal(t, []Kind{KindOpen, KindToken, KindClosed}, kinds(events))
	assert.ErrorIs(t, events[2].Err, ErrPrematureClose)
}

func TestClientApplicationError(t *testing.T) {
	server := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: error\ndata: {\"type\":\"error\",\"message\":\"overloaded\"}\n\n")
	})

	events := readAll(t, NewClient(server.URL).Open(context.Background(), Request{Message: "q"}))
	require.Equal(t, []Kind{KindOpen, KindError}, kinds(events))
	assert.ErrorIs(t, events[1].Err, ErrApplication)
	assert.Contains(t, events[1].Detail, "overloaded")
}

func TestClientMalformedTokenIsTerminal(t *testing.T) {
	server := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: token\ndata: {oops\n\n")
		fmt.Fprint(w, "event: done\n\n")
	})

	events := readAll(t, NewClient(server.URL).Open(context.Background(), Request{Message: "q"}))
	require.Equal(t, []Kind{KindOpen, KindError}, kinds(events))
	assert.ErrorIs(t, events[1].Err, ErrMalformedEvent)
}

func TestClientTransportFailures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		server := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		})
		events := readAll(t, NewClient(server.URL).Open(context.Background(), Request{Message: "q"}))
		require.Equal(t, []Kind{KindFailure}, kinds(events))
		assert.ErrorIs(t, events[0].Err, ErrTransport)
		assert.Contains(t, events[0].Err.Error(), "429")
	})

	t.Run("content type", func(t *testing.T) {
		server := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{}`)
		})
		events := readAll(t, NewClient(server.URL).Open(context.Background(), Request{Message: "q"}))
		require.Equal(t, []Kind{KindFailure}, kinds(events))
		assert.ErrorIs(t, events[0].Err, ErrTransport)
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		events := readAll(t, NewClient(url).Open(context.Background(), Request{Message: "q"}))
		require.Equal(t, []Kind{KindFailure}, kinds(events))
		assert.ErrorIs(t, events[0].Err, ErrTransport)
	})
}

func TestClientCancelIsSilentAndIdempotent(t *testing.T) {
	release := make(chan struct{})
	server := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: token\ndata: {\"content\":\"a\"}\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	h := NewClient(server.URL).Open(context.Background(), Request{Message: "q"})

	first := <-h.Events()
	assert.Equal(t, KindOpen, first.Kind)
	second := <-h.Events()
	assert.Equal(t, KindToken, second.Kind)

	h.Cancel()
	h.Cancel()
	assert.True(t, h.Canceled())

	for ev := range h.Events() {
		t.Fatalf("unexpected event after cancel: %v", ev.Kind)
	}
	h.Cancel()
}

func TestFeedStopsAfterCancel(t *testing.T) {
	h, feed := NewHandle(context.Background())
	h.Cancel()
	assert.False(t, feed.Send(Event{Kind: KindToken, Content: "late"}))
	feed.Close()
	feed.Close()

	_, ok := <-h.Events()
	assert.False(t, ok)
	assert.NotEmpty(t, h.ID())
}

func TestKindTerminal(t *testing.T) {
	assert.False(t, KindOpen.Terminal())
	assert.False(t, KindToken.Terminal())
	for _, k := range []Kind{KindDone, KindError, KindClosed, KindFailure} {
		assert.True(t, k.Terminal(), k.String())
	}
}
