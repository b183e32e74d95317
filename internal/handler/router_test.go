package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-fajen/ai-resume-chat/internal/analysis/fallback"
	"github.com/joseph-fajen/ai-resume-chat/internal/handler/health"
	"github.com/joseph-fajen/ai-resume-chat/internal/handler/widget"
	"github.com/joseph-fajen/ai-resume-chat/internal/model/chat"
	"github.com/joseph-fajen/ai-resume-chat/internal/model/profile"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/session"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/stream"
)

var loopback = []netip.Prefix{netip.MustParsePrefix("127.0.0.0/8"), netip.MustParsePrefix("::1/128")}

func newTestRouter() http.Handler {
	return NewRouter(Dependencies{
		Profile:        profile.Seed(),
		Info:           health.Info{Service: "ai-resume-chat", Version: "test", Environment: "test"},
		AllowedOrigins: []string{"http://localhost:5173"},
		ChatRateLimit:  20,
		Logger:         zerolog.Nop(),
	})
}

func TestRouterWiring(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/health/ready", "", http.StatusOK},
		{http.MethodGet, "/api/profile", "", http.StatusOK},
		{http.MethodGet, "/api/suggestions", "", http.StatusOK},
		{http.MethodPost, "/api/chat", `{"message":"hi"}`, http.StatusServiceUnavailable},
		{http.MethodPost, "/api/contact", `{"name":"Ada","email":"ada@example.com"}`, http.StatusOK},
		{http.MethodGet, "/api/widget/ws", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, tc.want, resp.Code, "%s %s", tc.method, tc.path)
		assert.NotEmpty(t, resp.Header().Get("X-Request-ID"), "%s %s", tc.method, tc.path)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()

	newTestRouter().ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://localhost:5173", resp.Header().Get("Access-Control-Allow-Origin"))
}

type liveAnswers struct{}

func (liveAnswers) StreamResponse(_ context.Context, _ []chat.Message, _, _ string) (*schema.StreamReader[*schema.Message], error) {
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage("LIVE", nil)}), nil
}

type visitor struct {
	t    *testing.T
	conn *websocket.Conn
}

func dialVisitor(t *testing.T, url, ip string) *visitor {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"X-Real-IP": []string{ip}})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &visitor{t: t, conn: conn}
}

// ask submits question and returns the assistant answer the widget commits.
func (v *visitor) ask(question string) string {
	v.t.Helper()
	require.NoError(v.t, v.conn.WriteJSON(map[string]string{"type": "submit", "text": question}))
	require.NoError(v.t, v.conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	for {
		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		require.NoError(v.t, v.conn.ReadJSON(&msg))
		if msg.Type != "message" {
			continue
		}
		var m chat.Message
		require.NoError(v.t, json.Unmarshal(msg.Data, &m))
		if m.Role == chat.RoleAssistant {
			return m.Content
		}
	}
}

func TestWidgetVisitorsAreRateLimitedSeparately(t *testing.T) {
	seed := profile.Seed()

	server := httptest.NewUnstartedServer(nil)
	answerURL := "http://" + server.Listener.Addr().String()
	server.Config.Handler = NewRouter(Dependencies{
		Profile: seed,
		Answers: liveAnswers{},
		Widgets: func(view session.View, clientIP string) widget.Controller {
			client := stream.NewClient(answerURL, stream.WithForwardedFor(clientIP))
			return session.New(seed, client, fallback.New(seed.Answers),
				session.WithView(view),
				session.WithRevealInterval(time.Microsecond))
		},
		Info:           health.Info{Service: "ai-resume-chat", Version: "test", Environment: "test"},
		ChatRateLimit:  1,
		TrustedProxies: loopback,
		Logger:         zerolog.Nop(),
	})
	server.Start()
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/widget/ws"
	first := dialVisitor(t, wsURL, "203.0.113.1")
	second := dialVisitor(t, wsURL, "203.0.113.2")

	assert.Equal(t, "LIVE", first.ask("hello there"))
	assert.Equal(t, "LIVE", second.ask("hello there"), "another visitor has its own budget")
	assert.Equal(t, seed.Answers.Default, first.ask("hello again"), "a visitor over its budget falls back")
}
