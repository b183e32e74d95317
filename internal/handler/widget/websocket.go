package widget

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-fajen/ai-resume-chat/internal/middleware"
	"github.com/joseph-fajen/ai-resume-chat/internal/model/chat"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/session"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
	writeWait    = 10 * time.Second
	outboxSize   = 64
	maxReadBytes = 16 << 10
)

// Controller 是桥接层驱动的 *session.Controller 子集
type Controller interface {
	Submit(question string) bool
	Close()
}

// ControllerFactory 为一个组件连接创建会话控制器，clientIP 为访客地址
type ControllerFactory func(view session.View, clientIP string) Controller

// Handler 通过 WebSocket 把浏览器组件接到会话控制器上。
// 每个连接独占一个控制器，连接关闭即销毁控制器。
type Handler struct {
	newController ControllerFactory
	suggestions   []string
	upgrader      websocket.Upgrader
	logger        zerolog.Logger
}

// New 创建组件 WebSocket 处理器
func New(factory ControllerFactory, suggestions []string, allowedOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		newController: factory,
		suggestions:   suggestions,
		upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/widget/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("widget.upgrade_failed")
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	clientIP := middleware.ClientIP(r)
	log := h.logger.With().Str("session_id", sessionID).Logger()
	log.Info().Str("client", clientIP).Msg("widget.connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	// 任一泵退出后视图立即放弃推送，控制器不会卡在已断开的连接上
	view := &socketView{sessionID: sessionID, outbox: make(chan outgoingMessage, outboxSize), ctx: gctx}
	ctrl := h.newController(view, clientIP)
	defer func() {
		cancel()
		ctrl.Close()
		log.Info().Msg("widget.disconnected")
	}()

	view.push("ready", map[string]any{"suggestions": h.suggestions})

	conn.SetReadLimit(maxReadBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	g.Go(func() error {
		return h.readLoop(conn, ctrl, view, log)
	})
	g.Go(func() error {
		return h.writeLoop(gctx, conn, view.outbox)
	})
	g.Go(func() error {
		<-gctx.Done()
		// 阻塞中的 ReadJSON 只有在连接关闭后才会返回
		_ = conn.Close()
		return nil
	})

	if err := g.Wait(); err != nil && !isNormalClose(err) {
		log.Debug().Err(err).Msg("widget.connection_ended")
	}
}

func (h *Handler) readLoop(conn *websocket.Conn, ctrl Controller, view *socketView, log zerolog.Logger) error {
	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			var (
				syntaxErr *json.SyntaxError
				typeErr   *json.UnmarshalTypeError
			)
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				view.push("error", map[string]string{"message": "invalid message"})
				continue
			}
			return errors.Wrap(err, "read widget message")
		}

		switch msg.Type {
		case "submit":
			if !ctrl.Submit(msg.Text) {
				log.Debug().Msg("widget.submit_ignored")
			}
		default:
			view.push("error", map[string]string{"message": "unknown message type"})
		}
	}
}

func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, outbox <-chan outgoingMessage) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return nil
		case msg := <-outbox:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return errors.Wrap(err, "write widget message")
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return errors.Wrap(err, "write ping")
			}
		}
	}
}

// socketView 把控制器的更新转交给连接的写协程
type socketView struct {
	sessionID string
	outbox    chan outgoingMessage
	ctx       context.Context
}

func (v *socketView) StateChanged(s session.State) {
	v.push("state", map[string]any{"state": s.String(), "busy": s.Busy()})
}

func (v *socketView) LiveText(text string) {
	v.push("live", map[string]string{"text": text})
}

func (v *socketView) MessageAppended(m chat.Message) {
	v.push("message", m)
}

// push 在写协程追上前阻塞，连接断开后放弃
func (v *socketView) push(kind string, data interface{}) {
	msg := outgoingMessage{
		Type:      kind,
		SessionID: v.sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	select {
	case v.outbox <- msg:
	case <-v.ctx.Done():
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimSuffix(origin, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func isNormalClose(err error) bool {
	return websocket.IsCloseError(errors.Cause(err), websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, context.Canceled)
}
