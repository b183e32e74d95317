package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/joseph-fajen/ai-resume-chat/internal/middleware"
	"github.com/joseph-fajen/ai-resume-chat/internal/model/chat"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/stream"
	"github.com/joseph-fajen/ai-resume-chat/pkg/utils"
)

const maxBodyBytes = 1 << 20

// Streamer 产生回答片段，*ai.Service 实现了该接口
type Streamer interface {
	StreamResponse(ctx context.Context, history []chat.Message, userMessage, profileContext string) (*schema.StreamReader[*schema.Message], error)
}

// Handler 回答服务的HTTP处理器
type Handler struct {
	answers Streamer
	limiter *middleware.RateLimiter
	logger  zerolog.Logger
}

// New 创建回答处理器。answers 为 nil 时接口返回 503，客户端随之走兜底回答。
func New(answers Streamer, limiter *middleware.RateLimiter, logger zerolog.Logger) *Handler {
	return &Handler{
		answers: answers,
		limiter: limiter,
		logger:  logger,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	if h.limiter != nil {
		r.With(h.limiter.Handler).Post("/chat", h.handleChat)
		return
	}
	r.Post("/chat", h.handleChat)
}

type tokenPayload struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type statusPayload struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// handleChat 以SSE流式返回回答
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if h.answers == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "answer service unavailable")
		return
	}

	var payload stream.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if chat.Blank(payload.Message) {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}
	for _, msg := range payload.ConversationHistory {
		if !msg.Role.Valid() {
			utils.RespondError(w, http.StatusBadRequest, "conversation_history role must be user or assistant")
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ctx := r.Context()
	log := h.logger.With().Str("request_id", chimw.GetReqID(ctx)).Logger()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	if err := h.streamAnswer(ctx, w, flusher, payload); err != nil {
		if ctx.Err() != nil {
			log.Debug().Msg("agent.llm.streaming_abandoned")
			return
		}
		log.Error().Err(err).Msg("agent.llm.streaming_failed")
		if sendErr := utils.SendSSEEvent(w, flusher, "error", statusPayload{Type: "error", Message: "answer generation failed"}); sendErr != nil {
			log.Debug().Err(sendErr).Msg("failed to deliver error event")
		}
		return
	}
	log.Info().Msg("agent.llm.streaming_completed")
}

func (h *Handler) streamAnswer(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, payload stream.Request) error {
	reader, err := h.answers.StreamResponse(ctx, payload.ConversationHistory, payload.Message, payload.ProfileContext)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		chunk, err := reader.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return errors.Wrap(err, "receive answer chunk")
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}
		if err := utils.SendSSEEvent(w, flusher, "token", tokenPayload{Type: "token", Content: chunk.Content}); err != nil {
			return err
		}
	}

	return utils.SendSSEEvent(w, flusher, "done", statusPayload{Type: "done"})
}
