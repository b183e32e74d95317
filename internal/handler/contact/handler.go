package contact

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/joseph-fajen/ai-resume-chat/pkg/utils"
)

const previewRunes = 100

// Request 联系表单
type Request struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Response 联系表单的确认
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Handler 联系表单处理器，目前只记录日志不投递。
type Handler struct {
	candidate string
	logger    zerolog.Logger
}

// New 创建联系表单处理器
func New(candidateName string, logger zerolog.Logger) *Handler {
	return &Handler{candidate: firstName(candidateName), logger: logger}
}

// RegisterRoutes 注册联系表单路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/contact", h.handleSubmit)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil || addr.Name != "" {
		utils.RespondError(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	h.logger.Info().
		Str("name", req.Name).
		Str("email", addr.Address).
		Str("company", req.Company).
		Str("role", req.Role).
		Str("message_preview", preview(req.Message)).
		Msg("contact.form_submitted")

	utils.RespondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Thank you! " + h.candidate + " will be in touch soon.",
	})
}

func preview(message string) string {
	runes := []rune(message)
	if len(runes) <= previewRunes {
		return message
	}
	return string(runes[:previewRunes])
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return "We"
}
