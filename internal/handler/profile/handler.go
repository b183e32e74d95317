package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joseph-fajen/ai-resume-chat/internal/model/profile"
	"github.com/joseph-fajen/ai-resume-chat/pkg/utils"
)

// Handler 候选人档案的HTTP处理器
type Handler struct {
	profile *profile.Profile
}

// New 创建档案处理器，档案只读。
func New(p *profile.Profile) *Handler {
	return &Handler{profile: p}
}

// RegisterRoutes 注册档案相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.handleProfile)
	r.Get("/suggestions", h.handleSuggestions)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.profile)
}

// handleSuggestions 返回组件上展示的推荐问题
func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions := h.profile.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	utils.RespondJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}
