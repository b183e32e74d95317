package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joseph-fajen/ai-resume-chat/pkg/utils"
)

// Info 描述当前运行的服务
type Info struct {
	Service     string
	Version     string
	Environment string
}

// Handler 健康检查处理器
type Handler struct {
	info Info
}

// New 创建健康检查处理器
func New(info Info) *Handler {
	return &Handler{info: info}
}

// RegisterRoutes 注册探活路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleRoot)
	r.Get("/health", h.handleHealth)
	r.Get("/health/ready", h.handleReady)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": h.info.Service,
		"version": h.info.Version,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.info.Service,
		"version": h.info.Version,
	})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":      "ready",
		"environment": h.info.Environment,
	})
}
