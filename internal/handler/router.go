package handler

import (
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/joseph-fajen/ai-resume-chat/internal/handler/chat"
	"github.com/joseph-fajen/ai-resume-chat/internal/handler/contact"
	"github.com/joseph-fajen/ai-resume-chat/internal/handler/health"
	profileHandler "github.com/joseph-fajen/ai-resume-chat/internal/handler/profile"
	"github.com/joseph-fajen/ai-resume-chat/internal/handler/widget"
	middlewarePkg "github.com/joseph-fajen/ai-resume-chat/internal/middleware"
	"github.com/joseph-fajen/ai-resume-chat/internal/model/profile"
)

// Dependencies 路由所需的服务
type Dependencies struct {
	Profile        *profile.Profile
	Answers        chat.Streamer
	Widgets        widget.ControllerFactory
	Info           health.Info
	AllowedOrigins []string
	ChatRateLimit  int
	// TrustedProxies 可改写访客地址的对端；为空时一律按套接字地址计
	TrustedProxies []netip.Prefix
	Logger         zerolog.Logger
}

// NewRouter 将HTTP路由与核心服务连接
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middlewarePkg.RealIP(deps.TrustedProxies))
	r.Use(middlewarePkg.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	health.New(deps.Info).RegisterRoutes(r)

	limiter := middlewarePkg.NewRateLimiter(deps.ChatRateLimit, time.Minute)
	chatHandler := chat.New(deps.Answers, limiter, deps.Logger.With().Str("component", "answers").Logger())

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		profileHandler.New(deps.Profile).RegisterRoutes(api)
		contact.New(deps.Profile.Name, deps.Logger.With().Str("component", "contact").Logger()).RegisterRoutes(api)

		if deps.Widgets != nil {
			widget.New(deps.Widgets, deps.Profile.Suggestions, deps.AllowedOrigins,
				deps.Logger.With().Str("component", "widget").Logger()).RegisterRoutes(api)
		}
	})

	return r
}
