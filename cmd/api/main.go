package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/joseph-fajen/ai-resume-chat/internal/analysis/fallback"
	"github.com/joseph-fajen/ai-resume-chat/internal/config"
	"github.com/joseph-fajen/ai-resume-chat/internal/handler"
	"github.com/joseph-fajen/ai-resume-chat/internal/handler/health"
	"github.com/joseph-fajen/ai-resume-chat/internal/handler/widget"
	"github.com/joseph-fajen/ai-resume-chat/internal/logging"
	"github.com/joseph-fajen/ai-resume-chat/internal/model/profile"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/ai"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/session"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/stream"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(logging.Options{
		Level:       cfg.Server.LogLevel,
		Development: cfg.Server.Development(),
		AppName:     cfg.Server.AppName,
		AppVersion:  cfg.Server.AppVersion,
	})
	zlog.Logger = logger
	if envErr != nil {
		logger.Debug().Err(envErr).Msg("no .env file, continuing with system environment variables only")
	}

	candidate, err := profile.Load(cfg.Profile.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Profile.Path).Msg("failed to load profile")
	}

	deps := handler.Dependencies{
		Profile: candidate,
		Widgets: widgetFactory(cfg.Session, candidate, logger),
		Info: health.Info{
			Service:     cfg.Server.AppName,
			Version:     cfg.Server.AppVersion,
			Environment: cfg.Server.Environment,
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ChatRateLimit:  cfg.Server.ChatRateLimit,
		TrustedProxies: cfg.Server.TrustedProxies,
		Logger:         logger,
	}

	// Initialize AI service
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI, candidate.Name, logging.Component(logger, "agent"))
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize AI service, continuing with scripted answers only")
		} else {
			deps.Answers = aiService
			logger.Info().Str("model", cfg.AI.Model).Msg("AI service initialized")
		}
	} else {
		logger.Info().Msg("Ark credentials not configured, /api/chat answers 503 and widgets fall back")
	}

	router := handler.NewRouter(deps)

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("answer_service", cfg.Session.AnswerServiceURL).
		Msg("application.lifecycle_started")

	startServer(ctx, cfg.Server, router, logger)

	logger.Info().Msg("application.lifecycle_stopped")
}

// widgetFactory gives each websocket widget its own controller talking to the answer service.
// Requests carry the visitor's address so the answer service rate-limits per visitor
// even when it is this process reached over loopback.
func widgetFactory(cfg config.SessionConfig, candidate *profile.Profile, logger zerolog.Logger) widget.ControllerFactory {
	httpClient := &http.Client{}
	streamLogger := logging.Component(logger, "stream")
	responder := fallback.New(candidate.Answers)
	sessionLogger := logging.Component(logger, "session")

	return func(view session.View, clientIP string) widget.Controller {
		client := stream.NewClient(cfg.AnswerServiceURL,
			stream.WithHTTPClient(httpClient),
			stream.WithLogger(streamLogger),
			stream.WithForwardedFor(clientIP),
		)
		return session.New(candidate, client, responder,
			session.WithView(view),
			session.WithLogger(sessionLogger),
			session.WithRevealInterval(cfg.RevealInterval),
			session.WithResponseTimeout(cfg.ResponseTimeout),
		)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger zerolog.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info().Str("addr", addr).Msg("resume chat backend listening")
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
