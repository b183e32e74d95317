package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/joseph-fajen/ai-resume-chat/internal/config"
	"github.com/joseph-fajen/ai-resume-chat/internal/logging"
	"github.com/joseph-fajen/ai-resume-chat/internal/model/profile"
)

type options struct {
	url            string
	profilePath    string
	revealInterval time.Duration
	timeout        time.Duration
	logLevel       string

	logger zerolog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "resumechat",
		Short: "Talk to the resume chat answer service from a terminal",
		Long: `resumechat drives the same session controller the web widget uses.
Answers stream from the answer service; when it is unreachable, slow or
failing, a scripted answer is typed out instead.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.complete(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.url, "url", "", "answer service base URL (default from ANSWER_SERVICE_URL)")
	flags.StringVar(&opts.profilePath, "profile", "", "candidate profile YAML (default from PROFILE_PATH, built-in profile when empty)")
	flags.DurationVar(&opts.revealInterval, "reveal-interval", 8*time.Millisecond, "delay between revealed characters of a scripted answer")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "give up on the answer service after this long without progress (0 disables)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		newAskCmd(opts),
		newChatCmd(opts),
		newSuggestionsCmd(opts),
		newProfileContextCmd(opts),
	)
	return root
}

// complete fills every flag the user did not set from the environment.
func (o *options) complete(cmd *cobra.Command) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("url") {
		o.url = cfg.Session.AnswerServiceURL
	}
	if !flags.Changed("profile") {
		o.profilePath = cfg.Profile.Path
	}
	if !flags.Changed("reveal-interval") {
		o.revealInterval = cfg.Session.RevealInterval
	}
	if !flags.Changed("timeout") {
		o.timeout = cfg.Session.ResponseTimeout
	}

	o.logger = logging.New(logging.Options{
		Level:  o.logLevel,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

func (o *options) loadProfile() (*profile.Profile, error) {
	return profile.Load(o.profilePath)
}
