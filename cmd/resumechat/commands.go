package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/joseph-fajen/ai-resume-chat/internal/analysis/fallback"
	"github.com/joseph-fajen/ai-resume-chat/internal/logging"
	"github.com/joseph-fajen/ai-resume-chat/internal/model/profile"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/session"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/stream"
)

func newAskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.loadProfile()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			view := newTerminalView(out, p.Name, isTerminal(out))
			ctrl := opts.newController(p, view)
			defer ctrl.Close()

			question := strings.Join(args, " ")
			if !ctrl.Submit(question) {
				return errors.New("question must not be empty")
			}
			// Ctrl-C while waiting is a normal way out
			if err := view.wait(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func newChatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation (Ctrl-C or /quit to leave)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.loadProfile()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tty := isTerminal(out)
			view := newTerminalView(out, p.Name, tty)
			ctrl := opts.newController(p, view)
			defer ctrl.Close()

			fmt.Fprintln(out, view.styles.dim.Render(fmt.Sprintf("Chatting with %s's resume assistant. Try /suggestions.", p.Name)))
			return repl(cmd.Context(), cmd.InOrStdin(), out, p, ctrl, view)
		},
	}
}

func repl(ctx context.Context, in io.Reader, out io.Writer, p *profile.Profile, ctrl *session.Controller, view *terminalView) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := readLines(ctx, in)
	for {
		fmt.Fprint(out, view.styles.prompt.Render("you>")+" ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(l)
		}

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/suggestions":
			printSuggestions(out, p.Suggestions, view.styles)
			continue
		}

		view.reset()
		if !ctrl.Submit(line) {
			continue
		}
		if err := view.wait(ctx); err != nil {
			fmt.Fprintln(out)
			return nil
		}
	}
}

// readLines feeds stdin lines to the REPL until input ends or ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func newSuggestionsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "suggestions",
		Short: "List suggested questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.loadProfile()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuggestions(out, p.Suggestions, newStyles(isTerminal(out)))
			return nil
		},
	}
}

func newProfileContextCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "profile-context",
		Short: "Print the profile context sent with every question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.loadProfile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), profile.BuildContext(p))
			return nil
		},
	}
}

func printSuggestions(out io.Writer, suggestions []string, st styles) {
	for i, s := range suggestions {
		fmt.Fprintf(out, "%s %s\n", st.dim.Render(fmt.Sprintf("%d.", i+1)), s)
	}
}

func (o *options) newController(p *profile.Profile, view session.View) *session.Controller {
	client := stream.NewClient(o.url, stream.WithLogger(logging.Component(o.logger, "stream")))
	return session.New(p, client, fallback.New(p.Answers),
		session.WithView(view),
		session.WithLogger(logging.Component(o.logger, "session")),
		session.WithRevealInterval(o.revealInterval),
		session.WithResponseTimeout(o.timeout),
	)
}
