package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/joseph-fajen/ai-resume-chat/internal/model/chat"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/session"
)

type styles struct {
	speaker lipgloss.Style
	dim     lipgloss.Style
	prompt  lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{speaker: plain, dim: plain, prompt: plain}
	}
	return styles{
		speaker: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		prompt:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	}
}

// terminalView renders controller updates as plain terminal output.
// When animate is false only committed assistant messages are printed.
type terminalView struct {
	out     io.Writer
	speaker string
	animate bool
	styles  styles

	printed string
	labeled bool
	idle    chan struct{}
}

func newTerminalView(out io.Writer, speaker string, animate bool) *terminalView {
	return &terminalView{
		out:     out,
		speaker: speaker,
		animate: animate,
		styles:  newStyles(animate),
		idle:    make(chan struct{}, 1),
	}
}

func (v *terminalView) StateChanged(s session.State) {
	switch s {
	case session.FallbackTyping:
		if !v.animate {
			return
		}
		if v.labeled {
			fmt.Fprintln(v.out)
		}
		fmt.Fprintln(v.out, v.styles.dim.Render("(answer service unavailable, answering offline)"))
		v.printed, v.labeled = "", false
	case session.Idle:
		select {
		case v.idle <- struct{}{}:
		default:
		}
	}
}

func (v *terminalView) LiveText(text string) {
	if !v.animate || text == "" {
		return
	}
	v.label()
	if strings.HasPrefix(text, v.printed) {
		io.WriteString(v.out, text[len(v.printed):])
	} else {
		io.WriteString(v.out, "\n"+text)
	}
	v.printed = text
}

func (v *terminalView) MessageAppended(m chat.Message) {
	if m.Role != chat.RoleAssistant {
		return
	}
	switch {
	case !v.labeled:
		v.label()
		io.WriteString(v.out, m.Content)
	case strings.HasPrefix(m.Content, v.printed):
		io.WriteString(v.out, m.Content[len(v.printed):])
	default:
		io.WriteString(v.out, "\n"+m.Content)
	}
	fmt.Fprintln(v.out)
	if v.animate {
		fmt.Fprintln(v.out)
	}
	v.printed, v.labeled = "", false
}

func (v *terminalView) label() {
	if v.labeled {
		return
	}
	io.WriteString(v.out, v.styles.speaker.Render(v.speaker+":")+" ")
	v.labeled = true
}

// reset drops an idle signal left over from an earlier exchange.
func (v *terminalView) reset() {
	select {
	case <-v.idle:
	default:
	}
}

// wait blocks until the controller settles back to idle.
func (v *terminalView) wait(ctx context.Context) error {
	select {
	case <-v.idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
