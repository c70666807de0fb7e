package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/particle-portfolio/internal/chat"
	"github.com/iburimskiy/particle-portfolio/internal/chime"
	"github.com/iburimskiy/particle-portfolio/internal/i18n"
)

var noChime bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the portfolio assistant",
	Long: `Starts a line-based conversation with the completion endpoint from the
config (LLM_ENDPOINT and LLM_KEY override it). Enter a number to send one
of the suggested prompts; /quit or Ctrl-D leaves.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&noChime, "quiet", false, "Do not play the reply chime")
}

var (
	accentColor = lipgloss.Color("#21D4B4")
	mutedColor  = lipgloss.Color("#8A94A6")
	errorColor  = lipgloss.Color("#E53935")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	subtitleStyle  = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	userStyle      = lipgloss.NewStyle().Bold(true)
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	hintStyle      = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle     = lipgloss.NewStyle().Foreground(errorColor)
)

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	relay := chat.NewRelay(chat.OptionsFrom(cfg), table, logger.Named("relay"))
	tr := table.For(cfg.Locale)
	session := chat.NewSession(relay, cfg.Locale, tr.T("chat.greeting"))

	if cfg.Chat.Chime && !noChime {
		player := chime.New(logger.Named("chime"))
		session.OnReply(func(chat.Message) { player.Play() })
	}

	return chatLoop(ctx, os.Stdin, cmd.OutOrStdout(), session, tr)
}

// chatLoop reads one user turn per line from in until EOF, /quit or ctx is
// done, and writes the conversation to out.
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, session *chat.Session, tr i18n.Translator) error {
	// Releases the reader goroutine on /quit.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(out, titleStyle.Render(tr.T("chat.title")))
	fmt.Fprintln(out, subtitleStyle.Render(tr.T("chat.subtitle")))
	fmt.Fprintln(out)
	for _, m := range session.Messages() {
		printTurn(out, tr, m)
	}

	prompts := tr.List("chat.quickPrompts")
	for i, p := range prompts {
		fmt.Fprintln(out, hintStyle.Render(fmt.Sprintf("  %d) %s", i+1, p)))
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, userStyle.Render(tr.T("chat.you")+"> "))

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "/quit" || line == "/exit" {
			return nil
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(prompts) {
			line = prompts[n-1]
			fmt.Fprintln(out, line)
		}

		fmt.Fprintln(out, hintStyle.Render(tr.T("chat.typing")))
		reply, err := session.Send(ctx, line)
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			continue
		case err != nil:
			fmt.Fprintln(out, errorStyle.Render(tr.T("chat.error")+": "+err.Error()))
			continue
		}
		printTurn(out, tr, reply)
	}
}

func printTurn(out io.Writer, tr i18n.Translator, m chat.Message) {
	label := userStyle.Render(tr.T("chat.you") + ":")
	if m.Role == chat.RoleAssistant {
		label = assistantStyle.Render(tr.T("chat.assistant") + ":")
	}
	body := m.Content
	if strings.HasPrefix(body, "❌") {
		body = errorStyle.Render(body)
	}
	fmt.Fprintf(out, "%s %s\n\n", label, body)
}
