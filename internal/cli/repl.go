// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/deskchat-tui/internal/config"
	"github.com/jeranaias/deskchat-tui/internal/session"
	"github.com/jeranaias/deskchat-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// newRenderer builds the glamour renderer sized to the terminal.
// Returns nil when construction fails; callers fall back to plain text.
func newRenderer() *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(TerminalWidth()),
	)
	if err != nil {
		return nil
	}
	return r
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader wraps liner with persistent history.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &lineReader{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

// Read prompts for one line and records non-empty input in history.
func (r *lineReader) Read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close persists history with owner-only permissions.
func (r *lineReader) Close() {
	if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// REPL is the plain-mode chat loop.
type REPL struct {
	session  *session.Controller
	reader   *lineReader
	renderer *glamour.TermRenderer
}

// NewREPL creates the plain-mode loop around a session controller.
func NewREPL(ctrl *session.Controller) *REPL {
	return &REPL{
		session:  ctrl,
		reader:   newLineReader(),
		renderer: newRenderer(),
	}
}

// Run reads lines until /quit or EOF. Slash commands are handled
// locally; everything else is sent to the model.
func (r *REPL) Run(ctx context.Context) error {
	defer r.reader.Close()

	fmt.Println(commandStyle.Render("deskchat") + infoStyle.Render("  plain mode, /help for commands"))
	fmt.Println(infoStyle.Render("model: " + r.session.Model()))
	fmt.Println()

	for {
		input, err := r.reader.Read(promptStyle.Render("> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			// io.EOF on Ctrl+D.
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if done := r.handleCommand(input); done {
				return nil
			}
			continue
		}

		r.send(ctx, input)
	}
}

// send runs one turn and renders the final reply.
func (r *REPL) send(ctx context.Context, text string) {
	fmt.Println(infoStyle.Render("thinking..."))

	reply, err := r.session.Send(ctx, text, nil)
	if err != nil {
		// A persist failure still delivered a reply; show it before
		// the warning instead of throwing the answer away.
		if errors.Is(err, session.ErrPersistFailed) && reply != "" {
			r.display(reply)
			fmt.Println(warningStyle.Render("warning: " + err.Error()))
			return
		}
		fmt.Println(warningStyle.Render("error: " + err.Error()))
		return
	}
	r.display(reply)
}

// display renders markdown when stdout is a terminal, plain text
// otherwise so piped output stays clean.
func (r *REPL) display(text string) {
	if IsStdoutTTY() && r.renderer != nil {
		if rendered, err := r.renderer.Render(text); err == nil {
			fmt.Print(rendered)
			return
		}
	}
	fmt.Println(text)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleCommand processes a slash command. Returns true to exit.
func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		r.printHelp()

	case "/model", "/m":
		if len(args) == 0 {
			fmt.Println(infoStyle.Render("model: " + r.session.Model()))
			break
		}
		r.session.SwitchModel(args[0])
		fmt.Println(infoStyle.Render("switched to " + args[0]))

	case "/new", "/clear", "/c":
		r.session.Reset()
		fmt.Println(infoStyle.Render("started a new conversation"))

	case "/list", "/ls":
		r.printList()

	case "/load":
		if len(args) == 0 {
			fmt.Println(warningStyle.Render("usage: /load <id>"))
			break
		}
		if err := r.session.Load(args[0]); err != nil {
			fmt.Println(warningStyle.Render("load failed: " + err.Error()))
			break
		}
		fmt.Println(infoStyle.Render("loaded " + args[0]))

	case "/delete", "/rm":
		if len(args) == 0 {
			fmt.Println(warningStyle.Render("usage: /delete <id>"))
			break
		}
		if err := r.session.Delete(args[0]); err != nil {
			fmt.Println(warningStyle.Render("delete failed: " + err.Error()))
			break
		}
		fmt.Println(infoStyle.Render("deleted " + args[0]))

	default:
		fmt.Println(warningStyle.Render("unknown command " + cmd + ", /help for the list"))
	}
	return false
}

func (r *REPL) printHelp() {
	help := [][2]string{
		{"/help", "show this help"},
		{"/model [name]", "show or switch the model"},
		{"/new", "start a new conversation"},
		{"/list", "list saved conversations"},
		{"/load <id>", "resume a saved conversation"},
		{"/delete <id>", "delete a saved conversation"},
		{"/quit", "exit"},
	}
	for _, h := range help {
		fmt.Printf("  %s %s\n", commandStyle.Render(fmt.Sprintf("%-14s", h[0])), infoStyle.Render(h[1]))
	}
}

func (r *REPL) printList() {
	summaries, err := r.session.List()
	if err != nil {
		fmt.Println(warningStyle.Render("list failed: " + err.Error()))
		return
	}
	if len(summaries) == 0 {
		fmt.Println(infoStyle.Render("no saved conversations"))
		return
	}
	for _, s := range summaries {
		fmt.Printf("  %s  %s (%d msgs, %s)\n",
			commandStyle.Render(s.ID),
			s.Title,
			s.Messages,
			s.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}
}
