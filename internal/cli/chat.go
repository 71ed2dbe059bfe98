// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/buddy-tui/internal/api"
	"github.com/jeranaias/buddy-tui/internal/config"
	"github.com/jeranaias/buddy-tui/internal/conversation"
	"github.com/jeranaias/buddy-tui/internal/model"
	"github.com/jeranaias/buddy-tui/internal/ui/styles"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(styles.Purple).
				Bold(true)
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders assistant replies with syntax highlighting.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for terminal display.
// Returns the original content if rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints a reply, rendering markdown only on a TTY so piped
// output stays clean.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.Dir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.loadHistory()
	return cli
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with history navigation on arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *ChatCLI) saveHistory() {
	dir, err := config.Dir()
	if err != nil {
		return
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChatCommand runs an interactive REPL against a session.
func HandleChatCommand(client *api.Client, args Args) error {
	if args.SessionID == "" {
		return fmt.Errorf("usage: buddy chat <session-id>")
	}
	if !IsStdinTTY() {
		return fmt.Errorf("chat requires an interactive terminal; use the TUI or pipe through 'buddy export'")
	}

	sessionID := args.SessionID
	ctx := context.Background()

	history, err := client.GetHistory(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	printTranscript(history)

	repl := NewChatCLI()
	defer repl.Close()

	fmt.Println()
	fmt.Println(promptStyle.Render("Ask about the codebase. Type /quit to exit."))

	for {
		input, err := repl.ReadInput("> ")
		if err != nil {
			// liner.ErrPromptAborted on Ctrl+C, io.EOF on Ctrl+D
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		switch input {
		case "":
			continue
		case "/quit", "/exit", "/q":
			return nil
		case "/help", "/h":
			fmt.Println("Commands: /history reprint the transcript, /quit exit. Anything else is sent to the model.")
			continue
		case "/history":
			history, err := client.GetHistory(ctx, sessionID)
			if err != nil {
				fmt.Println(styles.RenderError("Error: " + api.Detail(err)))
				continue
			}
			printTranscript(history)
			continue
		}

		response, err := client.SendMessage(ctx, sessionID, input)
		if err != nil {
			// Keep the failure inline and keep the session usable.
			fmt.Println(styles.RenderError("Error: " + api.Detail(err)))
			continue
		}

		fmt.Println(assistantLabelStyle.Render("Buddy:"))
		displayResponse(response)
	}
}

// printTranscript prints existing history, seeding the greeting for a fresh
// session so the transcript never starts empty.
func printTranscript(history []model.Message) {
	if len(history) == 0 {
		fmt.Println(assistantLabelStyle.Render("Buddy:"))
		displayResponse(conversation.Greeting)
		return
	}

	for _, msg := range history {
		if msg.Role == model.RoleUser {
			fmt.Println(promptStyle.Render("You:"))
			fmt.Println(msg.Text)
		} else {
			fmt.Println(assistantLabelStyle.Render("Buddy:"))
			displayResponse(msg.Text)
		}
		fmt.Println()
	}
}
