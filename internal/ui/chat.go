// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/buddy-tui/internal/conversation"
	"github.com/jeranaias/buddy-tui/internal/model"
	"github.com/jeranaias/buddy-tui/internal/ui/components"
	"github.com/jeranaias/buddy-tui/internal/ui/styles"
)

// =============================================================================
// CHAT VIEW
// =============================================================================

// submitChatMsg is the intent emitted when the user submits a question.
type submitChatMsg struct{ text string }

// backToHomeMsg is the intent emitted when the user leaves the chat view.
type backToHomeMsg struct{}

// chatModel renders the active conversation and accepts user input.
// Conversation state lives in the store; this model only displays it.
type chatModel struct {
	theme *styles.Theme
	keys  KeyMap
	store *conversation.Store

	viewport viewport.Model
	input    textinput.Model
	spinner  components.Spinner

	title     string
	codeStyle string
	ready     bool

	width  int
	height int
}

func newChatModel(theme *styles.Theme, keys KeyMap, store *conversation.Store, codeStyle string) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask about the codebase..."
	input.CharLimit = 4000
	input.Prompt = "> "

	return chatModel{
		theme:     theme,
		keys:      keys,
		store:     store,
		input:     input,
		spinner:   components.NewSpinner("Thinking"),
		codeStyle: codeStyle,
	}
}

// open prepares the view for a newly activated session.
func (m *chatModel) open(title string) tea.Cmd {
	m.title = title
	m.spinner.SetMessage("Loading conversation")
	cmds := []tea.Cmd{m.spinner.Start(), m.input.Focus()}
	m.refreshViewport()
	return tea.Batch(cmds...)
}

func (m *chatModel) setSize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 2
	footerHeight := 3
	vpHeight := height - headerHeight - footerHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.input.Width = width - 6
	m.refreshViewport()
}

// refreshViewport re-renders the transcript and follows the tail.
func (m *chatModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// historyApplied is called after the store accepted a history fetch.
func (m *chatModel) historyApplied() {
	m.spinner.Stop()
	m.refreshViewport()
}

// sendStarted is called after the store accepted a new outgoing message.
func (m *chatModel) sendStarted() tea.Cmd {
	m.input.Reset()
	m.spinner.SetMessage("Thinking")
	m.refreshViewport()
	return m.spinner.Start()
}

// sendFinished is called after the store applied a send result.
func (m *chatModel) sendFinished() {
	m.spinner.Stop()
	m.refreshViewport()
}

// Update handles key and animation events for the chat view.
func (m chatModel) Update(msg tea.Msg) (chatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return backToHomeMsg{} }
		case msg.Type == tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			return m, func() tea.Msg { return submitChatMsg{text: text} }
		case key.Matches(msg, m.keys.PageUp):
			m.viewport.HalfViewUp()
			return m, nil
		case key.Matches(msg, m.keys.PageDown):
			m.viewport.HalfViewDown()
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the chat screen.
func (m chatModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderTitle.Render(m.title))
	b.WriteString("\n")

	if m.ready {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	if m.spinner.Active() {
		b.WriteString(m.spinner.View())
		b.WriteString("\n")
	}

	b.WriteString(m.theme.InputContainer.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.theme.ShortcutKey.Render("esc") + " " + m.theme.ShortcutDesc.Render("sessions") +
		"  " + m.theme.ShortcutKey.Render("enter") + " " + m.theme.ShortcutDesc.Render("send"))

	return m.theme.Container.Render(b.String())
}

// renderTranscript renders every message in the store, including synthetic
// greeting and error entries.
func (m chatModel) renderTranscript() string {
	width := m.width - 4
	if width < 20 {
		width = 20
	}

	var blocks []string
	for _, msg := range m.store.Messages() {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	return strings.Join(blocks, "\n\n")
}

func (m chatModel) renderMessage(msg model.Message, width int) string {
	body := components.RenderMessageBody(msg.Text, width, m.codeStyle)

	switch {
	case msg.Synthetic && strings.HasPrefix(msg.Text, "Error"):
		return m.theme.ErrorNotice.Render(body)
	case msg.Role == model.RoleUser:
		label := m.theme.RoleUser.Render("You")
		return label + "\n" + m.theme.UserBubble.Render(body)
	default:
		label := m.theme.RoleAssistant.Render("Buddy")
		return label + "\n" + m.theme.AssistantBubble.Render(body)
	}
}
