// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/buddy-tui/internal/model"
	"github.com/jeranaias/buddy-tui/internal/ui/components"
	"github.com/jeranaias/buddy-tui/internal/ui/styles"
	"github.com/jeranaias/buddy-tui/internal/util"
)

// =============================================================================
// HOME VIEW
// =============================================================================

// homeMode selects between the session list and the ingest form.
type homeMode int

const (
	homeList homeMode = iota
	homeForm
)

// Intents emitted by the home view for the root model to act on.
type openSessionMsg struct{ id string }
type submitIngestMsg struct {
	repoURL string
	apiKey  string
}
type requestDeleteMsg struct{ id string }

// homeModel is the session picker and repository ingest form.
type homeModel struct {
	theme *styles.Theme
	keys  KeyMap

	mode     homeMode
	sessions []model.Session
	cursor   int

	repoInput textinput.Model
	keyInput  textinput.Model
	focusIdx  int

	spinner components.Spinner
	status  string
	errText string

	width  int
	height int
}

func newHomeModel(theme *styles.Theme, keys KeyMap) homeModel {
	repo := textinput.New()
	repo.Placeholder = "https://github.com/owner/repo.git"
	repo.CharLimit = 512
	repo.Width = 60

	apiKey := textinput.New()
	apiKey.Placeholder = "API key"
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.EchoCharacter = '*'
	apiKey.CharLimit = 256
	apiKey.Width = 60

	return homeModel{
		theme:     theme,
		keys:      keys,
		repoInput: repo,
		keyInput:  apiKey,
		spinner:   components.NewSpinner("Loading sessions"),
	}
}

// setSessions replaces the displayed list, clamping the cursor.
func (m *homeModel) setSessions(sessions []model.Session) {
	m.sessions = sessions
	if m.cursor >= len(sessions) {
		m.cursor = len(sessions) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *homeModel) setSize(width, height int) {
	m.width = width
	m.height = height
}

// startIngestForm switches to the form and focuses the repo field.
func (m *homeModel) startIngestForm() tea.Cmd {
	m.mode = homeForm
	m.errText = ""
	m.focusIdx = 0
	m.keyInput.Blur()
	return m.repoInput.Focus()
}

// Update handles key and async events for the home view.
func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == homeForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m homeModel) updateList(msg tea.KeyMsg) (homeModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if len(m.sessions) > 0 {
			id := m.sessions[m.cursor].ID
			return m, func() tea.Msg { return openSessionMsg{id: id} }
		}
	case key.Matches(msg, m.keys.New):
		return m, m.startIngestForm()
	case key.Matches(msg, m.keys.Delete):
		if len(m.sessions) > 0 {
			id := m.sessions[m.cursor].ID
			return m, func() tea.Msg { return requestDeleteMsg{id: id} }
		}
	}
	return m, nil
}

func (m homeModel) updateForm(msg tea.KeyMsg) (homeModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = homeList
		m.errText = ""
		m.repoInput.Blur()
		m.keyInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.focusIdx = (m.focusIdx + 1) % 2
		if m.focusIdx == 0 {
			m.keyInput.Blur()
			return m, m.repoInput.Focus()
		}
		m.repoInput.Blur()
		return m, m.keyInput.Focus()
	case msg.Type == tea.KeyEnter:
		repoURL := strings.TrimSpace(m.repoInput.Value())
		apiKey := strings.TrimSpace(m.keyInput.Value())
		if repoURL == "" {
			m.errText = "Repository URL is required"
			return m, nil
		}
		if apiKey == "" {
			m.errText = "API key is required"
			return m, nil
		}
		m.errText = ""
		return m, func() tea.Msg {
			return submitIngestMsg{repoURL: repoURL, apiKey: apiKey}
		}
	}

	var cmd tea.Cmd
	if m.focusIdx == 0 {
		m.repoInput, cmd = m.repoInput.Update(msg)
	} else {
		m.keyInput, cmd = m.keyInput.Update(msg)
	}
	return m, cmd
}

// View renders the home screen.
func (m homeModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderTitle.Render("buddy"))
	b.WriteString("  ")
	b.WriteString(m.theme.HeaderSubtitle.Render("codebase onboarding chat"))
	b.WriteString("\n\n")

	if m.mode == homeForm {
		b.WriteString(m.viewForm())
	} else {
		b.WriteString(m.viewList())
	}

	if m.errText != "" {
		// Server error details can span lines; the status area gets one.
		b.WriteString("\n")
		b.WriteString(styles.RenderError(util.FirstLine(m.errText)))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.StatusBar.Render(m.status))
	}

	b.WriteString("\n\n")
	b.WriteString(m.shortcuts())
	return m.theme.Container.Render(b.String())
}

func (m homeModel) viewList() string {
	var b strings.Builder
	b.WriteString(m.theme.ListTitle.Render("Sessions"))
	b.WriteString("\n")

	if m.spinner.Active() {
		b.WriteString(m.spinner.View())
		b.WriteString("\n")
		return b.String()
	}

	if len(m.sessions) == 0 {
		b.WriteString(m.theme.FormHint.Render("No sessions yet. Press n to analyze a repository."))
		b.WriteString("\n")
		return b.String()
	}

	for i, sess := range m.sessions {
		label := util.TruncateWidth(sess.Label(), 40)
		meta := fmt.Sprintf("%d messages", sess.MessageCount)
		if !sess.Date.IsZero() {
			meta = sess.Date.Format("2006-01-02") + " - " + meta
		}

		line := fmt.Sprintf("%s  %s", util.PadRight(label, 42), m.theme.ListItemMeta.Render(meta))
		if i == m.cursor {
			b.WriteString(m.theme.ListItemSelected.Render("> " + line))
		} else {
			b.WriteString(m.theme.ListItem.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m homeModel) viewForm() string {
	var b strings.Builder
	b.WriteString(m.theme.ListTitle.Render("Analyze a repository"))
	b.WriteString("\n")

	repoStyle := m.theme.FormField
	keyStyle := m.theme.FormField
	if m.focusIdx == 0 {
		repoStyle = m.theme.FormFocus
	} else {
		keyStyle = m.theme.FormFocus
	}

	b.WriteString(m.theme.FormLabel.Render("Repository URL"))
	b.WriteString("\n")
	b.WriteString(repoStyle.Render(m.repoInput.View()))
	b.WriteString("\n\n")
	b.WriteString(m.theme.FormLabel.Render("Gemini API key"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render(m.keyInput.View()))
	b.WriteString("\n\n")
	b.WriteString(m.theme.FormHint.Render("The key is forwarded to the server and never stored locally."))
	b.WriteString("\n")

	if m.spinner.Active() {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (m homeModel) shortcuts() string {
	pairs := [][2]string{
		{"enter", "open"},
		{"n", "new"},
		{"d", "delete"},
		{"r", "refresh"},
		{"q", "quit"},
	}
	if m.mode == homeForm {
		pairs = [][2]string{
			{"enter", "analyze"},
			{"tab", "next field"},
			{"esc", "cancel"},
		}
	}

	var parts []string
	for _, p := range pairs {
		parts = append(parts, m.theme.ShortcutKey.Render(p[0])+" "+m.theme.ShortcutDesc.Render(p[1]))
	}
	return strings.Join(parts, "  ")
}
