// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the Bubble Tea application for buddy.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/buddy-tui/internal/api"
	"github.com/jeranaias/buddy-tui/internal/config"
	"github.com/jeranaias/buddy-tui/internal/conversation"
	"github.com/jeranaias/buddy-tui/internal/session"
	"github.com/jeranaias/buddy-tui/internal/ui/styles"
)

// =============================================================================
// ROOT APPLICATION MODEL
// =============================================================================

// view identifies the active screen.
type view int

const (
	viewHome view = iota
	viewChat
)

// App is the root Bubble Tea model. It owns the session registry and the
// conversation store and routes messages to the active screen.
type App struct {
	cfg      *config.Config
	theme    *styles.Theme
	keys     KeyMap
	client   *api.Client
	registry *session.Registry
	store    *conversation.Store

	view view
	home homeModel
	chat chatModel

	width  int
	height int
}

// NewApp builds the root model from configuration.
func NewApp(cfg *config.Config) *App {
	client := api.New(cfg.Server.URL, api.WithTimeout(cfg.Timeout()))
	theme := styles.NewTheme(cfg.UI.Theme)
	keys := DefaultKeyMap()
	store := conversation.NewStore()

	app := &App{
		cfg:      cfg,
		theme:    theme,
		keys:     keys,
		client:   client,
		registry: session.NewRegistry(client),
		store:    store,
		home:     newHomeModel(theme, keys),
		chat:     newChatModel(theme, keys, store, cfg.UI.CodeStyle),
	}
	// A configured API key prefills the ingest form; it is still sent
	// per-request and never written back to disk.
	if cfg.Server.APIKey != "" {
		app.home.keyInput.SetValue(cfg.Server.APIKey)
	}
	return app
}

// Client exposes the API client, mainly for the CLI layer.
func (a *App) Client() *api.Client {
	return a.client
}

// Init kicks off the initial session list load.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.home.spinner.Start(),
		refreshSessionsCmd(a.registry),
		healthCmd(a.client),
	)
}

// Update routes messages to the active view and applies server results.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.theme.SetSize(msg.Width, msg.Height)
		a.home.setSize(msg.Width, msg.Height)
		a.chat.setSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		// Plain "q" quits only when no text field has focus.
		if key.Matches(msg, a.keys.Quit) && !a.typing() {
			return a, tea.Quit
		}
		if a.view == viewHome && key.Matches(msg, a.keys.Refresh) && a.home.mode == homeList {
			a.home.spinner.SetMessage("Loading sessions")
			return a, tea.Batch(a.home.spinner.Start(), refreshSessionsCmd(a.registry))
		}

	// ------------------------------------------------------------------
	// Intents from the child views
	// ------------------------------------------------------------------

	case openSessionMsg:
		return a, a.openSession(msg.id)

	case submitIngestMsg:
		a.home.spinner.SetMessage("Analyzing repository")
		return a, tea.Batch(
			a.home.spinner.Start(),
			ingestCmd(a.registry, msg.repoURL, msg.apiKey),
		)

	case requestDeleteMsg:
		return a, deleteSessionCmd(a.registry, msg.id)

	case submitChatMsg:
		epoch, ok := a.store.BeginSend(msg.text)
		if !ok {
			// A send or history load is already in flight.
			return a, nil
		}
		return a, tea.Batch(
			a.chat.sendStarted(),
			sendMessageCmd(a.client, a.store.SessionID(), msg.text, epoch),
		)

	case backToHomeMsg:
		a.store.Deactivate()
		a.view = viewHome
		a.home.setSessions(a.registry.Sessions())
		return a, nil

	// ------------------------------------------------------------------
	// Server results
	// ------------------------------------------------------------------

	case sessionsLoadedMsg:
		a.home.spinner.Stop()
		if msg.err != nil {
			a.home.errText = "Could not load sessions: " + api.Detail(msg.err)
		} else {
			a.home.errText = ""
		}
		a.home.setSessions(a.registry.Sessions())
		return a, nil

	case ingestResultMsg:
		a.home.spinner.Stop()
		if msg.err != nil {
			a.home.errText = "Analysis failed: " + api.Detail(msg.err)
			return a, nil
		}
		a.home.mode = homeList
		a.home.repoInput.Reset()
		a.home.keyInput.Reset()
		a.home.setSessions(a.registry.Sessions())
		return a, a.openSession(msg.sessionID)

	case historyLoadedMsg:
		if a.store.ApplyHistory(msg.epoch, msg.messages, msg.err) {
			a.chat.historyApplied()
		}
		return a, nil

	case sendResultMsg:
		if a.store.ApplySendResult(msg.epoch, msg.response, msg.err) {
			a.chat.sendFinished()
		}
		return a, nil

	case deleteResultMsg:
		if msg.err != nil {
			a.home.errText = "Delete failed: " + api.Detail(msg.err)
			return a, nil
		}
		a.home.errText = ""
		// Deleting the active session closes its conversation.
		if a.store.SessionID() == msg.sessionID {
			a.store.Deactivate()
			a.view = viewHome
		}
		a.home.setSessions(a.registry.Sessions())
		return a, nil

	case healthResultMsg:
		if msg.err != nil {
			a.home.status = "Server unreachable at " + a.client.BaseURL()
		} else {
			a.home.status = ""
		}
		return a, nil

	case configReloadedMsg:
		return a, a.applyConfig(msg.cfg)
	}

	// Delegate everything else to the active view.
	var cmd tea.Cmd
	switch a.view {
	case viewChat:
		a.chat, cmd = a.chat.Update(msg)
	default:
		a.home, cmd = a.home.Update(msg)
	}
	return a, cmd
}

// View renders the active screen.
func (a *App) View() string {
	if a.view == viewChat {
		return a.chat.View()
	}
	return a.home.View()
}

// openSession activates a session and starts the history fetch.
func (a *App) openSession(id string) tea.Cmd {
	epoch := a.store.Activate(id)
	a.view = viewChat

	title := id
	if sess, ok := a.registry.Get(id); ok {
		title = sess.Label()
	}

	return tea.Batch(
		a.chat.open(title),
		loadHistoryCmd(a.client, id, epoch),
	)
}

// applyConfig installs a hot-reloaded configuration. Theme and code style
// take effect immediately; a changed server URL or timeout swaps the client
// and registry, which drops the active conversation since its session lives
// on the old server.
func (a *App) applyConfig(cfg *config.Config) tea.Cmd {
	a.theme = styles.NewTheme(cfg.UI.Theme)
	a.home.theme = a.theme
	a.chat.theme = a.theme
	a.chat.codeStyle = cfg.UI.CodeStyle
	a.chat.refreshViewport()

	serverChanged := cfg.Server.URL != a.cfg.Server.URL ||
		cfg.Timeout() != a.cfg.Timeout()
	a.cfg = cfg
	if !serverChanged {
		return nil
	}

	a.client = api.New(cfg.Server.URL, api.WithTimeout(cfg.Timeout()))
	a.registry = session.NewRegistry(a.client)
	a.store.Deactivate()
	a.view = viewHome
	a.home.spinner.SetMessage("Loading sessions")
	return tea.Batch(a.home.spinner.Start(), refreshSessionsCmd(a.registry))
}

// typing reports whether a text input currently has focus, in which case
// plain letter keys belong to the field rather than to shortcuts.
func (a *App) typing() bool {
	if a.view == viewChat {
		return a.chat.input.Focused()
	}
	return a.home.mode == homeForm
}
