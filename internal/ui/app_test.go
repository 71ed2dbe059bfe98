// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/buddy-tui/internal/config"
	"github.com/jeranaias/buddy-tui/internal/conversation"
	"github.com/jeranaias/buddy-tui/internal/model"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app := NewApp(config.Default())
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app
}

// update applies a message and keeps the concrete *App type.
func update(t *testing.T, app *App, msg tea.Msg) *App {
	t.Helper()
	next, _ := app.Update(msg)
	out, ok := next.(*App)
	require.True(t, ok)
	return out
}

func TestOpenSessionEntersChatAndLoads(t *testing.T) {
	app := newTestApp(t)

	app = update(t, app, openSessionMsg{id: "sess-1"})

	assert.Equal(t, viewChat, app.view)
	assert.Equal(t, "sess-1", app.store.SessionID())
	assert.Equal(t, conversation.StateLoading, app.store.State())
}

func TestEmptyHistorySeedsGreeting(t *testing.T) {
	app := newTestApp(t)
	app = update(t, app, openSessionMsg{id: "sess-1"})

	app = update(t, app, historyLoadedMsg{epoch: 1})

	msgs := app.store.Messages()
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Synthetic)
	assert.Equal(t, conversation.Greeting, msgs[0].Text)
}

func TestStaleHistoryIsDiscardedAfterSwitch(t *testing.T) {
	app := newTestApp(t)
	app = update(t, app, openSessionMsg{id: "sess-1"}) // epoch 1
	app = update(t, app, openSessionMsg{id: "sess-2"}) // epoch 2

	// The fetch for sess-1 lands late. It must not touch sess-2's view.
	stale := []model.Message{model.NewAssistantMessage("from the old session")}
	app = update(t, app, historyLoadedMsg{epoch: 1, messages: stale})

	assert.Equal(t, "sess-2", app.store.SessionID())
	assert.Equal(t, conversation.StateLoading, app.store.State())
	assert.Empty(t, app.store.Messages())

	app = update(t, app, historyLoadedMsg{epoch: 2})
	require.Len(t, app.store.Messages(), 1)
	assert.Equal(t, conversation.Greeting, app.store.Messages()[0].Text)
}

func TestSecondSendRejectedWhileInFlight(t *testing.T) {
	app := newTestApp(t)
	app = update(t, app, openSessionMsg{id: "sess-1"})
	app = update(t, app, historyLoadedMsg{epoch: 1})

	app = update(t, app, submitChatMsg{text: "first question"})
	require.Equal(t, conversation.StateSending, app.store.State())
	countAfterFirst := app.store.Len()

	app = update(t, app, submitChatMsg{text: "second question"})
	assert.Equal(t, countAfterFirst, app.store.Len(), "second send must be rejected, not queued")
}

func TestSendFailureAppearsInTranscript(t *testing.T) {
	app := newTestApp(t)
	app = update(t, app, openSessionMsg{id: "sess-1"})
	app = update(t, app, historyLoadedMsg{epoch: 1})
	app = update(t, app, submitChatMsg{text: "hello"})

	app = update(t, app, sendResultMsg{epoch: 1, err: errors.New("model unavailable")})

	msgs := app.store.Messages()
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	assert.True(t, last.Synthetic)
	assert.Contains(t, last.Text, "model unavailable")
	assert.Equal(t, conversation.StateIdle, app.store.State())
}

func TestDeletingActiveSessionReturnsHome(t *testing.T) {
	app := newTestApp(t)
	app = update(t, app, openSessionMsg{id: "sess-1"})
	app = update(t, app, historyLoadedMsg{epoch: 1})
	require.Equal(t, viewChat, app.view)

	app = update(t, app, deleteResultMsg{sessionID: "sess-1"})

	assert.Equal(t, viewHome, app.view)
	assert.Empty(t, app.store.SessionID())
	assert.Empty(t, app.store.Messages())
}

func TestDeletingInactiveSessionStaysPut(t *testing.T) {
	app := newTestApp(t)
	app = update(t, app, openSessionMsg{id: "sess-1"})
	app = update(t, app, historyLoadedMsg{epoch: 1})

	app = update(t, app, deleteResultMsg{sessionID: "sess-other"})

	assert.Equal(t, viewChat, app.view)
	assert.Equal(t, "sess-1", app.store.SessionID())
}

func TestBackToHomeDeactivatesConversation(t *testing.T) {
	app := newTestApp(t)
	app = update(t, app, openSessionMsg{id: "sess-1"})
	app = update(t, app, historyLoadedMsg{epoch: 1})

	app = update(t, app, backToHomeMsg{})

	assert.Equal(t, viewHome, app.view)
	assert.Empty(t, app.store.SessionID())

	// A send completion from before leaving must now be ignored.
	applied := app.store.ApplySendResult(1, "late reply", nil)
	assert.False(t, applied)
}

func TestHomeErrorShowsOnlyFirstLine(t *testing.T) {
	app := newTestApp(t)

	err := errors.New("backend exploded\ntraceback: line 1")
	app = update(t, app, sessionsLoadedMsg{err: err})

	view := app.View()
	assert.Contains(t, view, "backend exploded")
	assert.NotContains(t, view, "traceback")
}

func TestConfigReloadSwapsTheme(t *testing.T) {
	app := newTestApp(t)

	next := config.Default()
	next.UI.Theme = "light"
	next.UI.CodeStyle = "github"
	app = update(t, app, ConfigReloaded(next))

	assert.False(t, app.theme.IsDark)
	assert.Equal(t, "github", app.chat.codeStyle)
}

func TestConfigReloadServerChangeDropsConversation(t *testing.T) {
	app := newTestApp(t)
	app = update(t, app, openSessionMsg{id: "sess-1"})
	app = update(t, app, historyLoadedMsg{epoch: 1})
	require.Equal(t, viewChat, app.view)

	next := config.Default()
	next.Server.URL = "http://elsewhere:8000"
	app = update(t, app, ConfigReloaded(next))

	assert.Equal(t, viewHome, app.view)
	assert.Empty(t, app.store.SessionID())
	assert.Equal(t, "http://elsewhere:8000", app.client.BaseURL())
}
