// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/buddy-tui/internal/api"
	"github.com/jeranaias/buddy-tui/internal/session"
)

// =============================================================================
// ASYNC SERVER COMMANDS
// =============================================================================

// The HTTP client enforces its own request timeout, so commands run under
// context.Background and rely on that bound.

// refreshSessionsCmd reloads the session list from the server.
func refreshSessionsCmd(registry *session.Registry) tea.Cmd {
	return func() tea.Msg {
		err := registry.Refresh(context.Background())
		return sessionsLoadedMsg{err: err}
	}
}

// ingestCmd creates a new session for the given repository.
func ingestCmd(registry *session.Registry, repoURL, apiKey string) tea.Cmd {
	return func() tea.Msg {
		id, err := registry.Create(context.Background(), repoURL, apiKey)
		return ingestResultMsg{sessionID: id, err: err}
	}
}

// loadHistoryCmd fetches the transcript for a session. The epoch tags the
// response so a stale fetch can be dropped after a session switch.
func loadHistoryCmd(client *api.Client, sessionID string, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		messages, err := client.GetHistory(context.Background(), sessionID)
		return historyLoadedMsg{epoch: epoch, messages: messages, err: err}
	}
}

// sendMessageCmd sends a chat message and returns the assistant's reply.
func sendMessageCmd(client *api.Client, sessionID, text string, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		response, err := client.SendMessage(context.Background(), sessionID, text)
		return sendResultMsg{epoch: epoch, response: response, err: err}
	}
}

// deleteSessionCmd deletes a session on the server.
func deleteSessionCmd(registry *session.Registry, sessionID string) tea.Cmd {
	return func() tea.Msg {
		err := registry.Remove(context.Background(), sessionID)
		return deleteResultMsg{sessionID: sessionID, err: err}
	}
}

// healthCmd probes the server's health endpoint.
func healthCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		return healthResultMsg{err: client.Health(context.Background())}
	}
}
