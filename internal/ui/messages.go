// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the Bubble Tea application for buddy.
//
// This file defines the Bubble Tea message types exchanged between the
// async server commands and the update loop. History and chat completions
// carry the conversation epoch they were started under so responses that
// arrive after a session switch can be discarded.
package ui

import (
	"github.com/jeranaias/buddy-tui/internal/config"
	"github.com/jeranaias/buddy-tui/internal/model"
)

// sessionsLoadedMsg delivers the result of a session list refresh.
type sessionsLoadedMsg struct {
	err error
}

// ingestResultMsg delivers the result of a repository ingest.
type ingestResultMsg struct {
	sessionID string
	err       error
}

// historyLoadedMsg delivers a fetched transcript for the session that was
// active at epoch.
type historyLoadedMsg struct {
	epoch    uint64
	messages []model.Message
	err      error
}

// sendResultMsg delivers the assistant's reply (or failure) for the send
// started at epoch.
type sendResultMsg struct {
	epoch    uint64
	response string
	err      error
}

// deleteResultMsg delivers the result of a session delete.
type deleteResultMsg struct {
	sessionID string
	err       error
}

// healthResultMsg delivers the result of a server health probe.
type healthResultMsg struct {
	err error
}

// configReloadedMsg delivers a hot-reloaded configuration.
type configReloadedMsg struct {
	cfg *config.Config
}

// ConfigReloaded builds the message the config watcher sends into the
// program when the config file changes on disk.
func ConfigReloaded(cfg *config.Config) configReloadedMsg {
	return configReloadedMsg{cfg: cfg}
}
