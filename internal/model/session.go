// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Session is a persisted conversation scoped to one ingested repository.
//
// Sessions are created by the backend at ingestion time and are never mutated
// client-side; the registry replaces them wholesale on refresh.
type Session struct {
	ID           string    `json:"id"`
	Repo         string    `json:"repo"`
	Date         time.Time `json:"date"`
	MessageCount int       `json:"message_count"`
}

// Label returns the display name for the session: the last path segment of
// the repository reference, with a trailing ".git" or "/" stripped.
func (s Session) Label() string {
	repo := strings.TrimSuffix(strings.TrimSpace(s.Repo), "/")
	repo = strings.TrimSuffix(repo, ".git")
	if idx := strings.LastIndex(repo, "/"); idx >= 0 {
		repo = repo[idx+1:]
	}
	if repo == "" {
		return s.Repo
	}
	return repo
}
