// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the Onboarding Buddy backend.
//
// The backend exposes five operations: ingest a repository, send a chat
// message, list sessions, fetch a session's history, and delete a session.
// Every call is single-shot; retry policy, if any, belongs to the caller.
// Failures are reported as *IngestionError, *ChatError, or *FetchError, each
// carrying a display-ready detail string recovered from the response body.
package api
