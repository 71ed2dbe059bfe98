// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session maintains the client's view of the sessions that exist on
// the server.
//
// The registry is a cache of the server's session list, refreshed wholesale
// from GET /sessions. The server owns all session state: the registry never
// invents entries, and after a create or delete it re-fetches the list so
// the local view converges on the server's.
package session
