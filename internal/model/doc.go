// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions and messages.
//
// A Session is a persisted conversation scoped to one ingested repository;
// the backend assigns its identity at ingestion time. A Message is one entry
// in a session's transcript. Both types mirror the backend's wire format and
// carry no client-side behavior beyond display helpers.
package model
