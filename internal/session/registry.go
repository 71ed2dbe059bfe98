// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session maintains the client's view of the backend session list.
//
// The registry mirrors the backend: refresh replaces the list wholesale,
// create defers to ingestion for identity, and removal is optimistic with an
// authoritative refresh behind it. It never tracks a "current" session; that
// selection belongs to the controller.
package session

import (
	"context"
	"sync"

	"github.com/jeranaias/buddy-tui/internal/model"
)

// Transport is the subset of backend operations the registry needs.
type Transport interface {
	ListSessions(ctx context.Context) ([]model.Session, error)
	Ingest(ctx context.Context, repoURL, apiKey string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Registry holds the ordered list of known sessions. Methods are safe for
// concurrent use: refresh, create, and delete run in Bubble Tea command
// goroutines while the update loop reads, and overlapping commands must not
// interfere. Transport calls happen outside the lock.
type Registry struct {
	transport Transport

	mu       sync.RWMutex
	sessions []model.Session
	loaded   bool
}

// NewRegistry creates a registry backed by the given transport.
func NewRegistry(transport Transport) *Registry {
	return &Registry{transport: transport}
}

// Sessions returns a copy of the current list in backend order.
func (r *Registry) Sessions() []model.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Session, len(r.sessions))
	copy(out, r.sessions)
	return out
}

// Loaded reports whether at least one refresh has succeeded.
func (r *Registry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Len returns the number of known sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Get returns the session with the given id, if present.
func (r *Registry) Get(id string) (model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return model.Session{}, false
}

// Refresh replaces the list with the backend's. On failure the prior list is
// kept untouched; a transient fetch error must not blank an already-populated
// sidebar.
func (r *Registry) Refresh(ctx context.Context) error {
	sessions, err := r.transport.ListSessions(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.sessions = sessions
	r.loaded = true
	r.mu.Unlock()
	return nil
}

// Create ingests a repository and returns the new session id, then refreshes
// so the entry appears with the backend's label and counts. A refresh failure
// after a successful ingest does not fail the create; the id is already
// valid and the next refresh will reconcile.
func (r *Registry) Create(ctx context.Context, repoURL, apiKey string) (string, error) {
	id, err := r.transport.Ingest(ctx, repoURL, apiKey)
	if err != nil {
		return "", err
	}
	_ = r.Refresh(ctx)
	return id, nil
}

// Remove deletes the session from the backend, drops it from the in-memory
// list immediately, then refreshes to reconcile. Between the optimistic drop
// and the refresh the list can briefly disagree with the backend; the two
// steps fail independently and the refresh is authoritative. On delete
// failure the list is unchanged.
func (r *Registry) Remove(ctx context.Context, sessionID string) error {
	if err := r.transport.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	r.mu.Lock()
	for i, s := range r.sessions {
		if s.ID == sessionID {
			r.sessions = append(r.sessions[:i:i], r.sessions[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	_ = r.Refresh(ctx)
	return nil
}
