// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/buddy-tui/internal/api"
	"github.com/jeranaias/buddy-tui/internal/model"
)

// fakeTransport scripts transport responses for registry tests.
type fakeTransport struct {
	sessions  []model.Session
	listErr   error
	ingestID  string
	ingestErr error
	deleteErr error

	listCalls   int
	deleteCalls []string
}

func (f *fakeTransport) ListSessions(ctx context.Context) ([]model.Session, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sessions, nil
}

func (f *fakeTransport) Ingest(ctx context.Context, repoURL, apiKey string) (string, error) {
	if f.ingestErr != nil {
		return "", f.ingestErr
	}
	return f.ingestID, nil
}

func (f *fakeTransport) DeleteSession(ctx context.Context, sessionID string) error {
	f.deleteCalls = append(f.deleteCalls, sessionID)
	return f.deleteErr
}

func twoSessions() []model.Session {
	return []model.Session{
		{ID: "a", Repo: "https://github.com/u/alpha", MessageCount: 2},
		{ID: "b", Repo: "https://github.com/u/beta", MessageCount: 4},
	}
}

func TestRefreshReplacesList(t *testing.T) {
	ft := &fakeTransport{sessions: twoSessions()}
	reg := NewRegistry(ft)

	require.NoError(t, reg.Refresh(context.Background()))
	assert.Equal(t, 2, reg.Len())
	assert.True(t, reg.Loaded())

	ft.sessions = twoSessions()[:1]
	require.NoError(t, reg.Refresh(context.Background()))
	assert.Equal(t, 1, reg.Len())
}

func TestRefreshFailureKeepsPriorList(t *testing.T) {
	ft := &fakeTransport{sessions: twoSessions()}
	reg := NewRegistry(ft)
	require.NoError(t, reg.Refresh(context.Background()))

	ft.listErr = &api.FetchError{Op: "list", Detail: "backend down", Status: 502}
	err := reg.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, reg.Len(), "transient fetch failure must not clear the list")
}

func TestCreateTriggersRefresh(t *testing.T) {
	ft := &fakeTransport{ingestID: "new-id", sessions: twoSessions()}
	reg := NewRegistry(ft)

	id, err := reg.Create(context.Background(), "https://github.com/u/alpha", "key")
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)
	assert.Equal(t, 1, ft.listCalls, "create must refresh so the backend stays authoritative")
	assert.Equal(t, 2, reg.Len())
}

func TestCreateSurvivesRefreshFailure(t *testing.T) {
	ft := &fakeTransport{ingestID: "new-id", listErr: &api.FetchError{Op: "list", Detail: "down", Status: 500}}
	reg := NewRegistry(ft)

	id, err := reg.Create(context.Background(), "https://github.com/u/alpha", "")
	require.NoError(t, err, "a refresh failure must not invalidate a successful ingest")
	assert.Equal(t, "new-id", id)
}

func TestCreateFailure(t *testing.T) {
	ft := &fakeTransport{ingestErr: &api.IngestionError{Detail: "clone failed", Status: 500}}
	reg := NewRegistry(ft)

	_, err := reg.Create(context.Background(), "https://example.com/x", "")
	require.Error(t, err)
	assert.Equal(t, 0, ft.listCalls)
}

func TestRemoveOptimisticThenRefresh(t *testing.T) {
	ft := &fakeTransport{sessions: twoSessions()}
	reg := NewRegistry(ft)
	require.NoError(t, reg.Refresh(context.Background()))

	// Script the post-delete refresh to agree with the optimistic removal.
	ft.sessions = twoSessions()[1:]
	require.NoError(t, reg.Remove(context.Background(), "a"))

	assert.Equal(t, []string{"a"}, ft.deleteCalls)
	_, found := reg.Get("a")
	assert.False(t, found)
	assert.Equal(t, 2, ft.listCalls, "remove refreshes after the optimistic drop")
}

func TestRemoveFailureLeavesListUnchanged(t *testing.T) {
	ft := &fakeTransport{sessions: twoSessions()}
	reg := NewRegistry(ft)
	require.NoError(t, reg.Refresh(context.Background()))

	ft.deleteErr = &api.FetchError{Op: "delete", Detail: "forbidden", Status: 403}
	err := reg.Remove(context.Background(), "a")
	require.Error(t, err)
	assert.Equal(t, 2, reg.Len())
	_, found := reg.Get("a")
	assert.True(t, found)
}

// syncTransport is a race-safe transport for concurrency tests; the plain
// fakeTransport records calls without locking.
type syncTransport struct {
	mu       sync.Mutex
	sessions []model.Session
}

func (s *syncTransport) ListSessions(ctx context.Context) ([]model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Session, len(s.sessions))
	copy(out, s.sessions)
	return out, nil
}

func (s *syncTransport) Ingest(ctx context.Context, repoURL, apiKey string) (string, error) {
	return "new-id", nil
}

func (s *syncTransport) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sess := range s.sessions {
		if sess.ID == sessionID {
			s.sessions = append(s.sessions[:i:i], s.sessions[i+1:]...)
			break
		}
	}
	return nil
}

// Commands run in their own goroutines while the update loop reads, so
// overlapping refreshes, deletes, and reads must not interfere. Run with
// -race.
func TestConcurrentCommandsDoNotInterfere(t *testing.T) {
	reg := NewRegistry(&syncTransport{sessions: twoSessions()})
	require.NoError(t, reg.Refresh(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = reg.Refresh(context.Background())
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = reg.Remove(context.Background(), "a")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = reg.Sessions()
				_ = reg.Len()
				_, _ = reg.Get("b")
				_ = reg.Loaded()
			}
		}()
	}
	wg.Wait()

	_, found := reg.Get("b")
	assert.True(t, found)
}

func TestSessionsReturnsCopy(t *testing.T) {
	ft := &fakeTransport{sessions: twoSessions()}
	reg := NewRegistry(ft)
	require.NoError(t, reg.Refresh(context.Background()))

	list := reg.Sessions()
	list[0].ID = "mutated"

	s, found := reg.Get("a")
	require.True(t, found)
	assert.Equal(t, "a", s.ID)
}

func TestGet(t *testing.T) {
	ft := &fakeTransport{sessions: twoSessions()}
	reg := NewRegistry(ft)
	require.NoError(t, reg.Refresh(context.Background()))

	s, found := reg.Get("b")
	require.True(t, found)
	assert.Equal(t, "beta", s.Label())

	_, found = reg.Get("missing")
	assert.False(t, found)
}
