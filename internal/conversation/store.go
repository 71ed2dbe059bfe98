// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the message log and request state for the active
// session.
//
// The store is a synchronous state machine: the controller calls Activate or
// BeginSend before dispatching a transport request, and feeds the completion
// back through ApplyHistory or ApplySendResult tagged with the epoch it was
// given. Completions carrying a stale epoch are discarded, so a response for
// a session the user has already left can never land in the wrong log.
package conversation

import (
	"fmt"

	"github.com/jeranaias/buddy-tui/internal/api"
	"github.com/jeranaias/buddy-tui/internal/model"
)

// Greeting is the synthetic assistant message seeding an empty transcript.
// It exists only client-side and is never persisted.
const Greeting = `I have analyzed the codebase. You can now ask me questions like "Where is the auth logic?" or "How do I add a new API route?".`

// State is the request state for the active session.
type State int

const (
	// StateIdle means no request is in flight; sends are admitted.
	StateIdle State = iota
	// StateLoading means a history fetch is outstanding.
	StateLoading
	// StateSending means a chat request is outstanding.
	StateSending
)

// String returns the state name for logs and status lines.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSending:
		return "sending"
	default:
		return "unknown"
	}
}

// Store holds the transcript and request state for exactly one session at a
// time. Switching sessions discards the prior log; inactive sessions are
// never cached, so memory stays bounded no matter how much history exists.
type Store struct {
	sessionID string
	epoch     uint64
	messages  []model.Message
	state     State
	lastError string
}

// NewStore creates an empty store with no active session.
func NewStore() *Store {
	return &Store{}
}

// SessionID returns the active session's id, or "" when none is active.
func (s *Store) SessionID() string {
	return s.sessionID
}

// State returns the current request state.
func (s *Store) State() State {
	return s.state
}

// Busy reports whether a request is outstanding.
func (s *Store) Busy() bool {
	return s.state != StateIdle
}

// LastError returns the most recent failure detail, or "" after a success.
func (s *Store) LastError() string {
	return s.lastError
}

// Messages returns the transcript in insertion order. The slice is shared;
// callers must not mutate it.
func (s *Store) Messages() []model.Message {
	return s.messages
}

// Len returns the transcript length.
func (s *Store) Len() int {
	return len(s.messages)
}

// Activate makes sessionID the active session: the old log is discarded, the
// epoch advances so in-flight completions for the previous session become
// stale, and the store enters StateLoading pending an ApplyHistory call. This
// is the only path that clears a log.
func (s *Store) Activate(sessionID string) uint64 {
	s.sessionID = sessionID
	s.epoch++
	s.messages = nil
	s.state = StateLoading
	s.lastError = ""
	return s.epoch
}

// Deactivate clears the store entirely, e.g. when returning to the session
// list. Pending completions become stale.
func (s *Store) Deactivate() {
	s.sessionID = ""
	s.epoch++
	s.messages = nil
	s.state = StateIdle
	s.lastError = ""
}

// ApplyHistory installs a history fetch result.
//
// Empty history seeds the log with the synthetic greeting so a new session
// never shows an empty transcript. A fetch failure seeds a synthetic error
// message instead; history load failure is not fatal and the user may still
// chat. Stale epochs are discarded.
func (s *Store) ApplyHistory(epoch uint64, messages []model.Message, err error) bool {
	if epoch != s.epoch {
		return false
	}
	s.state = StateIdle

	switch {
	case err != nil:
		s.lastError = err.Error()
		s.messages = []model.Message{model.NewSyntheticMessage(
			fmt.Sprintf("Error loading history: %s. You can still send messages.", api.Detail(err)))}
	case len(messages) == 0:
		s.messages = []model.Message{model.NewSyntheticMessage(Greeting)}
	default:
		s.messages = messages
	}
	return true
}

// BeginSend admits a send if the session is idle: the user message is
// appended immediately so it stays visible even if the backend call fails,
// and the store enters StateSending.
//
// While a send or load is outstanding the call returns ok=false and nothing
// changes: concurrent sends are rejected, not queued, which keeps replies
// attributable to exactly one request. The caller re-submits after
// completion if it still wants to.
func (s *Store) BeginSend(text string) (epoch uint64, ok bool) {
	if s.sessionID == "" || s.state != StateIdle {
		return 0, false
	}
	s.messages = append(s.messages, model.NewUserMessage(text))
	s.state = StateSending
	return s.epoch, true
}

// ApplySendResult installs a chat completion. Success appends the assistant
// reply; failure appends an in-transcript assistant error message, keeping
// the log a complete audit trail of attempts. Stale epochs are discarded.
func (s *Store) ApplySendResult(epoch uint64, response string, err error) bool {
	if epoch != s.epoch {
		return false
	}
	s.state = StateIdle

	if err != nil {
		s.lastError = err.Error()
		s.messages = append(s.messages, model.NewSyntheticMessage("Error: "+api.Detail(err)))
		return true
	}
	s.lastError = ""
	s.messages = append(s.messages, model.NewAssistantMessage(response))
	return true
}
