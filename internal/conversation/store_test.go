// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/buddy-tui/internal/api"
	"github.com/jeranaias/buddy-tui/internal/model"
)

func history(texts ...string) []model.Message {
	msgs := make([]model.Message, 0, len(texts))
	role := model.RoleUser
	for _, text := range texts {
		msgs = append(msgs, model.NewMessage(role, text))
		if role == model.RoleUser {
			role = model.RoleAssistant
		} else {
			role = model.RoleUser
		}
	}
	return msgs
}

func TestActivateEntersLoading(t *testing.T) {
	store := NewStore()
	epoch := store.Activate("sess-1")

	assert.Equal(t, "sess-1", store.SessionID())
	assert.Equal(t, StateLoading, store.State())
	assert.True(t, store.Busy())
	assert.Zero(t, store.Len())
	assert.NotZero(t, epoch)
}

func TestApplyHistoryInstallsTranscript(t *testing.T) {
	store := NewStore()
	epoch := store.Activate("sess-1")

	require.True(t, store.ApplyHistory(epoch, history("hi", "hello"), nil))
	assert.Equal(t, StateIdle, store.State())
	assert.Equal(t, 2, store.Len())
}

func TestEmptyHistorySeedsGreeting(t *testing.T) {
	store := NewStore()
	epoch := store.Activate("sess-new")

	require.True(t, store.ApplyHistory(epoch, nil, nil))
	require.Equal(t, 1, store.Len(), "an empty history must never yield an empty transcript")

	seed := store.Messages()[0]
	assert.Equal(t, model.RoleAssistant, seed.Role)
	assert.Equal(t, Greeting, seed.Text)
	assert.True(t, seed.Synthetic)
}

func TestHistoryFailureIsNotFatal(t *testing.T) {
	store := NewStore()
	epoch := store.Activate("sess-1")

	fetchErr := &api.FetchError{Op: "history", Detail: "backend down", Status: 502}
	require.True(t, store.ApplyHistory(epoch, nil, fetchErr))

	assert.Equal(t, StateIdle, store.State())
	require.Equal(t, 1, store.Len())
	assert.Contains(t, store.Messages()[0].Text, "backend down")

	// Chatting must still be possible after a failed load.
	_, ok := store.BeginSend("still there?")
	assert.True(t, ok)
}

func TestSerializedSends(t *testing.T) {
	store := NewStore()
	epoch := store.Activate("sess-1")
	require.True(t, store.ApplyHistory(epoch, history("a", "b"), nil))

	first, ok := store.BeginSend("first question")
	require.True(t, ok)

	// A second send while the first is outstanding is rejected outright.
	_, ok = store.BeginSend("second question")
	assert.False(t, ok)
	assert.Equal(t, 3, store.Len(), "the rejected send must not touch the log")

	require.True(t, store.ApplySendResult(first, "first answer", nil))

	_, ok = store.BeginSend("second question")
	assert.True(t, ok, "the gate reopens once the first send completes")
}

func TestSendRejectedDuringLoad(t *testing.T) {
	store := NewStore()
	store.Activate("sess-1")

	_, ok := store.BeginSend("too early")
	assert.False(t, ok)
}

func TestSendAppendsOptimistically(t *testing.T) {
	store := NewStore()
	epoch := store.Activate("sess-1")
	require.True(t, store.ApplyHistory(epoch, nil, nil))

	_, ok := store.BeginSend("where is main?")
	require.True(t, ok)

	last := store.Messages()[store.Len()-1]
	assert.Equal(t, model.RoleUser, last.Role)
	assert.Equal(t, "where is main?", last.Text)
	assert.Equal(t, StateSending, store.State())
}

func TestSendFailureIsVisibleInTranscript(t *testing.T) {
	store := NewStore()
	epoch := store.Activate("sess-1")
	require.True(t, store.ApplyHistory(epoch, nil, nil))

	sendEpoch, ok := store.BeginSend("hello")
	require.True(t, ok)

	chatErr := &api.ChatError{Detail: "model unavailable", Status: 503}
	require.True(t, store.ApplySendResult(sendEpoch, "", chatErr))

	last := store.Messages()[store.Len()-1]
	assert.Equal(t, model.RoleAssistant, last.Role)
	assert.Contains(t, last.Text, "model unavailable")
	assert.Equal(t, StateIdle, store.State())
	assert.NotEmpty(t, store.LastError())
}

func TestStaleHistoryIsDiscarded(t *testing.T) {
	store := NewStore()
	epochA := store.Activate("sess-a")
	epochB := store.Activate("sess-b")

	// Session A's fetch resolves after the user switched to B.
	assert.False(t, store.ApplyHistory(epochA, history("from a", "reply a"), nil))
	assert.Equal(t, "sess-b", store.SessionID())
	assert.Zero(t, store.Len(), "a stale response must not touch the new session's log")

	require.True(t, store.ApplyHistory(epochB, history("from b", "reply b"), nil))
	assert.Equal(t, "from b", store.Messages()[0].Text)
}

func TestStaleSendIsDiscarded(t *testing.T) {
	store := NewStore()
	epoch := store.Activate("sess-a")
	require.True(t, store.ApplyHistory(epoch, nil, nil))

	sendEpoch, ok := store.BeginSend("question for a")
	require.True(t, ok)

	store.Activate("sess-b")
	assert.False(t, store.ApplySendResult(sendEpoch, "late answer for a", nil))
	assert.Zero(t, store.Len())
}

func TestDeactivateClearsEverything(t *testing.T) {
	store := NewStore()
	epoch := store.Activate("sess-1")
	require.True(t, store.ApplyHistory(epoch, history("q", "a"), nil))

	store.Deactivate()
	assert.Empty(t, store.SessionID())
	assert.Zero(t, store.Len())
	assert.Equal(t, StateIdle, store.State())

	_, ok := store.BeginSend("into the void")
	assert.False(t, ok, "no sends without an active session")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "sending", StateSending.String())
}
