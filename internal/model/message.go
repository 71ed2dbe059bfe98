// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Buddy"
	default:
		return string(r)
	}
}

// NormalizeRole maps a wire-format role string to a Role.
//
// The backend stores Gemini's "model" role for replies; older entries may
// already use "assistant". Anything unrecognized is treated as assistant so a
// transcript never renders with a blank speaker.
func NormalizeRole(wire string) Role {
	switch strings.ToLower(strings.TrimSpace(wire)) {
	case "user":
		return RoleUser
	case "assistant", "model":
		return RoleAssistant
	default:
		return RoleAssistant
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a session transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// Synthetic marks client-side messages (greetings, in-transcript errors)
	// that were never persisted by the backend.
	Synthetic bool `json:"-"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, text string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(text string) Message {
	return NewMessage(RoleUser, text)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(text string) Message {
	return NewMessage(RoleAssistant, text)
}

// NewSyntheticMessage creates an assistant message that exists only in the
// client's in-memory log.
func NewSyntheticMessage(text string) Message {
	msg := NewMessage(RoleAssistant, text)
	msg.Synthetic = true
	return msg
}
