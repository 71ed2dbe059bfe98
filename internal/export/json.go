// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts to JSON format.
// JSON exports always include the complete transcript and do not respect
// filtering options, so the output is a faithful copy of what the server
// returned.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter. The options parameter is
// accepted for consistency with other exporters.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonTranscript struct {
	SessionID  string        `json:"session_id"`
	Repo       string        `json:"repo"`
	Date       *time.Time    `json:"date,omitempty"`
	ExportedAt time.Time     `json:"exported_at"`
	Messages   []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Export converts a transcript to indented JSON.
func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("transcript is nil")
	}

	out := jsonTranscript{
		SessionID:  t.Session.ID,
		Repo:       t.Session.Repo,
		ExportedAt: time.Now().UTC(),
		Messages:   make([]jsonMessage, 0, len(t.Messages)),
	}
	if !t.Session.Date.IsZero() {
		d := t.Session.Date
		out.Date = &d
	}
	for _, msg := range t.Messages {
		out.Messages = append(out.Messages, jsonMessage{
			Role: string(msg.Role),
			Text: msg.Text,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
