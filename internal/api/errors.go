// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Error variables for conditions callers may want to branch on.
var (
	// ErrNoBaseURL indicates the client was constructed without a server URL.
	ErrNoBaseURL = fmt.Errorf("backend server URL not configured")
)

// IngestionError reports a failed /ingest call.
type IngestionError struct {
	Detail string
	Status int
}

// Error implements the error interface.
func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion failed (HTTP %d): %s", e.Status, e.Detail)
}

// ChatError reports a failed /chat call.
type ChatError struct {
	Detail string
	Status int
}

// Error implements the error interface.
func (e *ChatError) Error() string {
	return fmt.Sprintf("chat failed (HTTP %d): %s", e.Status, e.Detail)
}

// FetchError reports a failed list, history, or delete call.
type FetchError struct {
	Op     string // "list", "history", "delete", "health"
	Detail string
	Status int
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s failed (HTTP %d): %s", e.Op, e.Status, e.Detail)
}

// Detail extracts a human-readable message from an error, preferring the
// backend-supplied detail over Go error prose.
func Detail(err error) string {
	switch e := err.(type) {
	case *IngestionError:
		return e.Detail
	case *ChatError:
		return e.Detail
	case *FetchError:
		return e.Detail
	case nil:
		return ""
	default:
		return err.Error()
	}
}

// errorDetail recovers the display message from a non-2xx response body.
//
// The backend reports errors as {"detail": ...} where detail is usually a
// string but may be absent or a nested structure (FastAPI validation errors
// arrive as arrays of objects). Structured details are re-serialized as
// compact JSON rather than dropped.
func errorDetail(status int, body []byte) string {
	var parsed struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Detail) > 0 {
		var s string
		if err := json.Unmarshal(parsed.Detail, &s); err == nil {
			if s != "" {
				return s
			}
		} else {
			return string(parsed.Detail)
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}
