// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/buddy-tui/internal/model"
)

// Configuration constants for the backend API.
const (
	// DefaultTimeout bounds every request so a lost backend never leaves the
	// client stuck in a sending state.
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// defaultRequestRate limits request admission client-side so a runaway
	// caller cannot hammer the backend.
	defaultRequestRate  = rate.Limit(5)
	defaultRequestBurst = 10
)

// Client communicates with the Onboarding Buddy backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit overrides the client-side request rate limit.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(defaultRequestRate, defaultRequestBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type ingestRequest struct {
	RepoURL string `json:"repo_url"`
	APIKey  string `json:"api_key,omitempty"`
}

type ingestResponse struct {
	SessionID string `json:"session_id"`
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type sessionEntry struct {
	ID           string `json:"id"`
	Repo         string `json:"repo"`
	Date         string `json:"date"`
	MessageCount int    `json:"message_count"`
}

type historyResponse struct {
	Messages []struct {
		Role string `json:"role"`
		Text string `json:"text"`
	} `json:"messages"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Ingest asks the backend to clone and index repoURL, returning the new
// session's id. The credential is passed through opaquely.
func (c *Client) Ingest(ctx context.Context, repoURL, apiKey string) (string, error) {
	body, status, err := c.post(ctx, "/ingest", ingestRequest{RepoURL: repoURL, APIKey: apiKey})
	if err != nil {
		return "", &IngestionError{Detail: err.Error(), Status: status}
	}
	if status != http.StatusOK {
		return "", &IngestionError{Detail: errorDetail(status, body), Status: status}
	}

	var resp ingestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &IngestionError{Detail: fmt.Sprintf("malformed response: %v", err), Status: status}
	}
	if resp.SessionID == "" {
		return "", &IngestionError{Detail: "backend returned no session id", Status: status}
	}
	return resp.SessionID, nil
}

// SendMessage sends text to the session and returns the assistant's reply.
func (c *Client) SendMessage(ctx context.Context, sessionID, text string) (string, error) {
	body, status, err := c.post(ctx, "/chat", chatRequest{SessionID: sessionID, Message: text})
	if err != nil {
		return "", &ChatError{Detail: err.Error(), Status: status}
	}
	if status != http.StatusOK {
		return "", &ChatError{Detail: errorDetail(status, body), Status: status}
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &ChatError{Detail: fmt.Sprintf("malformed response: %v", err), Status: status}
	}
	return resp.Response, nil
}

// ListSessions returns all known sessions in the backend's order.
func (c *Client) ListSessions(ctx context.Context) ([]model.Session, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/sessions")
	if err != nil {
		return nil, &FetchError{Op: "list", Detail: err.Error(), Status: status}
	}
	if status != http.StatusOK {
		return nil, &FetchError{Op: "list", Detail: errorDetail(status, body), Status: status}
	}

	var entries []sessionEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &FetchError{Op: "list", Detail: fmt.Sprintf("malformed response: %v", err), Status: status}
	}

	sessions := make([]model.Session, 0, len(entries))
	for _, e := range entries {
		sessions = append(sessions, model.Session{
			ID:           e.ID,
			Repo:         e.Repo,
			Date:         parseDate(e.Date),
			MessageCount: e.MessageCount,
		})
	}
	return sessions, nil
}

// GetHistory returns the session's transcript in insertion order.
//
// An empty result is a valid new-session response, not an error.
func (c *Client) GetHistory(ctx context.Context, sessionID string) ([]model.Message, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(sessionID))
	if err != nil {
		return nil, &FetchError{Op: "history", Detail: err.Error(), Status: status}
	}
	if status != http.StatusOK {
		return nil, &FetchError{Op: "history", Detail: errorDetail(status, body), Status: status}
	}

	var resp historyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &FetchError{Op: "history", Detail: fmt.Sprintf("malformed response: %v", err), Status: status}
	}

	messages := make([]model.Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		messages = append(messages, model.NewMessage(model.NormalizeRole(m.Role), m.Text))
	}
	return messages, nil
}

// DeleteSession removes the session from the backend.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	body, status, err := c.do(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(sessionID))
	if err != nil {
		return &FetchError{Op: "delete", Detail: err.Error(), Status: status}
	}
	if status != http.StatusOK {
		return &FetchError{Op: "delete", Detail: errorDetail(status, body), Status: status}
	}
	return nil
}

// Health reports whether the backend answers its health probe.
func (c *Client) Health(ctx context.Context) error {
	body, status, err := c.do(ctx, http.MethodGet, "/health")
	if err != nil {
		return &FetchError{Op: "health", Detail: err.Error(), Status: status}
	}
	if status != http.StatusOK {
		return &FetchError{Op: "health", Detail: errorDetail(status, body), Status: status}
	}

	var resp healthResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Status != "ok" {
		return &FetchError{Op: "health", Detail: "unexpected health response", Status: status}
	}
	return nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// post marshals payload and issues a POST. Returns body, status, and any
// transport-level error; HTTP-level failures are left to the caller so each
// operation can wrap them in its own error type.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.roundTrip(ctx, http.MethodPost, path, bytes.NewReader(raw))
}

func (c *Client) do(ctx context.Context, method, path string) ([]byte, int, error) {
	return c.roundTrip(ctx, method, path, nil)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body io.Reader) ([]byte, int, error) {
	if c.baseURL == "" {
		return nil, 0, ErrNoBaseURL
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "buddy-tui/0.1")

	c.logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	respBody, err := readResponse(resp)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return respBody, resp.StatusCode, nil
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// logRequest logs method and path only; never headers or bodies, which can
// carry the pass-through credential.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API request: %s %s", req.Method, req.URL.Path)
}

func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API response: %d (%v)", resp.StatusCode, duration)
}

// parseDate tolerates the handful of timestamp layouts the backend has
// emitted across versions.
func parseDate(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
