// Package api is the gateway to the remote Red Connect HTTP API.
// Every call is a single attempt with no timeout and no retry. Any non-2xx
// response becomes an *Error carrying the server's detail text when present.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Error is returned for non-2xx responses and transport failures.
// Status is 0 when the request never produced a response.
type Error struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "Failed to " + e.Op
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client calls the remote API. The zero value is not usable; use New.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	observe Observer
}

// Observer is notified after every call with the remote status (0 on transport failure).
type Observer func(op string, status int, elapsed time.Duration)

// New creates a client for baseURL. A nil httpClient uses a client with no timeout.
// PRE: baseURL is an absolute http(s) URL without a trailing path
// POST: Returned client sends no Authorization header
func New(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// WithToken returns a copy that authenticates as token. An empty token sends no header.
// INVARIANT: The receiver is not mutated
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Observed returns a copy that reports each call to fn.
func (c *Client) Observed(fn Observer) *Client {
	cp := *c
	cp.observe = fn
	return &cp
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs one request. body is JSON-encoded when non-nil; out is decoded
// from the response when non-nil and the body is not empty.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if c.observe != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		c.observe(op, status, time.Since(start))
	}
	if err != nil {
		slog.Warn("api_event", "event", "request_failed", "op", op, "error", err)
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := parseDetail(respBody)
		slog.Info("api_event", "event", "non_2xx", "op", op, "status", resp.StatusCode)
		return &Error{Op: op, Status: resp.StatusCode, Detail: detail}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// parseDetail extracts a human-readable detail from an error body.
// The server sends {"detail": "..."} or, for validation failures, a list of objects with "msg".
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// Page holds skip/limit paging parameters. Zero Limit omits both.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) apply(q url.Values) {
	if p.Limit > 0 {
		q.Set("skip", fmt.Sprint(p.Skip))
		q.Set("limit", fmt.Sprint(p.Limit))
	}
}
