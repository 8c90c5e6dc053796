// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package supplier contains the HTTP plumbing which is shared by the
// flight supplier adapters (see its crazyair and toughjet sub-packages).
// It creates pooled HTTP clients and performs one JSON POST call,
// classifying its errors as repo.ErrTransport or repo.ErrMapping.
package supplier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/flightagg/pkg/core/repo"
)

const (
	maxResponseBody = 10 * 1024 * 1024 // 10 MB
	maxErrorBody    = 200
)

// ClientSettings contains the connection pool settings of a supplier
// HTTP client.
type ClientSettings struct {
	ConnectTimeout  time.Duration // dialing timeout
	ResponseTimeout time.Duration // waiting time for response headers
	KeepAlive       time.Duration // TCP keep-alive probes interval
	IdleTimeout     time.Duration // idle connections are closed after it
	MaxIdleConns    int           // idle connections of all hosts
	MaxConnsPerHost int           // idle and active connections per host
}

// DefaultClientSettings returns the ClientSettings which are used for
// the missing configuration settings.
func DefaultClientSettings() ClientSettings {
	return ClientSettings{
		ConnectTimeout:  300 * time.Millisecond,
		ResponseTimeout: 500 * time.Millisecond,
		KeepAlive:       10 * time.Second,
		IdleTimeout:     30 * time.Second,
		MaxIdleConns:    200,
		MaxConnsPerHost: 100,
	}
}

// NewHTTPClient creates an HTTP client with its own connection pool.
// Each supplier should have its own client, so a slow supplier may not
// exhaust the connections of another one. The client itself has no
// overall timeout since each call is bounded by its context.
func NewHTTPClient(s ClientSettings) *http.Client {
	dialer := &net.Dialer{
		Timeout:   s.ConnectTimeout,
		KeepAlive: s.KeepAlive,
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          s.MaxIdleConns,
			MaxIdleConnsPerHost:   s.MaxConnsPerHost,
			MaxConnsPerHost:       s.MaxConnsPerHost,
			IdleConnTimeout:       s.IdleTimeout,
			ResponseHeaderTimeout: s.ResponseTimeout,
			TLSHandshakeTimeout:   s.ConnectTimeout,
		},
	}
}

// SweepIdle closes the idle connections of c every interval until ctx
// is done. It blocks, so it should be run in its own goroutine.
func SweepIdle(ctx context.Context, c *http.Client, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			c.CloseIdleConnections()
			return
		case <-t.C:
			c.CloseIdleConnections()
		}
	}
}

// PostJSON encodes in as JSON and posts it to the url. A successful
// (2xx) response body is decoded into out, unless it is empty, which
// leaves out untouched. Failing to send the request or receiving
// a non-2xx status code are reported as repo.ErrTransport errors,
// while an undecodable body is reported as a repo.ErrMapping error.
func PostJSON(
	ctx context.Context, c *http.Client, url string, in, out any,
) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %w", repo.ErrMapping, err)
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, url, bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", repo.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", repo.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", repo.ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf(
			"%w: HTTP %d: %s", repo.ErrTransport,
			resp.StatusCode, truncate(string(respBody), maxErrorBody),
		)
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err = json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decode response: %w", repo.ErrMapping, err)
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
