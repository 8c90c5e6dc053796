// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package supplier_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/momeni/flightagg/pkg/adapter/supplier"
	"github.com/momeni/flightagg/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
		},
	))
	t.Cleanup(srv.Close)
	return srv
}

func TestPostJSONSendsAndDecodes(t *testing.T) {
	var gotMethod, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotType = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			_, _ = io.WriteString(w, `[{"name":"b","count":3}]`)
		},
	))
	defer srv.Close()

	c := supplier.NewHTTPClient(supplier.DefaultClientSettings())
	var out []echo
	err := supplier.PostJSON(
		context.Background(), c, srv.URL, echo{Name: "a", Count: 2}, &out,
	)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"name":"a","count":2}`, string(gotBody))
	assert.Equal(t, []echo{{Name: "b", Count: 3}}, out)
}

func TestPostJSONEmptyBodies(t *testing.T) {
	c := supplier.NewHTTPClient(supplier.DefaultClientSettings())
	for _, body := range []string{"", "  \n", "null", "[]"} {
		srv := newServer(t, http.StatusOK, body)
		var out []echo
		err := supplier.PostJSON(context.Background(), c, srv.URL, echo{}, &out)
		assert.NoError(t, err, "body: %q", body)
		assert.Empty(t, out, "body: %q", body)
	}
}

func TestPostJSONFailures(t *testing.T) {
	c := supplier.NewHTTPClient(supplier.DefaultClientSettings())
	ctx := context.Background()
	var out []echo

	srv := newServer(t, http.StatusServiceUnavailable, strings.Repeat("x", 500))
	err := supplier.PostJSON(ctx, c, srv.URL, echo{}, &out)
	assert.ErrorIs(t, err, repo.ErrTransport)
	assert.ErrorContains(t, err, "HTTP 503")
	assert.Less(t, len(err.Error()), 300, "long bodies are truncated")

	srv = newServer(t, http.StatusOK, `{"name":`)
	err = supplier.PostJSON(ctx, c, srv.URL, echo{}, &out)
	assert.ErrorIs(t, err, repo.ErrMapping)

	srv = newServer(t, http.StatusOK, `{"name":"not an array"}`)
	err = supplier.PostJSON(ctx, c, srv.URL, echo{}, &out)
	assert.ErrorIs(t, err, repo.ErrMapping)

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	err = supplier.PostJSON(ctx, c, closed.URL, echo{}, &out)
	assert.ErrorIs(t, err, repo.ErrTransport)
}

func TestPostJSONHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		},
	))
	defer srv.Close()

	c := supplier.NewHTTPClient(supplier.DefaultClientSettings())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var out []echo
	start := time.Now()
	err := supplier.PostJSON(ctx, c, srv.URL, echo{}, &out)
	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, err, repo.ErrTransport)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestSweepIdleStopsWithContext(t *testing.T) {
	c := supplier.NewHTTPClient(supplier.DefaultClientSettings())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		supplier.SweepIdle(ctx, c, 10*time.Millisecond)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
