// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	path := writeConfig(t, "server:\n    address: 127.0.0.1:9090\n")
	out, err := run(t, "config", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "address: 127.0.0.1:9090")
	assert.Contains(t, out, "url: https://api.toughjet.com/flights")

	_, err = run(t, "config", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSearchCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `[{
				"airline":"Vueling","price":99.5,
				"departureAirportCode":"BCN","destinationAirportCode":"MAD",
				"departureDate":"2025-05-10T10:00:00",
				"arrivalDate":"2025-05-10T11:15:00"
			}]`)
		},
	))
	defer srv.Close()
	path := writeConfig(t, fmt.Sprintf(`
logging:
    level: error
suppliers:
    crazy-air:
        url: %s
    tough-jet:
        enabled: false
`, srv.URL))

	out, err := run(t, "search", "-c", path,
		"--origin", "BCN", "--destination", "MAD",
		"--departure", "2025-05-10", "--return", "2025-05-12",
		"--passengers", "2",
	)
	require.NoError(t, err)
	var flights []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &flights))
	require.Len(t, flights, 1)
	assert.Equal(t, "Vueling", flights[0]["airline"])
	assert.Equal(t, "CrazyAir", flights[0]["supplier"])
	assert.Equal(t, 99.5, flights[0]["fare"])

	_, err = run(t, "search", "-c", path,
		"--origin", "bcn", "--destination", "MAD",
		"--departure", "2025-05-10", "--return", "2025-05-12",
	)
	assert.ErrorContains(t, err, "IATA CODE must match")

	_, err = run(t, "search", "-c", path,
		"--origin", "BCN", "--destination", "MAD",
		"--departure", "2025-05-10", "--return", "2025-05-12",
		"--passengers", "9",
	)
	assert.ErrorContains(t, err, "Number of passengers must be between 1 and 4")
}
