package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/trails/internal/config"
)

func serveBody(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRun_PrintsTrails(t *testing.T) {
	base := serveBody(t, http.StatusOK, `[
		{"id":"123e4567-e89b-12d3-a456-426614174000","name":"Ridge Trail","distance":5.2,"difficulty":"moderate"},
		{"id":"6f1c2a3b-4d5e-4f60-8a71-92b3c4d5e6f7","name":"Lakeshore Loop","distance":3.4,"difficulty":"easy","lastMaintained":"2025-04-12T08:00:00Z"}
	]`)
	var out bytes.Buffer

	code := run(context.Background(), config.ClientConfig{BaseURL: base, Validate: true}, quiet, &out)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Ridge Trail")
	assert.Contains(t, out.String(), "2025-04-12")
	assert.Contains(t, out.String(), "5.2")
}

func TestRun_ExitCodes(t *testing.T) {
	extreme := `[{"id":"123e4567-e89b-12d3-a456-426614174000","name":"X","distance":1,"difficulty":"extreme"}]`

	cases := map[string]struct {
		status   int
		body     string
		validate bool
		want     int
	}{
		"server error":         {http.StatusInternalServerError, "", true, 1},
		"invalid element":      {http.StatusOK, extreme, true, 2},
		"validation turned off": {http.StatusOK, extreme, false, 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			base := serveBody(t, tc.status, tc.body)

			code := run(context.Background(), config.ClientConfig{BaseURL: base, Validate: tc.validate}, quiet, io.Discard)

			assert.Equal(t, tc.want, code)
		})
	}
}

func TestRun_BadBaseURL(t *testing.T) {
	code := run(context.Background(), config.ClientConfig{BaseURL: "ftp://nowhere"}, quiet, io.Discard)

	assert.Equal(t, 1, code)
}
