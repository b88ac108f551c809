package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pulsebridge "github.com/opengovern/stream-pulse-bridge"
)

func newFakeServices(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"s1"}]`))
	})
	mux.HandleFunc("/api/metrics/session/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"SESSION_NOT_FOUND"}`))
	})
	mux.HandleFunc("/pulse/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"value":{"name":"n","alive":true},"stream_id":"h1"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPulseCommand(t *testing.T) {
	srv := newFakeServices(t)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	t.Setenv("PULSE_ANALYTICS_API", srv.URL)
	t.Setenv("PULSE_STATS_API", srv.URL+"/pulse/")
	t.Setenv("PULSE_LEGACY_PULSE_HOST", u.Host)

	out, err := run(t, "pulse", "abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"n","alive":true,"hostId":"h1","isWowza":false,"staticPrefix":false}`, out)

	out, err = run(t, "pulse", "abc", "--raw")
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":{"name":"n","alive":true},"stream_id":"h1"}`, out)
}

func TestSessionsCommandWithFlags(t *testing.T) {
	srv := newFakeServices(t)
	t.Setenv("PULSE_ANALYTICS_API", "")
	t.Setenv("PULSE_STATS_API", "")

	out, err := run(t, "sessions", "abc", "--days", "7",
		"--analytics-api", srv.URL, "--stats-api", srv.URL+"/pulse/", "--timeout", "2s")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"s1"}]`, out)
}

func TestSessionCommandSurfacesRequestError(t *testing.T) {
	srv := newFakeServices(t)
	t.Setenv("PULSE_ANALYTICS_API", srv.URL)
	t.Setenv("PULSE_STATS_API", srv.URL+"/pulse/")

	_, err := run(t, "session", "missing", "--points", "50")
	reqErr, ok := pulsebridge.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.JSONEq(t, `{"code":"SESSION_NOT_FOUND"}`, string(reqErr.Payload))
}

func TestMissingConfiguration(t *testing.T) {
	t.Setenv("PULSE_ANALYTICS_API", "")
	t.Setenv("PULSE_STATS_API", "")

	_, err := run(t, "pulse", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYTICS_API")
}
