package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/jira-intray/internal/logging"
)

// fakeSettings is an in-memory SettingsReader.
type fakeSettings struct {
	values map[string]string
}

func (f *fakeSettings) GetValue(key string) (string, error) {
	return f.values[key], nil
}

func TestGetDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/status", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"authenticated": true}`))
	}))
	defer srv.Close()

	c := New(&fakeSettings{values: map[string]string{"server_url": srv.URL}}, logging.Nop())

	var out struct {
		Authenticated bool `json:"authenticated"`
	}
	require.NoError(t, c.Get(context.Background(), "/api/auth/status", &out))
	assert.True(t, out.Authenticated)
}

func TestPostSendsJSONBody(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		received = string(data)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(&fakeSettings{values: map[string]string{"server_url": srv.URL}}, logging.Nop())
	body := map[string]any{"issue_key": "PROJ-9", "days": 1}
	require.NoError(t, c.Post(context.Background(), "/api/reminders/snooze", body, nil))
	assert.JSONEq(t, `{"issue_key":"PROJ-9","days":1}`, received)
}

func TestNonOKStatusReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(&fakeSettings{values: map[string]string{"server_url": srv.URL}}, logging.Nop())
	err := c.Get(context.Background(), "/api/reminders/check", nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "/api/reminders/check", httpErr.Endpoint)
	assert.False(t, IsAuthExpired(err))
}

func TestUnauthorizedReturnsAuthExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(&fakeSettings{values: map[string]string{"server_url": srv.URL}}, logging.Nop())
	err := c.Get(context.Background(), "/api/reminders/check", nil)
	require.Error(t, err)
	assert.True(t, IsAuthExpired(err))
	assert.False(t, IsNetworkError(err))
}

func TestTransportFailureReturnsNetworkError(t *testing.T) {
	// A closed server gives a connection refused error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(&fakeSettings{values: map[string]string{"server_url": url}}, logging.Nop())
	err := c.Get(context.Background(), "/api/auth/status", nil)
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.False(t, IsAuthExpired(err))
}

func TestBaseURLReReadOnEveryCall(t *testing.T) {
	var hits1, hits2 int
	srv1 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits1++
		w.Write([]byte(`{}`))
	}))
	defer srv1.Close()
	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits2++
		w.Write([]byte(`{}`))
	}))
	defer srv2.Close()

	settings := &fakeSettings{values: map[string]string{"server_url": srv1.URL}}
	c := New(settings, logging.Nop())

	require.NoError(t, c.Get(context.Background(), "/api/x", nil))
	settings.values["server_url"] = srv2.URL
	require.NoError(t, c.Get(context.Background(), "/api/x", nil))

	assert.Equal(t, 1, hits1)
	assert.Equal(t, 1, hits2)
}

func TestCookiesPersistAcrossCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s3cret"})
			w.Write([]byte(`{}`))
			return
		}
		cookie, err := r.Cookie("session")
		if err != nil || cookie.Value != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(&fakeSettings{values: map[string]string{"server_url": srv.URL}}, logging.Nop())
	require.NoError(t, c.Get(context.Background(), "/login", nil))
	require.NoError(t, c.Get(context.Background(), "/protected", nil))
}

func TestBaseURLFallsBackToConfigDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("JIRA_INTRAY_SERVER_URL", "")
	c := New(&fakeSettings{values: map[string]string{}}, logging.Nop())
	assert.Contains(t, c.BaseURL(), "http://")
}
