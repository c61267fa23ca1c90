package openrouter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErr "github.com/aide-studio/engine/pkg/errors"
)

func newClient(url string) *Client {
	return New(Config{BaseURL: url + "/", Referer: "http://localhost:5000", Title: "Rizz Codes", Timeout: 2 * time.Second}, nil)
}

func TestChatCompletionForwardsHeadersAndBody(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-x", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "http://localhost:5000", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "Rizz Codes", r.Header.Get("X-Title"))
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gen-1","choices":[]}`))
	}))
	defer srv.Close()

	raw, err := newClient(srv.URL).ChatCompletion(context.Background(), "sk-x", "anthropic/claude-3.5-sonnet",
		json.RawMessage(`[{"role":"user","content":"hi"}]`), map[string]any{"max_tokens": 10})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"gen-1","choices":[]}`, string(raw))

	require.Equal(t, "anthropic/claude-3.5-sonnet", got["model"])
	require.Equal(t, float64(10), got["max_tokens"])
	require.Len(t, got["messages"], 1)
}

func TestChatCompletionOptionsOverrideModel(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).ChatCompletion(context.Background(), "k", "default/model", nil, map[string]any{"model": "other/model"})
	require.NoError(t, err)
	require.Equal(t, "other/model", got["model"])
}

func TestUpstreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).ChatCompletion(context.Background(), "k", "m", nil, nil)
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeUpstream))

	var ae *appErr.AppError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, http.StatusTooManyRequests, ae.Meta["status"])
}

func TestUpstreamInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).ListModels(context.Background())
	require.True(t, appErr.IsCode(err, appErr.CodeUpstream))
}

func TestUpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClient(url).ListModels(context.Background())
	require.True(t, appErr.IsCode(err, appErr.CodeUpstream))
}

func TestListModelsSendsNoAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "Rizz Codes", r.Header.Get("X-Title"))
		_, _ = w.Write([]byte(`{"data":[{"id":"m1","name":"Model One","context_length":8192}]}`))
	}))
	defer srv.Close()

	raw, err := newClient(srv.URL).ListModels(context.Background())
	require.NoError(t, err)

	var list ModelList
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Data, 1)
	require.Equal(t, 8192, list.Data[0].ContextLength)
}

func TestTimeoutCancelsUpstream(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err := c.ListModels(context.Background())
	require.True(t, appErr.IsCode(err, appErr.CodeUpstream))
}
