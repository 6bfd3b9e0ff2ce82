package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionResponse(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(body)
}

func TestGenerate(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "make a table", req.Messages[1].Content)

		w.Write([]byte(completionResponse("```go\npackage main\n\nfunc main() {}\n```")))
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret-key", "test-model", 5*time.Second)
	script, err := c.Generate(context.Background(), "make a table")
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nfunc main() {}", script)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "/chat/completions", gotPath)
}

func TestGenerateAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(server.URL, "bad-key", "m", 5*time.Second)
	_, err := c.Generate(context.Background(), "x")
	require.Error(t, err)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Equal(t, KindAuth, Kind(err))
}

func TestGenerateServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("backend exploded"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", "m", 5*time.Second)
	_, err := c.Generate(context.Background(), "x")
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusInternalServerError, svcErr.StatusCode)
	assert.Contains(t, svcErr.Body, "backend exploded")
	assert.Equal(t, KindService, Kind(err))
}

func TestGenerateEmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", "m", 5*time.Second)
	_, err := c.Generate(context.Background(), "x")
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Body, "empty completion")
}

func TestGenerateTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := NewClient(server.URL, "k", "m", time.Second)
	_, err := c.Generate(context.Background(), "x")
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, KindTransport, Kind(err))
}

func TestExtractScript(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "go fence",
			in:   "Here you go:\n```go\npackage main\n```\nEnjoy.",
			want: "package main",
		},
		{
			name: "bare fence",
			in:   "```\npackage main\n```",
			want: "package main",
		},
		{
			name: "no fence",
			in:   "package main\n\nfunc main() {}",
			want: "package main\n\nfunc main() {}",
		},
		{
			name: "unterminated fence falls through",
			in:   "```go\npackage main",
			want: "```go\npackage main",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractScript(tt.in))
		})
	}
}
