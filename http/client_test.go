package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_New(t *testing.T) {
	opener := newFakeOpener()
	client := NewClient(
		WithBaseURL("http://api.example.com/v1/"),
		WithHeader("Authorization", "Bearer token"),
		WithHeader("Accept", "application/json"),
		WithClientOpener(opener),
	)

	req := client.Get("/users")
	require.NoError(t, req.Err())
	assert.Equal(t, "http://api.example.com/v1/users", req.URL().String())
	assert.Equal(t, MethodGet, opener.conn.method)
	assert.Equal(t, "Bearer token", opener.conn.headers["Authorization"])
	assert.Equal(t, "application/json", opener.conn.headers["Accept"])

	req.Accept("text/plain")
	assert.Equal(t, "text/plain", opener.conn.headers["Accept"], "request headers override defaults")
}

func TestClient_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		path     string
		expected string
	}{
		{"No base URL", "", "http://a/b", "http://a/b"},
		{"Joins with one slash", "http://a/", "/b", "http://a/b"},
		{"Adds missing slash", "http://a", "b", "http://a/b"},
		{"Empty path", "http://a/x", "", "http://a/x"},
		{"Absolute path wins", "http://a", "https://other/c", "https://other/c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(WithBaseURL(tt.baseURL), WithClientOpener(newFakeOpener()))
			assert.Equal(t, tt.expected, client.resolve(tt.path))
		})
	}
}

func TestClient_WithParams(t *testing.T) {
	client := NewClient(WithBaseURL("http://host"), WithClientOpener(newFakeOpener()))

	req := client.GetWithParams("/search", ParamsOf("q", "a b", "page", 2), true)
	require.NoError(t, req.Err())
	assert.Equal(t, "http://host/search?q=a%20b&page=2", req.URL().String())

	req = client.PostWithParams("/search", ParamsOf("q", "x"), false)
	require.NoError(t, req.Err())
	assert.Equal(t, MethodPost, req.Method())
	assert.Equal(t, "http://host/search?q=x", req.URL().String())

	bad := NewClient(WithBaseURL("relative"), WithClientOpener(newFakeOpener()))
	req = bad.GetWithParams("p", ParamsOf("q", 1), false)
	assert.True(t, IsURLFormat(req.Err()))
}

func TestClient_ProxyAndRequestOptions(t *testing.T) {
	opener := proxyFakeOpener{newFakeOpener()}
	opener.conn.closeErr = assert.AnError
	client := NewClient(
		WithClientOpener(opener),
		WithProxy("proxy.local", 8080),
		WithRequestOptions(WithIgnoreCloseErrors(false)),
	)

	err := client.Post("http://example.com").Send("x").Close()
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, "proxy.local", opener.proxyHost)
	assert.Equal(t, 8080, opener.proxyPort)
}
