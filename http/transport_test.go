package http

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_FormRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "a b", r.PostForm.Get("name"))
		assert.Equal(t, []string{"x", "y"}, r.PostForm["tags"])
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, "stored")
	}))
	defer server.Close()

	req := Post(server.URL + "/items").Form(ParamsOf("name", "a b", "tags", []string{"x", "y"}))
	created, err := req.Created()
	require.NoError(t, err)
	assert.True(t, created)

	body, err := req.Body("")
	require.NoError(t, err)
	assert.Equal(t, "stored", body)
}

func TestTransport_MultipartRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "1", r.FormValue("a"))
		assert.Equal(t, "2", r.FormValue("b"))

		file, header, err := r.FormFile("doc")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "notes.txt", header.Filename)
		assert.Equal(t, "hello", string(content))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ok, err := Post(server.URL).
		Part("a", "1").
		Part("b", "2").
		PartWithType("doc", "notes.txt", "text/plain", "hello").
		OK()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTransport_JSONAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json;charset=UTF-8", r.Header.Get("Content-Type"))
		assert.Equal(t, "reach-test", r.Header.Get("User-Agent"))
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"John"}`, string(b))
		assert.Equal(t, int64(len(b)), r.ContentLength)
		w.Header().Set("X-Count", "12")
	}))
	defer server.Close()

	req := Post(server.URL).UserAgent("reach-test").JSON(`{"name":"John"}`)
	count, err := req.IntHeader("X-Count", 0)
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	timing, ok := req.Timing()
	require.True(t, ok)
	assert.False(t, timing.StartTime.IsZero())
	assert.Greater(t, timing.TotalTime, time.Duration(0))
}

func TestTransport_RedirectIsNotFollowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusFound)
			return
		}
		t.Errorf("redirect was followed to %s", r.URL.Path)
	}))
	defer server.Close()

	req := Get(server.URL + "/old")
	redirect, err := req.Redirect()
	require.NoError(t, err)
	assert.True(t, redirect)

	location, err := req.ResponseHeader("Location")
	require.NoError(t, err)
	assert.Equal(t, "/new", location)
}

func TestTransport_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such user", http.StatusNotFound)
	}))
	defer server.Close()

	req := Get(server.URL + "/users/9")
	notFound, err := req.NotFound()
	require.NoError(t, err)
	assert.True(t, notFound)

	body, err := req.Body("")
	require.NoError(t, err)
	assert.Equal(t, "no such user\n", body)
}

func TestTransport_ConnectionRefused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	opener := NewOpener(WithTimeout(2 * time.Second))
	_, err = Get("http://"+addr, WithOpener(opener)).Code()
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestTransport_Proxy(t *testing.T) {
	var proxied *url.URL
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied = r.URL
		io.WriteString(w, "via proxy")
	}))
	defer proxy.Close()

	proxyURL, err := url.Parse(proxy.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(proxyURL.Port())
	require.NoError(t, err)

	body, err := Get("http://origin.invalid/resource").
		UseProxy(proxyURL.Hostname(), port).
		Body("")
	require.NoError(t, err)
	assert.Equal(t, "via proxy", body)
	require.NotNil(t, proxied)
	assert.Equal(t, "origin.invalid", proxied.Host)
	assert.Equal(t, "/resource", proxied.Path)
}

func TestTransport_ProxyNeedsHTTPTransport(t *testing.T) {
	opener := NewOpener(WithHTTPClient(&http.Client{Transport: roundTripperFunc(nil)}))
	_, err := Get("http://example.com", WithOpener(opener)).UseProxy("proxy", 8080).Code()
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
