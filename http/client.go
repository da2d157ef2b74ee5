package http

import (
	"sort"
	"strings"
)

// Client creates Requests that share a base URL, default headers, an
// Opener and a proxy. Client holds no per-request state and is safe for
// concurrent use; the Requests it creates are not.
type Client struct {
	baseURL   string
	headers   map[string]string
	opener    Opener
	proxyHost string
	proxyPort int
	options   []Option
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a new Client with the given options.
//
// Example:
//
//	client := http.NewClient(
//	    http.WithBaseURL("https://api.example.com"),
//	    http.WithHeader("Authorization", "Bearer token"),
//	)
//
//	body, err := client.Get("/users").Body("")
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		headers: make(map[string]string),
	}
	for _, option := range options {
		option(client)
	}
	if client.opener == nil {
		client.opener = DefaultOpener()
	}
	return client
}

// WithBaseURL sets the base URL for all requests made by this client.
// The base URL is prepended to the path given to each request.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHeader adds a default header to all requests made by this client.
// Headers set on individual requests override these defaults.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithClientOpener sets the Opener shared by all requests of this client.
func WithClientOpener(opener Opener) ClientOption {
	return func(c *Client) {
		c.opener = opener
	}
}

// WithProxy routes all requests of this client through an HTTP proxy.
func WithProxy(host string, port int) ClientOption {
	return func(c *Client) {
		c.proxyHost = host
		c.proxyPort = port
	}
}

// WithRequestOptions adds Options applied to every Request.
func WithRequestOptions(options ...Option) ClientOption {
	return func(c *Client) {
		c.options = append(c.options, options...)
	}
}

// New creates a Request for method and path, relative to the base URL.
func (c *Client) New(method, path string) *Request {
	options := append([]Option{WithOpener(c.opener)}, c.options...)
	req := New(method, c.resolve(path), options...)
	if c.proxyHost != "" {
		req.UseProxy(c.proxyHost, c.proxyPort)
	}

	names := make([]string, 0, len(c.headers))
	for name := range c.headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		req.Header(name, c.headers[name])
	}
	return req
}

// Get is a convenience method for creating GET requests.
func (c *Client) Get(path string) *Request {
	return c.New(MethodGet, path)
}

// Post is a convenience method for creating POST requests.
func (c *Client) Post(path string) *Request {
	return c.New(MethodPost, path)
}

// GetWithParams creates a GET request with params appended as a query string.
func (c *Client) GetWithParams(path string, params *Params, encode bool) *Request {
	return c.withParams(MethodGet, path, params, encode)
}

// PostWithParams creates a POST request with params appended as a query string.
func (c *Client) PostWithParams(path string, params *Params, encode bool) *Request {
	return c.withParams(MethodPost, path, params, encode)
}

func (c *Client) withParams(method, path string, params *Params, encode bool) *Request {
	rawURL, err := AppendQuery(c.resolve(path), params)
	if err == nil && encode {
		rawURL, err = EncodeURL(rawURL)
	}
	if err != nil {
		req := NewWithURL(method, nil, WithOpener(c.opener))
		req.err = err
		return req
	}
	return c.New(method, rawURL)
}

// resolve joins the base URL and path. Absolute URLs are used as is.
func (c *Client) resolve(path string) string {
	if c.baseURL == "" || strings.Contains(path, "://") {
		return path
	}
	if path == "" {
		return c.baseURL
	}
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
