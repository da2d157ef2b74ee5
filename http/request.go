package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/url"

	"github.com/pkg/errors"
)

type bodyMode int

const (
	bodyNone bodyMode = iota
	bodyForm
	bodyJSON
	bodyMultipart
)

func (m bodyMode) String() string {
	switch m {
	case bodyForm:
		return "form"
	case bodyJSON:
		return "json"
	case bodyMultipart:
		return "multipart"
	default:
		return "none"
	}
}

// Request represents an HTTP request with a fluent builder pattern.
// Use Get, Post or New to create a Request and chain method calls to
// configure it and write its body.
//
// The first failure is recorded and turns every later builder call into a
// no-op; Err reports it and every method that reads the response returns it.
// A Request is not safe for concurrent use.
type Request struct {
	url    *url.URL
	method string

	opener            Opener
	ignoreCloseErrors bool
	bufferSize        int
	proxyHost         string
	proxyPort         int

	conn       Connection
	sink       *requestSink
	sinkClosed bool

	mode        bodyMode
	formWritten bool
	multipart   multipartState

	err error
}

// Option configures a Request at construction.
type Option func(*Request)

// WithOpener sets the strategy used to open the connection.
// DefaultOpener is used when no Opener is given.
func WithOpener(opener Opener) Option {
	return func(r *Request) {
		r.opener = opener
	}
}

// WithIgnoreCloseErrors controls whether a failure while closing the output
// sink is swallowed (the default) or reported.
func WithIgnoreCloseErrors(ignore bool) Option {
	return func(r *Request) {
		r.ignoreCloseErrors = ignore
	}
}

// WithBufferSize sets the size of the output buffer.
func WithBufferSize(size int) Option {
	return func(r *Request) {
		if size > 0 {
			r.bufferSize = size
		}
	}
}

// New creates a Request for method and rawURL. A malformed URL is recorded
// as the Request's error.
//
// Example:
//
//	code, err := http.New("PUT", "https://api.example.com/users/1").
//	    JSON(`{"name":"John"}`).
//	    Code()
func New(method, rawURL string, options ...Option) *Request {
	u, err := url.Parse(rawURL)
	if err == nil && u.Scheme == "" {
		err = errors.Errorf("missing protocol in %q", rawURL)
	}
	r := NewWithURL(method, u, options...)
	if err != nil {
		r.url = nil
		r.err = urlFormatError("new request", err)
	}
	return r
}

// NewWithURL creates a Request for an already parsed URL.
func NewWithURL(method string, u *url.URL, options ...Option) *Request {
	r := &Request{
		url:               u,
		method:            method,
		ignoreCloseErrors: true,
		bufferSize:        DefaultBufferSize,
	}
	for _, option := range options {
		option(r)
	}
	if r.opener == nil {
		r.opener = DefaultOpener()
	}
	if u == nil {
		r.err = urlFormatError("new request", errors.New("URL is nil"))
	}
	return r
}

// Get creates a GET Request.
func Get(rawURL string, options ...Option) *Request {
	return New(MethodGet, rawURL, options...)
}

// Post creates a POST Request.
func Post(rawURL string, options ...Option) *Request {
	return New(MethodPost, rawURL, options...)
}

// GetWithParams creates a GET Request for baseURL with params appended as a
// query string. When encode is set the URL is passed through EncodeURL.
func GetWithParams(baseURL string, params *Params, encode bool, options ...Option) *Request {
	return newWithParams(MethodGet, baseURL, params, encode, options)
}

// PostWithParams creates a POST Request for baseURL with params appended as
// a query string. When encode is set the URL is passed through EncodeURL.
func PostWithParams(baseURL string, params *Params, encode bool, options ...Option) *Request {
	return newWithParams(MethodPost, baseURL, params, encode, options)
}

func newWithParams(method, baseURL string, params *Params, encode bool, options []Option) *Request {
	rawURL, err := AppendQuery(baseURL, params)
	if err == nil && encode {
		rawURL, err = EncodeURL(rawURL)
	}
	if err != nil {
		r := NewWithURL(method, nil, options...)
		r.err = err
		return r
	}
	return New(method, rawURL, options...)
}

// URL returns the request URL, or nil when it failed to parse.
func (r *Request) URL() *url.URL {
	return r.url
}

// Method returns the request method.
func (r *Request) Method() string {
	return r.method
}

// Err returns the first failure recorded on the Request.
func (r *Request) Err() error {
	return r.err
}

func (r *Request) fail(err error) *Request {
	if r.err == nil && err != nil {
		r.err = err
	}
	return r
}

// connection opens the connection on first use.
func (r *Request) connection() (Connection, error) {
	if r.conn != nil {
		return r.conn, nil
	}

	var conn Connection
	var err error
	if r.proxyHost != "" {
		proxyOpener, ok := r.opener.(ProxyOpener)
		if !ok {
			return nil, stateError("open", "opener %T does not support proxies", r.opener)
		}
		conn, err = proxyOpener.OpenProxy(r.url, r.proxyHost, r.proxyPort)
	} else {
		conn, err = r.opener.Open(r.url)
	}
	if err != nil {
		return nil, transportError("open", err)
	}
	if err := conn.SetMethod(r.method); err != nil {
		return nil, transportError("set method", err)
	}
	r.conn = conn
	return conn, nil
}

// UseProxy routes the request through an HTTP proxy. It must be called
// before anything else touches the connection.
func (r *Request) UseProxy(host string, port int) *Request {
	if r.err != nil {
		return r
	}
	if r.conn != nil {
		return r.fail(stateError("use proxy", "connection is already open"))
	}
	r.proxyHost = host
	r.proxyPort = port
	return r
}

// Header sets a request header.
// Returns the Request to allow method chaining.
func (r *Request) Header(name, value string) *Request {
	if r.err != nil {
		return r
	}
	conn, err := r.connection()
	if err != nil {
		return r.fail(err)
	}
	conn.SetHeader(name, value)
	return r
}

// Headers sets several request headers.
// Returns the Request to allow method chaining.
func (r *Request) Headers(headers map[string]string) *Request {
	for name, value := range headers {
		r.Header(name, value)
	}
	return r
}

// RequestHeader returns a request header previously set.
func (r *Request) RequestHeader(name string) (string, bool) {
	if r.conn == nil {
		return "", false
	}
	return r.conn.Header(name)
}

// ContentType sets the Content-Type header, adding ";charset=<charset>"
// when charset is non-empty.
func (r *Request) ContentType(contentType, charset string) *Request {
	return r.Header(HeaderContentType, contentTypeValue(contentType, charset))
}

// Accept sets the Accept header.
func (r *Request) Accept(accept string) *Request {
	return r.Header(HeaderAccept, accept)
}

// UserAgent sets the User-Agent header.
func (r *Request) UserAgent(userAgent string) *Request {
	return r.Header(HeaderUserAgent, userAgent)
}

// Authorization sets the Authorization header.
func (r *Request) Authorization(authorization string) *Request {
	return r.Header(HeaderAuthorization, authorization)
}

// BasicAuth sets a basic Authorization header.
func (r *Request) BasicAuth(user, password string) *Request {
	creds := base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
	return r.Authorization("Basic " + creds)
}

func (r *Request) setMode(mode bodyMode, op string) error {
	if r.mode != bodyNone && r.mode != mode {
		return stateError(op, "body mode is already %s", r.mode)
	}
	r.mode = mode
	return nil
}

// openOutput acquires the output sink once. The charset comes from the
// Content-Type set so far.
func (r *Request) openOutput() error {
	if r.sink != nil {
		return nil
	}
	if r.sinkClosed {
		return stateError("write", "request body is already closed")
	}
	conn, err := r.connection()
	if err != nil {
		return err
	}
	conn.EnableOutput()

	contentType, _ := conn.Header(HeaderContentType)
	charset, _ := GetParam(contentType, ParamCharset)
	enc, err := lookupCharset(charset)
	if err != nil {
		return err
	}

	out, err := conn.OutputSink()
	if err != nil {
		return transportError("open output", err)
	}
	r.sink = newRequestSink(out, enc, r.bufferSize)
	return nil
}

// Send writes text to the request body in the request charset.
// Returns the Request to allow method chaining.
func (r *Request) Send(text string) *Request {
	if r.err != nil {
		return r
	}
	if err := r.openOutput(); err != nil {
		return r.fail(err)
	}
	return r.fail(r.sink.WriteString(text))
}

// SendBytes writes b to the request body unchanged.
func (r *Request) SendBytes(b []byte) *Request {
	if r.err != nil {
		return r
	}
	if err := r.openOutput(); err != nil {
		return r.fail(err)
	}
	_, err := r.sink.Write(b)
	return r.fail(err)
}

// SendReader copies body into the request body unchanged.
func (r *Request) SendReader(body io.Reader) *Request {
	if r.err != nil {
		return r
	}
	if err := r.openOutput(); err != nil {
		return r.fail(err)
	}
	_, err := r.sink.ReadFrom(body)
	return r.fail(err)
}

// JSON sets the Content-Type to application/json and writes text as the body.
// Returns the Request to allow method chaining.
func (r *Request) JSON(text string) *Request {
	if r.err != nil {
		return r
	}
	if err := r.setMode(bodyJSON, "json"); err != nil {
		return r.fail(err)
	}
	return r.ContentType(ContentTypeJSON, DefaultCharset).Send(text)
}

// JSONValue marshals v and writes it as a JSON body.
func (r *Request) JSONValue(v interface{}) *Request {
	if r.err != nil {
		return r
	}
	b, err := json.Marshal(v)
	if err != nil {
		return r.fail(encodingError("json", errors.Wrap(err, "marshaling JSON body")))
	}
	return r.JSON(string(b))
}

// Close finishes the request body: it writes the closing multipart marker
// if parts were written, then releases the output sink. Calling Close more
// than once, or on a Request without a body, does nothing.
func (r *Request) Close() error {
	r.fail(r.closeOutput())
	return r.err
}

func (r *Request) closeOutput() error {
	if r.sink == nil {
		return nil
	}
	sink := r.sink
	r.sink = nil
	r.sinkClosed = true

	var writeErr error
	if r.multipart == multipartInProgress {
		writeErr = sink.writeRaw("\r\n--" + Boundary + "--\r\n")
		r.multipart = multipartClosed
	}
	closeErr := sink.Close(r.ignoreCloseErrors)
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}
