package http

import (
	"bytes"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Opener opens connections for Requests. It is injected with WithOpener;
// DefaultOpener is used otherwise.
type Opener interface {
	Open(u *url.URL) (Connection, error)
}

// ProxyOpener is implemented by Openers that can route through an HTTP proxy.
type ProxyOpener interface {
	OpenProxy(u *url.URL, proxyHost string, proxyPort int) (Connection, error)
}

// Connection is a single HTTP exchange. Request headers and the output sink
// are used before the round trip; ResponseCode performs it.
type Connection interface {
	SetMethod(method string) error
	SetHeader(name, value string)
	// Header returns a request header previously set.
	Header(name string) (string, bool)

	// EnableOutput must be called before OutputSink.
	EnableOutput()
	OutputSink() (io.WriteCloser, error)

	ResponseCode() (int, error)
	InputSink() (io.ReadCloser, error)
	ErrorSink() (io.ReadCloser, error)
	ResponseHeader(name string) (string, error)
	IntHeader(name string, defaultValue int) (int, error)
}

// TimingInfo stores timing information for a completed exchange.
// All durations represent the time spent in each phase of the request.
type TimingInfo struct {
	// StartTime is when the round trip started
	StartTime time.Time

	// DNSLookupTime is the time spent looking up the DNS address
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing a TCP connection
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent performing the TLS handshake (for HTTPS)
	TLSHandshakeTime time.Duration

	// TimeToFirstByte (TTFB) is the time from the last completed phase to the first response byte
	TimeToFirstByte time.Duration

	// TotalTime is the time from request start until response headers arrived
	TotalTime time.Duration
}

// TimedConnection is implemented by Connections that record timing.
type TimedConnection interface {
	Timing() (TimingInfo, bool)
}

// DefaultTimeout bounds a whole exchange made through DefaultOpener.
const DefaultTimeout = 30 * time.Second

// OpenerOption configures the net/http backed Opener.
type OpenerOption func(*netOpener)

// WithTimeout sets the timeout for every exchange. The default is 30 seconds.
func WithTimeout(timeout time.Duration) OpenerOption {
	return func(o *netOpener) {
		o.client.Timeout = timeout
	}
}

// WithHTTPClient sets a custom *http.Client. Its redirect policy is
// replaced so that redirects are never followed.
func WithHTTPClient(client *http.Client) OpenerOption {
	return func(o *netOpener) {
		c := *client
		o.client = &c
	}
}

// DefaultOpener returns an Opener backed by net/http with the default timeout.
func DefaultOpener() Opener {
	return NewOpener()
}

// NewOpener returns an Opener backed by net/http.
//
// Example:
//
//	opener := http.NewOpener(http.WithTimeout(5 * time.Second))
//	code, err := http.Get("https://example.com", http.WithOpener(opener)).Code()
func NewOpener(options ...OpenerOption) Opener {
	o := &netOpener{
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, option := range options {
		option(o)
	}
	o.client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return o
}

type netOpener struct {
	client *http.Client
}

func (o *netOpener) Open(u *url.URL) (Connection, error) {
	return newNetConnection(o.client, u), nil
}

func (o *netOpener) OpenProxy(u *url.URL, proxyHost string, proxyPort int) (Connection, error) {
	transport, err := o.transport()
	if err != nil {
		return nil, err
	}
	proxyURL := &url.URL{Scheme: "http", Host: net.JoinHostPort(proxyHost, strconv.Itoa(proxyPort))}
	transport.Proxy = http.ProxyURL(proxyURL)

	client := *o.client
	client.Transport = transport
	return newNetConnection(&client, u), nil
}

func (o *netOpener) transport() (*http.Transport, error) {
	switch t := o.client.Transport.(type) {
	case nil:
		return http.DefaultTransport.(*http.Transport).Clone(), nil
	case *http.Transport:
		return t.Clone(), nil
	default:
		return nil, errors.Errorf("proxy requires *http.Transport, got %T", t)
	}
}

type netConnection struct {
	client  *http.Client
	url     *url.URL
	method  string
	header  http.Header
	output  bool
	body    *bytes.Buffer
	resp    *http.Response
	timing  TimingInfo
	doneErr error
}

func newNetConnection(client *http.Client, u *url.URL) *netConnection {
	return &netConnection{
		client: client,
		url:    u,
		method: MethodGet,
		header: make(http.Header),
	}
}

func (c *netConnection) SetMethod(method string) error {
	if c.resp != nil {
		return errors.New("method cannot be changed after the request was sent")
	}
	c.method = method
	return nil
}

func (c *netConnection) SetHeader(name, value string) {
	c.header.Set(name, value)
}

func (c *netConnection) Header(name string) (string, bool) {
	values := c.header.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (c *netConnection) EnableOutput() {
	c.output = true
}

func (c *netConnection) OutputSink() (io.WriteCloser, error) {
	if !c.output {
		return nil, errors.New("output is not enabled")
	}
	if c.resp != nil {
		return nil, errors.New("request was already sent")
	}
	if c.body == nil {
		c.body = &bytes.Buffer{}
	}
	return nopWriteCloser{c.body}, nil
}

// roundTrip sends the request once and caches the outcome.
func (c *netConnection) roundTrip() error {
	if c.resp != nil || c.doneErr != nil {
		return c.doneErr
	}

	var body io.Reader
	if c.body != nil {
		body = bytes.NewReader(c.body.Bytes())
	}
	req, err := http.NewRequest(c.method, c.url.String(), body)
	if err != nil {
		c.doneErr = errors.Wrap(err, "building request")
		return c.doneErr
	}
	req.Header = c.header.Clone()
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
	}
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), c.trace()))

	c.timing.StartTime = time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.doneErr = errors.Wrapf(err, "%s %s", c.method, c.url.Redacted())
		return c.doneErr
	}
	c.timing.TotalTime = time.Since(c.timing.StartTime)
	c.resp = resp
	return nil
}

func (c *netConnection) trace() *httptrace.ClientTrace {
	var dnsStart, connectStart, tlsStart time.Time
	lastPhaseEnd := time.Now()

	return &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			lastPhaseEnd = time.Now()
			c.timing.DNSLookupTime = lastPhaseEnd.Sub(dnsStart)
		},
		ConnectStart: func(string, string) {
			connectStart = time.Now()
		},
		ConnectDone: func(_, _ string, err error) {
			if err == nil {
				lastPhaseEnd = time.Now()
				c.timing.TCPConnectTime = lastPhaseEnd.Sub(connectStart)
			}
		},
		TLSHandshakeStart: func() {
			tlsStart = time.Now()
		},
		TLSHandshakeDone: func(_ tls.ConnectionState, err error) {
			if err == nil {
				lastPhaseEnd = time.Now()
				c.timing.TLSHandshakeTime = lastPhaseEnd.Sub(tlsStart)
			}
		},
		GotFirstResponseByte: func() {
			c.timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
}

func (c *netConnection) ResponseCode() (int, error) {
	if err := c.roundTrip(); err != nil {
		return -1, err
	}
	return c.resp.StatusCode, nil
}

func (c *netConnection) InputSink() (io.ReadCloser, error) {
	if err := c.roundTrip(); err != nil {
		return nil, err
	}
	return c.resp.Body, nil
}

// ErrorSink returns the same body as InputSink; net/http does not split them.
func (c *netConnection) ErrorSink() (io.ReadCloser, error) {
	return c.InputSink()
}

func (c *netConnection) ResponseHeader(name string) (string, error) {
	if err := c.roundTrip(); err != nil {
		return "", err
	}
	return c.resp.Header.Get(name), nil
}

func (c *netConnection) IntHeader(name string, defaultValue int) (int, error) {
	value, err := c.ResponseHeader(name)
	if err != nil {
		return defaultValue, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, nil
	}
	return n, nil
}

func (c *netConnection) Timing() (TimingInfo, bool) {
	return c.timing, c.resp != nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
