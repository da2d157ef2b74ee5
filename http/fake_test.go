package http

import (
	"bytes"
	"io"
	"net/url"
	"strings"
)

// fakeConn records everything a Request does to it and answers with a
// canned response.
type fakeConn struct {
	method     string
	headers    map[string]string
	output     bool
	body       bytes.Buffer
	sinkOpens  int
	sinkCloses int
	closeErr   error
	writeErr   error

	code        int
	respHeaders map[string]string
	respBody    string
	errBody     string
	inputReads  int
	errorReads  int
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		headers:     make(map[string]string),
		code:        200,
		respHeaders: make(map[string]string),
	}
}

func (c *fakeConn) SetMethod(method string) error {
	c.method = method
	return nil
}

func (c *fakeConn) SetHeader(name, value string) {
	c.headers[name] = value
}

func (c *fakeConn) Header(name string) (string, bool) {
	v, ok := c.headers[name]
	return v, ok
}

func (c *fakeConn) EnableOutput() {
	c.output = true
}

func (c *fakeConn) OutputSink() (io.WriteCloser, error) {
	c.sinkOpens++
	return fakeSink{c}, nil
}

func (c *fakeConn) ResponseCode() (int, error) {
	return c.code, nil
}

func (c *fakeConn) InputSink() (io.ReadCloser, error) {
	c.inputReads++
	return io.NopCloser(strings.NewReader(c.respBody)), nil
}

func (c *fakeConn) ErrorSink() (io.ReadCloser, error) {
	c.errorReads++
	return io.NopCloser(strings.NewReader(c.errBody)), nil
}

func (c *fakeConn) ResponseHeader(name string) (string, error) {
	return c.respHeaders[name], nil
}

func (c *fakeConn) IntHeader(name string, defaultValue int) (int, error) {
	v, ok := c.respHeaders[name]
	if !ok {
		return defaultValue, nil
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return defaultValue, nil
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

type fakeSink struct {
	c *fakeConn
}

func (s fakeSink) Write(p []byte) (int, error) {
	if s.c.writeErr != nil {
		return 0, s.c.writeErr
	}
	return s.c.body.Write(p)
}

func (s fakeSink) Close() error {
	s.c.sinkCloses++
	return s.c.closeErr
}

// fakeOpener hands out a single fakeConn.
type fakeOpener struct {
	conn      *fakeConn
	opened    []*url.URL
	proxyHost string
	proxyPort int
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{conn: newFakeConn()}
}

func (o *fakeOpener) Open(u *url.URL) (Connection, error) {
	o.opened = append(o.opened, u)
	return o.conn, nil
}

// proxyFakeOpener also supports proxies.
type proxyFakeOpener struct {
	*fakeOpener
}

func (o proxyFakeOpener) OpenProxy(u *url.URL, host string, port int) (Connection, error) {
	o.proxyHost = host
	o.proxyPort = port
	return o.Open(u)
}
