package http

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

// prepareRead finishes the request body and makes sure a connection exists.
// Every response accessor goes through it, so reading the response always
// closes a still-open output sink first.
func (r *Request) prepareRead() (Connection, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := r.closeOutput(); err != nil {
		r.fail(err)
		return nil, err
	}
	conn, err := r.connection()
	if err != nil {
		r.fail(err)
		return nil, err
	}
	return conn, nil
}

// Code sends the request if needed and returns the response status code.
func (r *Request) Code() (int, error) {
	conn, err := r.prepareRead()
	if err != nil {
		return -1, err
	}
	code, err := conn.ResponseCode()
	if err != nil {
		r.fail(transportError("response code", err))
		return -1, r.err
	}
	return code, nil
}

func (r *Request) codeIn(low, high int) (bool, error) {
	code, err := r.Code()
	if err != nil {
		return false, err
	}
	return code >= low && code < high, nil
}

// OK reports whether the status code is 200.
func (r *Request) OK() (bool, error) { return r.codeIn(200, 201) }

// Created reports whether the status code is 201.
func (r *Request) Created() (bool, error) { return r.codeIn(201, 202) }

// NotFound reports whether the status code is 404.
func (r *Request) NotFound() (bool, error) { return r.codeIn(404, 405) }

// Success reports whether the status code is in the 2xx range.
func (r *Request) Success() (bool, error) { return r.codeIn(200, 300) }

// Redirect reports whether the status code is in the 3xx range.
func (r *Request) Redirect() (bool, error) { return r.codeIn(300, 400) }

// ClientError reports whether the status code is in the 4xx range.
func (r *Request) ClientError() (bool, error) { return r.codeIn(400, 500) }

// ServerError reports whether the status code is in the 5xx range.
func (r *Request) ServerError() (bool, error) { return r.codeIn(500, 600) }

// Stream returns the response body. Responses with a status code below 400
// come from the connection's input sink, others from its error sink.
// The caller must close the returned reader.
func (r *Request) Stream() (io.ReadCloser, error) {
	code, err := r.Code()
	if err != nil {
		return nil, err
	}

	var body io.ReadCloser
	if code < 400 {
		body, err = r.conn.InputSink()
	} else {
		body, err = r.conn.ErrorSink()
	}
	if err != nil {
		r.fail(transportError("response body", err))
		return nil, r.err
	}
	if body == nil {
		body = io.NopCloser(strings.NewReader(""))
	}
	return body, nil
}

// Bytes reads the whole response body.
func (r *Request) Bytes() ([]byte, error) {
	body, err := r.Stream()
	if err != nil {
		return nil, err
	}
	defer body.Close()

	b, err := io.ReadAll(body)
	if err != nil {
		r.fail(transportError("read body", errors.Wrap(err, "reading response body")))
		return nil, r.err
	}
	return b, nil
}

// Body reads the whole response body as text in charset. An empty charset
// means the charset named by the response Content-Type, or UTF-8.
func (r *Request) Body(charset string) (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	if charset == "" {
		charset, _ = r.Charset()
	}
	text, err := decodeText(charset, b)
	if err != nil {
		r.fail(err)
		return "", err
	}
	return text, nil
}

// ResponseHeader returns a response header, or "" when it is absent.
func (r *Request) ResponseHeader(name string) (string, error) {
	conn, err := r.prepareRead()
	if err != nil {
		return "", err
	}
	value, err := conn.ResponseHeader(name)
	if err != nil {
		r.fail(transportError("response header", err))
		return "", r.err
	}
	return value, nil
}

// IntHeader returns a response header parsed as an int, or defaultValue
// when it is absent or malformed.
func (r *Request) IntHeader(name string, defaultValue int) (int, error) {
	conn, err := r.prepareRead()
	if err != nil {
		return defaultValue, err
	}
	value, err := conn.IntHeader(name, defaultValue)
	if err != nil {
		r.fail(transportError("response header", err))
		return defaultValue, r.err
	}
	return value, nil
}

// ContentLength returns the response Content-Length, or -1 when unknown.
func (r *Request) ContentLength() (int, error) {
	return r.IntHeader(HeaderContentLength, -1)
}

// ResponseContentType returns the response Content-Type header.
func (r *Request) ResponseContentType() (string, error) {
	return r.ResponseHeader(HeaderContentType)
}

// Charset returns the charset parameter of the response Content-Type, or ""
// when there is none.
func (r *Request) Charset() (string, error) {
	contentType, err := r.ResponseContentType()
	if err != nil {
		return "", err
	}
	charset, _ := GetParam(contentType, ParamCharset)
	return charset, nil
}

// Timing returns timing information for the exchange when the connection
// records it and the response has arrived.
func (r *Request) Timing() (TimingInfo, bool) {
	timed, ok := r.conn.(TimedConnection)
	if !ok {
		return TimingInfo{}, false
	}
	return timed.Timing()
}
