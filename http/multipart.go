package http

import (
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type multipartState int

const (
	multipartNotStarted multipartState = iota
	multipartInProgress
	multipartClosed
)

const crlf = "\r\n"

// Part writes a text part to a multipart/form-data body.
// Returns the Request to allow method chaining.
//
// Example:
//
//	code, err := http.Post("https://example.com/upload").
//	    Part("title", "holiday").
//	    PartFile("photo", "", "/tmp/beach.jpg").
//	    Code()
func (r *Request) Part(name, value string) *Request {
	return r.PartWithType(name, "", "", value)
}

// PartWithType writes a text part with an optional filename and content type.
// Empty strings leave the corresponding attribute out.
func (r *Request) PartWithType(name, filename, contentType, value string) *Request {
	if r.err != nil {
		return r
	}
	if err := r.beginPart(name, filename, contentType); err != nil {
		return r.fail(err)
	}
	return r.fail(r.sink.WriteString(value))
}

// PartReader writes a part whose payload is copied from body.
func (r *Request) PartReader(name, filename, contentType string, body io.Reader) *Request {
	if r.err != nil {
		return r
	}
	if err := r.beginPart(name, filename, contentType); err != nil {
		return r.fail(err)
	}
	_, err := r.sink.ReadFrom(body)
	return r.fail(err)
}

// PartFile writes a part whose payload is the content of the file at path.
// An empty filename defaults to the base name of path; the content type is
// guessed from the extension.
func (r *Request) PartFile(name, filename, path string) *Request {
	if r.err != nil {
		return r
	}
	file, err := os.Open(path)
	if err != nil {
		return r.fail(transportError("part file", errors.Wrapf(err, "opening part %q", name)))
	}
	defer file.Close()

	if filename == "" {
		filename = filepath.Base(path)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return r.PartReader(name, filename, contentType, file)
}

func (r *Request) beginPart(name, filename, contentType string) error {
	if err := r.startPart(); err != nil {
		return err
	}
	return r.writePartHeader(name, filename, contentType)
}

// startPart writes the delimiter that opens a part. The first part also
// fixes the Content-Type and opens the output sink; later parts end the
// previous payload with CRLF before their delimiter.
func (r *Request) startPart() error {
	switch r.multipart {
	case multipartNotStarted:
		if err := r.setMode(bodyMultipart, "part"); err != nil {
			return err
		}
		r.ContentType(ContentTypeMultipart+";"+ParamBoundary+"="+Boundary, "")
		if r.err != nil {
			return r.err
		}
		if err := r.openOutput(); err != nil {
			return err
		}
		r.multipart = multipartInProgress
		return r.sink.writeRaw("--" + Boundary + crlf)
	case multipartInProgress:
		return r.sink.writeRaw(crlf + "--" + Boundary + crlf)
	default:
		return stateError("part", "multipart body is already closed")
	}
}

func (r *Request) writePartHeader(name, filename, contentType string) error {
	disposition := `form-data;name="` + name + `"`
	if filename != "" {
		disposition += `;filename="` + filename + `"`
	}
	if err := r.partHeader("Content-Disposition", disposition); err != nil {
		return err
	}
	if contentType != "" {
		if err := r.partHeader(HeaderContentType, contentType); err != nil {
			return err
		}
	}
	return r.sink.writeRaw(crlf)
}

func (r *Request) partHeader(name, value string) error {
	return r.sink.WriteString(name + ": " + value + crlf)
}
