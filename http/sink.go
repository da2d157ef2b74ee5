package http

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

// DefaultBufferSize is the size of the buffer placed in front of the
// connection's output sink.
const DefaultBufferSize = 8192

// requestSink buffers writes to a connection's output and converts text to
// the request charset.
type requestSink struct {
	out      io.WriteCloser
	buf      *bufio.Writer
	encoding encoding.Encoding
}

func newRequestSink(out io.WriteCloser, enc encoding.Encoding, size int) *requestSink {
	return &requestSink{
		out:      out,
		buf:      bufio.NewWriterSize(out, size),
		encoding: enc,
	}
}

// WriteString converts text to the sink's charset and writes it.
func (s *requestSink) WriteString(text string) error {
	encoded, err := encodeText(s.encoding, text)
	if err != nil {
		return err
	}
	return s.writeRaw(encoded)
}

// writeRaw writes ASCII framing or already-encoded text.
func (s *requestSink) writeRaw(text string) error {
	if _, err := s.buf.WriteString(text); err != nil {
		return transportError("write", err)
	}
	return nil
}

func (s *requestSink) Write(p []byte) (int, error) {
	n, err := s.buf.Write(p)
	if err != nil {
		return n, transportError("write", err)
	}
	return n, nil
}

func (s *requestSink) ReadFrom(r io.Reader) (int64, error) {
	n, err := s.buf.ReadFrom(r)
	if err != nil {
		return n, transportError("write", errors.Wrap(err, "copying payload"))
	}
	return n, nil
}

// Close flushes pending bytes and closes the underlying sink. When
// ignoreClose is set, a failing Close of the underlying sink is swallowed so
// that it cannot mask an earlier write failure.
func (s *requestSink) Close(ignoreClose bool) error {
	flushErr := s.buf.Flush()
	closeErr := s.out.Close()
	if flushErr != nil {
		return transportError("close", errors.Wrap(flushErr, "flushing request body"))
	}
	if closeErr != nil && !ignoreClose {
		return transportError("close", closeErr)
	}
	return nil
}
