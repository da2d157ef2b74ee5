package http

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the failures a Request can report.
type Kind int

const (
	// KindURLFormat reports a malformed URL.
	KindURLFormat Kind = iota + 1
	// KindTransport reports an I/O failure from the connection or a local file.
	KindTransport
	// KindEncoding reports an invalid or unsupported charset.
	KindEncoding
	// KindState reports builder misuse, such as mixing body modes.
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindURLFormat:
		return "url format"
	case KindTransport:
		return "transport"
	case KindEncoding:
		return "encoding"
	case KindState:
		return "state"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the single failure type surfaced by this package. The original
// cause is kept in Err and is reachable through errors.Unwrap.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: errors.WithStack(err)}
}

func urlFormatError(op string, err error) error {
	return newError(KindURLFormat, op, err)
}

func transportError(op string, err error) error {
	return newError(KindTransport, op, err)
}

func encodingError(op string, err error) error {
	return newError(KindEncoding, op, err)
}

func stateError(op, format string, args ...interface{}) error {
	return &Error{Kind: KindState, Op: op, Err: errors.Errorf(format, args...)}
}

func isKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsURLFormat reports whether err was caused by a malformed URL.
func IsURLFormat(err error) bool { return isKind(err, KindURLFormat) }

// IsTransport reports whether err was caused by a connection or file I/O failure.
func IsTransport(err error) bool { return isKind(err, KindTransport) }

// IsEncoding reports whether err was caused by an unsupported charset.
func IsEncoding(err error) bool { return isKind(err, KindEncoding) }

// IsState reports whether err was caused by misuse of a Request.
func IsState(err error) bool { return isKind(err, KindState) }
