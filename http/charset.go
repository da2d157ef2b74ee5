package http

import (
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

func validCharset(charset string) string {
	if charset == "" {
		return DefaultCharset
	}
	return charset
}

// lookupCharset resolves a charset label (e.g. "UTF-8", "ISO-8859-1",
// "Shift_JIS") to its encoding. An empty label means DefaultCharset.
func lookupCharset(charset string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(validCharset(charset))
	if err != nil {
		return nil, encodingError("charset", errors.Wrapf(err, "unsupported charset %q", charset))
	}
	return enc, nil
}

func encodeText(enc encoding.Encoding, text string) (string, error) {
	out, err := enc.NewEncoder().String(text)
	if err != nil {
		return "", encodingError("encode", errors.Wrap(err, "text is not representable in charset"))
	}
	return out, nil
}

func decodeText(charset string, b []byte) (string, error) {
	enc, err := lookupCharset(charset)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", encodingError("decode", err)
	}
	return string(out), nil
}

// formEscape converts text into the charset and percent-encodes the
// resulting bytes with form rules, so a space becomes "+".
func formEscape(enc encoding.Encoding, text string) (string, error) {
	encoded, err := encodeText(enc, text)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(encoded), nil
}
