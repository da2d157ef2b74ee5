package http

import (
	"net"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

// EncodeURL rewrites rawURL into an ASCII-safe form. The host is converted
// with IDNA, the path is percent-encoded, and spaces in the query are
// written as "%20":
//
//	EncodeURL("http://host/info?name=a b") // "http://host/info?name=a%20b"
//
// Any "+" in the query is also rewritten as "%20"; a "+" before the "?" is
// kept. Characters legal in a query, such as the brackets of "key[]", are
// left as they are, and a "%" that starts no valid escape becomes "%25".
// The fragment is dropped.
func EncodeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", urlFormatError("encode url", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", urlFormatError("encode url", errors.Errorf("missing protocol or host in %q", rawURL))
	}

	host, err := asciiHost(u.Hostname())
	if err != nil {
		return "", err
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}

	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteByte('@')
	}
	b.WriteString(host)
	b.WriteString(u.EscapedPath())

	if u.RawQuery != "" || u.ForceQuery {
		b.WriteByte('?')
		b.WriteString(encodeQuery(u.RawQuery))
	}

	encoded := b.String()
	if start := strings.IndexByte(encoded, '?'); start > 0 && start+1 < len(encoded) {
		encoded = encoded[:start+1] + strings.ReplaceAll(encoded[start+1:], "+", "%20")
	}
	return encoded, nil
}

// asciiHost converts an internationalized host name to punycode. ASCII
// names and IP literals pass through untouched.
func asciiHost(hostname string) (string, error) {
	if ip := net.ParseIP(hostname); ip != nil {
		if ip.To4() == nil {
			return "[" + hostname + "]", nil
		}
		return hostname, nil
	}
	if isASCII(hostname) {
		return hostname, nil
	}
	host, err := idna.Lookup.ToASCII(hostname)
	if err != nil {
		return "", urlFormatError("encode url", errors.Wrapf(err, "invalid host %q", hostname))
	}
	return host, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// encodeQuery re-escapes every key and value of a raw query, keeping pair
// order and the "&"/"=" structure intact.
func encodeQuery(rawQuery string) string {
	pairs := strings.Split(rawQuery, "&")
	for i, pair := range pairs {
		key, value, hasValue := strings.Cut(pair, "=")
		if !hasValue {
			pairs[i] = reescape(key)
			continue
		}
		pairs[i] = reescape(key) + "=" + reescape(value)
	}
	return strings.Join(pairs, "&")
}

// reescape decodes a query component and escapes it again, leaving every
// character that is legal in a query alone. A "%" that does not start a
// valid escape is taken literally and comes out as "%25".
func reescape(s string) string {
	const upperhex = "0123456789ABCDEF"

	decoded := queryUnescape(s)
	var b strings.Builder
	b.Grow(len(decoded))
	for i := 0; i < len(decoded); i++ {
		c := decoded[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case keepInQuery(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
	return b.String()
}

// queryUnescape is url.QueryUnescape without the failure on malformed
// escapes.
func queryUnescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// keepInQuery reports whether c may appear unescaped inside a query key or
// value: RFC 3986 unreserved and sub-delims plus ":@/?[]", minus the
// separators "&", "=" and "+".
func keepInQuery(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-._~!$'()*,;:@/?[]", c) >= 0
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
