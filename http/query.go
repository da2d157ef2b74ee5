package http

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// AppendQuery appends params to baseURL as a query string and returns the
// result. Keys and values are inserted as given; pass the result through
// EncodeURL to escape them.
//
// A sequence value is written as repeated "key[]=element" pairs:
//
//	AppendQuery("http://host", ParamsOf("a", []int{1, 2}))
//	// "http://host?a[]=1&a[]=2"
func AppendQuery(baseURL string, params *Params) (string, error) {
	if params.Len() == 0 {
		return baseURL, nil
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", urlFormatError("append query", err)
	}
	if u.Scheme == "" {
		return "", urlFormatError("append query", errors.Errorf("missing protocol in %q", baseURL))
	}

	var b strings.Builder
	b.WriteString(baseURL)
	writePathSeparator(&b, baseURL)
	writeQueryPrefix(&b, baseURL)

	first := true
	for key, value := range params.All() {
		if !value.IsSequence() {
			if !first {
				b.WriteByte('&')
			}
			first = false
			writeScalarParam(&b, key, value)
			continue
		}
		for _, e := range value.Elements() {
			if !first {
				b.WriteByte('&')
			}
			first = false
			b.WriteString(key)
			b.WriteString("[]=")
			if e.Valid {
				b.WriteString(e.Text)
			}
		}
	}
	return b.String(), nil
}

// writePathSeparator adds "/" when nothing follows the scheme separator, so
// the query never lands directly on "://". A URL with a host but no path
// ("http://host") is left as is.
func writePathSeparator(b *strings.Builder, baseURL string) {
	if strings.HasSuffix(baseURL, "://") {
		b.WriteByte('/')
	}
}

func writeQueryPrefix(b *strings.Builder, baseURL string) {
	q := strings.IndexByte(baseURL, '?')
	switch {
	case q < 0:
		b.WriteByte('?')
	case q < len(baseURL)-1 && !strings.HasSuffix(baseURL, "&"):
		b.WriteByte('&')
	}
}

func writeScalarParam(b *strings.Builder, key string, value Value) {
	b.WriteString(key)
	b.WriteByte('=')
	if text, ok := value.Text(); ok {
		b.WriteString(text)
	}
}
