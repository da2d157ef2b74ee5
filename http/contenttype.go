package http

import "strings"

const (
	MethodGet  = "GET"
	MethodPost = "POST"

	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
	HeaderContentLength = "Content-Length"
	HeaderContentType   = "Content-Type"
	HeaderUserAgent     = "User-Agent"

	ParamCharset  = "charset"
	ParamBoundary = "boundary"

	ContentTypeForm      = "application/x-www-form-urlencoded"
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"

	// Boundary delimits the parts of every multipart body written by a Request.
	Boundary = "reach0boundary0content"

	// DefaultCharset is used whenever a charset is absent.
	DefaultCharset = "UTF-8"
)

// GetParam returns the value of the named parameter in a header value such
// as "text/html; charset=UTF-8". Parameter names match case-sensitively and
// a value wrapped in double quotes is returned without them.
func GetParam(headerValue, paramName string) (string, bool) {
	first := strings.IndexByte(headerValue, ';')
	if first < 0 || first == len(headerValue)-1 {
		return "", false
	}

	for _, segment := range strings.Split(headerValue[first+1:], ";") {
		name, value, ok := strings.Cut(segment, "=")
		if !ok || strings.TrimSpace(name) != paramName {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if len(value) > 2 && value[0] == '"' && value[len(value)-1] == '"' {
			return value[1 : len(value)-1], true
		}
		return value, true
	}
	return "", false
}

// contentTypeValue joins a media type and an optional charset the way the
// Content-Type header is written by this package.
func contentTypeValue(mediaType, charset string) string {
	if charset == "" {
		return mediaType
	}
	return mediaType + ";" + ParamCharset + "=" + charset
}
