package http

import (
	"strings"

	"golang.org/x/text/encoding"
)

// Form writes params as an application/x-www-form-urlencoded body in UTF-8.
// Returns the Request to allow method chaining.
//
// Example:
//
//	code, err := http.Post("https://example.com/login").
//	    Form(http.ParamsOf("user", "alice", "pass", "open sesame")).
//	    Code()
func (r *Request) Form(params *Params) *Request {
	return r.FormCharset(params, DefaultCharset)
}

// FormCharset writes params as a form body, encoding keys and values in
// charset. An empty charset means UTF-8.
func (r *Request) FormCharset(params *Params, charset string) *Request {
	if r.err != nil || params.Len() == 0 {
		return r
	}
	charset = validCharset(charset)
	for key, value := range params.All() {
		r.writeFormEntry(key, value, charset)
		if r.err != nil {
			break
		}
	}
	return r
}

// FormValue writes a single form entry. value is converted with ValueOf.
func (r *Request) FormValue(key string, value interface{}, charset string) *Request {
	if r.err != nil {
		return r
	}
	return r.writeFormEntry(key, ValueOf(value), validCharset(charset))
}

func (r *Request) writeFormEntry(key string, value Value, charset string) *Request {
	enc, err := lookupCharset(charset)
	if err != nil {
		return r.fail(err)
	}
	if r.mode != bodyForm {
		if err := r.setMode(bodyForm, "form"); err != nil {
			return r.fail(err)
		}
		r.ContentType(ContentTypeForm, charset)
		if r.err != nil {
			return r
		}
	}
	if err := r.openOutput(); err != nil {
		return r.fail(err)
	}

	escapedKey, err := formEscape(enc, key)
	if err != nil {
		return r.fail(err)
	}

	var pairs []string
	if value.IsSequence() {
		for _, e := range value.Elements() {
			pair, err := formPair(enc, escapedKey, e.Text, e.Valid)
			if err != nil {
				return r.fail(err)
			}
			pairs = append(pairs, pair)
		}
	} else {
		text, ok := value.Text()
		pair, err := formPair(enc, escapedKey, text, ok)
		if err != nil {
			return r.fail(err)
		}
		pairs = append(pairs, pair)
	}
	if len(pairs) == 0 {
		return r
	}

	body := strings.Join(pairs, "&")
	if r.formWritten {
		body = "&" + body
	}
	r.formWritten = true
	return r.fail(r.sink.writeRaw(body))
}

func formPair(enc encoding.Encoding, escapedKey, text string, valid bool) (string, error) {
	if !valid {
		return escapedKey + "=", nil
	}
	escapedValue, err := formEscape(enc, text)
	if err != nil {
		return "", err
	}
	return escapedKey + "=" + escapedValue, nil
}
