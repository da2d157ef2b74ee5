// Package http provides a fluent builder for HTTP requests over a pluggable
// transport, together with the encoders it relies on.
//
// This package provides:
//   - A Request builder with form, JSON and multipart/form-data bodies
//   - Query string construction from ordered parameter sets (AppendQuery)
//   - Canonical ASCII URL encoding (EncodeURL)
//   - Content-Type parameter parsing (GetParam)
//   - An Opener/Connection transport contract with a net/http default
//
// Basic Usage:
//
//	url, err := http.AppendQuery("https://api.example.com/search",
//	    http.ParamsOf("q", "go lang", "tag", []string{"web", "cli"}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// https://api.example.com/search?q=go lang&tag[]=web&tag[]=cli
//
//	body, err := http.Get(url).Accept("application/json").Body("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Multipart Example:
//
//	req := http.Post("https://example.com/upload").
//	    Part("title", "holiday").
//	    PartFile("photo", "", "/tmp/beach.jpg")
//
//	code, err := req.Code()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Errors:
//
// Builder calls do not return errors. The first failure is recorded on the
// Request, later builder calls become no-ops, and every method that reads
// the response returns it. Failures are *Error values; use IsURLFormat,
// IsTransport, IsEncoding and IsState to classify them.
//
// Thread Safety:
//
// A Request is owned by one goroutine. Client and the Opener returned by
// DefaultOpener are safe for concurrent use.
package http
