package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/reach/http"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates an output format name. An empty name means text.
func ParseFormat(name string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(name)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", errors.Errorf("unknown output format %q (use text, json or yaml)", name)
	}
}

// Exchange is everything reach knows about one request and its response.
type Exchange struct {
	Method          string
	URL             string
	RequestHeaders  map[string]string
	RequestBody     string
	StatusCode      int
	ResponseHeaders map[string]string
	Body            []byte
	Timing          *http.TimingInfo
	Extracted       map[string]string
	SchemaChecked   bool
	SchemaErrors    []string
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(ex *Exchange) string
	FormatResponse(ex *Exchange) string
}

// GetFormatter returns the FormatProvider for format.
func GetFormatter(format OutputFormat, verbose bool, scheme *ColorScheme) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, scheme)
	}
}

// RequestData represents the structured data of an HTTP request
type RequestData struct {
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    string            `json:"body,omitempty" yaml:"body,omitempty"`
}

// TimingData represents detailed timing information for an HTTP request
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs" yaml:"dnsLookupMs"`
	TCPConnection   int64 `json:"tcpConnectionMs" yaml:"tcpConnectionMs"`
	TLSHandshake    int64 `json:"tlsHandshakeMs" yaml:"tlsHandshakeMs"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs" yaml:"timeToFirstByteMs"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ResponseData represents the structured data of an HTTP response
type ResponseData struct {
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Size       int               `json:"size" yaml:"size"`
	Timing     *TimingData       `json:"timing,omitempty" yaml:"timing,omitempty"`
}

// SchemaData reports the outcome of schema validation.
type SchemaData struct {
	Valid  bool     `json:"valid" yaml:"valid"`
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ExchangeData is the structured document printed by the JSON and YAML
// formatters.
type ExchangeData struct {
	Request   RequestData       `json:"request" yaml:"request"`
	Response  ResponseData      `json:"response" yaml:"response"`
	Extracted map[string]string `json:"extracted,omitempty" yaml:"extracted,omitempty"`
	Schema    *SchemaData       `json:"schema,omitempty" yaml:"schema,omitempty"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
}

func newExchangeData(ex *Exchange, verbose bool) ExchangeData {
	data := ExchangeData{
		Request: RequestData{
			Method: ex.Method,
			URL:    ex.URL,
			Body:   ex.RequestBody,
		},
		Response: ResponseData{
			StatusCode: ex.StatusCode,
			Body:       structuredBody(ex.Body),
			Size:       len(ex.Body),
		},
		Extracted: ex.Extracted,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if verbose {
		data.Request.Headers = ex.RequestHeaders
		data.Response.Headers = ex.ResponseHeaders
		if ex.Timing != nil {
			data.Response.Timing = &TimingData{
				DNSLookup:       ex.Timing.DNSLookupTime.Milliseconds(),
				TCPConnection:   ex.Timing.TCPConnectTime.Milliseconds(),
				TLSHandshake:    ex.Timing.TLSHandshakeTime.Milliseconds(),
				TimeToFirstByte: ex.Timing.TimeToFirstByte.Milliseconds(),
				Total:           ex.Timing.TotalTime.Milliseconds(),
			}
		}
	}
	if ex.SchemaChecked {
		data.Schema = &SchemaData{Valid: len(ex.SchemaErrors) == 0, Errors: ex.SchemaErrors}
	}
	return data
}

// structuredBody decodes a JSON body so it nests in the document; other
// bodies are kept as text.
func structuredBody(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return string(body)
	}
	return decoded
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

// FormatRequest returns nothing; the request is part of the response document.
func (f *JSONFormatter) FormatRequest(*Exchange) string {
	return ""
}

// FormatResponse formats the whole exchange as JSON
func (f *JSONFormatter) FormatResponse(ex *Exchange) string {
	data := newExchangeData(ex, f.Verbose)

	var out []byte
	var err error
	if f.Pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":"Failed to marshal exchange: %s"}`, err)
	}
	return string(out) + "\n"
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

// FormatRequest returns nothing; the request is part of the response document.
func (f *YAMLFormatter) FormatRequest(*Exchange) string {
	return ""
}

// FormatResponse formats the whole exchange as YAML
func (f *YAMLFormatter) FormatResponse(ex *Exchange) string {
	out, err := yaml.Marshal(newExchangeData(ex, f.Verbose))
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal exchange: %s\n", err)
	}
	return string(out)
}
