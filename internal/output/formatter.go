package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"code.cloudfoundry.org/bytefmt"
)

// Formatter is responsible for formatting HTTP requests and responses in text format
type Formatter struct {
	Verbose bool
	Colors  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose bool, scheme *ColorScheme) *Formatter {
	if scheme == nil {
		scheme = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		Colors:  scheme,
	}
}

// FormatRequest formats an HTTP request for display
func (f *Formatter) FormatRequest(ex *Exchange) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n",
		f.Colors.Method.Sprint(ex.Method), f.Colors.URL.Sprint(ex.URL)))

	if f.Verbose || len(ex.RequestHeaders) > 0 {
		f.writeHeaders(&buf, ex.RequestHeaders)
	}

	if ex.RequestBody != "" {
		buf.WriteString("  Body: ")
		buf.WriteString(formatJSONString(ex.RequestBody))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats an HTTP response for display
func (f *Formatter) FormatResponse(ex *Exchange) string {
	var buf strings.Builder

	status := f.Colors.Status(ex.StatusCode).Sprint(ex.StatusCode)
	if ex.Timing != nil {
		buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms, %s)\n",
			status, ex.Timing.TotalTime.Milliseconds(), bytefmt.ByteSize(uint64(len(ex.Body)))))
	} else {
		buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%s)\n", status, bytefmt.ByteSize(uint64(len(ex.Body)))))
	}

	if f.Verbose && ex.Timing != nil {
		buf.WriteString("  Timing:\n")
		buf.WriteString(fmt.Sprintf("    DNS Lookup:         %dms\n", ex.Timing.DNSLookupTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TCP Connection:     %dms\n", ex.Timing.TCPConnectTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TLS Handshake:      %dms\n", ex.Timing.TLSHandshakeTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", ex.Timing.TimeToFirstByte.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Total:              %dms\n", ex.Timing.TotalTime.Milliseconds()))
	}

	if f.Verbose {
		f.writeHeaders(&buf, ex.ResponseHeaders)
	}

	if len(ex.Body) > 0 {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(string(ex.Body)))
		buf.WriteString("\n")
	}

	if len(ex.Extracted) > 0 {
		buf.WriteString("  Extracted:\n")
		for _, path := range sortedKeys(ex.Extracted) {
			buf.WriteString(fmt.Sprintf("    %s = %s\n", f.Colors.Highlight.Sprint(path), ex.Extracted[path]))
		}
	}

	if ex.SchemaChecked {
		if len(ex.SchemaErrors) == 0 {
			buf.WriteString(fmt.Sprintf("  %s Schema: valid\n", f.Colors.SuccessIcon()))
		} else {
			buf.WriteString(fmt.Sprintf("  %s Schema: %d violation(s)\n", f.Colors.ErrorIcon(), len(ex.SchemaErrors)))
			for _, msg := range ex.SchemaErrors {
				buf.WriteString("    " + f.Colors.Error.Sprint(msg) + "\n")
			}
		}
	}

	return buf.String()
}

func (f *Formatter) writeHeaders(buf *strings.Builder, headers map[string]string) {
	buf.WriteString("  Headers:\n")
	for _, key := range sortedKeys(headers) {
		buf.WriteString(fmt.Sprintf("    %s: %s\n",
			f.Colors.HeaderKey.Sprint(key), f.Colors.HeaderValue.Sprint(headers[key])))
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}
