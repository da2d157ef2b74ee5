package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/reach/http"
	"github.com/wesleyorama2/reach/internal/config"
	"github.com/wesleyorama2/reach/internal/output"
	"github.com/wesleyorama2/reach/pkg/jsonpath"
	"github.com/wesleyorama2/reach/pkg/jsonschema"
)

// shownResponseHeaders are printed in verbose mode when present.
var shownResponseHeaders = []string{
	"Cache-Control",
	"Content-Encoding",
	"Content-Length",
	"Content-Type",
	"Date",
	"Location",
	"Server",
	"Set-Cookie",
}

type requestFlags struct {
	headers   []string
	params    []string
	encode    bool
	proxy     string
	charset   string
	userAgent string
	user      string
	extract   []string
	schema    string

	json  string
	form  []string
	parts []string
	data  string
}

func addRequestFlags(cmd *cobra.Command, f *requestFlags, withBody bool) {
	flags := cmd.Flags()
	flags.StringArrayVarP(&f.headers, "header", "H", nil, "HTTP header \"Name: value\" (can be used multiple times)")
	flags.StringArrayVarP(&f.params, "param", "p", nil, "Query parameter key=value; repeated keys become key[]=v")
	flags.BoolVar(&f.encode, "encode", false, "Percent-encode the final URL")
	flags.StringVar(&f.proxy, "proxy", "", "HTTP proxy as host:port")
	flags.StringVar(&f.charset, "charset", "", "Charset for form bodies (default UTF-8)")
	flags.StringVarP(&f.userAgent, "user-agent", "A", "", "User-Agent header")
	flags.StringVarP(&f.user, "user", "u", "", "Basic authentication as user:password")
	flags.StringArrayVar(&f.extract, "extract", nil, "Print the value at a JSONPath in the response (can be used multiple times)")
	flags.StringVar(&f.schema, "schema", "", "Validate the response body against a JSON Schema file")

	if withBody {
		flags.StringVar(&f.json, "json", "", "JSON body, or @file to read it from a file")
		flags.StringArrayVarP(&f.form, "form", "f", nil, "Form field key=value (can be used multiple times)")
		flags.StringArrayVarP(&f.parts, "part", "F", nil, "Multipart field name=value or name=@path (can be used multiple times)")
		flags.StringVarP(&f.data, "data", "d", "", "Raw request body")
	}
}

func runRequest(cmd *cobra.Command, method, rawURL string, f *requestFlags) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := f.checkBody(); err != nil {
		return err
	}

	client, err := f.newClient(s)
	if err != nil {
		return err
	}
	params, err := parseParams(f.params)
	if err != nil {
		return err
	}

	target := s.env.Substitute(rawURL)
	var req *http.Request
	switch {
	case params.Len() == 0 && !f.encode:
		req = client.New(method, target)
	case method == http.MethodPost:
		req = client.PostWithParams(target, params, f.encode)
	default:
		req = client.GetWithParams(target, params, f.encode)
	}

	shown, err := f.writeHeaders(req, s)
	if err != nil {
		return err
	}
	requestBody, err := f.writeBody(req, s)
	if err != nil {
		return err
	}

	ex := &output.Exchange{
		Method:         method,
		URL:            target,
		RequestHeaders: make(map[string]string),
		RequestBody:    requestBody,
	}
	if u := req.URL(); u != nil {
		ex.URL = u.String()
	}
	if err := req.Close(); err != nil {
		return errors.Wrapf(err, "%s %s", method, ex.URL)
	}
	shown = append(shown, http.HeaderContentType)
	for _, name := range shown {
		if value, ok := req.RequestHeader(name); ok {
			ex.RequestHeaders[name] = value
		}
	}

	out := cmd.OutOrStdout()
	formatter := s.formatter()
	fmt.Fprint(out, formatter.FormatRequest(ex))

	if ex.StatusCode, err = req.Code(); err != nil {
		return errors.Wrapf(err, "%s %s", method, ex.URL)
	}
	text, err := req.Body("")
	if err != nil {
		return errors.Wrap(err, "reading response")
	}
	ex.Body = []byte(text)
	if timing, ok := req.Timing(); ok {
		ex.Timing = &timing
	}
	ex.ResponseHeaders = make(map[string]string)
	for _, name := range shownResponseHeaders {
		if value, _ := req.ResponseHeader(name); value != "" {
			ex.ResponseHeaders[name] = value
		}
	}

	extractErr := f.inspect(ex)
	fmt.Fprint(out, formatter.FormatResponse(ex))

	if extractErr != nil {
		return extractErr
	}
	if len(ex.SchemaErrors) > 0 {
		return errors.Errorf("response does not match schema %s", f.schema)
	}
	return nil
}

func (f *requestFlags) checkBody() error {
	count := 0
	for _, used := range []bool{f.json != "", len(f.form) > 0, len(f.parts) > 0, f.data != ""} {
		if used {
			count++
		}
	}
	if count > 1 {
		return errors.New("use only one of --json, --form, --part and --data")
	}
	return nil
}

func (f *requestFlags) newClient(s *settings) (*http.Client, error) {
	opener := http.NewOpener(http.WithTimeout(s.timeout))
	options := []http.ClientOption{
		http.WithBaseURL(s.env.BaseURL),
		http.WithClientOpener(opener),
	}
	for name, value := range s.env.Headers {
		options = append(options, http.WithHeader(name, s.env.Substitute(value)))
	}

	proxy := f.proxy
	if proxy == "" {
		proxy = s.env.Proxy
	}
	if proxy != "" {
		host, port, err := config.ParseProxy(proxy)
		if err != nil {
			return nil, err
		}
		options = append(options, http.WithProxy(host, port))
	}
	return http.NewClient(options...), nil
}

// writeHeaders applies header flags and returns the names to display.
func (f *requestFlags) writeHeaders(req *http.Request, s *settings) ([]string, error) {
	var names []string
	for name := range s.env.Headers {
		names = append(names, name)
	}

	userAgent := f.userAgent
	if userAgent == "" {
		userAgent = s.env.UserAgent
	}
	if userAgent == "" {
		userAgent = "reach/" + version
	}
	req.UserAgent(userAgent)
	names = append(names, http.HeaderUserAgent)

	if f.user != "" {
		user, password, _ := strings.Cut(f.user, ":")
		req.BasicAuth(user, password)
		names = append(names, http.HeaderAuthorization)
	}

	for _, header := range f.headers {
		name, value, ok := strings.Cut(header, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Errorf("invalid header %q (expected \"Name: value\")", header)
		}
		req.Header(name, s.env.Substitute(strings.TrimSpace(value)))
		names = append(names, name)
	}
	return names, nil
}

// writeBody writes the body selected by the flags and returns a summary
// for display.
func (f *requestFlags) writeBody(req *http.Request, s *settings) (string, error) {
	charset := f.charset
	if charset == "" {
		charset = s.env.Charset
	}

	switch {
	case f.json != "":
		body, err := readArgument(f.json)
		if err != nil {
			return "", err
		}
		req.JSON(body)
		return body, nil
	case len(f.form) > 0:
		params, err := parseParams(f.form)
		if err != nil {
			return "", err
		}
		req.FormCharset(params, charset)
		return strings.Join(f.form, "&"), nil
	case len(f.parts) > 0:
		for _, part := range f.parts {
			name, value, ok := strings.Cut(part, "=")
			if !ok || name == "" {
				return "", errors.Errorf("invalid part %q (expected name=value or name=@path)", part)
			}
			if path, isFile := strings.CutPrefix(value, "@"); isFile {
				req.PartFile(name, "", path)
			} else {
				req.Part(name, value)
			}
		}
		return "multipart: " + strings.Join(f.parts, ", "), nil
	case f.data != "":
		if _, ok := req.RequestHeader(http.HeaderContentType); !ok {
			req.ContentType("text/plain", http.DefaultCharset)
		}
		req.Send(f.data)
		return f.data, nil
	}
	return "", nil
}

// inspect runs --extract and --schema against the response body.
func (f *requestFlags) inspect(ex *output.Exchange) error {
	var extractErr error
	if len(f.extract) > 0 {
		ex.Extracted, extractErr = jsonpath.ExtractAll(ex.Body, f.extract)
	}

	if f.schema != "" {
		ex.SchemaChecked = true
		schema, err := jsonschema.CompileFile(f.schema)
		if err != nil {
			return err
		}
		if err := schema.Validate(ex.Body); err != nil {
			var violations jsonschema.ValidationErrors
			if errors.As(err, &violations) {
				for _, v := range violations {
					ex.SchemaErrors = append(ex.SchemaErrors, v.Error())
				}
			} else {
				ex.SchemaErrors = append(ex.SchemaErrors, err.Error())
			}
		}
	}
	return extractErr
}

// parseParams turns key=value pairs into Params; repeated keys become
// sequences.
func parseParams(pairs []string) (*http.Params, error) {
	params := http.NewParams()
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.Errorf("invalid parameter %q (expected key=value)", pair)
		}
		params.Add(key, value)
	}
	return params, nil
}

// readArgument returns arg, or the content of the file it names with a
// leading @.
func readArgument(arg string) (string, error) {
	path, isFile := strings.CutPrefix(arg, "@")
	if !isFile {
		return arg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(data), nil
}
