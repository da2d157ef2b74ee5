// Package jsonpath extracts values from JSON response bodies with a subset
// of JSONPath: $, .key, ['key'], ["key"], [n] and [*].
package jsonpath

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Extract returns the value at path in body. Strings are returned
// unquoted, null as "null", objects and arrays as raw JSON.
func Extract(body []byte, path string) (string, error) {
	result, err := Lookup(body, path)
	if err != nil {
		return "", err
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// Lookup returns the raw gjson result at path in body.
func Lookup(body []byte, path string) (gjson.Result, error) {
	if len(body) == 0 {
		return gjson.Result{}, errors.New("empty JSON document")
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.New("response body is not valid JSON")
	}
	gpath, err := Compile(path)
	if err != nil {
		return gjson.Result{}, err
	}

	result := gjson.GetBytes(body, gpath)
	if !result.Exists() {
		return gjson.Result{}, errors.Errorf("path not found: %s", path)
	}
	return result, nil
}

// ExtractAll extracts every path and reports the ones that failed together.
func ExtractAll(body []byte, paths []string) (map[string]string, error) {
	results := make(map[string]string, len(paths))
	var failed []string
	for _, path := range paths {
		value, err := Extract(body, path)
		if err != nil {
			failed = append(failed, err.Error())
			continue
		}
		results[path] = value
	}
	if len(failed) > 0 {
		return results, errors.Errorf("extraction errors: %s", strings.Join(failed, "; "))
	}
	return results, nil
}

// Compile converts a JSONPath expression to gjson path syntax.
func Compile(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty JSONPath expression")
	}
	rest := strings.TrimPrefix(path, "$")

	var segments []string
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return "", errors.Errorf("empty key in %q", path)
			}
			segments = append(segments, escapeKey(rest[:end]))
			rest = rest[end:]
		case '[':
			end, err := closingBracket(rest)
			if err != nil {
				return "", errors.Wrapf(err, "in %q", path)
			}
			if end < 0 {
				return "", errors.Errorf("unclosed bracket in %q", path)
			}
			segment, err := bracketSegment(rest[1:end])
			if err != nil {
				return "", errors.Wrapf(err, "in %q", path)
			}
			segments = append(segments, segment)
			rest = rest[end+1:]
		default:
			// a bare leading key, as in "users[0]"
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			segments = append(segments, escapeKey(rest[:end]))
			rest = rest[end:]
		}
	}

	if len(segments) == 0 {
		return "@this", nil
	}
	return strings.Join(segments, "."), nil
}

// closingBracket returns the index of the "]" closing the bracket that
// opens rest, skipping over a quoted key. It returns -1 when there is none.
func closingBracket(rest string) (int, error) {
	if len(rest) < 2 || (rest[1] != '\'' && rest[1] != '"') {
		return strings.IndexByte(rest, ']'), nil
	}
	quote := strings.IndexByte(rest[2:], rest[1])
	if quote < 0 {
		return 0, errors.New("unclosed quote")
	}
	end := 2 + quote + 1
	if end >= len(rest) || rest[end] != ']' {
		return -1, nil
	}
	return end, nil
}

func bracketSegment(inner string) (string, error) {
	if inner == "*" {
		return "#", nil
	}
	if len(inner) >= 2 && (inner[0] == '\'' || inner[0] == '"') && inner[len(inner)-1] == inner[0] {
		return escapeKey(inner[1 : len(inner)-1]), nil
	}
	if inner == "" {
		return "", errors.New("empty brackets")
	}
	for _, r := range inner {
		if r < '0' || r > '9' {
			return "", errors.Errorf("unsupported index %q", inner)
		}
	}
	return inner, nil
}

var keyEscaper = strings.NewReplacer(
	`\`, `\\`,
	".", `\.`,
	"*", `\*`,
	"?", `\?`,
	"|", `\|`,
	"#", `\#`,
	"@", `\@`,
)

func escapeKey(key string) string {
	return keyEscaper.Replace(key)
}
