package config

import (
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateConfig validates the defaults and every environment.
func ValidateConfig(config *Config) []ValidationError {
	errs := validateEnvironment("defaults", config.Defaults)

	names := make([]string, 0, len(config.Environments))
	for name := range config.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		errs = append(errs, validateEnvironment("environments."+name, config.Environments[name])...)
	}
	return errs
}

func validateEnvironment(path string, env Environment) []ValidationError {
	var errs []ValidationError

	if env.BaseURL != "" {
		u, err := url.Parse(env.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Path:    path + ".baseUrl",
				Message: fmt.Sprintf("%q is not an absolute URL", env.BaseURL),
			})
		}
	}

	if env.Proxy != "" {
		if _, _, err := ParseProxy(env.Proxy); err != nil {
			errs = append(errs, ValidationError{Path: path + ".proxy", Message: err.Error()})
		}
	}

	if env.Charset != "" {
		if _, err := htmlindex.Get(env.Charset); err != nil {
			errs = append(errs, ValidationError{
				Path:    path + ".charset",
				Message: fmt.Sprintf("unsupported charset %q", env.Charset),
			})
		}
	}

	if env.Timeout != "" {
		if d, err := time.ParseDuration(env.Timeout); err != nil || d <= 0 {
			errs = append(errs, ValidationError{
				Path:    path + ".timeout",
				Message: fmt.Sprintf("invalid duration %q", env.Timeout),
			})
		}
	}

	for name := range env.Headers {
		if name == "" {
			errs = append(errs, ValidationError{Path: path + ".headers", Message: "header name cannot be empty"})
		}
	}

	return errs
}

// ParseProxy splits a "host:port" proxy address.
func ParseProxy(proxy string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(proxy)
	if err != nil {
		return "", 0, errors.Wrapf(err, "invalid proxy %q", proxy)
	}
	if host == "" {
		return "", 0, errors.Errorf("invalid proxy %q: missing host", proxy)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, errors.Errorf("invalid proxy %q: port must be between 1 and 65535", proxy)
	}
	return host, port, nil
}
