package config

import (
	"bytes"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level configuration
type Config struct {
	Defaults     Environment            `yaml:"defaults,omitempty"`
	Environments map[string]Environment `yaml:"environments,omitempty"`
}

// Environment holds request defaults. Every field is optional; flags given
// on the command line take precedence.
type Environment struct {
	BaseURL   string            `yaml:"baseUrl,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
	Variables map[string]string `yaml:"variables,omitempty"`
	Proxy     string            `yaml:"proxy,omitempty"`
	Charset   string            `yaml:"charset,omitempty"`
	Timeout   string            `yaml:"timeout,omitempty"`
	UserAgent string            `yaml:"userAgent,omitempty"`
}

// LoadConfig loads a YAML or JSON configuration file and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("config file not found: %s", path)
		}
		return nil, errors.Wrap(err, "error reading config file")
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing config file %s", path)
	}
	return config, nil
}

// ParseConfig decodes a configuration document. JSON documents are accepted
// as YAML. Unknown fields are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	if errs := ValidateConfig(&config); len(errs) > 0 {
		messages := make([]string, len(errs))
		for i, e := range errs {
			messages[i] = e.Error()
		}
		return nil, errors.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
	}
	return &config, nil
}

// Resolve returns the defaults overlaid with the named environment. An
// empty name returns the defaults alone.
func (c *Config) Resolve(name string) (Environment, error) {
	merged := c.Defaults.clone()
	if name == "" {
		return merged, nil
	}

	env, ok := c.Environments[name]
	if !ok {
		return Environment{}, errors.Errorf("environment %q not found (available: %s)",
			name, strings.Join(c.EnvironmentNames(), ", "))
	}

	if env.BaseURL != "" {
		merged.BaseURL = env.BaseURL
	}
	if env.Proxy != "" {
		merged.Proxy = env.Proxy
	}
	if env.Charset != "" {
		merged.Charset = env.Charset
	}
	if env.Timeout != "" {
		merged.Timeout = env.Timeout
	}
	if env.UserAgent != "" {
		merged.UserAgent = env.UserAgent
	}
	for k, v := range env.Headers {
		merged.Headers[k] = v
	}
	for k, v := range env.Variables {
		merged.Variables[k] = v
	}
	return merged, nil
}

// EnvironmentNames returns the configured environment names in sorted order.
func (c *Config) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e Environment) clone() Environment {
	out := e
	out.Headers = make(map[string]string, len(e.Headers))
	for k, v := range e.Headers {
		out.Headers[k] = v
	}
	out.Variables = make(map[string]string, len(e.Variables))
	for k, v := range e.Variables {
		out.Variables[k] = v
	}
	return out
}

// TimeoutDuration returns the parsed timeout, or fallback when none is set.
func (e Environment) TimeoutDuration(fallback time.Duration) (time.Duration, error) {
	if e.Timeout == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid timeout %q", e.Timeout)
	}
	return d, nil
}

// Substitute replaces {{name}} placeholders with the environment's variables.
// Unknown placeholders are left untouched.
func (e Environment) Substitute(s string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	for name, value := range e.Variables {
		s = strings.ReplaceAll(s, "{{"+name+"}}", value)
	}
	return s
}
