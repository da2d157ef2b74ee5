package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		paths  []string
	}{
		{
			name:   "Empty config is valid",
			config: Config{},
		},
		{
			name: "Valid environment",
			config: Config{Environments: map[string]Environment{
				"dev": {BaseURL: "http://localhost:8080", Proxy: "proxy:3128", Charset: "ISO-8859-1", Timeout: "1s"},
			}},
		},
		{
			name:   "Relative base URL",
			config: Config{Defaults: Environment{BaseURL: "/api"}},
			paths:  []string{"defaults.baseUrl"},
		},
		{
			name: "Every invalid field is reported",
			config: Config{Environments: map[string]Environment{
				"b": {Proxy: "no-port", Charset: "klingon"},
				"a": {Timeout: "-1s", Headers: map[string]string{"": "x"}},
			}},
			paths: []string{
				"environments.a.timeout",
				"environments.a.headers",
				"environments.b.proxy",
				"environments.b.charset",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateConfig(&tt.config)
			paths := make([]string, len(errs))
			for i, e := range errs {
				paths[i] = e.Path
			}
			if len(tt.paths) == 0 {
				assert.Empty(t, paths)
				return
			}
			assert.Equal(t, tt.paths, paths)
		})
	}
}

func TestParseProxy(t *testing.T) {
	host, port, err := ParseProxy("proxy.local:3128")
	require.NoError(t, err)
	assert.Equal(t, "proxy.local", host)
	assert.Equal(t, 3128, port)

	host, port, err = ParseProxy("[::1]:8080")
	require.NoError(t, err)
	assert.Equal(t, "::1", host)
	assert.Equal(t, 8080, port)

	for _, bad := range []string{"proxy.local", ":3128", "proxy:0", "proxy:http", "proxy:70000"} {
		_, _, err := ParseProxy(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidationError(t *testing.T) {
	err := ValidationError{Path: "defaults.proxy", Message: "bad"}
	assert.Equal(t, "defaults.proxy: bad", err.Error())
}
