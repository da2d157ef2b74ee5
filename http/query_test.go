package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendQuery(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		params   *Params
		expected string
	}{
		{
			name:     "Preserves parameter order",
			baseURL:  "http://host/path",
			params:   ParamsOf("a", 1, "b", 2),
			expected: "http://host/path?a=1&b=2",
		},
		{
			name:     "Empty params leave the URL alone",
			baseURL:  "http://host",
			params:   NewParams(),
			expected: "http://host",
		},
		{
			name:     "Nil params leave the URL alone",
			baseURL:  "not even a url",
			params:   nil,
			expected: "not even a url",
		},
		{
			name:     "Sequence becomes repeated bracket keys",
			baseURL:  "http://host",
			params:   ParamsOf("a", []int{1, 2}),
			expected: "http://host?a[]=1&a[]=2",
		},
		{
			name:     "Sequence between scalars",
			baseURL:  "http://host/p",
			params:   ParamsOf("x", "1", "a", []string{"u", "v"}, "y", "2"),
			expected: "http://host/p?x=1&a[]=u&a[]=v&y=2",
		},
		{
			name:     "Null scalar renders an empty value",
			baseURL:  "http://host/p",
			params:   ParamsOf("a", nil),
			expected: "http://host/p?a=",
		},
		{
			name:     "Null element renders an empty value",
			baseURL:  "http://host/p",
			params:   ParamsOf("a", []interface{}{"x", nil}),
			expected: "http://host/p?a[]=x&a[]=",
		},
		{
			name:     "Existing query gets an ampersand",
			baseURL:  "http://host/p?x=1",
			params:   ParamsOf("a", 1),
			expected: "http://host/p?x=1&a=1",
		},
		{
			name:     "Trailing ampersand is reused",
			baseURL:  "http://host/p?x=1&",
			params:   ParamsOf("a", 1),
			expected: "http://host/p?x=1&a=1",
		},
		{
			name:     "Trailing question mark is reused",
			baseURL:  "http://host/p?",
			params:   ParamsOf("a", 1),
			expected: "http://host/p?a=1",
		},
		{
			name:     "Values are not escaped",
			baseURL:  "http://host/info",
			params:   ParamsOf("name", "a b"),
			expected: "http://host/info?name=a b",
		},
		{
			name:     "Bare scheme separator gets a path",
			baseURL:  "http://",
			params:   ParamsOf("a", 1),
			expected: "http:///?a=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := AppendQuery(tt.baseURL, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestAppendQuery_MalformedURL(t *testing.T) {
	for _, baseURL := range []string{"http://[::1", "host/path", "http://host/\x7f"} {
		t.Run(baseURL, func(t *testing.T) {
			_, err := AppendQuery(baseURL, ParamsOf("a", 1))
			require.Error(t, err)
			assert.True(t, IsURLFormat(err), "unexpected error: %v", err)
		})
	}
}

func TestAppendQuery_EmptySequence(t *testing.T) {
	actual, err := AppendQuery("http://host", ParamsOf("a", []string{}))
	require.NoError(t, err)
	assert.Equal(t, "http://host?", actual, "the prefix is written even when no pair follows")
}

func TestAppendQuery_ThenEncode(t *testing.T) {
	raw, err := AppendQuery("http://host/info", ParamsOf("name", "a b", "tag", []string{"x y"}))
	require.NoError(t, err)

	encoded, err := EncodeURL(raw)
	require.NoError(t, err)
	assert.Equal(t, "http://host/info?name=a%20b&tag[]=x%20y", encoded)
}
