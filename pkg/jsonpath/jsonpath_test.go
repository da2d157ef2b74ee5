package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `{
	"name": "John Doe",
	"age": 30,
	"address": {"city": "Anytown"},
	"phones": [
		{"type": "home", "number": "555-1234"},
		{"type": "work", "number": "555-5678"}
	],
	"active": true,
	"scores": [10, 20, 30],
	"metadata": null,
	"content.type": "dotted"
}`

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"Simple property", "$.name", "John Doe"},
		{"Numeric property", "$.age", "30"},
		{"Boolean property", "$.active", "true"},
		{"Nested property", "$.address.city", "Anytown"},
		{"Array element", "$.scores[1]", "20"},
		{"Object in array", "$.phones[0].number", "555-1234"},
		{"Quoted key", "$['name']", "John Doe"},
		{"Double quoted key", `$["address"]["city"]`, "Anytown"},
		{"Key containing a dot", "$['content.type']", "dotted"},
		{"Wildcard", "$.phones[*].type", `["home","work"]`},
		{"Null value", "$.metadata", "null"},
		{"Object value", "$.address", `{"city": "Anytown"}`},
		{"Without dollar", "phones[1].type", "work"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := Extract([]byte(document), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestExtract_Root(t *testing.T) {
	value, err := Extract([]byte(`[1,2]`), "$")
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", value)

	first, err := Extract([]byte(`[1,2]`), "$[0]")
	require.NoError(t, err)
	assert.Equal(t, "1", first)
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		path string
	}{
		{"Empty body", "", "$.name"},
		{"Invalid JSON", "{name", "$.name"},
		{"Empty path", document, ""},
		{"Missing key", document, "$.missing"},
		{"Index out of range", document, "$.scores[9]"},
		{"Unclosed bracket", document, "$.scores[1"},
		{"Bad index", document, "$.scores[-1]"},
		{"Empty key", document, "$..name"},
		{"Unclosed quote", document, "$['name]"},
		{"Text after quoted key", document, "$['name'x]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract([]byte(tt.body), tt.path)
			assert.Error(t, err)
		})
	}
}

func TestCompile(t *testing.T) {
	tests := map[string]string{
		"$":               "@this",
		"$.a.b":           "a.b",
		"$.a[0].b":        "a.0.b",
		"$['a.b']":        `a\.b`,
		"$.items[*].id":   "items.#.id",
		"$['what?']":      `what\?`,
		"$[\"x\"][\"y\"]": "x.y",
		"$['a]b'].c":      "a]b.c",
		"$[\"[x]\"]":      "[x]",
	}
	for path, expected := range tests {
		gpath, err := Compile(path)
		require.NoError(t, err, path)
		assert.Equal(t, expected, gpath, path)
	}
}

func TestExtractAll(t *testing.T) {
	values, err := ExtractAll([]byte(document), []string{"$.name", "$.age"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"$.name": "John Doe", "$.age": "30"}, values)

	values, err = ExtractAll([]byte(document), []string{"$.name", "$.nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path not found: $.nope")
	assert.Equal(t, "John Doe", values["$.name"])
}
