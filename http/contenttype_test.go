package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetParam(t *testing.T) {
	tests := []struct {
		name        string
		headerValue string
		paramName   string
		expected    string
		found       bool
	}{
		{"Boundary", "multipart/form-data;boundary=XYZ", "boundary", "XYZ", true},
		{"No parameters", "text/plain", "charset", "", false},
		{"Empty header", "", "charset", "", false},
		{"Trailing semicolon", "text/plain;", "charset", "", false},
		{"Spaces are trimmed", "text/html; charset = UTF-8 ", "charset", "UTF-8", true},
		{"Quoted value", `text/html; charset="utf-8"`, "charset", "utf-8", true},
		{"Two quotes only", `text/html; charset=""`, "charset", `""`, true},
		{"Later segment", "text/html; q=1; charset=latin1", "charset", "latin1", true},
		{"Name is case-sensitive", "text/html; Charset=UTF-8", "charset", "", false},
		{"Empty value is skipped", "text/html; charset=; charset=b", "charset", "b", true},
		{"Segment without equals", "text/html; charset; x=1", "charset", "", false},
		{"Value containing equals", "a; token=x=y", "token", "x=y", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, found := GetParam(tt.headerValue, tt.paramName)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, value)
		})
	}
}
