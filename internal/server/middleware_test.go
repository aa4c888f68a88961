package server

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short", "abc", 10, "abc"},
		{"ascii", "abcdefghij", 7, "abcd..."},
		{"tiny limit", "abcdef", 2, "ab"},
		{"cut inside rune", "éééé", 6, "é..."},
		{"tiny limit inside rune", "ééé", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
