package tools

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateQuery(t *testing.T) {
	assert.Equal(t, "rust", truncateQuery("rust"))

	long := strings.Repeat("a", 40)
	assert.Equal(t, strings.Repeat("a", 30)+"...", truncateQuery(long))

	umlauts := strings.Repeat("ü", 31)
	got := truncateQuery(umlauts)
	assert.Equal(t, strings.Repeat("ü", 30)+"...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, strings.Repeat("ü", 30), truncateQuery(strings.Repeat("ü", 30)))
}
