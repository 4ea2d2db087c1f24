package markdown

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	src := "# Title\n\nUse **bold** and `code` here\nacross lines.\n\n```go\nfmt.Println(1)\n```\n\n- one\n- two\n\n<div>html</div>\n"
	assert.Equal(t, "Use bold and code here across lines. one two", PlainText(src))
}

func TestPlainTextEmpty(t *testing.T) {
	assert.Equal(t, "", PlainText(""))
	assert.Equal(t, "", PlainText("## Only a heading"))
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("word ", 100)

	got := Excerpt(long, 50)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 50)
	assert.False(t, strings.Contains(got, "wor..."))

	assert.Equal(t, "short text", Excerpt("short text", 50))
	assert.Equal(t, "short text", Excerpt("short text", 0))
}

func TestExcerptTinyLimits(t *testing.T) {
	assert.Equal(t, "s", Excerpt("short text", 1))
	assert.Equal(t, "sh", Excerpt("short text", 2))
	assert.Equal(t, "sho", Excerpt("short text", 3))
	assert.Equal(t, "s...", Excerpt("short text", 4))
}
