package urlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatURL(t *testing.T) {
	assert.Equal(t, "https://example.com", FormatURL("example.com"))
	assert.Equal(t, "http://example.com/", FormatURL("  http://example.com/ "))
	assert.Equal(t, "", FormatURL("   "))
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com/path", NormalizeURL("HTTPS://Example.COM/path/"))
	assert.Equal(t, "https://example.com", NormalizeURL("example.com/"))
	assert.Equal(t, NormalizeURL("https://example.com/a#top"), NormalizeURL("https://example.com/a"))
	assert.Equal(t, "https://example.com/A", NormalizeURL("https://example.com/A"), "path keeps case")
}
