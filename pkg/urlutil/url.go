package urlutil

import (
	"net/url"
	"strings"
)

// FormatURL trims the input and prefixes https:// when no scheme is given.
// The result is what gets stored on the link.
func FormatURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return raw
}

// NormalizeURL produces a comparison key for duplicate detection: scheme and
// host lowercased, trailing slash stripped.
func NormalizeURL(raw string) string {
	formatted := FormatURL(raw)
	u, err := url.Parse(formatted)
	if err != nil {
		return strings.TrimRight(strings.ToLower(formatted), "/")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/")
}
