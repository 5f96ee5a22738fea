package detector

import (
	"net"
	"strings"
)

type DeviceType string

const (
	DeviceBot     DeviceType = "bot"
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
	DeviceUnknown DeviceType = "unknown"
)

var (
	botKeywords    = []string{"bot", "crawler", "spider", "scraper", "curl", "wget", "preview"}
	mobileKeywords = []string{"mobile", "android", "iphone", "ipod", "blackberry", "windows phone"}
	tabletKeywords = []string{"tablet", "ipad"}
)

func DetectDeviceType(userAgent string) DeviceType {
	ua := strings.ToLower(userAgent)

	switch {
	case containsAny(ua, botKeywords):
		return DeviceBot
	case containsAny(ua, tabletKeywords):
		return DeviceTablet
	case containsAny(ua, mobileKeywords):
		return DeviceMobile
	case strings.Contains(ua, "mozilla") || strings.Contains(ua, "windows") || strings.Contains(ua, "macintosh"):
		return DeviceDesktop
	}

	return DeviceUnknown
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's remote address without its port.
func ClientIP(remoteAddr, xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		first, _, _ := strings.Cut(xForwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xRealIP != "" {
		return strings.TrimSpace(xRealIP)
	}

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}

	return remoteAddr
}
