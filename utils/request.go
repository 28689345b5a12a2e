package utils

import (
	"net"
	"net/http"
	"strings"
)

type DeviceInfo struct {
	DeviceType string
	Browser    string
	OS         string
}

func GetClientIP(r *http.Request) string {
	if cf := r.Header.Get("CF-Connecting-IP"); cf != "" {
		if ip := net.ParseIP(cf); ip != nil {
			return ip.String()
		}
	}

	if real := r.Header.Get("X-Real-IP"); real != "" {
		if ip := net.ParseIP(real); ip != nil {
			return ip.String()
		}
	}

	// X-Forwarded-For: rightmost public address
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		for i := len(parts) - 1; i >= 0; i-- {
			ipStr := strings.TrimSpace(parts[i])
			if ip := net.ParseIP(ipStr); ip != nil {
				if !ip.IsPrivate() && !ip.IsLoopback() && !ip.IsMulticast() {
					return ipStr
				}
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

func ParseUserAgent(userAgent string) *DeviceInfo {
	info := &DeviceInfo{
		DeviceType: "Desktop",
		Browser:    "Unknown",
		OS:         "Unknown",
	}

	ua := strings.ToLower(userAgent)

	if strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad") {
		info.DeviceType = "Tablet"
	} else if strings.Contains(ua, "mobile") {
		info.DeviceType = "Mobile"
	}

	// Edge and Opera also announce "chrome", so they go first.
	switch {
	case strings.Contains(ua, "edg"):
		info.Browser = "Edge"
	case strings.Contains(ua, "opr") || strings.Contains(ua, "opera"):
		info.Browser = "Opera"
	case strings.Contains(ua, "chrome"):
		info.Browser = "Chrome"
	case strings.Contains(ua, "firefox"):
		info.Browser = "Firefox"
	case strings.Contains(ua, "safari"):
		info.Browser = "Safari"
	}

	// Android and iOS UAs also mention linux / mac os.
	switch {
	case strings.Contains(ua, "android"):
		info.OS = "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad"):
		info.OS = "iOS"
	case strings.Contains(ua, "windows"):
		info.OS = "Windows"
	case strings.Contains(ua, "mac os"):
		info.OS = "macOS"
	case strings.Contains(ua, "linux"):
		info.OS = "Linux"
	}

	return info
}
