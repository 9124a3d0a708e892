package util

import (
	"net"
	"net/url"
	"strings"
)

// =============================================================================
// Host Validation Helpers
// =============================================================================

// IsInternalHost checks if a hostname is internal/private and should not be linked.
func IsInternalHost(host string) bool {
	host = strings.ToLower(host)
	return strings.HasSuffix(host, ".local") ||
		strings.HasSuffix(host, ".internal") ||
		strings.HasSuffix(host, ".onion") ||
		strings.HasSuffix(host, ".localhost")
}

// IsLoopbackHost checks if a hostname resolves to localhost.
func IsLoopbackHost(host string) bool {
	host = strings.ToLower(host)
	return host == "localhost" ||
		host == "::1" ||
		strings.HasPrefix(host, "127.")
}

// IsPrivateHost combines internal host, loopback and private IP range checks.
func IsPrivateHost(host string) bool {
	if IsInternalHost(host) || IsLoopbackHost(host) || host == "0.0.0.0" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified()
	}
	return false
}

// PublicHTTPURL returns the normalized URL when raw is an absolute http(s)
// URL on a public host. Profile fields are user supplied, so anything else
// (javascript:, data:, intranet hosts) is rejected.
func PublicHTTPURL(raw string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return "", false
	}
	host := parsed.Hostname()
	if host == "" || IsPrivateHost(host) {
		return "", false
	}
	return parsed.String(), true
}
