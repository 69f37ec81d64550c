package redis

import (
	"strings"
)

const (
	// KeyPrefixWidget is the prefix for cached upstream widget payloads
	KeyPrefixWidget = "startpage:widget:"
	// KeyPrefixCache is the prefix for cached jump resolutions
	KeyPrefixCache = "startpage:jump:"
	// KeyUsage is the hash of link URL -> jump count
	KeyUsage = "startpage:usage"
)

// WidgetKey returns the Redis key for an upstream payload, ex: startpage:widget:forecast:39.90,116.41
func WidgetKey(kind string, parts ...string) string {
	return KeyPrefixWidget + kind + ":" + strings.Join(parts, ",")
}

// CacheKey returns the Redis key for a cached resolution
func CacheKey(query string) string {
	return KeyPrefixCache + strings.ToLower(strings.TrimSpace(query))
}

// UsageKey returns the key of the usage hash
func UsageKey() string {
	return KeyUsage
}
