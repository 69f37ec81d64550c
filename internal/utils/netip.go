package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ParseHostNoPort returns the host part (no port) from strings like "ip:port", "[v6]:port", or "ip".
func ParseHostNoPort(s string) string {
	if s == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// forwardedHeaders are consulted in order when the server sits behind a
// proxy. cloudflared sets CF-Connecting-IP; nginx and Traefik set the others.
var forwardedHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// ClientIP resolves the address of the browser calling the start page. It
// feeds the access log, the infra allow list and the IP geolocation of the
// weather widget.
//
// With trustProxy (STARTPAGE_TRUST_PROXY) the forwarded headers are read in
// the order above, taking the left-most X-Forwarded-For hop. Values that do
// not parse as an IP are skipped. Otherwise, or when no header is usable,
// RemoteAddr is used. Only enable trustProxy when the server is reachable
// through the proxy alone, since clients can forge these headers.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, h := range forwardedHeaders {
			v := r.Header.Get(h)
			if h == "X-Forwarded-For" {
				v, _, _ = strings.Cut(v, ",")
			}
			if ip, ok := parseIP(v); ok {
				return ip
			}
		}
	}
	return ParseHostNoPort(r.RemoteAddr)
}

// parseIP accepts "ip" or "ip:port" and returns the canonical address.
func parseIP(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	if ap, err := netip.ParseAddrPort(v); err == nil {
		return ap.Addr().Unmap().String(), true
	}
	if a, err := netip.ParseAddr(v); err == nil {
		return a.Unmap().String(), true
	}
	return "", false
}

// IPMatcher matches exact addresses and prefixes. IPv4-mapped IPv6
// addresses are compared as IPv4.
type IPMatcher struct {
	prefixes []netip.Prefix
}

func NewIPMatcher(list []string) *IPMatcher {
	m := &IPMatcher{}
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			m.prefixes = append(m.prefixes, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(s); err == nil {
			a = a.Unmap()
			m.prefixes = append(m.prefixes, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return m
}

func (m *IPMatcher) IsEmpty() bool {
	return len(m.prefixes) == 0
}

func (m *IPMatcher) Allow(ipStr string) bool {
	a, err := netip.ParseAddr(ipStr)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range m.prefixes {
		if p.Contains(a) {
			return true
		}
	}
	return false
}
